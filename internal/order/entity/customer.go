package entity

import "time"

// Customer aggregates every order placed with one phone number. OrderCount
// and LifetimeSpend are redundant copies of the order ledger and can always
// be rebuilt from it.
type Customer struct {
	ID            string    `json:"id" gorm:"primaryKey;size:32"`
	Phone         string    `json:"phone" gorm:"size:30;not null;uniqueIndex"`
	Name          string    `json:"name" gorm:"size:200"`
	Address       string    `json:"address" gorm:"size:500"`
	SourceShop    Shop      `json:"source_shop" gorm:"size:20"`
	FacebookID    string    `json:"facebook_id" gorm:"size:100"`
	OrderCount    int64     `json:"lifetime_order_count" gorm:"not null;default:0"`
	LifetimeSpend int64     `json:"lifetime_spend" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
