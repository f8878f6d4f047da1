package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PaymentMethod is how the remaining amount is collected.
type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentPrepaid PaymentMethod = "PREPAID"
)

func (p PaymentMethod) Label() string {
	if p == PaymentPrepaid {
		return "0đ 📷"
	}
	return "Ship COD 💵"
}

// ShippingMethod is how the parcel travels.
type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "STANDARD"
	ShippingAir       ShippingMethod = "AIR"
	ShippingMotorbike ShippingMethod = "MOTORBIKE"
)

func (s ShippingMethod) Label() string {
	switch s {
	case ShippingAir:
		return "Bay ✈"
	case ShippingMotorbike:
		return "Xe Ôm 🏍"
	}
	return "Thường"
}

// Order is one customer order. Code is the business key and never changes
// after creation.
type Order struct {
	ID               string         `json:"id" gorm:"primaryKey;size:32"`
	Code             string         `json:"order_code" gorm:"column:order_code;size:50;not null;uniqueIndex"`
	CustomerID       string         `json:"customer_id" gorm:"size:32;index"`
	CustomerName     string         `json:"customer_name" gorm:"size:200;not null"`
	Phone            string         `json:"phone" gorm:"size:30;index"`
	Address          string         `json:"address" gorm:"size:500"`
	FacebookID       string         `json:"facebook_id" gorm:"size:100"`
	Shop             Shop           `json:"shop" gorm:"size:20;not null;default:INSIDE;index"`
	Status           Status         `json:"status" gorm:"size:30;not null;default:NEW;index"`
	OrderDate        *time.Time     `json:"order_date" gorm:"type:date"`
	DueDate          *time.Time     `json:"due_date" gorm:"type:date;index"`
	HasFixedDeadline bool           `json:"has_fixed_deadline" gorm:"default:false"`
	TotalAmount      int64          `json:"total_amount" gorm:"not null;default:0"`
	DepositAmount    int64          `json:"deposit_amount" gorm:"not null;default:0"`
	RemainingAmount  int64          `json:"remaining_amount" gorm:"-"`
	PaymentMethod    PaymentMethod  `json:"payment_method" gorm:"size:20;default:COD"`
	ShippingMethod   ShippingMethod `json:"shipping_method" gorm:"size:20;default:STANDARD"`
	Tags             StringList     `json:"production_tags" gorm:"column:production_tags;type:jsonb;default:'[]'"`
	Printed          bool           `json:"printed" gorm:"default:false"`
	Notes            string         `json:"notes" gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderCode;references:Code"`
}

func (Order) TableName() string {
	return "orders"
}

// SyncDerived recomputes the fields that are never stored.
func (o *Order) SyncDerived() {
	o.RemainingAmount = o.TotalAmount - o.DepositAmount
}

func (o *Order) AfterFind(tx *gorm.DB) error {
	o.SyncDerived()
	return nil
}

// OrderItem is one product line of an order. Image slots hold a URL, or
// several joined by MultiFileSeparator.
type OrderItem struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	OrderCode         string    `json:"order_code" gorm:"size:50;not null;index"`
	ProductName       string    `json:"product_name" gorm:"size:200"`
	Color             string    `json:"color" gorm:"size:100"`
	Size              string    `json:"size" gorm:"size:50"`
	EmbroideryRequest string    `json:"embroidery_request" gorm:"type:text"`
	Quantity          int       `json:"quantity" gorm:"not null;default:1"`
	ImgMain           string    `json:"img_main" gorm:"type:text"`
	ImgSub1           string    `json:"img_sub1" gorm:"type:text"`
	ImgSub2           string    `json:"img_sub2" gorm:"type:text"`
	ImgDesign         string    `json:"img_design" gorm:"type:text"`
	ImgFix1           string    `json:"img_fix1" gorm:"type:text"`
	ImgFix2           string    `json:"img_fix2" gorm:"type:text"`
	CorrectionRequest string    `json:"correction_request" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// SlotColumns maps image slots to their column names.
var SlotColumns = map[ImageSlot]string{
	SlotMain:   "img_main",
	SlotSub1:   "img_sub1",
	SlotSub2:   "img_sub2",
	SlotDesign: "img_design",
	SlotFix1:   "img_fix1",
	SlotFix2:   "img_fix2",
}

// Image returns the value stored in slot.
func (i *OrderItem) Image(slot ImageSlot) string {
	switch slot {
	case SlotMain:
		return i.ImgMain
	case SlotSub1:
		return i.ImgSub1
	case SlotSub2:
		return i.ImgSub2
	case SlotDesign:
		return i.ImgDesign
	case SlotFix1:
		return i.ImgFix1
	case SlotFix2:
		return i.ImgFix2
	}
	return ""
}

// SetImage writes value into slot; unknown slots are ignored.
func (i *OrderItem) SetImage(slot ImageSlot, value string) {
	switch slot {
	case SlotMain:
		i.ImgMain = value
	case SlotSub1:
		i.ImgSub1 = value
	case SlotSub2:
		i.ImgSub2 = value
	case SlotDesign:
		i.ImgDesign = value
	case SlotFix1:
		i.ImgFix1 = value
	case SlotFix2:
		i.ImgFix2 = value
	}
}

// PrintImage is the picture shown on a production slip: the first design
// file, else the main image.
func (i *OrderItem) PrintImage() string {
	if i.ImgDesign != "" {
		return FirstFile(i.ImgDesign)
	}
	return FirstFile(i.ImgMain)
}

// Files splits a multi-file slot value.
func Files(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func FirstFile(value string) string {
	if files := Files(value); len(files) > 0 {
		return files[0]
	}
	return ""
}
