// Package repository persists orders, items and customers with gorm.
package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repositories groups the order desk stores.
type Repositories struct {
	Order    *OrderRepository
	Customer *CustomerRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Customer: NewCustomerRepository(db),
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Page clamps paging input the way the list endpoints expect.
func Page(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}
