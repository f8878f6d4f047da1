// Package entity holds the order desk's persisted types and the closed
// vocabularies (shops, statuses, tags) they are built from.
package entity

import "gorm.io/gorm"

// AutoMigrate creates or updates the order desk tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Customer{},
		&Order{},
		&OrderItem{},
	)
}
