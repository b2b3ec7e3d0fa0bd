// Package persistence provides database storage implementations.
package persistence

import "github.com/curatehq/curate/internal/database"

// AutoMigrate runs GORM auto migration for all models. Tags migrate before
// items so the item_tags join table sees both sides.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(
		&UserModel{},
		&TagModel{},
		&ItemModel{},
	)
}
