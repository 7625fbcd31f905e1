package database

import (
	"stockroom/internal/audit"
	"stockroom/internal/auth"
	"stockroom/internal/category"
	"stockroom/internal/item"
	"stockroom/internal/location"
	"stockroom/internal/reorder"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	// Auto-migrate all models
	err := db.AutoMigrate(
		&auth.User{},
		&location.Location{},
		&category.Category{},
		&item.Item{},
		&item.CheckoutLog{},
		&reorder.Request{},
		&audit.Entry{},
	)

	if err != nil {
		return err
	}

	if err := createLocationIndexes(db); err != nil {
		return err
	}

	if err := createItemIndexes(db); err != nil {
		return err
	}

	if err := createAuditIndexes(db); err != nil {
		return err
	}

	return nil
}

func createLocationIndexes(db *gorm.DB) error {
	// Tree walks batch on parent_id
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_locations_parent_id
		ON locations (parent_id)
	`).Error; err != nil {
		return err
	}

	// Path prefix searches and ordered tree loads
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_locations_path
		ON locations (path)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_locations_deleted_at
		ON locations (deleted_at)
	`).Error; err != nil {
		return err
	}

	return nil
}

func createItemIndexes(db *gorm.DB) error {
	// Cascade discovery fetches items by location batch
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_location_id
		ON items (location_id)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_category_id
		ON items (category_id)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_deleted_at
		ON items (deleted_at)
	`).Error; err != nil {
		return err
	}

	// Availability sums scan active logs per item
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_checkout_logs_item_active
		ON checkout_logs (item_id, checked_in_at)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_checkout_logs_user
		ON checkout_logs (checked_out_to_user_id)
	`).Error; err != nil {
		return err
	}

	return nil
}

func createAuditIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_logs_action
		ON audit_logs (action)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at
		ON audit_logs (created_at DESC)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reorder_requests_status
		ON reorder_requests (status)
	`).Error; err != nil {
		return err
	}

	return nil
}
