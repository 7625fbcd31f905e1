package audit

import (
	"fmt"
	"log"
	"time"

	"stockroom/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Action tags recorded in the audit trail.
const (
	ActionDeleteLocation  = "delete_location"
	ActionDeleteItem      = "delete_item"
	ActionDeleteCategory  = "delete_category"
	ActionRestoreItem     = "restore_item"
	ActionRestoreLocation = "restore_location"
	ActionRestoreCategory = "restore_category"
	ActionRoleChange      = "role_change"
	ActionDeactivateUser  = "deactivate_user"
)

// Entry is an append-only record of an administrative action. The application
// writes these and never reads them back outside the admin panel listing.
type Entry struct {
	common.BaseModel
	UserID   uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;index"`
	UserName string       `json:"user_name" gorm:"size:200"`
	Action   string       `json:"action" gorm:"not null;size:50;index"`
	Details  common.JSONB `json:"details" gorm:"type:jsonb"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

// Sink appends entries to the audit_logs table.
type Sink struct {
	db *gorm.DB
}

func NewSink(db *gorm.DB) *Sink {
	return &Sink{db: db}
}

// Record writes one audit entry. Callers decide whether a failed write aborts
// the surrounding operation or is only logged.
func (s *Sink) Record(actorID uuid.UUID, actorName, action string, details common.JSONB) error {
	entry := Entry{
		UserID:   actorID,
		UserName: actorName,
		Action:   action,
		Details:  details,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry (%s): %w", action, err)
	}

	log.Printf("📝 Audit: %s by %s", action, actorName)
	return nil
}

// List returns recent entries, newest first, optionally filtered by action.
func (s *Sink) List(action string, limit int) ([]Entry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	query := s.db.Model(&Entry{}).Order("created_at DESC").Limit(limit)
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var entries []Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// RecordedAt formats the server-assigned timestamp for responses.
func (e Entry) RecordedAt() string {
	return e.CreatedAt.Format(time.RFC3339)
}
