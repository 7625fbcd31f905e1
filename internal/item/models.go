package item

import (
	"time"

	"stockroom/internal/common"

	"github.com/google/uuid"
)

// Item is a countable (or unique) inventory object. Quantity is nullable: a
// null quantity means the item is not tracked numerically ("unknown"). An
// item always belongs to exactly one location; the category is optional.
type Item struct {
	common.BaseModel
	common.SoftDelete
	Name              string     `json:"name" gorm:"not null;size:200;index"`
	Brand             string     `json:"brand,omitempty" gorm:"size:200"`
	Model             string     `json:"model,omitempty" gorm:"size:200"`
	SerialNumber      string     `json:"serial_number,omitempty" gorm:"size:200"`
	AssetTag          string     `json:"asset_tag,omitempty" gorm:"size:100"`
	Description       string     `json:"description,omitempty" gorm:"size:2000"`
	Quantity          *int       `json:"quantity"`
	MinQuantity       *int       `json:"min_quantity,omitempty"`
	CategoryID        *uuid.UUID `json:"category_id,omitempty" gorm:"type:uuid;index"`
	LocationID        uuid.UUID  `json:"location_id" gorm:"type:uuid;not null;index"`
	ImageURL          *string    `json:"image_url,omitempty" gorm:"size:500"`
	OrderLink         string     `json:"order_link,omitempty" gorm:"size:1000"`
	CheckoutLogID     *uuid.UUID `json:"checkout_log_id,omitempty" gorm:"type:uuid"`
	CheckedOutToUser  *uuid.UUID `json:"checked_out_to_user_id,omitempty" gorm:"type:uuid"`
}

func (Item) TableName() string {
	return "items"
}

// CheckoutLog is one loan episode of (a quantity of) an item. It is active
// while CheckedInAt is null and is never deleted.
type CheckoutLog struct {
	common.BaseModel
	ItemID             uuid.UUID  `json:"item_id" gorm:"type:uuid;not null;index"`
	CheckedOutTo       string     `json:"checked_out_to" gorm:"size:200"`
	CheckedOutToUserID *uuid.UUID `json:"checked_out_to_user_id,omitempty" gorm:"type:uuid"`
	CheckedOutAt       time.Time  `json:"checked_out_at" gorm:"not null"`
	CheckoutNotes      string     `json:"checkout_notes,omitempty" gorm:"size:2000"`
	CheckedInAt        *time.Time `json:"checked_in_at,omitempty" gorm:"index"`
	CheckinNotes       string     `json:"checkin_notes,omitempty" gorm:"size:2000"`
	QuantityCheckedOut int        `json:"quantity_checked_out" gorm:"not null;default:1"`
	QuantityCheckedIn  int        `json:"quantity_checked_in" gorm:"not null;default:0"`
	PerformedBy        uuid.UUID  `json:"performed_by" gorm:"type:uuid;not null"`
}

func (CheckoutLog) TableName() string {
	return "checkout_logs"
}

// IsActive reports whether the loan is still open.
func (l CheckoutLog) IsActive() bool {
	return l.CheckedInAt == nil
}

// Outstanding is how many units of this loan have not been returned yet.
func (l CheckoutLog) Outstanding() int {
	return l.QuantityCheckedOut - l.QuantityCheckedIn
}
