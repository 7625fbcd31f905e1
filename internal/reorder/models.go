package reorder

import (
	"time"

	"stockroom/internal/common"

	"github.com/google/uuid"
)

// Reorder request statuses. The workflow moves forward only:
//
//	new_request -> approved_pending -> purchased -> arrived -> documented
//
// with "rejected" as a terminal branch from the first two states.
const (
	StatusNewRequest      = "new_request"
	StatusApprovedPending = "approved_pending"
	StatusPurchased       = "purchased"
	StatusArrived         = "arrived"
	StatusDocumented      = "documented"
	StatusRejected        = "rejected"
)

// validTransitions maps each status to the statuses reachable from it.
var validTransitions = map[string][]string{
	StatusNewRequest:      {StatusApprovedPending, StatusRejected},
	StatusApprovedPending: {StatusPurchased, StatusRejected},
	StatusPurchased:       {StatusArrived},
	StatusArrived:         {StatusDocumented},
	StatusDocumented:      {},
	StatusRejected:        {},
}

// CanTransition reports whether a request may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Request is a procurement workflow entry. Item fields are snapshotted at
// request time (the item may not exist yet); CenterID groups requests by the
// top-level location the item belongs to. CreatedItemID links back to the
// inventory item created on fulfillment.
type Request struct {
	common.BaseModel
	common.SoftDelete
	ItemID          *uuid.UUID `json:"item_id,omitempty" gorm:"type:uuid;index"`
	ItemName        string     `json:"item_name" gorm:"not null;size:200"`
	ItemBrand       string     `json:"item_brand,omitempty" gorm:"size:200"`
	ItemModel       string     `json:"item_model,omitempty" gorm:"size:200"`
	CategoryID      *uuid.UUID `json:"item_category_id,omitempty" gorm:"type:uuid"`
	CenterID        *uuid.UUID `json:"center_id,omitempty" gorm:"type:uuid;index"`
	QuantityToOrder int        `json:"quantity_to_order" gorm:"not null;default:1"`
	UnitsPerPack    int        `json:"units_per_pack" gorm:"not null;default:1"`
	PricePerPack    *float64   `json:"price_per_pack,omitempty" gorm:"type:decimal(10,2)"`
	OrderLink       string     `json:"order_link,omitempty" gorm:"size:1000"`
	Notes           string     `json:"notes,omitempty" gorm:"size:2000"`
	Status          string     `json:"status" gorm:"not null;default:'new_request';size:30;index"`
	StatusUpdatedAt time.Time  `json:"status_updated_at"`
	RequestedBy     uuid.UUID  `json:"requested_by" gorm:"type:uuid;not null"`
	PurchasedBy     *uuid.UUID `json:"purchased_by,omitempty" gorm:"type:uuid"`
	PurchasedByName string     `json:"purchased_by_name,omitempty" gorm:"size:200"`
	CreatedItemID   *uuid.UUID `json:"created_item_id,omitempty" gorm:"type:uuid"`
}

func (Request) TableName() string {
	return "reorder_requests"
}

// TotalUnits is the quantity ordered times the pack size.
func (r Request) TotalUnits() int {
	units := r.UnitsPerPack
	if units < 1 {
		units = 1
	}
	return r.QuantityToOrder * units
}
