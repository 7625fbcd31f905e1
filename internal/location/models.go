package location

import (
	"stockroom/internal/common"

	"github.com/google/uuid"
)

// Location is a physical storage place. Locations form a forest: ParentID is
// null for top-level locations ("centers"). Path is the materialized display
// path from root to self ("Building / Floor / Room"), recomputed whenever the
// name or parent changes.
type Location struct {
	common.BaseModel
	common.SoftDelete
	Name        string     `json:"name" gorm:"not null;size:200"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	Path        string     `json:"path" gorm:"size:2000;index"`
	Description string     `json:"description,omitempty" gorm:"size:2000"`
	ImageURL    *string    `json:"image_url,omitempty" gorm:"size:500"`
}

func (Location) TableName() string {
	return "locations"
}
