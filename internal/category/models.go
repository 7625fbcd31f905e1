package category

import "stockroom/internal/common"

// Category is a named, iconized classification tag for items.
type Category struct {
	common.BaseModel
	common.SoftDelete
	Name string `json:"name" gorm:"not null;size:100"`
	Icon string `json:"icon,omitempty" gorm:"size:20"`
}

func (Category) TableName() string {
	return "categories"
}
