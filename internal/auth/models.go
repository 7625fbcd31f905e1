package auth

import (
	"time"

	"stockroom/internal/common"
)

// User roles. New registrations start as "pending" until an admin approves
// them; pending users cannot log in to the inventory.
const (
	RolePending = "pending"
	RoleMember  = "member"
	RoleAdmin   = "admin"
)

type User struct {
	common.BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	FirstName    string     `json:"first_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"size:100"`
	Role         string     `json:"role" gorm:"not null;default:'pending';size:20;index"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName prefers "First Last", falling back to the email address.
func (u User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
