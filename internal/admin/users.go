package admin

import (
	"errors"
	"fmt"

	"stockroom/internal/audit"
	"stockroom/internal/auth"
	"stockroom/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid role")

// ListUsers returns every registered user, pending ones first so approvals
// are visible at the top of the admin panel.
func (s *Service) ListUsers() ([]auth.User, error) {
	var users []auth.User
	if err := s.db.
		Order("CASE WHEN role = 'pending' THEN 0 ELSE 1 END, first_name, last_name, email").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangeRole updates a user's role and records the change in the audit trail.
func (s *Service) ChangeRole(userID uuid.UUID, newRole string, actorID uuid.UUID, actorName string) (*auth.User, error) {
	switch newRole {
	case auth.RolePending, auth.RoleMember, auth.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, newRole)
	}

	var user auth.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	oldRole := user.Role
	if err := s.db.Model(&user).Update("role", newRole).Error; err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = newRole

	if err := s.sink.Record(actorID, actorName, audit.ActionRoleChange, common.JSONB{
		"target_user_email": user.Email,
		"old_role":          oldRole,
		"new_role":          newRole,
	}); err != nil {
		return nil, err
	}

	return &user, nil
}

// DeactivateUser blocks future logins without removing the account; checkout
// history keeps pointing at a real user row.
func (s *Service) DeactivateUser(userID uuid.UUID, actorID uuid.UUID, actorName string) error {
	var user auth.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.db.Model(&user).Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	return s.sink.Record(actorID, actorName, audit.ActionDeactivateUser, common.JSONB{
		"target_user_email": user.Email,
	})
}
