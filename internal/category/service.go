package category

import (
	"errors"
	"fmt"
	"log"
	"time"

	"stockroom/internal/audit"
	"stockroom/internal/common"
	"stockroom/internal/item"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameRequired = errors.New("category name is required")
	ErrNotFound     = errors.New("category not found")
)

type Service struct {
	db   *gorm.DB
	sink *audit.Sink
}

func NewService(db *gorm.DB, sink *audit.Sink) *Service {
	return &Service{db: db, sink: sink}
}

// List returns active categories ordered by name.
func (s *Service) List() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("deleted_at IS NULL").Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Get(id uuid.UUID) (*Category, error) {
	var cat Category
	if err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &cat, nil
}

func (s *Service) Create(name, icon string) (*Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	cat := Category{Name: name, Icon: icon}
	if err := s.db.Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

func (s *Service) Update(id uuid.UUID, name, icon string) (*Category, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	cat, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(cat).Updates(map[string]interface{}{
		"name": name,
		"icon": icon,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	cat.Name = name
	cat.Icon = icon
	return cat, nil
}

// Delete soft-deletes a category. Items are never deleted with it: their
// category reference is nulled out first, permanently severing the link
// (restoring the category later does not re-attach them).
func (s *Service) Delete(id uuid.UUID, actorID uuid.UUID, actorName string) error {
	cat, err := s.Get(id)
	if err != nil {
		return err
	}

	var affected []item.Item
	if err := s.db.
		Where("category_id = ? AND deleted_at IS NULL", id).
		Find(&affected).Error; err != nil {
		return fmt.Errorf("failed to fetch affected items: %w", err)
	}

	if len(affected) > 0 {
		itemIDs := make([]uuid.UUID, len(affected))
		for i, it := range affected {
			itemIDs[i] = it.ID
		}
		if err := s.db.Model(&item.Item{}).
			Where("id IN ?", itemIDs).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unlink items: %w", err)
		}
	}

	now := time.Now()
	if err := s.db.Model(cat).Updates(map[string]interface{}{
		"deleted_at": now,
		"deleted_by": actorID,
	}).Error; err != nil {
		return fmt.Errorf("failed to soft-delete category: %w", err)
	}

	log.Printf("🗑️ Category %q deleted, %d items unlinked", cat.Name, len(affected))

	return s.sink.Record(actorID, actorName, audit.ActionDeleteCategory, common.JSONB{
		"category_name":        cat.Name,
		"affected_items_count": len(affected),
	})
}
