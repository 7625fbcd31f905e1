package admin

import (
	"errors"
	"fmt"
	"log"

	"stockroom/internal/audit"
	"stockroom/internal/category"
	"stockroom/internal/common"
	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity kinds accepted by the restore coordinator.
const (
	EntityItem     = "item"
	EntityLocation = "location"
	EntityCategory = "category"
)

var (
	ErrUnknownEntity = errors.New("unknown entity type")
	ErrNotDeleted    = errors.New("entity is not deleted")
)

// Service restores soft-deleted entities and serves the deleted listings.
//
// Restore is deliberately a single-entity operation: restoring a location
// does NOT restore its formerly-cascaded descendants or items - each has to
// be restored individually from the deleted listing. Restoring a category
// does not re-attach items whose reference was nulled when it was deleted.
type Service struct {
	db   *gorm.DB
	sink *audit.Sink
}

func NewService(db *gorm.DB, sink *audit.Sink) *Service {
	return &Service{db: db, sink: sink}
}

// Restore clears the two soft-delete markers on exactly one entity and
// writes a corresponding audit entry.
func (s *Service) Restore(entityType string, id uuid.UUID, actorID uuid.UUID, actorName string) error {
	switch entityType {
	case EntityItem:
		var it item.Item
		if err := s.fetchDeleted(&it, id); err != nil {
			return err
		}
		if err := s.clearMarkers(&item.Item{}, id); err != nil {
			return err
		}
		log.Printf("♻️ Restored item %q", it.Name)
		return s.sink.Record(actorID, actorName, audit.ActionRestoreItem, common.JSONB{
			"item_name":          it.Name,
			"item_serial_number": it.SerialNumber,
		})

	case EntityLocation:
		var loc location.Location
		if err := s.fetchDeleted(&loc, id); err != nil {
			return err
		}
		if err := s.clearMarkers(&location.Location{}, id); err != nil {
			return err
		}
		log.Printf("♻️ Restored location %q", loc.Name)
		return s.sink.Record(actorID, actorName, audit.ActionRestoreLocation, common.JSONB{
			"location_name": loc.Name,
			"location_path": loc.Path,
		})

	case EntityCategory:
		var cat category.Category
		if err := s.fetchDeleted(&cat, id); err != nil {
			return err
		}
		if err := s.clearMarkers(&category.Category{}, id); err != nil {
			return err
		}
		log.Printf("♻️ Restored category %q", cat.Name)
		return s.sink.Record(actorID, actorName, audit.ActionRestoreCategory, common.JSONB{
			"category_name": cat.Name,
		})

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntity, entityType)
	}
}

func (s *Service) fetchDeleted(dest interface{}, id uuid.UUID) error {
	if err := s.db.Where("id = ? AND deleted_at IS NOT NULL", id).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotDeleted
		}
		return fmt.Errorf("failed to fetch deleted entity: %w", err)
	}
	return nil
}

func (s *Service) clearMarkers(model interface{}, id uuid.UUID) error {
	if err := s.db.Model(model).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": nil,
		"deleted_by": nil,
	}).Error; err != nil {
		return fmt.Errorf("failed to clear deletion markers: %w", err)
	}
	return nil
}

// DeletedListing bundles everything currently soft-deleted, newest first.
type DeletedListing struct {
	Items      []item.Item         `json:"items"`
	Locations  []location.Location `json:"locations"`
	Categories []category.Category `json:"categories"`
}

// ListDeleted fetches all soft-deleted entities for the restore browser.
func (s *Service) ListDeleted() (*DeletedListing, error) {
	listing := &DeletedListing{}

	if err := s.db.Where("deleted_at IS NOT NULL").Order("deleted_at DESC").
		Find(&listing.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to list deleted items: %w", err)
	}
	if err := s.db.Where("deleted_at IS NOT NULL").Order("deleted_at DESC").
		Find(&listing.Locations).Error; err != nil {
		return nil, fmt.Errorf("failed to list deleted locations: %w", err)
	}
	if err := s.db.Where("deleted_at IS NOT NULL").Order("deleted_at DESC").
		Find(&listing.Categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list deleted categories: %w", err)
	}

	return listing, nil
}
