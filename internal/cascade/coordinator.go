package cascade

import (
	"errors"
	"fmt"
	"log"
	"time"

	"stockroom/internal/audit"
	"stockroom/internal/common"
	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrGateNotPassed    = errors.New("confirmation incomplete")
)

// Actor identifies who is performing the cascade. Threaded explicitly into
// every call; never read from ambient state.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Coordinator performs the cascading soft-delete of a location subtree.
//
// The three write steps (items, child locations, target) are issued as
// independent statements with no cross-table transaction. A crash between
// steps leaves a partially-cascaded state; this is accepted, not compensated.
// Each step only touches rows whose markers are unset, so re-running the same
// cascade is a no-op.
type Coordinator struct {
	db   *gorm.DB
	sink *audit.Sink
}

func NewCoordinator(db *gorm.DB, sink *audit.Sink) *Coordinator {
	return &Coordinator{db: db, sink: sink}
}

// Discover walks the subtree under targetID and collects the full affected
// set. Read-only. Children are fetched one batched query per tree level, and
// the items in a single query over the whole id set, so round-trips are
// bounded by depth, not by node count.
func (co *Coordinator) Discover(targetID uuid.UUID) (*AffectedEntitySet, error) {
	var target location.Location
	if err := co.db.Where("id = ? AND deleted_at IS NULL", targetID).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}

	set := &AffectedEntitySet{Target: target}

	frontier := []uuid.UUID{targetID}
	for len(frontier) > 0 {
		var children []location.Location
		if err := co.db.
			Where("parent_id IN ? AND deleted_at IS NULL", frontier).
			Order("path").
			Find(&children).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch child locations: %w", err)
		}

		frontier = frontier[:0]
		for _, child := range children {
			set.Locations = append(set.Locations, child)
			frontier = append(frontier, child.ID)
		}
	}

	locationIDs := make([]uuid.UUID, 0, len(set.Locations)+1)
	locationIDs = append(locationIDs, targetID)
	for _, loc := range set.Locations {
		locationIDs = append(locationIDs, loc.ID)
	}

	if err := co.db.
		Where("location_id IN ? AND deleted_at IS NULL", locationIDs).
		Order("name").
		Find(&set.Items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch affected items: %w", err)
	}

	return set, nil
}

// Execute runs the cascade for a previously discovered set after the
// confirmation gate passes. Write order: items first, then child locations,
// then the target, so a location never shows as deleted while still holding
// live items. Finishes by appending one audit entry holding the full affected
// set - the only durable trace of exactly what the cascade swept up.
func (co *Coordinator) Execute(set *AffectedEntitySet, conf Confirmation, actor Actor) error {
	if !set.CanSubmit(conf, actor.Email) {
		return fmt.Errorf("%w: %v", ErrGateNotPassed, set.MissingChecks(conf, actor.Email))
	}

	now := time.Now()
	markers := map[string]interface{}{
		"deleted_at": now,
		"deleted_by": actor.ID,
	}

	if len(set.Items) > 0 {
		itemIDs := make([]uuid.UUID, len(set.Items))
		for i, it := range set.Items {
			itemIDs[i] = it.ID
		}
		if err := co.db.Model(&item.Item{}).
			Where("id IN ? AND deleted_at IS NULL", itemIDs).
			Updates(markers).Error; err != nil {
			return fmt.Errorf("failed to soft-delete items: %w", err)
		}
	}

	if len(set.Locations) > 0 {
		childIDs := make([]uuid.UUID, len(set.Locations))
		for i, loc := range set.Locations {
			childIDs[i] = loc.ID
		}
		if err := co.db.Model(&location.Location{}).
			Where("id IN ? AND deleted_at IS NULL", childIDs).
			Updates(markers).Error; err != nil {
			return fmt.Errorf("failed to soft-delete child locations: %w", err)
		}
	}

	if err := co.db.Model(&location.Location{}).
		Where("id = ? AND deleted_at IS NULL", set.Target.ID).
		Updates(markers).Error; err != nil {
		return fmt.Errorf("failed to soft-delete location: %w", err)
	}

	log.Printf("🗑️ Cascade delete: %q (+%d locations, %d items) by %s",
		set.Target.Name, len(set.Locations), len(set.Items), actor.Email)

	deletedLocations := make([]map[string]interface{}, 0, len(set.Locations))
	for _, loc := range set.Locations {
		deletedLocations = append(deletedLocations, map[string]interface{}{
			"id":   loc.ID,
			"name": loc.Name,
			"path": loc.Path,
		})
	}
	deletedItems := make([]map[string]interface{}, 0, len(set.Items))
	for _, it := range set.Items {
		deletedItems = append(deletedItems, map[string]interface{}{
			"id":            it.ID,
			"name":          it.Name,
			"serial_number": it.SerialNumber,
		})
	}

	details := common.JSONB{
		"location_id":             set.Target.ID,
		"location_name":           set.Target.Name,
		"location_path":           set.Target.Path,
		"deleted_child_locations": deletedLocations,
		"deleted_items":           deletedItems,
		"total_locations_deleted": set.TotalLocations(),
		"total_items_deleted":     len(set.Items),
		"soft_delete":             true,
	}
	if err := co.sink.Record(actor.ID, actor.Name, audit.ActionDeleteLocation, details); err != nil {
		return err
	}

	return nil
}

// DeleteItem soft-deletes a single item (no cascade involved), with audit.
func (co *Coordinator) DeleteItem(itemID uuid.UUID, actor Actor) error {
	var it item.Item
	if err := co.db.Where("id = ? AND deleted_at IS NULL", itemID).First(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item.ErrNotFound
		}
		return fmt.Errorf("failed to fetch item: %w", err)
	}

	now := time.Now()
	if err := co.db.Model(&it).Updates(map[string]interface{}{
		"deleted_at": now,
		"deleted_by": actor.ID,
	}).Error; err != nil {
		return fmt.Errorf("failed to soft-delete item: %w", err)
	}

	return co.sink.Record(actor.ID, actor.Name, audit.ActionDeleteItem, common.JSONB{
		"item_name":          it.Name,
		"item_serial_number": it.SerialNumber,
	})
}
