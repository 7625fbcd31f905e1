package item

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameRequired     = errors.New("item name is required")
	ErrLocationRequired = errors.New("item location is required")
	ErrNotFound         = errors.New("item not found")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ItemInput carries the editable fields of an item.
type ItemInput struct {
	Name         string     `json:"name"`
	Brand        string     `json:"brand"`
	Model        string     `json:"model"`
	SerialNumber string     `json:"serial_number"`
	AssetTag     string     `json:"asset_tag"`
	Description  string     `json:"description"`
	Quantity     *int       `json:"quantity"`
	MinQuantity  *int       `json:"min_quantity"`
	CategoryID   *uuid.UUID `json:"category_id"`
	LocationID   uuid.UUID  `json:"location_id"`
	OrderLink    string     `json:"order_link"`
}

func (in ItemInput) validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.LocationID == uuid.Nil {
		return ErrLocationRequired
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return ErrNegativeQuantity
	}
	if in.MinQuantity != nil && *in.MinQuantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// Create inserts a new item. Validation failures happen before any write.
func (s *Service) Create(in ItemInput) (*Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item := Item{
		Name:         in.Name,
		Brand:        in.Brand,
		Model:        in.Model,
		SerialNumber: in.SerialNumber,
		AssetTag:     in.AssetTag,
		Description:  in.Description,
		Quantity:     in.Quantity,
		MinQuantity:  in.MinQuantity,
		CategoryID:   in.CategoryID,
		LocationID:   in.LocationID,
		OrderLink:    in.OrderLink,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return &item, nil
}

// Get fetches one active item.
func (s *Service) Get(id uuid.UUID) (*Item, error) {
	var item Item
	if err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	return &item, nil
}

// List returns active items, optionally filtered by location or category.
func (s *Service) List(locationID, categoryID *uuid.UUID) ([]Item, error) {
	query := s.db.Where("deleted_at IS NULL").Order("name")
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var items []Item
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// CountDuplicates counts other active items with the same name in the same
// location, used for the duplicate warning on create.
func (s *Service) CountDuplicates(name string, locationID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	query := s.db.Model(&Item{}).
		Where("name = ? AND location_id = ? AND deleted_at IS NULL", name, locationID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count duplicates: %w", err)
	}
	return count, nil
}

// Update edits an existing item's fields.
func (s *Service) Update(id uuid.UUID, in ItemInput) (*Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":          in.Name,
		"brand":         in.Brand,
		"model":         in.Model,
		"serial_number": in.SerialNumber,
		"asset_tag":     in.AssetTag,
		"description":   in.Description,
		"quantity":      in.Quantity,
		"min_quantity":  in.MinQuantity,
		"category_id":   in.CategoryID,
		"location_id":   in.LocationID,
		"order_link":    in.OrderLink,
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return s.Get(id)
}

// AdjustQuantity applies a +/- delta to a tracked quantity. The result is
// clamped at zero; untracked (null) quantities cannot be adjusted.
func (s *Service) AdjustQuantity(id uuid.UUID, delta int) (*Item, error) {
	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if item.Quantity == nil {
		return nil, errors.New("item quantity is not tracked")
	}

	newQty := *item.Quantity + delta
	if newQty < 0 {
		newQty = 0
	}

	if err := s.db.Model(item).Update("quantity", newQty).Error; err != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", err)
	}
	item.Quantity = &newQty
	return item, nil
}

// SetQuantity sets the tracked quantity directly; nil switches the item to
// untracked.
func (s *Service) SetQuantity(id uuid.UUID, quantity *int) (*Item, error) {
	if quantity != nil && *quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	item, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to set quantity: %w", err)
	}
	item.Quantity = quantity
	return item, nil
}

// ActiveCheckouts returns the open checkout logs for an item, newest first.
// Filtered in SQL so the cost is O(active logs for this item), not O(all logs).
func (s *Service) ActiveCheckouts(itemID uuid.UUID) ([]CheckoutLog, error) {
	var logs []CheckoutLog
	if err := s.db.
		Where("item_id = ? AND checked_in_at IS NULL", itemID).
		Order("checked_out_at DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch active checkouts: %w", err)
	}
	return logs, nil
}

// CheckoutHistory returns every loan episode for an item, newest first.
func (s *Service) CheckoutHistory(itemID uuid.UUID) ([]CheckoutLog, error) {
	var logs []CheckoutLog
	if err := s.db.
		Where("item_id = ?", itemID).
		Order("checked_out_at DESC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch checkout history: %w", err)
	}
	return logs, nil
}

// Availability computes the derived availability for one item.
func (s *Service) Availability(itemID uuid.UUID) (*Availability, error) {
	item, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	logs, err := s.ActiveCheckouts(itemID)
	if err != nil {
		return nil, err
	}

	avail := ComputeAvailability(item.Quantity, logs)
	return &avail, nil
}
