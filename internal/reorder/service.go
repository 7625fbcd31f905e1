package reorder

import (
	"errors"
	"fmt"
	"log"
	"time"

	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("reorder request not found")
	ErrNameRequired     = errors.New("item name is required")
	ErrBadTransition    = errors.New("invalid status transition")
	ErrAlreadyFulfilled = errors.New("request already fulfilled")
	ErrNotYetArrived    = errors.New("request must be arrived before fulfillment")
	ErrLocationRequired = errors.New("target location is required")
)

type Service struct {
	db        *gorm.DB
	items     *item.Service
	locations *location.Service
}

func NewService(db *gorm.DB, items *item.Service, locations *location.Service) *Service {
	return &Service{db: db, items: items, locations: locations}
}

// RequestInput carries the editable fields of a reorder request.
type RequestInput struct {
	ItemID          *uuid.UUID `json:"item_id"`
	ItemName        string     `json:"item_name"`
	ItemBrand       string     `json:"item_brand"`
	ItemModel       string     `json:"item_model"`
	CategoryID      *uuid.UUID `json:"item_category_id"`
	CenterID        *uuid.UUID `json:"center_id"`
	QuantityToOrder int        `json:"quantity_to_order"`
	UnitsPerPack    int        `json:"units_per_pack"`
	PricePerPack    *float64   `json:"price_per_pack"`
	OrderLink       string     `json:"order_link"`
	Notes           string     `json:"notes"`
}

// Create opens a new request in the new_request state. When the request
// references an existing item and no center is given, the center is derived
// by walking the item's location up to its top-level ancestor.
func (s *Service) Create(in RequestInput, requestedBy uuid.UUID) (*Request, error) {
	if in.ItemName == "" {
		return nil, ErrNameRequired
	}
	if in.QuantityToOrder < 1 {
		in.QuantityToOrder = 1
	}
	if in.UnitsPerPack < 1 {
		in.UnitsPerPack = 1
	}

	centerID := in.CenterID
	if centerID == nil && in.ItemID != nil {
		if derived, err := s.deriveCenter(*in.ItemID); err == nil && derived != nil {
			centerID = derived
		}
	}

	req := Request{
		ItemID:          in.ItemID,
		ItemName:        in.ItemName,
		ItemBrand:       in.ItemBrand,
		ItemModel:       in.ItemModel,
		CategoryID:      in.CategoryID,
		CenterID:        centerID,
		QuantityToOrder: in.QuantityToOrder,
		UnitsPerPack:    in.UnitsPerPack,
		PricePerPack:    in.PricePerPack,
		OrderLink:       in.OrderLink,
		Notes:           in.Notes,
		Status:          StatusNewRequest,
		StatusUpdatedAt: time.Now(),
		RequestedBy:     requestedBy,
	}
	if err := s.db.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("failed to create reorder request: %w", err)
	}
	return &req, nil
}

func (s *Service) deriveCenter(itemID uuid.UUID) (*uuid.UUID, error) {
	it, err := s.items.Get(itemID)
	if err != nil {
		return nil, err
	}
	tree, err := s.locations.LoadTree()
	if err != nil {
		return nil, err
	}
	center := tree.CenterOf(it.LocationID)
	if center == nil {
		return nil, nil
	}
	return &center.ID, nil
}

func (s *Service) Get(id uuid.UUID) (*Request, error) {
	var req Request
	if err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch reorder request: %w", err)
	}
	return &req, nil
}

// List returns active requests, most recently status-changed first,
// optionally filtered by status or center.
func (s *Service) List(status string, centerID *uuid.UUID) ([]Request, error) {
	query := s.db.Where("deleted_at IS NULL").Order("status_updated_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if centerID != nil {
		query = query.Where("center_id = ?", *centerID)
	}

	var requests []Request
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list reorder requests: %w", err)
	}
	return requests, nil
}

// Update edits the request's descriptive fields (not its status).
func (s *Service) Update(id uuid.UUID, in RequestInput) (*Request, error) {
	if in.ItemName == "" {
		return nil, ErrNameRequired
	}

	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"item_name":         in.ItemName,
		"item_brand":        in.ItemBrand,
		"item_model":        in.ItemModel,
		"category_id":       in.CategoryID,
		"center_id":         in.CenterID,
		"quantity_to_order": in.QuantityToOrder,
		"units_per_pack":    in.UnitsPerPack,
		"price_per_pack":    in.PricePerPack,
		"order_link":        in.OrderLink,
		"notes":             in.Notes,
	}
	if err := s.db.Model(req).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update reorder request: %w", err)
	}
	return s.Get(id)
}

// UpdateStatus advances the workflow. Only the transitions in the status
// machine are allowed; purchaser info is recorded when moving to purchased.
func (s *Service) UpdateStatus(id uuid.UUID, newStatus string, purchasedBy *uuid.UUID, purchasedByName string) (*Request, error) {
	req, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(req.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, req.Status, newStatus)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":            newStatus,
		"status_updated_at": now,
	}
	if newStatus == StatusPurchased {
		updates["purchased_by"] = purchasedBy
		updates["purchased_by_name"] = purchasedByName
	}

	if err := s.db.Model(req).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("📦 Reorder %q: %s -> %s", req.ItemName, req.Status, newStatus)
	return s.Get(id)
}

// Fulfill documents an arrived request by creating an inventory item from its
// snapshot and linking the two. The request moves to documented.
func (s *Service) Fulfill(id uuid.UUID, locationID uuid.UUID) (*Request, *item.Item, error) {
	if locationID == uuid.Nil {
		return nil, nil, ErrLocationRequired
	}

	req, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if req.CreatedItemID != nil {
		return nil, nil, ErrAlreadyFulfilled
	}
	if req.Status != StatusArrived {
		return nil, nil, fmt.Errorf("%w (current: %s)", ErrNotYetArrived, req.Status)
	}

	quantity := req.TotalUnits()
	created, err := s.items.Create(item.ItemInput{
		Name:       req.ItemName,
		Brand:      req.ItemBrand,
		Model:      req.ItemModel,
		Quantity:   &quantity,
		CategoryID: req.CategoryID,
		LocationID: locationID,
		OrderLink:  req.OrderLink,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create item from request: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(req).Updates(map[string]interface{}{
		"created_item_id":   created.ID,
		"status":            StatusDocumented,
		"status_updated_at": now,
	}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to link created item: %w", err)
	}

	req, err = s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	return req, created, nil
}
