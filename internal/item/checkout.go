package item

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQuantityTooLow    = errors.New("quantity must be greater than 0")
	ErrNotEnoughUnits    = errors.New("not enough units available")
	ErrRecipientRequired = errors.New("recipient is required")
	ErrNoCheckoutsChosen = errors.New("select at least one checkout to check in")
)

// CheckoutInput describes one checkout action. The recipient is either a
// free-text name or a registered user reference (which also fills the name).
type CheckoutInput struct {
	Quantity       int        `json:"quantity"`
	CheckedOutTo   string     `json:"checked_out_to"`
	CheckedOutToID *uuid.UUID `json:"checked_out_to_user_id"`
	CheckedOutAt   *time.Time `json:"checked_out_at"`
	Notes          string     `json:"notes"`
}

// CheckinInput returns quantities against specific open logs, supporting
// partial returns of multi-unit loans.
type CheckinInput struct {
	Returns     map[uuid.UUID]int `json:"returns"`
	CheckedInAt *time.Time        `json:"checked_in_at"`
	Notes       string            `json:"notes"`
}

// Checkout opens a loan episode for an item. Tracked items are validated
// against the currently available quantity; untracked (null quantity) items
// have no numeric ceiling.
func (s *Service) Checkout(itemID, actorID uuid.UUID, in CheckoutInput) (*CheckoutLog, error) {
	if in.Quantity <= 0 {
		return nil, ErrQuantityTooLow
	}
	if in.CheckedOutTo == "" && in.CheckedOutToID == nil {
		return nil, ErrRecipientRequired
	}

	item, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	active, err := s.ActiveCheckouts(itemID)
	if err != nil {
		return nil, err
	}

	avail := ComputeAvailability(item.Quantity, active)
	if avail.Available != nil && in.Quantity > *avail.Available {
		return nil, fmt.Errorf("%w: only %d of %d available", ErrNotEnoughUnits, *avail.Available, *avail.TotalQuantity)
	}

	checkedOutAt := time.Now()
	if in.CheckedOutAt != nil {
		checkedOutAt = *in.CheckedOutAt
	}

	log := CheckoutLog{
		ItemID:             itemID,
		CheckedOutTo:       in.CheckedOutTo,
		CheckedOutToUserID: in.CheckedOutToID,
		CheckedOutAt:       checkedOutAt,
		CheckoutNotes:      in.Notes,
		QuantityCheckedOut: in.Quantity,
		PerformedBy:        actorID,
	}
	if err := s.db.Create(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to create checkout log: %w", err)
	}

	// Maintain the item's open-checkout linkage for the detail view. Only the
	// first open loan is linked; the invariant is that a non-null
	// checkout_log_id always points at an open log.
	if item.CheckoutLogID == nil {
		updates := map[string]interface{}{
			"checkout_log_id":     log.ID,
			"checked_out_to_user": in.CheckedOutToID,
		}
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to link checkout to item: %w", err)
		}
	}

	return &log, nil
}

// Checkin processes returns against one or more open logs. Returning the full
// outstanding quantity closes the log (sets checked_in_at); a partial return
// only increments quantity_checked_in and leaves the loan open.
func (s *Service) Checkin(itemID uuid.UUID, in CheckinInput) ([]CheckoutLog, error) {
	if len(in.Returns) == 0 {
		return nil, ErrNoCheckoutsChosen
	}

	item, err := s.Get(itemID)
	if err != nil {
		return nil, err
	}

	active, err := s.ActiveCheckouts(itemID)
	if err != nil {
		return nil, err
	}
	activeByID := make(map[uuid.UUID]*CheckoutLog, len(active))
	for i := range active {
		activeByID[active[i].ID] = &active[i]
	}

	checkedInAt := time.Now()
	if in.CheckedInAt != nil {
		checkedInAt = *in.CheckedInAt
	}

	var updated []CheckoutLog
	for logID, qty := range in.Returns {
		log, ok := activeByID[logID]
		if !ok || qty <= 0 {
			continue
		}

		// Clamp to the outstanding quantity rather than failing the batch.
		outstanding := log.Outstanding()
		if qty > outstanding {
			qty = outstanding
		}

		updates := map[string]interface{}{
			"checkin_notes": in.Notes,
		}
		if qty >= outstanding {
			updates["checked_in_at"] = checkedInAt
			updates["quantity_checked_in"] = log.QuantityCheckedOut
			log.CheckedInAt = &checkedInAt
			log.QuantityCheckedIn = log.QuantityCheckedOut
		} else {
			updates["quantity_checked_in"] = log.QuantityCheckedIn + qty
			log.QuantityCheckedIn += qty
		}
		log.CheckinNotes = in.Notes

		if err := s.db.Model(&CheckoutLog{}).Where("id = ?", logID).Updates(updates).Error; err != nil {
			return updated, fmt.Errorf("failed to update checkout log: %w", err)
		}
		updated = append(updated, *log)

		// Fully returning the linked loan clears the item's linkage.
		if log.CheckedInAt != nil && item.CheckoutLogID != nil && *item.CheckoutLogID == logID {
			clear := map[string]interface{}{
				"checkout_log_id":     nil,
				"checked_out_to_user": nil,
			}
			if err := s.db.Model(item).Updates(clear).Error; err != nil {
				return updated, fmt.Errorf("failed to clear checkout linkage: %w", err)
			}
		}
	}

	if len(updated) == 0 {
		return nil, ErrNoCheckoutsChosen
	}
	return updated, nil
}
