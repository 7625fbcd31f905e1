package item_test

import (
	"testing"
	"time"

	"stockroom/internal/item"
)

func intPtr(v int) *int { return &v }

func activeLog(out, in int) item.CheckoutLog {
	return item.CheckoutLog{QuantityCheckedOut: out, QuantityCheckedIn: in}
}

func closedLog(out int) item.CheckoutLog {
	now := time.Now()
	return item.CheckoutLog{QuantityCheckedOut: out, QuantityCheckedIn: out, CheckedInAt: &now}
}

func TestComputeAvailabilityPartial(t *testing.T) {
	logs := []item.CheckoutLog{
		activeLog(3, 0),
		activeLog(2, 1),
	}

	avail := item.ComputeAvailability(intPtr(10), logs)

	if avail.CheckedOut != 4 {
		t.Errorf("checked out = %d, want 4", avail.CheckedOut)
	}
	if avail.Available == nil || *avail.Available != 6 {
		t.Errorf("available = %v, want 6", avail.Available)
	}
	if avail.Status != item.StatusPartiallyAvailable {
		t.Errorf("status = %s, want %s", avail.Status, item.StatusPartiallyAvailable)
	}
	if got := avail.DisplayText(); got != "6 of 10 Available" {
		t.Errorf("display = %q, want %q", got, "6 of 10 Available")
	}
}

func TestComputeAvailabilityClampsAtZero(t *testing.T) {
	// Over-checkout anomaly: more units out than the item holds.
	avail := item.ComputeAvailability(intPtr(5), []item.CheckoutLog{activeLog(7, 0)})

	if avail.Available == nil || *avail.Available != 0 {
		t.Errorf("available = %v, want 0", avail.Available)
	}
	if avail.Status != item.StatusFullyCheckedOut {
		t.Errorf("status = %s, want %s", avail.Status, item.StatusFullyCheckedOut)
	}
}

func TestComputeAvailabilityUnknownQuantity(t *testing.T) {
	avail := item.ComputeAvailability(nil, []item.CheckoutLog{activeLog(2, 0)})

	if avail.Status != item.StatusUnknownQuantity {
		t.Errorf("status = %s, want %s", avail.Status, item.StatusUnknownQuantity)
	}
	if avail.Available != nil {
		t.Errorf("available must be nil for untracked quantity, got %d", *avail.Available)
	}
	if avail.CheckedOut != 2 {
		t.Errorf("checked out = %d, want 2", avail.CheckedOut)
	}
}

func TestComputeAvailabilityOutOfStock(t *testing.T) {
	avail := item.ComputeAvailability(intPtr(0), nil)

	if avail.Status != item.StatusOutOfStock {
		t.Errorf("status = %s, want %s", avail.Status, item.StatusOutOfStock)
	}
}

func TestComputeAvailabilityNothingOut(t *testing.T) {
	avail := item.ComputeAvailability(intPtr(4), nil)

	if avail.Status != item.StatusAvailable {
		t.Errorf("status = %s, want %s", avail.Status, item.StatusAvailable)
	}
	if avail.Available == nil || *avail.Available != 4 {
		t.Errorf("available = %v, want 4", avail.Available)
	}
}

func TestComputeAvailabilityIgnoresClosedLogs(t *testing.T) {
	logs := []item.CheckoutLog{
		closedLog(5),
		activeLog(1, 0),
	}

	avail := item.ComputeAvailability(intPtr(10), logs)

	if avail.CheckedOut != 1 {
		t.Errorf("checked out = %d, want 1 (closed logs ignored)", avail.CheckedOut)
	}
	if avail.Available == nil || *avail.Available != 9 {
		t.Errorf("available = %v, want 9", avail.Available)
	}
}
