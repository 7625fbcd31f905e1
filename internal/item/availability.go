package item

import "fmt"

// Status classifies an item's availability, in priority order.
type Status string

const (
	StatusUnknownQuantity    Status = "unknown_quantity"
	StatusOutOfStock         Status = "out_of_stock"
	StatusAvailable          Status = "available"
	StatusFullyCheckedOut    Status = "fully_checked_out"
	StatusPartiallyAvailable Status = "partially_available"
)

// Availability is the derived, read-only view of how many units of an item
// are free right now. Available is nil when the item's quantity is untracked;
// CheckedOut can always be computed from the active logs.
type Availability struct {
	TotalQuantity *int   `json:"total_quantity"`
	Available     *int   `json:"available_quantity"`
	CheckedOut    int    `json:"checked_out_quantity"`
	Status        Status `json:"status"`
}

// ComputeAvailability derives availability from an item's quantity and its
// active checkout logs: available = max(0, quantity - sum(out - in)), clamped
// at zero to tolerate over-checkout anomalies. Inactive logs are ignored so
// callers may pass a full history.
func ComputeAvailability(quantity *int, logs []CheckoutLog) Availability {
	checkedOut := 0
	for _, log := range logs {
		if log.IsActive() {
			checkedOut += log.Outstanding()
		}
	}

	if quantity == nil {
		return Availability{
			CheckedOut: checkedOut,
			Status:     StatusUnknownQuantity,
		}
	}

	available := *quantity - checkedOut
	if available < 0 {
		available = 0
	}

	return Availability{
		TotalQuantity: quantity,
		Available:     &available,
		CheckedOut:    checkedOut,
		Status:        classify(*quantity, available, checkedOut),
	}
}

func classify(total, available, checkedOut int) Status {
	switch {
	case total == 0:
		return StatusOutOfStock
	case checkedOut == 0:
		return StatusAvailable
	case available == 0:
		return StatusFullyCheckedOut
	default:
		return StatusPartiallyAvailable
	}
}

// DisplayText maps an availability to the text shown in listings.
func (a Availability) DisplayText() string {
	switch a.Status {
	case StatusOutOfStock:
		return "Out of Stock"
	case StatusFullyCheckedOut:
		return "Fully Checked Out"
	case StatusPartiallyAvailable:
		return fmt.Sprintf("%d of %d Available", *a.Available, *a.TotalQuantity)
	case StatusAvailable:
		return "Available"
	default:
		return "Unknown"
	}
}
