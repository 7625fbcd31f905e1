package cascade

import (
	"fmt"
	"strings"

	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/google/uuid"
)

// AffectedEntitySet is everything a cascade delete of Target will touch:
// every descendant location at any depth, and every item stored anywhere in
// that subtree (the target itself included).
type AffectedEntitySet struct {
	Target    location.Location   `json:"target"`
	Locations []location.Location `json:"locations"`
	Items     []item.Item         `json:"items"`
}

// TotalLocations counts the target plus its descendants.
func (s *AffectedEntitySet) TotalLocations() int {
	return len(s.Locations) + 1
}

// Confirmation is the operator's acknowledgment of an AffectedEntitySet.
// Deleting a subtree is deliberately high-friction: every affected location
// and item must be acknowledged individually, and the operator has to re-type
// their own account email.
type Confirmation struct {
	AckedLocationIDs []uuid.UUID `json:"acknowledged_location_ids"`
	AckedItemIDs     []uuid.UUID `json:"acknowledged_item_ids"`
	TypedEmail       string      `json:"email_confirmation"`
}

// CanSubmit reports whether the gate passes: all discovered locations acked,
// all discovered items acked, and the typed email case-insensitively matching
// the authenticated actor's email. A set with no descendants and no items
// degenerates to the email check alone.
func (s *AffectedEntitySet) CanSubmit(conf Confirmation, actorEmail string) bool {
	return len(s.MissingChecks(conf, actorEmail)) == 0
}

// MissingChecks lists what still blocks submission, for the UI checklist.
func (s *AffectedEntitySet) MissingChecks(conf Confirmation, actorEmail string) []string {
	var missing []string

	acked := make(map[uuid.UUID]bool, len(conf.AckedLocationIDs))
	for _, id := range conf.AckedLocationIDs {
		acked[id] = true
	}
	unackedLocations := 0
	for _, loc := range s.Locations {
		if !acked[loc.ID] {
			unackedLocations++
		}
	}
	if unackedLocations > 0 {
		missing = append(missing, fmt.Sprintf("acknowledge all %d sub-locations", len(s.Locations)))
	}

	ackedItems := make(map[uuid.UUID]bool, len(conf.AckedItemIDs))
	for _, id := range conf.AckedItemIDs {
		ackedItems[id] = true
	}
	unackedItems := 0
	for _, it := range s.Items {
		if !ackedItems[it.ID] {
			unackedItems++
		}
	}
	if unackedItems > 0 {
		missing = append(missing, fmt.Sprintf("acknowledge all %d items", len(s.Items)))
	}

	if !strings.EqualFold(strings.TrimSpace(conf.TypedEmail), strings.TrimSpace(actorEmail)) {
		missing = append(missing, "type your account email correctly")
	}

	return missing
}
