package cascade_test

import (
	"testing"

	"stockroom/internal/cascade"
	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/google/uuid"
)

func buildSet(locations, items int) *cascade.AffectedEntitySet {
	set := &cascade.AffectedEntitySet{}
	set.Target.ID = uuid.New()
	set.Target.Name = "Target"

	for i := 0; i < locations; i++ {
		var loc location.Location
		loc.ID = uuid.New()
		set.Locations = append(set.Locations, loc)
	}
	for i := 0; i < items; i++ {
		var it item.Item
		it.ID = uuid.New()
		set.Items = append(set.Items, it)
	}
	return set
}

func fullConfirmation(set *cascade.AffectedEntitySet, email string) cascade.Confirmation {
	conf := cascade.Confirmation{TypedEmail: email}
	for _, loc := range set.Locations {
		conf.AckedLocationIDs = append(conf.AckedLocationIDs, loc.ID)
	}
	for _, it := range set.Items {
		conf.AckedItemIDs = append(conf.AckedItemIDs, it.ID)
	}
	return conf
}

func TestGatePassesWhenFullyAcknowledged(t *testing.T) {
	set := buildSet(2, 3)
	conf := fullConfirmation(set, "admin@example.org")

	if !set.CanSubmit(conf, "admin@example.org") {
		t.Error("gate should pass with all acks and matching email")
	}
}

func TestGateEmailIsCaseInsensitive(t *testing.T) {
	set := buildSet(0, 0)
	conf := cascade.Confirmation{TypedEmail: "Admin@Example.ORG"}

	if !set.CanSubmit(conf, "admin@example.org") {
		t.Error("email comparison should ignore case")
	}
	if !set.CanSubmit(cascade.Confirmation{TypedEmail: "  admin@example.org  "}, "admin@example.org") {
		t.Error("email comparison should ignore surrounding whitespace")
	}
}

func TestGateBlocksOnMissingLocationAck(t *testing.T) {
	set := buildSet(2, 0)
	conf := fullConfirmation(set, "admin@example.org")
	conf.AckedLocationIDs = conf.AckedLocationIDs[:1]

	if set.CanSubmit(conf, "admin@example.org") {
		t.Error("gate must block while a sub-location is unacknowledged")
	}
	if missing := set.MissingChecks(conf, "admin@example.org"); len(missing) != 1 {
		t.Errorf("missing checks = %v, want exactly the location ack", missing)
	}
}

func TestGateBlocksOnMissingItemAck(t *testing.T) {
	set := buildSet(0, 2)
	conf := cascade.Confirmation{TypedEmail: "admin@example.org"}

	if set.CanSubmit(conf, "admin@example.org") {
		t.Error("gate must block while items are unacknowledged")
	}
}

func TestGateBlocksOnWrongEmail(t *testing.T) {
	set := buildSet(1, 1)
	conf := fullConfirmation(set, "someone-else@example.org")

	if set.CanSubmit(conf, "admin@example.org") {
		t.Error("gate must block when the typed email does not match the actor")
	}
}

func TestGateDegeneratesToEmailOnly(t *testing.T) {
	// A leaf location with no items needs nothing but the email.
	set := buildSet(0, 0)

	if !set.CanSubmit(cascade.Confirmation{TypedEmail: "admin@example.org"}, "admin@example.org") {
		t.Error("empty set should require only the email confirmation")
	}
}

func TestTotalLocationsIncludesTarget(t *testing.T) {
	set := buildSet(3, 0)
	if got := set.TotalLocations(); got != 4 {
		t.Errorf("TotalLocations = %d, want 4", got)
	}
}
