package admin_test

import (
	"errors"
	"testing"

	"stockroom/internal/admin"
	"stockroom/internal/audit"
	"stockroom/internal/cascade"
	"stockroom/internal/category"
	"stockroom/internal/item"
	"stockroom/internal/location"
	"stockroom/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *admin.Service, *audit.Sink) {
	t.Helper()
	db := testutil.SetupTestDB(t,
		&location.Location{}, &item.Item{}, &item.CheckoutLog{},
		&category.Category{}, &audit.Entry{})
	sink := audit.NewSink(db)
	return db, admin.NewService(db, sink), sink
}

func TestRestoreItemClearsMarkers(t *testing.T) {
	db, svc, sink := setup(t)
	items := item.NewService(db)
	actor := cascade.Actor{ID: uuid.New(), Email: "admin@example.org", Name: "Admin"}
	coordinator := cascade.NewCoordinator(db, sink)

	locID := uuid.New()
	created, err := items.Create(item.ItemInput{Name: "Drill", LocationID: locID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := coordinator.DeleteItem(created.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := svc.Restore(admin.EntityItem, created.ID, actor.ID, actor.Name); err != nil {
		t.Fatalf("restore: %v", err)
	}

	restored, err := items.Get(created.ID)
	if err != nil {
		t.Fatalf("restored item should be active again: %v", err)
	}
	if restored.DeletedAt != nil || restored.DeletedBy != nil {
		t.Error("restore must clear both deletion markers")
	}

	entries, err := sink.List(audit.ActionRestoreItem, 10)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(entries))
	}
}

func TestRestoreLocationDoesNotCascade(t *testing.T) {
	db, svc, sink := setup(t)
	locations := location.NewService(db)
	items := item.NewService(db)
	coordinator := cascade.NewCoordinator(db, sink)
	actor := cascade.Actor{ID: uuid.New(), Email: "admin@example.org", Name: "Admin"}

	building, _ := locations.Create("Building A", "", nil)
	room, _ := locations.Create("Room 101", "", &building.ID)
	it, err := items.Create(item.ItemInput{Name: "Projector", LocationID: room.ID})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	set, err := coordinator.Discover(building.ID)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	conf := cascade.Confirmation{TypedEmail: actor.Email}
	for _, loc := range set.Locations {
		conf.AckedLocationIDs = append(conf.AckedLocationIDs, loc.ID)
	}
	for _, i := range set.Items {
		conf.AckedItemIDs = append(conf.AckedItemIDs, i.ID)
	}
	if err := coordinator.Execute(set, conf, actor); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	// Restoring the building brings back the building alone.
	if err := svc.Restore(admin.EntityLocation, building.ID, actor.ID, actor.Name); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if _, err := locations.Get(building.ID); err != nil {
		t.Errorf("building should be active: %v", err)
	}
	if _, err := locations.Get(room.ID); !errors.Is(err, location.ErrNotFound) {
		t.Error("descendant location must stay deleted after a restore")
	}
	if _, err := items.Get(it.ID); !errors.Is(err, item.ErrNotFound) {
		t.Error("cascaded item must stay deleted after a restore")
	}
}

func TestRestoreRejectsActiveEntity(t *testing.T) {
	db, svc, _ := setup(t)
	items := item.NewService(db)

	created, err := items.Create(item.ItemInput{Name: "Drill", LocationID: uuid.New()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Restore(admin.EntityItem, created.ID, uuid.New(), "Admin"); !errors.Is(err, admin.ErrNotDeleted) {
		t.Errorf("expected ErrNotDeleted, got %v", err)
	}
}

func TestRestoreUnknownEntityType(t *testing.T) {
	_, svc, _ := setup(t)

	if err := svc.Restore("widget", uuid.New(), uuid.New(), "Admin"); !errors.Is(err, admin.ErrUnknownEntity) {
		t.Errorf("expected ErrUnknownEntity, got %v", err)
	}
}

func TestListDeleted(t *testing.T) {
	db, svc, sink := setup(t)
	locations := location.NewService(db)
	items := item.NewService(db)
	coordinator := cascade.NewCoordinator(db, sink)
	actor := cascade.Actor{ID: uuid.New(), Email: "admin@example.org", Name: "Admin"}

	building, _ := locations.Create("Building A", "", nil)
	gone, _ := items.Create(item.ItemInput{Name: "Gone", LocationID: building.ID})
	if _, err := items.Create(item.ItemInput{Name: "Kept", LocationID: building.ID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := coordinator.DeleteItem(gone.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}

	listing, err := svc.ListDeleted()
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if len(listing.Items) != 1 || listing.Items[0].ID != gone.ID {
		t.Errorf("deleted items = %v, want just the deleted one", listing.Items)
	}
	if len(listing.Locations) != 0 {
		t.Errorf("deleted locations = %d, want 0", len(listing.Locations))
	}
}
