package reorder_test

import (
	"errors"
	"testing"

	"stockroom/internal/item"
	"stockroom/internal/location"
	"stockroom/internal/reorder"
	"stockroom/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *reorder.Service, *item.Service, *location.Service) {
	t.Helper()
	db := testutil.SetupTestDB(t,
		&location.Location{}, &item.Item{}, &item.CheckoutLog{}, &reorder.Request{})
	items := item.NewService(db)
	locations := location.NewService(db)
	return db, reorder.NewService(db, items, locations), items, locations
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{reorder.StatusNewRequest, reorder.StatusApprovedPending, true},
		{reorder.StatusNewRequest, reorder.StatusRejected, true},
		{reorder.StatusNewRequest, reorder.StatusPurchased, false},
		{reorder.StatusApprovedPending, reorder.StatusPurchased, true},
		{reorder.StatusApprovedPending, reorder.StatusRejected, true},
		{reorder.StatusPurchased, reorder.StatusArrived, true},
		{reorder.StatusPurchased, reorder.StatusRejected, false},
		{reorder.StatusArrived, reorder.StatusDocumented, true},
		{reorder.StatusDocumented, reorder.StatusNewRequest, false},
		{reorder.StatusRejected, reorder.StatusApprovedPending, false},
	}
	for _, c := range cases {
		if got := reorder.CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestUpdateStatusEnforcesWorkflow(t *testing.T) {
	_, svc, _, _ := setup(t)

	req, err := svc.Create(reorder.RequestInput{ItemName: "AA Batteries"}, uuid.New())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != reorder.StatusNewRequest {
		t.Fatalf("initial status = %s, want %s", req.Status, reorder.StatusNewRequest)
	}

	// Skipping approval is rejected.
	if _, err := svc.UpdateStatus(req.ID, reorder.StatusPurchased, nil, ""); !errors.Is(err, reorder.ErrBadTransition) {
		t.Errorf("expected ErrBadTransition, got %v", err)
	}

	if _, err := svc.UpdateStatus(req.ID, reorder.StatusApprovedPending, nil, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	buyer := uuid.New()
	purchased, err := svc.UpdateStatus(req.ID, reorder.StatusPurchased, &buyer, "Buyer Name")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if purchased.PurchasedBy == nil || *purchased.PurchasedBy != buyer {
		t.Errorf("purchased_by = %v, want %s", purchased.PurchasedBy, buyer)
	}
	if purchased.PurchasedByName != "Buyer Name" {
		t.Errorf("purchased_by_name = %q", purchased.PurchasedByName)
	}
}

func TestRejectedIsTerminal(t *testing.T) {
	_, svc, _, _ := setup(t)

	req, _ := svc.Create(reorder.RequestInput{ItemName: "Glue"}, uuid.New())
	if _, err := svc.UpdateStatus(req.ID, reorder.StatusRejected, nil, ""); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.UpdateStatus(req.ID, reorder.StatusApprovedPending, nil, ""); !errors.Is(err, reorder.ErrBadTransition) {
		t.Errorf("rejected must be terminal, got %v", err)
	}
}

func TestCreateDerivesCenterFromItem(t *testing.T) {
	_, svc, items, locations := setup(t)

	building, _ := locations.Create("Building A", "", nil)
	room, _ := locations.Create("Room 101", "", &building.ID)
	it, err := items.Create(item.ItemInput{Name: "Markers", LocationID: room.ID})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	req, err := svc.Create(reorder.RequestInput{
		ItemID:   &it.ID,
		ItemName: it.Name,
	}, uuid.New())
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if req.CenterID == nil || *req.CenterID != building.ID {
		t.Errorf("center_id = %v, want top-level ancestor %s", req.CenterID, building.ID)
	}
}

func TestFulfillCreatesItemAndDocuments(t *testing.T) {
	_, svc, items, locations := setup(t)

	room, _ := locations.Create("Storage", "", nil)
	requester := uuid.New()

	req, err := svc.Create(reorder.RequestInput{
		ItemName:        "AA Batteries",
		QuantityToOrder: 3,
		UnitsPerPack:    12,
	}, requester)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Fulfilling before arrival is rejected.
	if _, _, err := svc.Fulfill(req.ID, room.ID); !errors.Is(err, reorder.ErrNotYetArrived) {
		t.Errorf("expected ErrNotYetArrived, got %v", err)
	}

	buyer := uuid.New()
	mustStatus := func(status string) {
		t.Helper()
		if _, err := svc.UpdateStatus(req.ID, status, &buyer, "Buyer"); err != nil {
			t.Fatalf("to %s: %v", status, err)
		}
	}
	mustStatus(reorder.StatusApprovedPending)
	mustStatus(reorder.StatusPurchased)
	mustStatus(reorder.StatusArrived)

	fulfilled, created, err := svc.Fulfill(req.ID, room.ID)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if fulfilled.Status != reorder.StatusDocumented {
		t.Errorf("status = %s, want %s", fulfilled.Status, reorder.StatusDocumented)
	}
	if fulfilled.CreatedItemID == nil || *fulfilled.CreatedItemID != created.ID {
		t.Errorf("created_item_id = %v, want %s", fulfilled.CreatedItemID, created.ID)
	}
	if created.Quantity == nil || *created.Quantity != 36 {
		t.Errorf("created quantity = %v, want 36 (3 packs of 12)", created.Quantity)
	}

	stored, err := items.Get(created.ID)
	if err != nil {
		t.Fatalf("fetch created item: %v", err)
	}
	if stored.LocationID != room.ID {
		t.Errorf("item location = %s, want %s", stored.LocationID, room.ID)
	}

	// A documented request cannot be fulfilled again.
	if _, _, err := svc.Fulfill(req.ID, room.ID); !errors.Is(err, reorder.ErrAlreadyFulfilled) {
		t.Errorf("expected ErrAlreadyFulfilled, got %v", err)
	}
}
