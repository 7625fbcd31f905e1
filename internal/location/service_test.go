package location_test

import (
	"errors"
	"testing"

	"stockroom/internal/location"
	"stockroom/internal/testutil"
)

func TestCreateMaterializesPath(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	building, err := svc.Create("Building A", "", nil)
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if building.Path != "Building A" {
		t.Errorf("root path = %q, want %q", building.Path, "Building A")
	}

	room, err := svc.Create("Room 101", "ground floor", &building.ID)
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if room.Path != "Building A / Room 101" {
		t.Errorf("child path = %q, want %q", room.Path, "Building A / Room 101")
	}
}

func TestCreateRequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	if _, err := svc.Create("", "", nil); !errors.Is(err, location.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestUpdateMoveRecomputesSubtreePaths(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	buildingA, _ := svc.Create("Building A", "", nil)
	buildingB, _ := svc.Create("Building B", "", nil)
	floor, _ := svc.Create("Floor 1", "", &buildingA.ID)
	room, _ := svc.Create("Room 101", "", &floor.ID)

	// Move the floor (and its room) under Building B.
	if _, err := svc.Update(floor.ID, "Floor 1", "", &buildingB.ID); err != nil {
		t.Fatalf("move: %v", err)
	}

	movedFloor, err := svc.Get(floor.ID)
	if err != nil {
		t.Fatalf("get floor: %v", err)
	}
	if movedFloor.Path != "Building B / Floor 1" {
		t.Errorf("floor path = %q, want %q", movedFloor.Path, "Building B / Floor 1")
	}

	movedRoom, err := svc.Get(room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if movedRoom.Path != "Building B / Floor 1 / Room 101" {
		t.Errorf("room path = %q, want %q", movedRoom.Path, "Building B / Floor 1 / Room 101")
	}
}

func TestUpdateRejectsCycle(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	building, _ := svc.Create("Building", "", nil)
	floor, _ := svc.Create("Floor", "", &building.ID)
	room, _ := svc.Create("Room", "", &floor.ID)

	// Moving the building under its own grandchild would create a cycle.
	if _, err := svc.Update(building.ID, "Building", "", &room.ID); !errors.Is(err, location.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}

	// Moving it under a descendant one level down is equally invalid.
	if _, err := svc.Update(building.ID, "Building", "", &floor.ID); !errors.Is(err, location.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestUpdateRenameRewritesDescendants(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	building, _ := svc.Create("Buidling A", "", nil)
	room, _ := svc.Create("Room 101", "", &building.ID)

	// Fix the typo; the child's path must follow.
	if _, err := svc.Update(building.ID, "Building A", "", nil); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, err := svc.Get(room.ID)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if got.Path != "Building A / Room 101" {
		t.Errorf("room path = %q, want %q", got.Path, "Building A / Room 101")
	}
}

func TestLoadTreeSkipsDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t, &location.Location{})
	svc := location.NewService(db)

	kept, _ := svc.Create("Kept", "", nil)
	gone, _ := svc.Create("Gone", "", nil)

	if err := db.Exec("UPDATE locations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?", gone.ID).Error; err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	tree, err := svc.LoadTree()
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	if tree.Get(gone.ID) != nil {
		t.Error("deleted location must not appear in the tree")
	}
	if tree.Get(kept.ID) == nil {
		t.Error("active location missing from the tree")
	}
}
