package location_test

import (
	"testing"

	"stockroom/internal/location"

	"github.com/google/uuid"
)

func makeLocation(name string, parent *location.Location) location.Location {
	loc := location.Location{Name: name}
	loc.ID = uuid.New()
	if parent != nil {
		parentID := parent.ID
		loc.ParentID = &parentID
		loc.Path = parent.Path + location.PathSeparator + name
	} else {
		loc.Path = name
	}
	return loc
}

func TestComputePath(t *testing.T) {
	building := makeLocation("Building A", nil)
	floor := makeLocation("Floor 2", &building)
	room := makeLocation("Room 201", &floor)

	tree := location.NewTree([]location.Location{building, floor, room})

	got := tree.ComputePath(tree.Get(room.ID))
	want := "Building A / Floor 2 / Room 201"
	if got != want {
		t.Errorf("ComputePath = %q, want %q", got, want)
	}

	if got := tree.ComputePath(tree.Get(building.ID)); got != "Building A" {
		t.Errorf("root path = %q, want %q", got, "Building A")
	}
}

func TestComputePathMissingParent(t *testing.T) {
	orphan := location.Location{Name: "Orphan"}
	orphan.ID = uuid.New()
	missing := uuid.New()
	orphan.ParentID = &missing

	tree := location.NewTree([]location.Location{orphan})

	// A dangling parent reference stops the walk at the node itself.
	if got := tree.ComputePath(tree.Get(orphan.ID)); got != "Orphan" {
		t.Errorf("orphan path = %q, want %q", got, "Orphan")
	}
}

func TestComputePathTerminatesOnCycle(t *testing.T) {
	a := location.Location{Name: "A"}
	a.ID = uuid.New()
	b := location.Location{Name: "B"}
	b.ID = uuid.New()

	// Corrupt data: two nodes pointing at each other.
	a.ParentID = &b.ID
	b.ParentID = &a.ID

	tree := location.NewTree([]location.Location{a, b})

	// Must terminate; the exact path is unspecified for corrupt data.
	_ = tree.ComputePath(tree.Get(a.ID))
	_ = tree.Depth(tree.Get(a.ID))
}

func TestChildrenOrderedByName(t *testing.T) {
	parent := makeLocation("Center", nil)
	zebra := makeLocation("Zebra Shelf", &parent)
	alpha := makeLocation("Alpha Shelf", &parent)
	mid := makeLocation("Mid Shelf", &parent)

	tree := location.NewTree([]location.Location{parent, zebra, alpha, mid})

	children := tree.ChildrenOf(parent.ID)
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	wantOrder := []string{"Alpha Shelf", "Mid Shelf", "Zebra Shelf"}
	for i, want := range wantOrder {
		if children[i].Name != want {
			t.Errorf("children[%d] = %q, want %q", i, children[i].Name, want)
		}
	}
}

func TestDescendantsOf(t *testing.T) {
	building := makeLocation("Building", nil)
	floor := makeLocation("Floor", &building)
	room := makeLocation("Room", &floor)
	other := makeLocation("Other Building", nil)

	tree := location.NewTree([]location.Location{building, floor, room, other})

	descendants := tree.DescendantsOf(building.ID)
	if len(descendants) != 2 {
		t.Fatalf("expected 2 descendants, got %d", len(descendants))
	}
	seen := map[uuid.UUID]bool{}
	for _, d := range descendants {
		seen[d.ID] = true
	}
	if !seen[floor.ID] || !seen[room.ID] {
		t.Errorf("descendants missing expected nodes: %v", seen)
	}
	if seen[other.ID] {
		t.Errorf("unrelated root must not appear in descendants")
	}
}

func TestValidCandidateParents(t *testing.T) {
	building := makeLocation("Building", nil)
	floor := makeLocation("Floor", &building)
	room := makeLocation("Room", &floor)
	sibling := makeLocation("Sibling Building", nil)

	tree := location.NewTree([]location.Location{building, floor, room, sibling})

	candidates := tree.ValidCandidateParents(tree.Get(floor.ID))
	ids := map[uuid.UUID]bool{}
	for _, c := range candidates {
		ids[c.ID] = true
	}

	if ids[floor.ID] {
		t.Error("a location must not be its own candidate parent")
	}
	if ids[room.ID] {
		t.Error("a descendant must not be a candidate parent")
	}
	if !ids[building.ID] {
		t.Error("the current parent should remain a candidate")
	}
	if !ids[sibling.ID] {
		t.Error("an unrelated root should be a candidate")
	}
}

func TestCenterOf(t *testing.T) {
	building := makeLocation("Building", nil)
	floor := makeLocation("Floor", &building)
	room := makeLocation("Room", &floor)

	tree := location.NewTree([]location.Location{building, floor, room})

	center := tree.CenterOf(room.ID)
	if center == nil || center.ID != building.ID {
		t.Fatalf("CenterOf(room) = %v, want building", center)
	}
	if got := tree.CenterOf(building.ID); got == nil || got.ID != building.ID {
		t.Errorf("CenterOf(root) should be the root itself")
	}
	if got := tree.CenterOf(uuid.New()); got != nil {
		t.Errorf("CenterOf(unknown) = %v, want nil", got)
	}
}

func TestParentChain(t *testing.T) {
	building := makeLocation("Building", nil)
	floor := makeLocation("Floor", &building)
	room := makeLocation("Room", &floor)

	tree := location.NewTree([]location.Location{building, floor, room})

	chain := tree.ParentChain(tree.Get(room.ID))
	if len(chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(chain))
	}
	if chain[0].ID != building.ID || chain[1].ID != floor.ID {
		t.Errorf("chain should run root-first: got %q, %q", chain[0].Name, chain[1].Name)
	}
}
