package location

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PathSeparator joins ancestor names in a materialized path.
const PathSeparator = " / "

// maxDepth caps upward walks. A cycle in parent references is a data
// integrity bug, not a valid state, but traversal must still terminate.
const maxDepth = 20

// Tree is an in-memory view of the full location set. The whole table is
// loaded once and traversed synchronously instead of issuing one query per
// tree level on every read.
type Tree struct {
	byID     map[uuid.UUID]*Location
	children map[uuid.UUID][]*Location
	roots    []*Location
}

// NewTree indexes a loaded location set. Children are ordered by name.
func NewTree(all []Location) *Tree {
	t := &Tree{
		byID:     make(map[uuid.UUID]*Location, len(all)),
		children: make(map[uuid.UUID][]*Location),
	}

	for i := range all {
		t.byID[all[i].ID] = &all[i]
	}
	for i := range all {
		loc := &all[i]
		if loc.ParentID != nil {
			t.children[*loc.ParentID] = append(t.children[*loc.ParentID], loc)
		} else {
			t.roots = append(t.roots, loc)
		}
	}

	byName := func(locs []*Location) {
		sort.Slice(locs, func(i, j int) bool { return locs[i].Name < locs[j].Name })
	}
	byName(t.roots)
	for id := range t.children {
		byName(t.children[id])
	}

	return t
}

// Get returns the location with the given id, or nil.
func (t *Tree) Get(id uuid.UUID) *Location {
	return t.byID[id]
}

// Roots returns the top-level locations (centers), ordered by name.
func (t *Tree) Roots() []*Location {
	return t.roots
}

// ChildrenOf returns the direct children of a location, ordered by name.
func (t *Tree) ChildrenOf(parentID uuid.UUID) []*Location {
	return t.children[parentID]
}

// ComputePath walks parent references upward and joins the names root-first.
// A missing parent reference stops the walk (the node is treated as a root).
func (t *Tree) ComputePath(loc *Location) string {
	names := []string{loc.Name}

	current := loc
	for depth := 0; current.ParentID != nil && depth < maxDepth; depth++ {
		parent := t.byID[*current.ParentID]
		if parent == nil {
			break
		}
		names = append([]string{parent.Name}, names...)
		current = parent
	}

	return strings.Join(names, PathSeparator)
}

// Depth returns the number of ancestors above the location (0 = root).
func (t *Tree) Depth(loc *Location) int {
	depth := 0
	current := loc
	for current.ParentID != nil && depth < maxDepth {
		parent := t.byID[*current.ParentID]
		if parent == nil {
			break
		}
		depth++
		current = parent
	}
	return depth
}

// ParentChain returns the ancestors of a location from root to immediate
// parent, for breadcrumb display.
func (t *Tree) ParentChain(loc *Location) []*Location {
	var chain []*Location
	current := loc
	for len(chain) < maxDepth && current.ParentID != nil {
		parent := t.byID[*current.ParentID]
		if parent == nil {
			break
		}
		chain = append([]*Location{parent}, chain...)
		current = parent
	}
	return chain
}

// DescendantsOf returns every location beneath rootID, at any depth,
// discovered breadth-first level by level.
func (t *Tree) DescendantsOf(rootID uuid.UUID) []*Location {
	var descendants []*Location

	frontier := []uuid.UUID{rootID}
	for len(frontier) > 0 {
		var next []uuid.UUID
		for _, id := range frontier {
			for _, child := range t.children[id] {
				descendants = append(descendants, child)
				next = append(next, child.ID)
			}
		}
		frontier = next
	}

	return descendants
}

// ValidCandidateParents returns every location that may become the parent of
// loc without creating a cycle: everything except loc itself and locations
// whose materialized path starts with loc's path (its descendants).
func (t *Tree) ValidCandidateParents(loc *Location) []*Location {
	candidates := make([]*Location, 0, len(t.byID))
	for _, candidate := range t.byID {
		if candidate.ID == loc.ID {
			continue
		}
		if loc.Path != "" && strings.HasPrefix(candidate.Path, loc.Path) {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
	return candidates
}

// CenterOf walks up to the top-level ancestor of a location. Reorder requests
// are grouped by center.
func (t *Tree) CenterOf(id uuid.UUID) *Location {
	current := t.byID[id]
	if current == nil {
		return nil
	}
	for depth := 0; current.ParentID != nil && depth < maxDepth; depth++ {
		parent := t.byID[*current.ParentID]
		if parent == nil {
			break
		}
		current = parent
	}
	return current
}
