package location

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNameRequired  = errors.New("location name is required")
	ErrParentMissing = errors.New("parent location not found")
	ErrCycle         = errors.New("location cannot be moved under itself or one of its descendants")
	ErrNotFound      = errors.New("location not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadTree fetches every active location and indexes it in memory. One query
// regardless of tree depth.
func (s *Service) LoadTree() (*Tree, error) {
	var all []Location
	if err := s.db.Where("deleted_at IS NULL").Order("path").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to load locations: %w", err)
	}
	return NewTree(all), nil
}

// Get fetches one active location by id.
func (s *Service) Get(id uuid.UUID) (*Location, error) {
	var loc Location
	if err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}
	return &loc, nil
}

// Create inserts a new location and materializes its path.
func (s *Service) Create(name, description string, parentID *uuid.UUID) (*Location, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	tree, err := s.LoadTree()
	if err != nil {
		return nil, err
	}

	loc := Location{
		Name:        name,
		Description: description,
		ParentID:    parentID,
	}

	if parentID != nil {
		parent := tree.Get(*parentID)
		if parent == nil {
			return nil, ErrParentMissing
		}
		loc.Path = parent.Path + PathSeparator + name
	} else {
		loc.Path = name
	}

	if err := s.db.Create(&loc).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &loc, nil
}

// Update renames and/or moves a location. Moving it under itself or any of
// its descendants is rejected, and the materialized paths of the location and
// its whole subtree are recomputed.
func (s *Service) Update(id uuid.UUID, name, description string, parentID *uuid.UUID) (*Location, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	tree, err := s.LoadTree()
	if err != nil {
		return nil, err
	}

	loc := tree.Get(id)
	if loc == nil {
		return nil, ErrNotFound
	}

	if parentID != nil {
		parent := tree.Get(*parentID)
		if parent == nil {
			return nil, ErrParentMissing
		}
		allowed := false
		for _, candidate := range tree.ValidCandidateParents(loc) {
			if candidate.ID == *parentID {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, ErrCycle
		}
	}

	loc.Name = name
	loc.Description = description
	loc.ParentID = parentID
	loc.Path = tree.ComputePath(loc)

	updates := map[string]interface{}{
		"name":        loc.Name,
		"description": loc.Description,
		"parent_id":   loc.ParentID,
		"path":        loc.Path,
	}
	if err := s.db.Model(&Location{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	// Rename/move changes every descendant's path too.
	if err := s.recomputeSubtreePaths(tree, loc); err != nil {
		return nil, err
	}

	return loc, nil
}

// recomputeSubtreePaths rewrites the materialized path of every descendant of
// loc, level by level so each child sees its parent's fresh path.
func (s *Service) recomputeSubtreePaths(tree *Tree, loc *Location) error {
	frontier := []*Location{loc}
	for len(frontier) > 0 {
		var next []*Location
		for _, parent := range frontier {
			for _, child := range tree.ChildrenOf(parent.ID) {
				child.Path = parent.Path + PathSeparator + child.Name
				if err := s.db.Model(&Location{}).Where("id = ?", child.ID).
					Update("path", child.Path).Error; err != nil {
					return fmt.Errorf("failed to recompute path for %s: %w", child.Name, err)
				}
				next = append(next, child)
			}
		}
		frontier = next
	}
	return nil
}
