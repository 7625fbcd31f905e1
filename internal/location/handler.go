package location

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type LocationRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// GET /api/v1/locations
func (h *Handler) List(c *gin.Context) {
	tree, err := h.service.LoadTree()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations: " + err.Error()})
		return
	}

	var locations []Location
	var walk func(nodes []*Location)
	walk = func(nodes []*Location) {
		for _, node := range nodes {
			locations = append(locations, *node)
			walk(tree.ChildrenOf(node.ID))
		}
	}
	walk(tree.Roots())

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"locations": locations,
		"count":     len(locations),
	})
}

// GET /api/v1/locations/tree
func (h *Handler) GetTree(c *gin.Context) {
	tree, err := h.service.LoadTree()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations: " + err.Error()})
		return
	}

	var build func(nodes []*Location) []gin.H
	build = func(nodes []*Location) []gin.H {
		out := make([]gin.H, 0, len(nodes))
		for _, node := range nodes {
			out = append(out, gin.H{
				"id":       node.ID,
				"name":     node.Name,
				"path":     node.Path,
				"children": build(tree.ChildrenOf(node.ID)),
			})
		}
		return out
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tree":    build(tree.Roots()),
	})
}

// GET /api/v1/locations/:id/children
func (h *Handler) Children(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	tree, err := h.service.LoadTree()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations: " + err.Error()})
		return
	}

	children := tree.ChildrenOf(id)
	out := make([]Location, 0, len(children))
	for _, child := range children {
		out = append(out, *child)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"children": out,
		"count":    len(out),
	})
}

// GET /api/v1/locations/:id/candidate-parents
//
// Everything except the location itself and its descendants, so the UI can
// never create a cycle.
func (h *Handler) CandidateParents(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	tree, err := h.service.LoadTree()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load locations: " + err.Error()})
		return
	}

	loc := tree.Get(id)
	if loc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	candidates := tree.ValidCandidateParents(loc)
	out := make([]Location, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, *candidate)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"candidates": out,
		"count":      len(out),
	})
}

// POST /api/v1/locations
func (h *Handler) Create(c *gin.Context) {
	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	loc, err := h.service.Create(req.Name, req.Description, req.ParentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create location: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"location":  loc,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// PUT /api/v1/locations/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	loc, err := h.service.Update(id, req.Name, req.Description, req.ParentID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update location: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"location":  loc,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
