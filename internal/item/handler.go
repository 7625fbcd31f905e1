package item

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

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return uuid.Nil, false
	}
	return id, true
}

func actorID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return uuid.Nil, false
	}
	return userID.(uuid.UUID), true
}

// GET /api/v1/items?location_id=&category_id=
func (h *Handler) List(c *gin.Context) {
	var locationID, categoryID *uuid.UUID
	if raw := c.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location_id filter"})
			return
		}
		locationID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id filter"})
			return
		}
		categoryID = &id
	}

	items, err := h.service.List(locationID, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items: " + err.Error()})
		return
	}

	// Every listing carries the derived availability so the client never has
	// to recompute it.
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		logs, err := h.service.ActiveCheckouts(it.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute availability: " + err.Error()})
			return
		}
		avail := ComputeAvailability(it.Quantity, logs)
		out = append(out, gin.H{
			"item":         it,
			"availability": avail,
			"status_text":  avail.DisplayText(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     out,
		"count":     len(out),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/items/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	it, err := h.service.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logs, err := h.service.CheckoutHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	avail := ComputeAvailability(it.Quantity, logs)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"item":         it,
		"availability": avail,
		"status_text":  avail.DisplayText(),
		"checkout_log": logs,
	})
}

// POST /api/v1/items
func (h *Handler) Create(c *gin.Context) {
	var in ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	duplicates, _ := h.service.CountDuplicates(in.Name, in.LocationID, nil)

	it, err := h.service.Create(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create item: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"item":           it,
		"duplicate_name": duplicates > 0,
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// PUT /api/v1/items/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	it, err := h.service.Update(id, in)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update item: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"item":      it,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type quantityRequest struct {
	Delta *int `json:"delta"`
	Set   *int `json:"set"`
	Clear bool `json:"clear"`
}

// POST /api/v1/items/:id/quantity
//
// One of: {"delta": +1/-1}, {"set": N}, {"clear": true} (switch to untracked).
func (h *Handler) AdjustQuantity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	var it *Item
	var err error
	switch {
	case req.Delta != nil:
		it, err = h.service.AdjustQuantity(id, *req.Delta)
	case req.Set != nil:
		it, err = h.service.SetQuantity(id, req.Set)
	case req.Clear:
		it, err = h.service.SetQuantity(id, nil)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta, set, or clear is required"})
		return
	}
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to adjust quantity: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"item":      it,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/items/:id/availability
func (h *Handler) Availability(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	avail, err := h.service.Availability(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"availability": avail,
		"status_text":  avail.DisplayText(),
	})
}

// POST /api/v1/items/:id/checkout
func (h *Handler) Checkout(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	actor, ok := actorID(c)
	if !ok {
		return
	}

	var in CheckoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	log, err := h.service.Checkout(id, actor, in)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to check out: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Item checked out successfully",
		"checkout_log": log,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// POST /api/v1/items/:id/checkin
func (h *Handler) Checkin(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in CheckinInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	logs, err := h.service.Checkin(id, in)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to check in: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Check-in recorded",
		"updated_logs": logs,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}
