package reorder

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

// GET /api/v1/reorders?status=&center_id=
func (h *Handler) List(c *gin.Context) {
	var centerID *uuid.UUID
	if raw := c.Query("center_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid center_id filter"})
			return
		}
		centerID = &id
	}

	requests, err := h.service.List(c.Query("status"), centerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
		"count":    len(requests),
	})
}

// POST /api/v1/reorders
func (h *Handler) Create(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	var in RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	req, err := h.service.Create(in, userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create reorder request: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"request":   req,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// PUT /api/v1/reorders/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var in RequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	req, err := h.service.Update(id, in)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update reorder request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"request":   req,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type statusRequest struct {
	Status          string     `json:"status" binding:"required"`
	PurchasedBy     *uuid.UUID `json:"purchased_by"`
	PurchasedByName string     `json:"purchased_by_name"`
}

// POST /api/v1/reorders/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(id, req.Status, req.PurchasedBy, req.PurchasedByName)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrBadTransition) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": "failed to update status: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"request":   updated,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type fulfillRequest struct {
	LocationID uuid.UUID `json:"location_id" binding:"required"`
}

// POST /api/v1/reorders/:id/fulfill
func (h *Handler) Fulfill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req fulfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	updated, created, err := h.service.Fulfill(id, req.LocationID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrAlreadyFulfilled) || errors.Is(err, ErrNotYetArrived) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": "failed to fulfill request: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"request":   updated,
		"item":      created,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
