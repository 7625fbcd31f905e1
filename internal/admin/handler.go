package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockroom/internal/audit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
	sink    *audit.Sink
}

func NewHandler(service *Service, sink *audit.Sink) *Handler {
	return &Handler{service: service, sink: sink}
}

func actorFromContext(c *gin.Context) (uuid.UUID, string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return uuid.Nil, "", false
	}
	name := c.GetString("user_name")
	if name == "" {
		name = c.GetString("email")
	}
	return userID.(uuid.UUID), name, true
}

// GET /api/v1/admin/deleted
func (h *Handler) ListDeleted(c *gin.Context) {
	listing, err := h.service.ListDeleted()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": listing,
	})
}

// POST /api/v1/admin/restore/:type/:id
func (h *Handler) Restore(c *gin.Context) {
	entityType := c.Param("type")
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return
	}

	actorID, actorName, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.service.Restore(entityType, id, actorID, actorName); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrUnknownEntity) {
			status = http.StatusBadRequest
		} else if errors.Is(err, ErrNotDeleted) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to restore: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Restored successfully",
		"restored":  gin.H{"type": entityType, "id": id},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /api/v1/admin/audit-logs?action=&limit=
func (h *Handler) AuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.sink.List(c.Query("action"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    entries,
		"count":   len(entries),
	})
}

// GET /api/v1/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// PUT /api/v1/admin/users/:id/role
func (h *Handler) ChangeRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	actorID, actorName, ok := actorFromContext(c)
	if !ok {
		return
	}

	user, err := h.service.ChangeRole(id, req.Role, actorID, actorName)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrInvalidRole) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": "failed to change role: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"user":      user,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DELETE /api/v1/admin/users/:id
func (h *Handler) DeactivateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	actorID, actorName, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateUser(id, actorID, actorName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate user: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "User deactivated",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
