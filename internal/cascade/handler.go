package cascade

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	coordinator *Coordinator
}

func NewHandler(coordinator *Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

func actorFromContext(c *gin.Context) (Actor, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return Actor{}, false
	}
	email, _ := c.Get("email")
	name, _ := c.Get("user_name")

	actor := Actor{ID: userID.(uuid.UUID)}
	if s, ok := email.(string); ok {
		actor.Email = s
	}
	if s, ok := name.(string); ok {
		actor.Name = s
	}
	if actor.Name == "" {
		actor.Name = actor.Email
	}
	return actor, true
}

// GET /api/v1/locations/:id/cascade-preview
//
// Read-only discovery pass: everything a delete of this location would touch,
// for the confirmation checklist.
func (h *Handler) Preview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	set, err := h.coordinator.Discover(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrLocationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"target":          set.Target,
		"child_locations": set.Locations,
		"items":           set.Items,
		"totals": gin.H{
			"locations": set.TotalLocations(),
			"items":     len(set.Items),
		},
	})
}

// POST /api/v1/locations/:id/cascade-delete
//
// The affected set is re-discovered on submission; the acknowledgments in the
// request body must cover it completely. If the tree changed since the
// preview, the gate fails and the operator has to re-confirm.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var conf Confirmation
	if err := c.ShouldBindJSON(&conf); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	set, err := h.coordinator.Discover(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrLocationNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if err := h.coordinator.Execute(set, conf, actor); err != nil {
		if errors.Is(err, ErrGateNotPassed) {
			c.JSON(http.StatusPreconditionFailed, gin.H{
				"error":          "confirmation incomplete",
				"missing_checks": set.MissingChecks(conf, actor.Email),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete location: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Location and contents deleted",
		"deleted": gin.H{
			"target":          set.Target.ID,
			"child_locations": len(set.Locations),
			"items":           len(set.Items),
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DELETE /api/v1/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.coordinator.DeleteItem(id, actor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete item: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Item deleted successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
