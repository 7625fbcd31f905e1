package stock

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GET /api/v1/dashboard/low-stock
func (h *Handler) LowStock(c *gin.Context) {
	report, cached, err := h.service.Report(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build low-stock report: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"items":     report,
		"count":     len(report),
		"cached":    cached,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
