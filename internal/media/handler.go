package media

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"stockroom/internal/item"
	"stockroom/internal/location"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadSize = 10 << 20 // 10 MiB

type Handler struct {
	service *Service
	db      *gorm.DB
}

func NewHandler(service *Service, db *gorm.DB) *Handler {
	// Evict expired cache entries every 10 minutes
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			service.CleanupCache()
		}
	}()

	return &Handler{service: service, db: db}
}

// POST /api/v1/items/:id/image (multipart form, field "image")
func (h *Handler) UploadItemImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var count int64
	h.db.Model(&item.Item{}).Where("id = ? AND deleted_at IS NULL", id).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	key, err := h.storeUpload(c, func(ext string) string { return ItemImageKey(id, ext) })
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL := "/api/v1/media/" + key
	if err := h.db.Model(&item.Item{}).Where("id = ?", id).
		Update("image_url", imageURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image reference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"image_url": imageURL,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// POST /api/v1/locations/:id/image (multipart form, field "image")
func (h *Handler) UploadLocationImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var count int64
	h.db.Model(&location.Location{}).Where("id = ? AND deleted_at IS NULL", id).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	key, err := h.storeUpload(c, func(ext string) string { return LocationImageKey(id, ext) })
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL := "/api/v1/media/" + key
	if err := h.db.Model(&location.Location{}).Where("id = ?", id).
		Update("image_url", imageURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save image reference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"image_url": imageURL,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) storeUpload(c *gin.Context, keyFor func(ext string) string) (string, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		return "", fmt.Errorf("image file is required")
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		return "", fmt.Errorf("image too large (max %d bytes)", maxUploadSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}

	key := keyFor(ext)
	if err := h.service.UploadImage(c.Request.Context(), key, data, contentType); err != nil {
		return "", err
	}

	log.Printf("🖼️ Uploaded image %s (%d bytes)", key, len(data))
	return key, nil
}

// GET /api/v1/media/*key
func (h *Handler) GetImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image key required"})
		return
	}

	data, contentType, err := h.service.GetImageData(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("ETag", fmt.Sprintf(`"%s"`, key))
	if match := c.GetHeader("If-None-Match"); match == fmt.Sprintf(`"%s"`, key) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}
