package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"stockroom/internal/item"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	lowStockCacheKey = "stockroom:low_stock"
	lowStockCacheTTL = 30 * time.Minute
)

// LowStockItem is one line of the low-stock report.
type LowStockItem struct {
	Item        item.Item `json:"item"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	Shortfall   int       `json:"shortfall"`
}

// Service computes the low-stock report: every active item whose tracked
// quantity has fallen below its minimum threshold. Untracked (null quantity)
// items never trigger the signal.
type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

// Scan queries the live item table for low-stock items.
func (s *Service) Scan() ([]LowStockItem, error) {
	var items []item.Item
	if err := s.db.
		Where("deleted_at IS NULL AND quantity IS NOT NULL AND min_quantity IS NOT NULL AND quantity < min_quantity").
		Order("name").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to scan for low stock: %w", err)
	}

	report := make([]LowStockItem, 0, len(items))
	for _, it := range items {
		report = append(report, LowStockItem{
			Item:        it,
			Quantity:    *it.Quantity,
			MinQuantity: *it.MinQuantity,
			Shortfall:   *it.MinQuantity - *it.Quantity,
		})
	}
	return report, nil
}

// Snapshot refreshes the cached report. Without Redis it is a plain scan.
func (s *Service) Snapshot(ctx context.Context) ([]LowStockItem, error) {
	report, err := s.Scan()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, err := json.Marshal(report)
		if err == nil {
			if err := s.redis.Set(ctx, lowStockCacheKey, payload, lowStockCacheTTL).Err(); err != nil {
				log.Printf("⚠️ Failed to cache low-stock snapshot: %v", err)
			}
		}
	}

	return report, nil
}

// Report serves the cached snapshot, falling back to a live scan when the
// cache is cold or Redis is unavailable.
func (s *Service) Report(ctx context.Context) ([]LowStockItem, bool, error) {
	if s.redis != nil {
		payload, err := s.redis.Get(ctx, lowStockCacheKey).Result()
		if err == nil {
			var report []LowStockItem
			if err := json.Unmarshal([]byte(payload), &report); err == nil {
				return report, true, nil
			}
		} else if err != redis.Nil {
			log.Printf("⚠️ Low-stock cache read failed: %v", err)
		}
	}

	report, err := s.Snapshot(ctx)
	return report, false, err
}
