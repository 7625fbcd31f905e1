package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const cacheTTL = 30 * time.Minute

// Service serves item and location images from R2 with a simple in-memory
// byte cache in front of the bucket.
type Service struct {
	r2 *R2Client

	mu    sync.Mutex
	cache map[string]cachedImage
}

type cachedImage struct {
	data        []byte
	contentType string
	cachedAt    time.Time
}

func NewService(r2 *R2Client) *Service {
	return &Service{
		r2:    r2,
		cache: make(map[string]cachedImage),
	}
}

// ItemImageKey and LocationImageKey name the bucket folders.
func ItemImageKey(itemID uuid.UUID, ext string) string {
	return fmt.Sprintf("items/%s%s", itemID, ext)
}

func LocationImageKey(locationID uuid.UUID, ext string) string {
	return fmt.Sprintf("locations/%s%s", locationID, ext)
}

// GetImageData fetches image bytes, from cache when fresh.
func (s *Service) GetImageData(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		if time.Since(cached.cachedAt) < cacheTTL {
			s.mu.Unlock()
			return cached.data, cached.contentType, nil
		}
		delete(s.cache, key)
	}
	s.mu.Unlock()

	body, contentType, err := s.r2.GetObject(ctx, key)
	if err != nil {
		return nil, "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	s.mu.Lock()
	s.cache[key] = cachedImage{data: data, contentType: contentType, cachedAt: time.Now()}
	s.mu.Unlock()

	return data, contentType, nil
}

// UploadImage stores image bytes and drops any stale cache entry.
func (s *Service) UploadImage(ctx context.Context, key string, data []byte, contentType string) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unsupported content type: %s", contentType)
	}

	if err := s.r2.PutObject(ctx, key, data, contentType); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}

// CleanupCache evicts expired entries. Run periodically.
func (s *Service) CleanupCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, cached := range s.cache {
		if time.Since(cached.cachedAt) >= cacheTTL {
			delete(s.cache, key)
		}
	}
}
