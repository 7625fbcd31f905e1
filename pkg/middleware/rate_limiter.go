package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AdminRateLimiter throttles destructive admin endpoints (cascade deletes,
// restores, role changes) per user. Counters live in Redis with a one
// minute window; without Redis everything is allowed.
type AdminRateLimiter struct {
	client *redis.Client
}

func NewAdminRateLimiter(client *redis.Client) *AdminRateLimiter {
	return &AdminRateLimiter{client: client}
}

const adminRequestsPerMinute = 30

func (rl *AdminRateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		key := fmt.Sprintf("stockroom:admin_rate:%s", userID.(uuid.UUID).String())

		if !rl.allow(key) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(adminRequestsPerMinute))
			c.Header("X-RateLimit-Remaining", "0")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many admin operations. Wait a minute and try again.",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(adminRequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rl.remaining(key)))

		c.Next()
	}
}

func (rl *AdminRateLimiter) allow(key string) bool {
	if rl.client == nil {
		return true // Allow if Redis unavailable
	}

	val, err := rl.client.Get(context.Background(), key).Result()
	if err != nil && err != redis.Nil {
		return true // Allow if Redis error
	}

	var currentCount int
	if err != redis.Nil {
		currentCount, _ = strconv.Atoi(val)
	}

	if currentCount >= adminRequestsPerMinute {
		return false
	}

	pipe := rl.client.Pipeline()
	pipe.Incr(context.Background(), key)
	pipe.Expire(context.Background(), key, time.Minute)
	if _, err := pipe.Exec(context.Background()); err != nil {
		fmt.Printf("Admin rate limiter error: %v\n", err)
	}

	return true
}

func (rl *AdminRateLimiter) remaining(key string) int {
	if rl.client == nil {
		return adminRequestsPerMinute
	}

	val, err := rl.client.Get(context.Background(), key).Result()
	if err != nil {
		return adminRequestsPerMinute
	}

	currentCount, _ := strconv.Atoi(val)
	if currentCount >= adminRequestsPerMinute {
		return 0
	}
	return adminRequestsPerMinute - currentCount
}
