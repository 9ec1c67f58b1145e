package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	// Cache key prefixes
	KeyPrefixVoiceProfile = "voice_profile:"
	KeyPrefixInsights     = "insights:"

	// Default TTL for cached items
	DefaultTTL = 30 * time.Minute
)

// Repository is a Redis-backed cache. A nil client turns every call into a miss.
type Repository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient connects to redisURL. An empty URL returns a nil client, which disables caching.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, caching disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")
	return client, nil
}

// NewRepository creates a cache repository; ttl <= 0 falls back to DefaultTTL
func NewRepository(client *redis.Client, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached
func (r *Repository) Enabled() bool {
	return r != nil && r.client != nil
}

// CacheVoiceProfile stores a voice profile in the cache
func (r *Repository) CacheVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	if !r.Enabled() || profile == nil {
		return nil
	}
	return r.set(ctx, KeyPrefixVoiceProfile+profile.UserID, profile)
}

// GetVoiceProfile returns the cached profile, or nil on a miss
func (r *Repository) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	var profile models.VoiceProfile
	hit, err := r.get(ctx, KeyPrefixVoiceProfile+userID, &profile)
	if err != nil || !hit {
		return nil, err
	}
	return &profile, nil
}

// InvalidateVoiceProfile drops the cached profile of a user
func (r *Repository) InvalidateVoiceProfile(ctx context.Context, userID string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Del(ctx, KeyPrefixVoiceProfile+userID).Err()
}

// CacheInsights stores an insight list for a user and window
func (r *Repository) CacheInsights(ctx context.Context, userID string, days int, insights []models.EngagementInsight) error {
	if !r.Enabled() {
		return nil
	}
	if insights == nil {
		insights = []models.EngagementInsight{}
	}
	return r.set(ctx, insightsKey(userID, days), insights)
}

// GetInsights returns the cached insights for a user and window, or nil on a miss.
// A cached empty list comes back as an empty, non-nil slice.
func (r *Repository) GetInsights(ctx context.Context, userID string, days int) ([]models.EngagementInsight, error) {
	var insights []models.EngagementInsight
	hit, err := r.get(ctx, insightsKey(userID, days), &insights)
	if err != nil || !hit {
		return nil, err
	}
	if insights == nil {
		insights = []models.EngagementInsight{}
	}
	return insights, nil
}

// InvalidateInsights drops every cached insight window of a user
func (r *Repository) InvalidateInsights(ctx context.Context, userID string) error {
	if !r.Enabled() {
		return nil
	}

	iter := r.client.Scan(ctx, 0, KeyPrefixInsights+userID+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan insight keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Repository) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *Repository) get(ctx context.Context, key string, out interface{}) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss, not an error
		}
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func insightsKey(userID string, days int) string {
	return fmt.Sprintf("%s%s:%d", KeyPrefixInsights, userID, days)
}
