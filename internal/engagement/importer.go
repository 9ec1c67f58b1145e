package engagement

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// PostStore is the published-post side of the store
type PostStore interface {
	GetPostsNeedingMetrics(ctx context.Context, userID string, staleBefore time.Time) ([]*models.Post, error)
	UpdatePostMetrics(ctx context.Context, postID string, metrics *models.EngagementMetrics, updatedAt time.Time) error
	GetPublishedPosts(ctx context.Context, userID string, since time.Time) ([]*models.Post, error)
}

// HistoryStore is the append-only metrics time series
type HistoryStore interface {
	AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) error
	GetMetricsHistory(ctx context.Context, postID string) ([]*models.MetricsSnapshot, error)
}

// ImportResult summarizes one import batch
type ImportResult struct {
	Attempted int `json:"attempted"`
	Imported  int `json:"imported"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Importer pulls metrics for one user's published posts, one call at a time
type Importer struct {
	userID     string
	posts      PostStore
	history    HistoryStore
	fetchers   map[string]MetricsFetcher
	limiter    *rate.Limiter
	staleAfter time.Duration
	now        func() time.Time
}

// NewImporter spaces platform calls at least delay apart. Posts whose metrics
// are younger than staleAfter are left alone.
func NewImporter(userID string, posts PostStore, history HistoryStore, fetchers []MetricsFetcher, delay, staleAfter time.Duration) *Importer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	byPlatform := make(map[string]MetricsFetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}

	return &Importer{
		userID:     userID,
		posts:      posts,
		history:    history,
		fetchers:   byPlatform,
		limiter:    rate.NewLimiter(limit, 1),
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// SetClock replaces the time source used for staleness and snapshot stamps
func (im *Importer) SetClock(now func() time.Time) {
	im.now = now
}

// ImportMetrics fetches fresh metrics for every published post that needs them.
// A failed platform call or metrics write is counted as failed and the batch moves on;
// only loading the batch and context cancellation abort it.
func (im *Importer) ImportMetrics(ctx context.Context) (ImportResult, error) {
	var result ImportResult

	posts, err := im.posts.GetPostsNeedingMetrics(ctx, im.userID, im.now().Add(-im.staleAfter))
	if err != nil {
		return result, fmt.Errorf("failed to load posts needing metrics: %w", err)
	}

	log.Printf("📊 Importing metrics for %d posts (user %s)", len(posts), im.userID)

	for _, post := range posts {
		if post.PlatformPostID == "" {
			result.Skipped++
			continue
		}

		fetcher, ok := im.fetchers[post.Platform]
		if !ok {
			log.Printf("⚠️ Skipping post %s: %v: %s", post.ID, ErrUnsupportedPlatform, post.Platform)
			result.Skipped++
			continue
		}

		if err := im.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("import interrupted: %w", err)
		}

		result.Attempted++
		metrics, err := fetcher.FetchMetrics(ctx, post.PlatformPostID)
		if err != nil {
			log.Printf("⚠️ Failed to fetch %s metrics for post %s: %v", post.Platform, post.ID, err)
			result.Failed++
			continue
		}

		if err := im.RecordMetrics(ctx, post, metrics); err != nil {
			log.Printf("⚠️ %v", err)
			result.Failed++
			continue
		}
		result.Imported++
	}

	log.Printf("✅ Metrics import done: %d imported, %d failed, %d skipped", result.Imported, result.Failed, result.Skipped)
	return result, nil
}

// RecordMetrics overwrites the post's current metrics and appends a history entry
func (im *Importer) RecordMetrics(ctx context.Context, post *models.Post, metrics *models.EngagementMetrics) error {
	now := im.now()

	if err := im.posts.UpdatePostMetrics(ctx, post.ID, metrics, now); err != nil {
		return fmt.Errorf("failed to save metrics for post %s: %w", post.ID, err)
	}
	post.Metrics = metrics
	post.MetricsUpdatedAt = &now

	snapshot := &models.MetricsSnapshot{
		ID:         uuid.New().String(),
		PostID:     post.ID,
		UserID:     post.UserID,
		Platform:   post.Platform,
		Metrics:    *metrics,
		RecordedAt: now,
	}
	if err := im.history.AppendSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to append metrics history for post %s: %w", post.ID, err)
	}

	return nil
}
