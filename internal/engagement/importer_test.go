package engagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/content-intelligence/internal/models"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func TestImportMetrics_SkipsFailedCalls(t *testing.T) {
	store := newMemoryStore(
		publishedPost("p1", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p2", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p3", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
	)
	fetcher := &stubFetcher{
		platform: models.PlatformLinkedIn,
		metrics: map[string]*models.EngagementMetrics{
			"ext-p1": {Likes: 10, EngagementRate: 2},
			"ext-p3": {Likes: 30, EngagementRate: 6},
		},
		errs: map[string]error{"ext-p2": errors.New("timeout")},
	}

	im := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 0, time.Hour)
	im.SetClock(func() time.Time { return t0.Add(2 * time.Hour) })

	result, err := im.ImportMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Attempted: 3, Imported: 2, Failed: 1}, result)
	assert.Equal(t, 3, fetcher.calls)

	assert.Equal(t, 10, store.posts[0].Metrics.Likes)
	assert.Nil(t, store.posts[1].Metrics)
	assert.Equal(t, 30, store.posts[2].Metrics.Likes)
	assert.Len(t, store.snapshots, 2)
}

func TestImportMetrics_StoreFailureSkipsOnlyThatPost(t *testing.T) {
	store := newMemoryStore(
		publishedPost("p1", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p2", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p3", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
	)
	store.writeErrs = map[string]error{"p2": errors.New("record not found")}
	fetcher := &stubFetcher{
		platform: models.PlatformLinkedIn,
		metrics: map[string]*models.EngagementMetrics{
			"ext-p1": {Likes: 10, EngagementRate: 2},
			"ext-p2": {Likes: 20, EngagementRate: 4},
			"ext-p3": {Likes: 30, EngagementRate: 6},
		},
	}

	im := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 0, time.Hour)
	im.SetClock(func() time.Time { return t0.Add(2 * time.Hour) })

	result, err := im.ImportMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Attempted: 3, Imported: 2, Failed: 1}, result)

	assert.Nil(t, store.posts[1].Metrics)
	assert.Equal(t, 30, store.posts[2].Metrics.Likes)
	assert.Len(t, store.snapshots, 2)
}

func TestImportMetrics_OverwritesPostButAppendsHistory(t *testing.T) {
	post := publishedPost("p1", models.PlatformTwitter, models.ContentTypeTips, t0, -1)
	store := newMemoryStore(post)
	fetcher := &stubFetcher{
		platform: models.PlatformTwitter,
		metrics:  map[string]*models.EngagementMetrics{"ext-p1": {Views: 100, Likes: 5, EngagementRate: 5}},
	}

	now := t0
	im := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 0, 30*time.Minute)
	im.SetClock(func() time.Time { return now })

	_, err := im.ImportMetrics(context.Background())
	require.NoError(t, err)

	// fresh metrics are not refetched
	result, err := im.ImportMetrics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Attempted)

	now = t0.Add(time.Hour)
	_, err = im.ImportMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &models.EngagementMetrics{Views: 100, Likes: 5, EngagementRate: 5}, post.Metrics)
	assert.Equal(t, now, *post.MetricsUpdatedAt)

	history, err := store.GetMetricsHistory(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, t0, history[0].RecordedAt)
	assert.Equal(t, now, history[1].RecordedAt)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestImportMetrics_SkipsUnknownPlatformAndMissingIDs(t *testing.T) {
	noID := publishedPost("p1", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1)
	noID.PlatformPostID = ""
	store := newMemoryStore(
		noID,
		publishedPost("p2", "mastodon", models.ContentTypeTips, t0, -1),
	)
	fetcher := &stubFetcher{platform: models.PlatformLinkedIn}

	result, err := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 0, time.Hour).ImportMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Skipped: 2}, result)
	assert.Zero(t, fetcher.calls)
}

func TestImportMetrics_SpacesCalls(t *testing.T) {
	store := newMemoryStore(
		publishedPost("p1", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p2", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
		publishedPost("p3", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1),
	)
	fetcher := &stubFetcher{
		platform: models.PlatformLinkedIn,
		metrics: map[string]*models.EngagementMetrics{
			"ext-p1": {}, "ext-p2": {}, "ext-p3": {},
		},
	}

	start := time.Now()
	result, err := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 25*time.Millisecond, time.Hour).ImportMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestImportMetrics_CancelledContext(t *testing.T) {
	store := newMemoryStore(publishedPost("p1", models.PlatformLinkedIn, models.ContentTypeTips, t0, -1))
	fetcher := &stubFetcher{platform: models.PlatformLinkedIn}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewImporter("user-1", store, store, []MetricsFetcher{fetcher}, 0, time.Hour).ImportMetrics(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Attempted)
	assert.Zero(t, fetcher.calls)
}
