package engagement

import (
	"context"
	"sync"
	"time"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// memoryStore backs PostStore, HistoryStore and ABTestStore in tests
type memoryStore struct {
	mu        sync.Mutex
	posts     []*models.Post
	snapshots []*models.MetricsSnapshot
	tests     map[string]*models.ABTest
	// writeErrs fails UpdatePostMetrics for the listed post IDs
	writeErrs map[string]error
}

func newMemoryStore(posts ...*models.Post) *memoryStore {
	return &memoryStore{posts: posts, tests: make(map[string]*models.ABTest)}
}

func (m *memoryStore) GetPostsNeedingMetrics(ctx context.Context, userID string, staleBefore time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Post
	for _, p := range m.posts {
		if p.UserID != userID || p.Status != models.StatusPublished {
			continue
		}
		if p.MetricsUpdatedAt == nil || p.MetricsUpdatedAt.Before(staleBefore) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) UpdatePostMetrics(ctx context.Context, postID string, metrics *models.EngagementMetrics, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErrs[postID]; err != nil {
		return err
	}
	for _, p := range m.posts {
		if p.ID == postID {
			copied := *metrics
			p.Metrics = &copied
			p.MetricsUpdatedAt = &updatedAt
			return nil
		}
	}
	return nil
}

func (m *memoryStore) GetPublishedPosts(ctx context.Context, userID string, since time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Post
	for _, p := range m.posts {
		if p.UserID == userID && p.Status == models.StatusPublished && !p.PostedAt().Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot)
	return nil
}

func (m *memoryStore) GetMetricsHistory(ctx context.Context, postID string) ([]*models.MetricsSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.MetricsSnapshot
	for _, s := range m.snapshots {
		if s.PostID == postID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) CreateABTest(ctx context.Context, test *models.ABTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[test.ID] = test
	return nil
}

func (m *memoryStore) GetABTest(ctx context.Context, id string) (*models.ABTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tests[id], nil
}

func (m *memoryStore) UpdateABTest(ctx context.Context, test *models.ABTest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[test.ID] = test
	return nil
}

func (m *memoryStore) ListABTests(ctx context.Context, userID string) ([]*models.ABTest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ABTest
	for _, t := range m.tests {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubFetcher struct {
	platform string
	metrics  map[string]*models.EngagementMetrics
	errs     map[string]error
	calls    int
}

func (f *stubFetcher) Platform() string { return f.platform }

func (f *stubFetcher) FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error) {
	f.calls++
	if err := f.errs[platformPostID]; err != nil {
		return nil, err
	}
	m := *f.metrics[platformPostID]
	return &m, nil
}

func publishedPost(id, platform, contentType string, at time.Time, rate float64) *models.Post {
	p := models.NewPost("user-1", platform, "post "+id, contentType, "")
	p.ID = id
	p.PlatformPostID = "ext-" + id
	p.Status = models.StatusPublished
	p.CreatedAt = at
	p.PublishedAt = &at
	if rate >= 0 {
		p.Metrics = &models.EngagementMetrics{EngagementRate: rate}
	}
	return p
}
