package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/content-intelligence/internal/cache"
	"github.com/shubh-37/content-intelligence/internal/engagement"
	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/models"
)

var fixedNow = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

type memoryStore struct {
	mu        sync.Mutex
	posts     []*models.Post
	profiles  map[string]*models.VoiceProfile
	snapshots []*models.MetricsSnapshot
	tests     map[string]*models.ABTest
	habits    []*models.Habit
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		profiles: make(map[string]*models.VoiceProfile),
		tests:    make(map[string]*models.ABTest),
	}
}

func (m *memoryStore) stores() Stores {
	return Stores{Posts: m, Profiles: m, History: m, State: m, ABTests: m}
}

func (m *memoryStore) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID == "" {
		post.ID = fmt.Sprintf("post-%d", len(m.posts)+1)
	}
	m.posts = append(m.posts, post)
	return nil
}

func (m *memoryStore) GetAuthoredPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Post
	for _, p := range m.posts {
		if p.UserID == userID && !p.IsAIGenerated {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) CountAuthoredPostsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	posts, _ := m.GetAuthoredPosts(ctx, userID)
	n := 0
	for _, p := range posts {
		if p.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) GetPostsNeedingMetrics(ctx context.Context, userID string, staleBefore time.Time) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Post
	for _, p := range m.posts {
		if p.UserID == userID && p.Status == models.StatusPublished &&
			(p.MetricsUpdatedAt == nil || p.MetricsUpdatedAt.Before(staleBefore)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) UpdatePostMetrics(ctx context.Context, postID string, metrics *models.EngagementMetrics, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == postID {
			copied := *metrics
			p.Metrics = &copied
			p.MetricsUpdatedAt = &updatedAt
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

func (m *memoryStore) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *memoryStore) UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
	return nil
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

func (m *memoryStore) GetHabits(ctx context.Context, userID string) ([]*models.Habit, error) {
	return m.habits, nil
}

func (m *memoryStore) GetActiveGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	return nil, nil
}

func (m *memoryStore) CreateABTest(ctx context.Context, test *models.ABTest) error {
	m.tests[test.ID] = test
	return nil
}

func (m *memoryStore) GetABTest(ctx context.Context, id string) (*models.ABTest, error) {
	return m.tests[id], nil
}

func (m *memoryStore) UpdateABTest(ctx context.Context, test *models.ABTest) error {
	m.tests[test.ID] = test
	return nil
}

func (m *memoryStore) ListABTests(ctx context.Context, userID string) ([]*models.ABTest, error) {
	var out []*models.ABTest
	for _, t := range m.tests {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubFetcher struct {
	calls int
}

func (f *stubFetcher) Platform() string { return models.PlatformLinkedIn }

func (f *stubFetcher) FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error) {
	f.calls++
	return &models.EngagementMetrics{Views: 200, Likes: 10, EngagementRate: 5}, nil
}

func seedAuthored(m *memoryStore, userID string, n int) {
	for i := 0; i < n; i++ {
		p := models.NewPost(userID, models.PlatformLinkedIn, fmt.Sprintf("Lesson %d: how to learn faster with this guide.", i), "", "")
		p.ID = fmt.Sprintf("authored-%d", i)
		p.CreatedAt = fixedNow.AddDate(0, 0, -n+i)
		m.posts = append(m.posts, p)
	}
}

func newTestSession(m *memoryStore, seed int64, fetchers ...engagement.MetricsFetcher) *Session {
	s := NewSession("user-1", m.stores(), Options{Seed: seed, Fetchers: fetchers, StaleAfter: time.Hour})
	clock := func() time.Time { return fixedNow }
	s.Voice.SetClock(clock)
	s.Generator.SetClock(clock)
	s.Importer.SetClock(clock)
	s.Analytics.SetClock(clock)
	return s
}

func TestSession_StartWithoutEnoughPosts(t *testing.T) {
	store := newMemoryStore()
	seedAuthored(store, "user-1", 3)
	s := newTestSession(store, 7)

	require.NoError(t, s.Start(context.Background()))
	assert.Nil(t, s.Profile())

	content, err := s.Generate(context.Background(), "habit-streak", "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, content.Content)
	assert.Equal(t, "habit-streak", content.TemplateID)
}

func TestSession_StartBuildsProfile(t *testing.T) {
	store := newMemoryStore()
	seedAuthored(store, "user-1", 12)
	s := newTestSession(store, 7)

	require.NoError(t, s.Start(context.Background()))
	require.NotNil(t, s.Profile())
	assert.Equal(t, 12, s.Profile().PostCount)
	assert.Contains(t, store.profiles, "user-1")
}

func TestSession_RebuildVoiceKeepsProfileUntilThreshold(t *testing.T) {
	store := newMemoryStore()
	seedAuthored(store, "user-1", 12)
	s := newTestSession(store, 7)
	ctx := context.Background()

	require.NoError(t, s.Start(ctx))
	built := s.Profile()
	require.NotNil(t, built)

	for i := 0; i < 2; i++ {
		p := models.NewPost("user-1", models.PlatformLinkedIn, fmt.Sprintf("Fresh take %d on shipping small.", i), "", "")
		p.ID = fmt.Sprintf("fresh-%d", i)
		p.CreatedAt = fixedNow.Add(time.Duration(i+1) * time.Hour)
		store.posts = append(store.posts, p)
	}

	rebuilt, err := s.RebuildVoice(ctx)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Equal(t, 12, s.Profile().PostCount)
	assert.Equal(t, built.LastUpdated, store.profiles["user-1"].LastUpdated)
	assert.Equal(t, 12, store.profiles["user-1"].PostCount)

	for i := 2; i < 5; i++ {
		p := models.NewPost("user-1", models.PlatformLinkedIn, fmt.Sprintf("Fresh take %d on shipping small.", i), "", "")
		p.ID = fmt.Sprintf("fresh-%d", i)
		p.CreatedAt = fixedNow.Add(time.Duration(i+1) * time.Hour)
		store.posts = append(store.posts, p)
	}

	rebuilt, err = s.RebuildVoice(ctx)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, 17, s.Profile().PostCount)
}

func TestSession_SameSeedSameContent(t *testing.T) {
	store := newMemoryStore()
	store.habits = []*models.Habit{{Name: "Running", CurrentStreak: 12, LongestStreak: 20, CompletionRate: 92}}

	a := newTestSession(store, 42)
	b := newTestSession(store, 42)

	first, err := a.Generate(context.Background(), "motivation-quote", "", nil)
	require.NoError(t, err)
	second, err := b.Generate(context.Background(), "motivation-quote", "", nil)
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
}

func TestSession_GenerateForPlatform(t *testing.T) {
	store := newMemoryStore()
	s := newTestSession(store, 3)

	content, err := s.Generate(context.Background(), "habit-streak", models.PlatformTwitter, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformTwitter, content.Platform)
	assert.LessOrEqual(t, len([]rune(content.Content)), 280)

	_, err = s.Generate(context.Background(), "lesson-learned", models.PlatformTwitter, nil)
	assert.ErrorIs(t, err, generator.ErrUnsupportedPlatform)

	_, err = s.Generate(context.Background(), "nope", models.PlatformTwitter, nil)
	assert.ErrorIs(t, err, generator.ErrUnknownTemplate)
}

func TestSession_SavedDraftsDoNotFeedVoice(t *testing.T) {
	store := newMemoryStore()
	seedAuthored(store, "user-1", 9)
	s := newTestSession(store, 5)
	ctx := context.Background()

	content, err := s.Generate(ctx, "tips-list", "", nil)
	require.NoError(t, err)

	post, err := s.SaveDraft(ctx, content, "")
	require.NoError(t, err)
	assert.True(t, post.IsAIGenerated)
	assert.Equal(t, models.StatusDraft, post.Status)
	assert.Equal(t, models.PlatformLinkedIn, post.Platform)
	assert.Equal(t, "tips-list", post.TemplateID)
	assert.Equal(t, float64(content.EngagementScore), post.PerformanceScore)

	rebuilt, err := s.RebuildVoice(ctx)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Nil(t, s.Profile())
}

func TestSession_ImportThenInsights(t *testing.T) {
	store := newMemoryStore()
	published := models.NewPost("user-1", models.PlatformLinkedIn, "shipped it", models.ContentTypeStory, "")
	published.ID = "pub-1"
	published.PlatformPostID = "urn:li:share:1"
	published.Status = models.StatusPublished
	at := fixedNow.Add(-48 * time.Hour)
	published.CreatedAt = at
	published.PublishedAt = &at
	store.posts = append(store.posts, published)

	fetcher := &stubFetcher{}
	s := NewSession("user-1", store.stores(), Options{
		Fetchers:   []engagement.MetricsFetcher{fetcher},
		StaleAfter: time.Hour,
		Cache:      cache.NewRepository(nil, 0),
	})
	s.Importer.SetClock(func() time.Time { return fixedNow })
	s.Analytics.SetClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	result, err := s.ImportMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, fetcher.calls)
	require.NotNil(t, published.Metrics)
	assert.Len(t, store.snapshots, 1)

	insights, err := s.Insights(ctx, 30)
	require.NoError(t, err)
	require.NotEmpty(t, insights)
	for i := 1; i < len(insights); i++ {
		assert.GreaterOrEqual(t, insights[i-1].ImpactScore, insights[i].ImpactScore)
	}
}

func TestManager_ReusesSessions(t *testing.T) {
	store := newMemoryStore()
	m := NewManager(store.stores(), Options{Seed: 1})

	a, err := m.Session(context.Background(), "user-1")
	require.NoError(t, err)
	b, err := m.Session(context.Background(), "user-1")
	require.NoError(t, err)
	c, err := m.Session(context.Background(), "user-2")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, m.Users())
}

type fakeInsightsCache struct {
	cached      map[string][]models.EngagementInsight
	invalidated int
}

func (f *fakeInsightsCache) GetInsights(ctx context.Context, userID string, days int) ([]models.EngagementInsight, error) {
	return f.cached[fmt.Sprintf("%s:%d", userID, days)], nil
}

func (f *fakeInsightsCache) CacheInsights(ctx context.Context, userID string, days int, insights []models.EngagementInsight) error {
	f.cached[fmt.Sprintf("%s:%d", userID, days)] = insights
	return nil
}

func (f *fakeInsightsCache) InvalidateInsights(ctx context.Context, userID string) error {
	f.invalidated++
	for key := range f.cached {
		delete(f.cached, key)
	}
	return nil
}

func TestSession_RecordPostDropsCachedInsights(t *testing.T) {
	store := newMemoryStore()
	s := newTestSession(store, 1)
	insights := &fakeInsightsCache{cached: make(map[string][]models.EngagementInsight)}
	s.insights = insights
	ctx := context.Background()

	stale := []models.EngagementInsight{{Type: "stale", Title: "from before"}}
	require.NoError(t, insights.CacheInsights(ctx, "user-1", 30, stale))

	got, err := s.Insights(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, stale, got)

	post := models.NewPost("someone-else", models.PlatformLinkedIn, "Wrote this one myself.", "", "")
	post.Status = models.StatusPublished
	require.NoError(t, s.RecordPost(ctx, post))

	assert.Equal(t, 1, insights.invalidated)
	assert.Equal(t, "user-1", post.UserID)
	require.Len(t, store.posts, 1)

	got, err = s.Insights(ctx, 30)
	require.NoError(t, err)
	assert.NotEqual(t, stale, got)
}
