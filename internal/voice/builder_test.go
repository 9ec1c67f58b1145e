package voice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/content-intelligence/internal/models"
)

type memoryStore struct {
	posts   []*models.Post
	profile *models.VoiceProfile
	upserts int
}

func (m *memoryStore) GetAuthoredPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range m.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) CountAuthoredPostsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	n := 0
	for _, p := range m.posts {
		if p.UserID == userID && !p.IsAIGenerated && p.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	if m.profile != nil && m.profile.UserID == userID {
		return m.profile, nil
	}
	return nil, nil
}

func (m *memoryStore) UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	m.profile = profile
	m.upserts++
	return nil
}

var base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

func educationalPosts(n int) []*models.Post {
	posts := make([]*models.Post, n)
	for i := range posts {
		p := models.NewPost("user-1", models.PlatformLinkedIn,
			fmt.Sprintf("Lesson %d: how to learn faster with this guide and these steps.", i+1),
			models.ContentTypeEducational, "")
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		posts[i] = p
	}
	return posts
}

func newTestBuilder(store *memoryStore) *Builder {
	b := NewBuilder("user-1", store, store)
	b.SetClock(func() time.Time { return base.Add(48 * time.Hour) })
	return b
}

func TestInitialize_InsufficientPostsIsNoop(t *testing.T) {
	store := &memoryStore{posts: educationalPosts(9)}
	b := newTestBuilder(store)

	profile, err := b.Initialize(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Zero(t, store.upserts)

	// a second call is still a no-op
	profile, err = b.Initialize(context.Background())
	require.NoError(t, err)
	assert.Nil(t, profile)
	assert.Zero(t, store.upserts)
}

func TestRebuild_InsufficientPostsKeepsExistingProfile(t *testing.T) {
	existing := &models.VoiceProfile{UserID: "user-1", Confidence: 42, LastUpdated: base}
	store := &memoryStore{posts: educationalPosts(4), profile: existing}
	b := newTestBuilder(store)

	rebuilt, err := b.rebuild(context.Background())
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, existing, store.profile)
}

func TestRebuild_IgnoresGeneratedPosts(t *testing.T) {
	posts := educationalPosts(12)
	for _, p := range posts[:3] {
		p.IsAIGenerated = true
	}
	store := &memoryStore{posts: posts}

	rebuilt, err := newTestBuilder(store).rebuild(context.Background())
	require.NoError(t, err)
	assert.False(t, rebuilt, "only 9 authored posts remain")
}

func TestInitialize_ConfidenceFromPostCount(t *testing.T) {
	for _, n := range []int{10, 25, 50, 80} {
		t.Run(fmt.Sprintf("%d posts", n), func(t *testing.T) {
			store := &memoryStore{posts: educationalPosts(n)}
			profile, err := newTestBuilder(store).Initialize(context.Background())
			require.NoError(t, err)
			require.NotNil(t, profile)

			want := float64(n) * 100 / 50
			if want > 100 {
				want = 100
			}
			assert.Equal(t, want, profile.Confidence)
			assert.Equal(t, n, profile.PostCount)
			assert.Equal(t, 1, store.upserts)
		})
	}
}

func TestInitialize_EducationalLinkedInScenario(t *testing.T) {
	store := &memoryStore{posts: educationalPosts(10)}

	profile, err := newTestBuilder(store).Initialize(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, 1.0, profile.ToneProfile.Educational)
	assert.Equal(t, 0.0, profile.ToneProfile.Professional)
	assert.Equal(t, 0.0, profile.ToneProfile.Casual)
	assert.Equal(t, 0.0, profile.ToneProfile.Inspirational)
	assert.Equal(t, 20.0, profile.Confidence)
	assert.Equal(t, base.Add(48*time.Hour), profile.LastUpdated)

	linkedin, ok := profile.PlatformAdaptation[models.PlatformLinkedIn]
	require.True(t, ok)
	assert.Equal(t, 10, linkedin.PostCount)
	assert.Equal(t, models.ToneEducational, linkedin.PreferredTone)
}

func TestInitialize_ReusesProfileBelowThreshold(t *testing.T) {
	posts := educationalPosts(14)
	existing := &models.VoiceProfile{UserID: "user-1", LastUpdated: posts[9].CreatedAt}
	store := &memoryStore{posts: posts, profile: existing}

	profile, err := newTestBuilder(store).Initialize(context.Background())
	require.NoError(t, err)
	assert.Same(t, existing, profile)
	assert.Zero(t, store.upserts)
}

func TestInitialize_RebuildsAtThreshold(t *testing.T) {
	posts := educationalPosts(15)
	existing := &models.VoiceProfile{UserID: "user-1", LastUpdated: posts[9].CreatedAt}
	store := &memoryStore{posts: posts, profile: existing}

	profile, err := newTestBuilder(store).Initialize(context.Background())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.NotSame(t, existing, profile)
	assert.Equal(t, 15, profile.PostCount)
	assert.Equal(t, 1, store.upserts)
}

func TestRefresh_ReportsWhetherProfileWasReplaced(t *testing.T) {
	posts := educationalPosts(12)
	existing := &models.VoiceProfile{UserID: "user-1", LastUpdated: posts[9].CreatedAt}
	store := &memoryStore{posts: posts, profile: existing}
	b := newTestBuilder(store)

	rebuilt, err := b.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, rebuilt, "2 new posts are below the threshold")
	assert.Same(t, existing, b.Profile())
	assert.Zero(t, store.upserts)

	store.profile = nil
	rebuilt, err = b.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.Equal(t, 12, b.Profile().PostCount)
	assert.Equal(t, 1, store.upserts)
}

func TestBuildProfile_EngagementPatternDefaults(t *testing.T) {
	profile := BuildProfile("user-1", educationalPosts(10), base)

	assert.Equal(t, models.EngagementPatterns{
		BestLength:       250,
		BestTone:         models.ToneInspirational,
		BestTime:         "09:00",
		BestHashtagCount: 5,
	}, profile.EngagementPatterns)
}

func TestBuildProfile_EngagementPatternsFromTopPerformers(t *testing.T) {
	posts := educationalPosts(10)
	for i, p := range posts {
		p.Metrics = &models.EngagementMetrics{EngagementRate: float64(i + 1)}
	}

	top1 := posts[9]
	top1.Content = "Believe in your dream and the journey becomes possible #mindset #growth #goals"
	published := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	top1.PublishedAt = &published

	top2 := posts[8]
	top2.Content = "Never stop. Your passion has purpose #a #b #c #d #e"
	published2 := time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC)
	top2.PublishedAt = &published2

	profile := BuildProfile("user-1", posts, base)
	ep := profile.EngagementPatterns

	assert.Equal(t, 2, ep.SampleSize)
	assert.Equal(t, models.ToneInspirational, ep.BestTone)
	assert.Equal(t, "14:00", ep.BestTime)
	assert.Equal(t, 4, ep.BestHashtagCount)
}

func TestBuildProfile_LanguageAndVocabulary(t *testing.T) {
	posts := []*models.Post{
		{UserID: "u", Platform: models.PlatformTwitter, Content: "Morning routine wins again! 🔥 #habits"},
		{UserID: "u", Platform: models.PlatformTwitter, Content: "What is your morning routine? #habits #focus"},
		{UserID: "u", Platform: models.PlatformTwitter, Content: "Deep work and a morning routine beat motivation."},
		{UserID: "u", Platform: models.PlatformTwitter, Content: "I help founders build calm companies. https://example.com"},
	}

	profile := BuildProfile("u", posts, base)
	lp := profile.LanguagePatterns

	assert.Equal(t, 0.25, lp.EmojiUsage)
	assert.Equal(t, 0.25, lp.QuestionUsage)
	assert.Equal(t, 0.25, lp.ExclamationUsage)
	assert.Equal(t, 0.25, lp.LinkUsage)
	assert.Equal(t, 0.75, lp.HashtagUsage)

	assert.Contains(t, profile.Vocabulary.Phrases, "morning routine")
	assert.Equal(t, "morning", profile.Vocabulary.CommonWords[0])
	assert.Contains(t, profile.Vocabulary.BrandingPhrases, "i help founders build calm companies")
	assert.LessOrEqual(t, len(profile.Vocabulary.CommonWords), maxCommonWords)
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 20.0, Confidence(10))
	assert.Equal(t, 100.0, Confidence(50))
	assert.Equal(t, 100.0, Confidence(500))
}
