package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// 2024-03-04 is a Monday
func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestPlatformAnalytics(t *testing.T) {
	a := publishedPost("li-a", models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 6)
	b := publishedPost("li-b", models.PlatformLinkedIn, models.ContentTypeTips, at(5, 9), 2)
	c := publishedPost("li-c", models.PlatformLinkedIn, models.ContentTypeTips, at(5, 14), 9)
	a.Metrics.Views, a.Metrics.Likes, a.Metrics.Comments = 100, 10, 2
	c.Metrics.Views, c.Metrics.Shares = 300, 4
	tw := publishedPost("tw-a", models.PlatformTwitter, models.ContentTypeTips, at(6, 8), 1)
	unmeasured := publishedPost("tw-b", models.PlatformTwitter, models.ContentTypeTips, at(6, 8), -1)

	result := PlatformAnalytics([]*models.Post{a, b, c, tw, unmeasured})
	require.Len(t, result, 2)

	li := result[0]
	assert.Equal(t, models.PlatformLinkedIn, li.Platform)
	assert.Equal(t, 3, li.PostCount)
	assert.Equal(t, 400, li.TotalViews)
	assert.Equal(t, 16, li.TotalEngagement)
	assert.InDelta(t, 17.0/3.0, li.AvgEngagementRate, 1e-9)
	assert.Equal(t, "li-c", li.BestPostID)
	// chosen independently: the best hour comes from Tuesday, the best day is Monday
	assert.Equal(t, "14:00", li.BestPostingTime)
	assert.Equal(t, "Monday", li.BestPostingDay)

	assert.Equal(t, models.PlatformTwitter, result[1].Platform)
	assert.Equal(t, 1, result[1].PostCount)
}

func TestContentAnalytics(t *testing.T) {
	mk := func(id string, rate float64, content string) *models.Post {
		p := publishedPost(id, models.PlatformLinkedIn, models.ContentTypeEducational, at(4, 9), rate)
		p.Content = content
		return p
	}
	posts := []*models.Post{
		mk("a", 1, "no tags here"),
		mk("b", 1, "one #Growth"),
		mk("c", 6, "four #growth #habits #focus #tips"),
		mk("d", 8, "five #growth #habits #focus #tips #mindset plus some extra words"),
		publishedPost("e", models.PlatformLinkedIn, "", at(4, 9), 2),
	}

	result := ContentAnalytics(posts)
	require.Len(t, result, 2)

	edu := result[0]
	assert.Equal(t, models.ContentTypeEducational, edu.ContentType)
	assert.Equal(t, 4, edu.PostCount)
	assert.InDelta(t, 4.0, edu.AvgEngagementRate, 1e-9)
	assert.Equal(t, len([]rune(posts[3].Content)), edu.BestLength)
	assert.Equal(t, 4, edu.OptimalHashtagCount)
	assert.Equal(t, []string{"#growth", "#focus", "#habits", "#tips", "#mindset"}, edu.TopHashtags)

	assert.Equal(t, "unknown", result[1].ContentType)
}

func TestContentAnalytics_PrefersStoredHashtags(t *testing.T) {
	p := publishedPost("a", models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 3)
	p.Content = "text #ignored"
	p.Hashtags = []string{"#Stored", "other"}

	result := ContentAnalytics([]*models.Post{p})
	require.Len(t, result, 1)
	assert.Equal(t, []string{"#other", "#stored"}, result[0].TopHashtags)
	assert.Equal(t, 2, result[0].OptimalHashtagCount)
}

func TestTimeAnalytics(t *testing.T) {
	a := publishedPost("a", models.PlatformLinkedIn, models.ContentTypeTips, at(5, 9), 4)
	b := publishedPost("b", models.PlatformLinkedIn, models.ContentTypeTips, at(5, 9), 2)
	c := publishedPost("c", models.PlatformLinkedIn, models.ContentTypeTips, at(9, 14), 1)
	a.Metrics.Reach, b.Metrics.Reach, c.Metrics.Reach = 100, 300, 50

	result := TimeAnalytics([]*models.Post{a, b, c})
	require.Len(t, result, 2)

	top := result[0]
	assert.Equal(t, 9, top.Hour)
	assert.Equal(t, "Tuesday", top.DayOfWeek)
	assert.Equal(t, 2, top.PostCount)
	assert.InDelta(t, 3.0, top.AvgEngagementRate, 1e-9)
	assert.InDelta(t, 200.0, top.AvgReach, 1e-9)
	assert.InDelta(t, 1.32, top.ReachMultiplier, 1e-9)
	assert.InDelta(t, 264.0, top.AdjustedReach, 1e-9)

	assert.Equal(t, "Saturday", result[1].DayOfWeek)
	assert.InDelta(t, 1.0, result[1].ReachMultiplier, 1e-9)
}

func TestReachMultiplier(t *testing.T) {
	assert.InDelta(t, 1.2, ReachMultiplier(12, time.Monday), 1e-9)
	assert.InDelta(t, 1.1, ReachMultiplier(14, time.Wednesday), 1e-9)
	assert.InDelta(t, 1.32, ReachMultiplier(17, time.Thursday), 1e-9)
	assert.InDelta(t, 1.0, ReachMultiplier(3, time.Sunday), 1e-9)
}

func TestDeriveInsights_RankedByImpact(t *testing.T) {
	posts := []*models.Post{
		publishedPost("l1", models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 4),
		publishedPost("l2", models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 4),
		publishedPost("t1", models.PlatformTwitter, models.ContentTypeTips, at(8, 15), 1),
		publishedPost("t2", models.PlatformTwitter, models.ContentTypeTips, at(9, 15), 1),
		publishedPost("t3", models.PlatformTwitter, models.ContentTypeTips, at(10, 15), 1),
	}

	insights := DeriveInsights(posts, 10)
	require.Len(t, insights, 2)

	assert.Equal(t, models.InsightOpportunity, insights[0].Type)
	assert.Equal(t, 8, insights[0].ImpactScore)
	assert.InDelta(t, 4.0, insights[0].DataPoints["best_rate"], 1e-9)

	assert.Equal(t, models.InsightRecommendation, insights[1].Type)
	assert.Equal(t, 6, insights[1].ImpactScore)
	assert.Equal(t, "Post on Monday around 09:00", insights[1].Title)

	for _, in := range insights {
		assert.GreaterOrEqual(t, in.Confidence, 0.0)
		assert.LessOrEqual(t, in.Confidence, 1.0)
		assert.NotEmpty(t, in.ActionItems)
	}
}

func TestDeriveInsights_StrongContentType(t *testing.T) {
	posts := []*models.Post{
		publishedPost("a", models.PlatformLinkedIn, models.ContentTypeStory, at(4, 9), 7),
		publishedPost("b", models.PlatformLinkedIn, models.ContentTypeStory, at(5, 9), 6),
	}

	insights := DeriveInsights(posts, 7)
	require.Len(t, insights, 1)
	assert.Equal(t, models.InsightAchievement, insights[0].Type)
	assert.Equal(t, 7, insights[0].ImpactScore)
}

func TestDeriveInsights_Frequency(t *testing.T) {
	low := DeriveInsights([]*models.Post{
		publishedPost("a", models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 2),
	}, 30)
	require.Len(t, low, 1)
	assert.Equal(t, models.InsightOpportunity, low[0].Type)
	assert.Equal(t, 7, low[0].ImpactScore)

	var burst []*models.Post
	for i := 0; i < 4; i++ {
		burst = append(burst, publishedPost(string(rune('a'+i)), models.PlatformLinkedIn, models.ContentTypeTips, at(4, 9), 2))
	}
	high := DeriveInsights(burst, 1)
	require.Len(t, high, 1)
	assert.Equal(t, models.InsightWarning, high[0].Type)
	assert.Equal(t, 5, high[0].ImpactScore)

	empty := DeriveInsights(nil, 30)
	require.Len(t, empty, 1)
	assert.Equal(t, models.InsightOpportunity, empty[0].Type)

	assert.Empty(t, DeriveInsights(nil, 0))
}

func TestSortInsights(t *testing.T) {
	insights := []models.EngagementInsight{
		{Title: "six", ImpactScore: 6},
		{Title: "eight", ImpactScore: 8},
		{Title: "seven-a", ImpactScore: 7},
		{Title: "seven-b", ImpactScore: 7},
	}
	SortInsights(insights)

	var titles []string
	for _, in := range insights {
		titles = append(titles, in.Title)
	}
	assert.Equal(t, []string{"eight", "seven-a", "seven-b", "six"}, titles)
}

func TestAnalytics_WindowAndHistory(t *testing.T) {
	old := publishedPost("old", models.PlatformLinkedIn, models.ContentTypeTips, at(1, 9), 9)
	recent := publishedPost("new", models.PlatformLinkedIn, models.ContentTypeTips, at(20, 9), 3)
	store := newMemoryStore(old, recent)

	a := NewAnalytics("user-1", store, store)
	a.SetClock(func() time.Time { return at(25, 0) })

	platforms, err := a.GetPlatformAnalytics(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, "new", platforms[0].BestPostID)

	ctx := context.Background()
	require.NoError(t, store.AppendSnapshot(ctx, &models.MetricsSnapshot{PostID: "new", RecordedAt: at(22, 0), Metrics: models.EngagementMetrics{EngagementRate: 3, Views: 50}}))
	require.NoError(t, store.AppendSnapshot(ctx, &models.MetricsSnapshot{PostID: "new", RecordedAt: at(21, 0), Metrics: models.EngagementMetrics{EngagementRate: 1, Views: 10}}))

	history, err := a.GetMetricsHistory(ctx, "new")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, at(21, 0), history[0].RecordedAt)

	trend := Trend(history)
	assert.Equal(t, TrendUp, trend.Direction)
	assert.InDelta(t, 2.0, trend.RateDelta, 1e-9)
	assert.Equal(t, 40, trend.ViewsDelta)
	assert.Equal(t, 2, trend.Snapshots)
}

func TestTrend_Empty(t *testing.T) {
	trend := Trend(nil)
	assert.Equal(t, TrendFlat, trend.Direction)
	assert.Zero(t, trend.Snapshots)
}
