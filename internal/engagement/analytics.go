package engagement

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	hashtagBucketWidth = 2
	maxTopHashtags     = 5

	peakHourMultiplier = 1.2
	midweekMultiplier  = 1.1
)

// peakHours are the hours treated as high-reach regardless of observed data
var peakHours = map[int]bool{8: true, 9: true, 12: true, 17: true, 18: true}

// Analytics computes on-demand aggregates over one user's published posts
type Analytics struct {
	userID  string
	posts   PostStore
	history HistoryStore
	now     func() time.Time
}

func NewAnalytics(userID string, posts PostStore, history HistoryStore) *Analytics {
	return &Analytics{
		userID:  userID,
		posts:   posts,
		history: history,
		now:     time.Now,
	}
}

// SetClock replaces the time source used to anchor windows
func (a *Analytics) SetClock(now func() time.Time) {
	a.now = now
}

// PublishedPosts loads the user's published posts of the last days
func (a *Analytics) PublishedPosts(ctx context.Context, days int) ([]*models.Post, error) {
	posts, err := a.posts.GetPublishedPosts(ctx, a.userID, a.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("failed to load published posts: %w", err)
	}
	return posts, nil
}

func (a *Analytics) GetPlatformAnalytics(ctx context.Context, days int) ([]models.PlatformMetrics, error) {
	posts, err := a.PublishedPosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return PlatformAnalytics(posts), nil
}

func (a *Analytics) GetContentAnalytics(ctx context.Context, days int) ([]models.ContentAnalytics, error) {
	posts, err := a.PublishedPosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return ContentAnalytics(posts), nil
}

func (a *Analytics) GetTimeAnalytics(ctx context.Context, days int) ([]models.TimeAnalytics, error) {
	posts, err := a.PublishedPosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return TimeAnalytics(posts), nil
}

// GenerateInsights runs every aggregation over the window and applies the insight rules
func (a *Analytics) GenerateInsights(ctx context.Context, days int) ([]models.EngagementInsight, error) {
	posts, err := a.PublishedPosts(ctx, days)
	if err != nil {
		return nil, err
	}
	return DeriveInsights(posts, days), nil
}

// GetMetricsHistory returns a post's snapshots, oldest first
func (a *Analytics) GetMetricsHistory(ctx context.Context, postID string) ([]*models.MetricsSnapshot, error) {
	history, err := a.history.GetMetricsHistory(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics history: %w", err)
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].RecordedAt.Before(history[j].RecordedAt)
	})
	return history, nil
}

// measured keeps the posts that carry metrics
func measured(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Metrics != nil {
			out = append(out, p)
		}
	}
	return out
}

// PlatformAnalytics groups measured posts by platform, best average rate first.
// Best hour and best weekday are chosen independently of each other.
func PlatformAnalytics(posts []*models.Post) []models.PlatformMetrics {
	grouped := make(map[string][]*models.Post)
	for _, p := range measured(posts) {
		grouped[p.Platform] = append(grouped[p.Platform], p)
	}

	result := make([]models.PlatformMetrics, 0, len(grouped))
	for platform, group := range grouped {
		pm := models.PlatformMetrics{Platform: platform, PostCount: len(group)}

		var rateSum, bestRate float64
		for i, p := range group {
			m := p.Metrics
			pm.TotalViews += m.Views
			pm.TotalLikes += m.Likes
			pm.TotalComments += m.Comments
			pm.TotalShares += m.Shares
			pm.TotalEngagement += m.TotalInteractions()
			rateSum += m.EngagementRate
			if i == 0 || m.EngagementRate > bestRate {
				bestRate = m.EngagementRate
				pm.BestPostID = p.ID
			}
		}
		pm.AvgEngagementRate = rateSum / float64(len(group))
		pm.BestPostingTime = bestHour(group)
		pm.BestPostingDay = bestWeekday(group)

		result = append(result, pm)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgEngagementRate != result[j].AvgEngagementRate {
			return result[i].AvgEngagementRate > result[j].AvgEngagementRate
		}
		return result[i].Platform < result[j].Platform
	})
	return result
}

func bestHour(posts []*models.Post) string {
	var sums [24]float64
	var counts [24]int
	for _, p := range posts {
		h := p.PostedAt().Hour()
		sums[h] += p.Metrics.EngagementRate
		counts[h]++
	}

	best, bestAvg := -1, 0.0
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		avg := sums[h] / float64(counts[h])
		if best == -1 || avg > bestAvg {
			best, bestAvg = h, avg
		}
	}
	if best == -1 {
		return ""
	}
	return fmt.Sprintf("%02d:00", best)
}

func bestWeekday(posts []*models.Post) string {
	var sums [7]float64
	var counts [7]int
	for _, p := range posts {
		d := p.PostedAt().Weekday()
		sums[d] += p.Metrics.EngagementRate
		counts[d]++
	}

	best, bestAvg := -1, 0.0
	for d := 0; d < 7; d++ {
		if counts[d] == 0 {
			continue
		}
		avg := sums[d] / float64(counts[d])
		if best == -1 || avg > bestAvg {
			best, bestAvg = d, avg
		}
	}
	if best == -1 {
		return ""
	}
	return time.Weekday(best).String()
}

// ContentAnalytics groups measured posts by content type, best average rate first
func ContentAnalytics(posts []*models.Post) []models.ContentAnalytics {
	grouped := make(map[string][]*models.Post)
	for _, p := range measured(posts) {
		ct := p.ContentType
		if ct == "" {
			ct = "unknown"
		}
		grouped[ct] = append(grouped[ct], p)
	}

	result := make([]models.ContentAnalytics, 0, len(grouped))
	for contentType, group := range grouped {
		ca := models.ContentAnalytics{ContentType: contentType, PostCount: len(group)}

		var rateSum, bestRate float64
		var lengthSum int
		tagCounts := make(map[string]int)
		bucketSums := make(map[int]float64)
		bucketCounts := make(map[int]int)

		for i, p := range group {
			length := utf8.RuneCountInString(p.Content)
			rate := p.Metrics.EngagementRate

			rateSum += rate
			lengthSum += length
			if i == 0 || rate > bestRate {
				bestRate = rate
				ca.BestLength = length
			}

			tags := postHashtags(p)
			bucket := len(tags) / hashtagBucketWidth
			bucketSums[bucket] += rate
			bucketCounts[bucket]++
			for _, tag := range tags {
				tagCounts[tag]++
			}
		}

		n := float64(len(group))
		ca.AvgEngagementRate = rateSum / n
		ca.AvgLength = int(math.Round(float64(lengthSum) / n))
		ca.OptimalHashtagCount = bestBucket(bucketSums, bucketCounts) * hashtagBucketWidth
		ca.TopHashtags = topHashtags(tagCounts)

		result = append(result, ca)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgEngagementRate != result[j].AvgEngagementRate {
			return result[i].AvgEngagementRate > result[j].AvgEngagementRate
		}
		return result[i].ContentType < result[j].ContentType
	})
	return result
}

// postHashtags prefers the stored tag list and falls back to parsing the text
func postHashtags(p *models.Post) []string {
	raw := p.Hashtags
	if len(raw) == 0 {
		raw = analyzer.Hashtags(p.Content)
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimPrefix(t, "#"))
		if t != "" {
			tags = append(tags, "#"+t)
		}
	}
	return tags
}

// bestBucket returns the bucket index with the highest average, lowest index on ties
func bestBucket(sums map[int]float64, counts map[int]int) int {
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	best, bestAvg := 0, -1.0
	for _, k := range keys {
		avg := sums[k] / float64(counts[k])
		if avg > bestAvg {
			best, bestAvg = k, avg
		}
	}
	return best
}

func topHashtags(counts map[string]int) []string {
	tags := make([]string, 0, len(counts))
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > maxTopHashtags {
		tags = tags[:maxTopHashtags]
	}
	return tags
}

// TimeAnalytics buckets measured posts by (hour, weekday). The reach multiplier
// is a fixed heuristic, not a measured value.
func TimeAnalytics(posts []*models.Post) []models.TimeAnalytics {
	type slot struct {
		hour int
		day  time.Weekday
	}
	type acc struct {
		count   int
		rateSum float64
		reach   int
	}

	buckets := make(map[slot]*acc)
	for _, p := range measured(posts) {
		at := p.PostedAt()
		key := slot{at.Hour(), at.Weekday()}
		b, ok := buckets[key]
		if !ok {
			b = &acc{}
			buckets[key] = b
		}
		b.count++
		b.rateSum += p.Metrics.EngagementRate
		b.reach += p.Metrics.Reach
	}

	result := make([]models.TimeAnalytics, 0, len(buckets))
	for key, b := range buckets {
		multiplier := ReachMultiplier(key.hour, key.day)
		avgReach := float64(b.reach) / float64(b.count)
		result = append(result, models.TimeAnalytics{
			Hour:              key.hour,
			DayOfWeek:         key.day.String(),
			PostCount:         b.count,
			AvgEngagementRate: b.rateSum / float64(b.count),
			AvgReach:          avgReach,
			ReachMultiplier:   multiplier,
			AdjustedReach:     avgReach * multiplier,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgEngagementRate != result[j].AvgEngagementRate {
			return result[i].AvgEngagementRate > result[j].AvgEngagementRate
		}
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return weekdayIndex(result[i].DayOfWeek) < weekdayIndex(result[j].DayOfWeek)
		}
		return result[i].Hour < result[j].Hour
	})
	return result
}

// ReachMultiplier is 1.2 for peak hours and 1.1 for Tuesday to Thursday, compounded
func ReachMultiplier(hour int, day time.Weekday) float64 {
	m := 1.0
	if peakHours[hour] {
		m *= peakHourMultiplier
	}
	if day >= time.Tuesday && day <= time.Thursday {
		m *= midweekMultiplier
	}
	return m
}

func weekdayIndex(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return int(d)
		}
	}
	return 7
}
