package engagement

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// Insight rule thresholds. They are fixed and not caller-configurable.
const (
	platformGapRatio     = 2.0
	strongContentRate    = 5.0
	timeSlotLiftRatio    = 1.5
	lowFrequencyPerDay   = 0.2
	highFrequencyPerDay  = 3.0
	fullConfidenceSample = 20
)

// DeriveInsights applies the insight rules to a window of published posts and
// returns them ranked by impact, highest first
func DeriveInsights(posts []*models.Post, days int) []models.EngagementInsight {
	var insights []models.EngagementInsight

	platforms := PlatformAnalytics(posts)
	if insight, ok := platformGapInsight(platforms); ok {
		insights = append(insights, insight)
	}

	if insight, ok := contentInsight(ContentAnalytics(posts)); ok {
		insights = append(insights, insight)
	}

	if insight, ok := timeSlotInsight(TimeAnalytics(posts)); ok {
		insights = append(insights, insight)
	}

	if insight, ok := frequencyInsight(len(posts), days); ok {
		insights = append(insights, insight)
	}

	SortInsights(insights)
	return insights
}

// SortInsights orders by impact score descending, keeping rule order on ties
func SortInsights(insights []models.EngagementInsight) {
	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].ImpactScore > insights[j].ImpactScore
	})
}

func sampleConfidence(n int) float64 {
	return math.Min(1, float64(n)/fullConfidenceSample)
}

func platformGapInsight(platforms []models.PlatformMetrics) (models.EngagementInsight, bool) {
	if len(platforms) < 2 {
		return models.EngagementInsight{}, false
	}
	best, worst := platforms[0], platforms[len(platforms)-1]
	if best.AvgEngagementRate <= 0 || best.AvgEngagementRate < platformGapRatio*worst.AvgEngagementRate {
		return models.EngagementInsight{}, false
	}

	return models.EngagementInsight{
		Type:  models.InsightOpportunity,
		Title: fmt.Sprintf("%s outperforms %s", titleCase(best.Platform), titleCase(worst.Platform)),
		Description: fmt.Sprintf("Posts on %s average %.1f%% engagement versus %.1f%% on %s.",
			best.Platform, best.AvgEngagementRate, worst.AvgEngagementRate, worst.Platform),
		ActionItems: []string{
			fmt.Sprintf("Shift more of your posting volume to %s", best.Platform),
			fmt.Sprintf("Repurpose your best %s posts for %s", best.Platform, worst.Platform),
		},
		ImpactScore: 8,
		Confidence:  sampleConfidence(best.PostCount + worst.PostCount),
		DataPoints: map[string]float64{
			"best_rate":  best.AvgEngagementRate,
			"worst_rate": worst.AvgEngagementRate,
		},
	}, true
}

func contentInsight(content []models.ContentAnalytics) (models.EngagementInsight, bool) {
	if len(content) == 0 || content[0].AvgEngagementRate <= strongContentRate {
		return models.EngagementInsight{}, false
	}
	best := content[0]

	actions := []string{fmt.Sprintf("Keep %s posts around %d characters", best.ContentType, best.BestLength)}
	if len(best.TopHashtags) > 0 {
		actions = append(actions, "Reuse hashtags that work: "+strings.Join(best.TopHashtags, " "))
	}

	return models.EngagementInsight{
		Type:        models.InsightAchievement,
		Title:       fmt.Sprintf("%s content is landing", titleCase(best.ContentType)),
		Description: fmt.Sprintf("Your %s posts average %.1f%% engagement.", best.ContentType, best.AvgEngagementRate),
		ActionItems: actions,
		ImpactScore: 7,
		Confidence:  sampleConfidence(best.PostCount),
		DataPoints: map[string]float64{
			"avg_rate":              best.AvgEngagementRate,
			"post_count":            float64(best.PostCount),
			"optimal_hashtag_count": float64(best.OptimalHashtagCount),
		},
	}, true
}

func timeSlotInsight(slots []models.TimeAnalytics) (models.EngagementInsight, bool) {
	if len(slots) < 2 {
		return models.EngagementInsight{}, false
	}

	var sum float64
	samples := 0
	for _, s := range slots {
		sum += s.AvgEngagementRate
		samples += s.PostCount
	}
	mean := sum / float64(len(slots))
	best := slots[0]
	if mean <= 0 || best.AvgEngagementRate < timeSlotLiftRatio*mean {
		return models.EngagementInsight{}, false
	}

	return models.EngagementInsight{
		Type:  models.InsightRecommendation,
		Title: fmt.Sprintf("Post on %s around %02d:00", best.DayOfWeek, best.Hour),
		Description: fmt.Sprintf("That slot averages %.1f%% engagement against a %.1f%% mean across slots.",
			best.AvgEngagementRate, mean),
		ActionItems: []string{
			fmt.Sprintf("Schedule your next key post for %s at %02d:00", best.DayOfWeek, best.Hour),
		},
		ImpactScore: 6,
		Confidence:  sampleConfidence(samples),
		DataPoints: map[string]float64{
			"slot_rate": best.AvgEngagementRate,
			"mean_rate": mean,
			"hour":      float64(best.Hour),
		},
	}, true
}

func frequencyInsight(postCount, days int) (models.EngagementInsight, bool) {
	if days <= 0 {
		return models.EngagementInsight{}, false
	}
	perDay := float64(postCount) / float64(days)
	data := map[string]float64{"posts_per_day": perDay, "post_count": float64(postCount), "days": float64(days)}

	switch {
	case perDay < lowFrequencyPerDay:
		return models.EngagementInsight{
			Type:        models.InsightOpportunity,
			Title:       "Post more consistently",
			Description: fmt.Sprintf("You published %d posts in %d days (%.2f per day).", postCount, days, perDay),
			ActionItems: []string{
				"Aim for at least two posts a week",
				"Batch-generate drafts from templates and schedule them ahead",
			},
			ImpactScore: 7,
			Confidence:  sampleConfidence(days),
			DataPoints:  data,
		}, true
	case perDay > highFrequencyPerDay:
		return models.EngagementInsight{
			Type:        models.InsightWarning,
			Title:       "Posting volume may be hurting reach",
			Description: fmt.Sprintf("You published %.1f posts per day over the last %d days.", perDay, days),
			ActionItems: []string{
				"Cut back to your strongest two or three posts a day",
				"Spread posts across your best time slots",
			},
			ImpactScore: 5,
			Confidence:  sampleConfidence(postCount),
			DataPoints:  data,
		}, true
	}
	return models.EngagementInsight{}, false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
