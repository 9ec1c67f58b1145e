package generator

import (
	"math"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const defaultPostingTime = "12:00"

// PerformancePrediction is a rough reach estimate scaled by the engagement score
type PerformancePrediction struct {
	Platform          string `json:"platform"`
	EstimatedViews    int    `json:"estimated_views"`
	EstimatedLikes    int    `json:"estimated_likes"`
	EstimatedComments int    `json:"estimated_comments"`
	EngagementScore   int    `json:"engagement_score"`
	OptimalTime       string `json:"optimal_time"`
}

type baseline struct {
	views, likes, comments float64
}

var platformBaselines = map[string]baseline{
	models.PlatformLinkedIn:  {1000, 50, 10},
	models.PlatformTwitter:   {800, 40, 8},
	models.PlatformInstagram: {1200, 90, 12},
}

var defaultBaseline = baseline{500, 25, 5}

var optimalTimes = map[string]map[string]string{
	models.PlatformLinkedIn: {
		models.ContentTypeMotivational: "08:00",
		models.ContentTypeEducational:  "09:00",
		models.ContentTypeTips:         "10:00",
		models.ContentTypeStory:        "12:00",
		models.ContentTypeMilestone:    "17:00",
		models.ContentTypeCelebration:  "17:00",
	},
	models.PlatformTwitter: {
		models.ContentTypeMotivational: "07:00",
		models.ContentTypeTips:         "12:00",
		models.ContentTypeEducational:  "13:00",
		models.ContentTypeStory:        "18:00",
	},
	models.PlatformInstagram: {
		models.ContentTypeMotivational: "06:00",
		models.ContentTypeTips:         "11:00",
		models.ContentTypeStory:        "19:00",
		models.ContentTypeMilestone:    "19:00",
		models.ContentTypeCelebration:  "20:00",
	},
}

// PredictPerformance scales the platform baseline by engagementScore/100
func PredictPerformance(content *models.GeneratedContent, platform string) PerformancePrediction {
	base, ok := platformBaselines[platform]
	if !ok {
		base = defaultBaseline
	}
	factor := float64(content.EngagementScore) / 100

	return PerformancePrediction{
		Platform:          platform,
		EstimatedViews:    int(math.Round(base.views * factor)),
		EstimatedLikes:    int(math.Round(base.likes * factor)),
		EstimatedComments: int(math.Round(base.comments * factor)),
		EngagementScore:   content.EngagementScore,
		OptimalTime:       OptimalPostingTime(platform, content.ContentType),
	}
}

// OptimalPostingTime returns an "HH:MM" slot for the platform and content type
func OptimalPostingTime(platform, contentType string) string {
	if byType, ok := optimalTimes[platform]; ok {
		if t, ok := byType[contentType]; ok {
			return t
		}
	}
	return defaultPostingTime
}
