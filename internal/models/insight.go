package models

const (
	InsightOpportunity    = "opportunity"
	InsightWarning        = "warning"
	InsightAchievement    = "achievement"
	InsightRecommendation = "recommendation"
)

// EngagementInsight is a ranked, advisory recommendation. Generated fresh per request.
type EngagementInsight struct {
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	ActionItems []string           `json:"action_items"`
	ImpactScore int                `json:"impact_score"` // 1-10
	Confidence  float64            `json:"confidence"`   // 0-1
	DataPoints  map[string]float64 `json:"data_points"`
}

// PlatformMetrics aggregates published posts of one platform over a window
type PlatformMetrics struct {
	Platform          string  `json:"platform"`
	PostCount         int     `json:"post_count"`
	TotalViews        int     `json:"total_views"`
	TotalLikes        int     `json:"total_likes"`
	TotalComments     int     `json:"total_comments"`
	TotalShares       int     `json:"total_shares"`
	TotalEngagement   int     `json:"total_engagement"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	BestPostID        string  `json:"best_post_id"`
	BestPostingTime   string  `json:"best_posting_time"`
	BestPostingDay    string  `json:"best_posting_day"`
}

// ContentAnalytics aggregates published posts of one content type
type ContentAnalytics struct {
	ContentType         string   `json:"content_type"`
	PostCount           int      `json:"post_count"`
	AvgEngagementRate   float64  `json:"avg_engagement_rate"`
	AvgLength           int      `json:"avg_length"`
	BestLength          int      `json:"best_length"`
	OptimalHashtagCount int      `json:"optimal_hashtag_count"`
	TopHashtags         []string `json:"top_hashtags"`
}

// TimeAnalytics is one (hour, weekday) bucket
type TimeAnalytics struct {
	Hour              int     `json:"hour"`
	DayOfWeek         string  `json:"day_of_week"`
	PostCount         int     `json:"post_count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	AvgReach          float64 `json:"avg_reach"`
	ReachMultiplier   float64 `json:"reach_multiplier"`
	AdjustedReach     float64 `json:"adjusted_reach"`
}
