package models

import "time"

// EngagementMetrics is the platform-neutral shape every adapter normalizes into.
// Rates are percentages.
type EngagementMetrics struct {
	Views            int     `json:"views"`
	Likes            int     `json:"likes"`
	Comments         int     `json:"comments"`
	Shares           int     `json:"shares"`
	Clicks           int     `json:"clicks"`
	Saves            int     `json:"saves"`
	Reach            int     `json:"reach"`
	Impressions      int     `json:"impressions"`
	EngagementRate   float64 `json:"engagement_rate"`
	ClickThroughRate float64 `json:"click_through_rate"`
}

// TotalInteractions sums every interaction counter
func (m *EngagementMetrics) TotalInteractions() int {
	return m.Likes + m.Comments + m.Shares + m.Clicks + m.Saves
}

// MetricsSnapshot is one append-only entry of a post's metrics history
type MetricsSnapshot struct {
	ID         string            `json:"id"`
	PostID     string            `json:"post_id"`
	UserID     string            `json:"user_id"`
	Platform   string            `json:"platform"`
	Metrics    EngagementMetrics `json:"metrics"`
	RecordedAt time.Time         `json:"recorded_at"`
}
