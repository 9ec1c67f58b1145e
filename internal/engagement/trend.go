package engagement

import "github.com/shubh-37/content-intelligence/internal/models"

const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// trendEpsilon is the rate change, in percentage points, below which a trend is flat
const trendEpsilon = 0.01

// MetricsTrend compares the first and last snapshot of a post's history
type MetricsTrend struct {
	PostID            string  `json:"post_id"`
	Snapshots         int     `json:"snapshots"`
	FirstRate         float64 `json:"first_rate"`
	LastRate          float64 `json:"last_rate"`
	RateDelta         float64 `json:"rate_delta"`
	ViewsDelta        int     `json:"views_delta"`
	InteractionsDelta int     `json:"interactions_delta"`
	Direction         string  `json:"direction"`
}

// Trend expects history ordered oldest first
func Trend(history []*models.MetricsSnapshot) MetricsTrend {
	t := MetricsTrend{Snapshots: len(history), Direction: TrendFlat}
	if len(history) == 0 {
		return t
	}

	first, last := history[0], history[len(history)-1]
	t.PostID = first.PostID
	t.FirstRate = first.Metrics.EngagementRate
	t.LastRate = last.Metrics.EngagementRate
	t.RateDelta = t.LastRate - t.FirstRate
	t.ViewsDelta = last.Metrics.Views - first.Metrics.Views
	t.InteractionsDelta = last.Metrics.TotalInteractions() - first.Metrics.TotalInteractions()

	switch {
	case t.RateDelta > trendEpsilon:
		t.Direction = TrendUp
	case t.RateDelta < -trendEpsilon:
		t.Direction = TrendDown
	}
	return t
}
