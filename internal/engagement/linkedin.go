package engagement

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const defaultLinkedInAPIURL = "https://api.linkedin.com/rest"

// LinkedInFetcher reads share statistics. Engagement is interactions over impressions.
type LinkedInFetcher struct {
	client apiClient
}

type linkedInStatistics struct {
	ImpressionCount       *int `json:"impressionCount"`
	UniqueImpressionCount *int `json:"uniqueImpressionsCount"`
	LikeCount             *int `json:"likeCount"`
	CommentCount          *int `json:"commentCount"`
	ShareCount            *int `json:"shareCount"`
	ClickCount            *int `json:"clickCount"`
}

func NewLinkedInFetcher(baseURL, accessToken string) *LinkedInFetcher {
	if baseURL == "" {
		baseURL = defaultLinkedInAPIURL
	}
	return &LinkedInFetcher{client: newAPIClient(baseURL, accessToken)}
}

func (f *LinkedInFetcher) Platform() string {
	return models.PlatformLinkedIn
}

func (f *LinkedInFetcher) FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error) {
	var stats linkedInStatistics
	if err := f.client.getJSON(ctx, "/posts/"+url.PathEscape(platformPostID)+"/statistics", &stats); err != nil {
		return nil, fmt.Errorf("linkedin: %w", err)
	}

	if stats.ImpressionCount == nil || stats.LikeCount == nil || stats.CommentCount == nil || stats.ShareCount == nil {
		return nil, fmt.Errorf("linkedin: %w: missing counters for %s", ErrMalformedResponse, platformPostID)
	}

	m := &models.EngagementMetrics{
		Views:       *stats.ImpressionCount,
		Impressions: *stats.ImpressionCount,
		Reach:       intValue(stats.UniqueImpressionCount),
		Likes:       *stats.LikeCount,
		Comments:    *stats.CommentCount,
		Shares:      *stats.ShareCount,
		Clicks:      intValue(stats.ClickCount),
	}
	m.EngagementRate = percent(m.Likes+m.Comments+m.Shares+m.Clicks, m.Impressions)
	m.ClickThroughRate = percent(m.Clicks, m.Impressions)
	return m, nil
}
