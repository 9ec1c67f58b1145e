package engagement

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const defaultTwitterAPIURL = "https://api.twitter.com/2"

// TwitterFetcher reads tweet public metrics. Engagement counts likes,
// replies, retweets and quotes against impressions.
type TwitterFetcher struct {
	client apiClient
}

type tweetResponse struct {
	Data *struct {
		PublicMetrics *struct {
			RetweetCount    *int `json:"retweet_count"`
			ReplyCount      *int `json:"reply_count"`
			LikeCount       *int `json:"like_count"`
			QuoteCount      int  `json:"quote_count"`
			BookmarkCount   int  `json:"bookmark_count"`
			ImpressionCount *int `json:"impression_count"`
		} `json:"public_metrics"`
		NonPublicMetrics *struct {
			URLLinkClicks int `json:"url_link_clicks"`
		} `json:"non_public_metrics"`
	} `json:"data"`
}

func NewTwitterFetcher(baseURL, bearerToken string) *TwitterFetcher {
	if baseURL == "" {
		baseURL = defaultTwitterAPIURL
	}
	return &TwitterFetcher{client: newAPIClient(baseURL, bearerToken)}
}

func (f *TwitterFetcher) Platform() string {
	return models.PlatformTwitter
}

func (f *TwitterFetcher) FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error) {
	var resp tweetResponse
	path := "/tweets/" + url.PathEscape(platformPostID) + "?tweet.fields=public_metrics,non_public_metrics"
	if err := f.client.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("twitter: %w", err)
	}

	if resp.Data == nil || resp.Data.PublicMetrics == nil {
		return nil, fmt.Errorf("twitter: %w: no public_metrics for %s", ErrMalformedResponse, platformPostID)
	}
	pm := resp.Data.PublicMetrics
	if pm.ImpressionCount == nil || pm.LikeCount == nil || pm.ReplyCount == nil || pm.RetweetCount == nil {
		return nil, fmt.Errorf("twitter: %w: missing counters for %s", ErrMalformedResponse, platformPostID)
	}

	m := &models.EngagementMetrics{
		Views:       *pm.ImpressionCount,
		Impressions: *pm.ImpressionCount,
		Likes:       *pm.LikeCount,
		Comments:    *pm.ReplyCount,
		Shares:      *pm.RetweetCount + pm.QuoteCount,
		Saves:       pm.BookmarkCount,
	}
	if resp.Data.NonPublicMetrics != nil {
		m.Clicks = resp.Data.NonPublicMetrics.URLLinkClicks
	}
	m.EngagementRate = percent(m.Likes+m.Comments+m.Shares, m.Impressions)
	m.ClickThroughRate = percent(m.Clicks, m.Impressions)
	return m, nil
}
