package engagement

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const defaultInstagramAPIURL = "https://graph.facebook.com/v19.0"

// InstagramFetcher reads media insights. Engagement is likes, comments,
// shares and saves over reach, since impressions are not always reported.
type InstagramFetcher struct {
	client apiClient
}

type instagramInsights struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

func NewInstagramFetcher(baseURL, accessToken string) *InstagramFetcher {
	if baseURL == "" {
		baseURL = defaultInstagramAPIURL
	}
	return &InstagramFetcher{client: newAPIClient(baseURL, accessToken)}
}

func (f *InstagramFetcher) Platform() string {
	return models.PlatformInstagram
}

func (f *InstagramFetcher) FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error) {
	var insights instagramInsights
	path := "/" + url.PathEscape(platformPostID) + "/insights?metric=impressions,reach,likes,comments,shares,saved,profile_visits"
	if err := f.client.getJSON(ctx, path, &insights); err != nil {
		return nil, fmt.Errorf("instagram: %w", err)
	}

	values := make(map[string]int, len(insights.Data))
	for _, d := range insights.Data {
		if len(d.Values) > 0 {
			values[d.Name] = d.Values[0].Value
		}
	}

	for _, required := range []string{"reach", "likes", "comments"} {
		if _, ok := values[required]; !ok {
			return nil, fmt.Errorf("instagram: %w: missing %s for %s", ErrMalformedResponse, required, platformPostID)
		}
	}

	m := &models.EngagementMetrics{
		Views:       values["impressions"],
		Impressions: values["impressions"],
		Reach:       values["reach"],
		Likes:       values["likes"],
		Comments:    values["comments"],
		Shares:      values["shares"],
		Saves:       values["saved"],
		Clicks:      values["profile_visits"],
	}
	m.EngagementRate = percent(m.Likes+m.Comments+m.Shares+m.Saves, m.Reach)
	m.ClickThroughRate = percent(m.Clicks, m.Reach)
	return m, nil
}
