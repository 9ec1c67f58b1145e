package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shubh-37/content-intelligence/internal/models"
)

var (
	// ErrMalformedResponse means a platform answered without a field the adapter needs
	ErrMalformedResponse   = errors.New("malformed platform response")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// MetricsFetcher is implemented once per social platform. Each adapter maps the
// platform's native fields and computes engagement rate from what that platform exposes.
type MetricsFetcher interface {
	Platform() string
	FetchMetrics(ctx context.Context, platformPostID string) (*models.EngagementMetrics, error)
}

// apiClient is the shared JSON-over-HTTP plumbing of the adapters
type apiClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL, token string) apiClient {
	return apiClient{
		token:      token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c apiClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

// percent returns part/whole*100, 0 when whole is not positive
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
