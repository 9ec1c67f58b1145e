package models

import "time"

const (
	ABTestRunning   = "running"
	ABTestCompleted = "completed"
)

// ABTest is a named comparison between content variants
type ABTest struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Name            string      `json:"name"`
	Variants        []ABVariant `json:"variants"`
	Status          string      `json:"status"`
	WinnerVariantID string      `json:"winner_variant_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
}

// ABVariant accumulates engagement samples for one variant
type ABVariant struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Content         string  `json:"content"`
	SampleCount     int     `json:"sample_count"`
	TotalEngagement float64 `json:"total_engagement"`
}

// ABTestResult is the analysis of a test. Confidence is a directional proxy, not a hypothesis test.
type ABTestResult struct {
	TestID          string            `json:"test_id"`
	Variants        []ABVariantResult `json:"variants"`
	WinnerVariantID string            `json:"winner_variant_id,omitempty"`
	TotalSamples    int               `json:"total_samples"`
	Confidence      float64           `json:"confidence"`
	Significant     bool              `json:"significant"`
}

type ABVariantResult struct {
	VariantID         string  `json:"variant_id"`
	Name              string  `json:"name"`
	SampleCount       int     `json:"sample_count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

// NewABTest creates a running test
func NewABTest(userID, name string, variants []ABVariant) *ABTest {
	return &ABTest{
		UserID:    userID,
		Name:      name,
		Variants:  variants,
		Status:    ABTestRunning,
		CreatedAt: time.Now(),
	}
}
