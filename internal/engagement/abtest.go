package engagement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// Sample floors below which a test reports zero confidence
const (
	MinVariantSamples = 30
	MinTotalSamples   = 100

	significantConfidence = 0.95
)

var (
	ErrTestNotFound   = errors.New("ab test not found")
	ErrTestCompleted  = errors.New("ab test already completed")
	ErrUnknownVariant = errors.New("unknown ab test variant")
	ErrTooFewVariants = errors.New("ab test needs at least two variants")
)

// ABTestStore persists test definitions and their running tallies.
// GetABTest returns (nil, nil) when the test does not exist.
type ABTestStore interface {
	CreateABTest(ctx context.Context, test *models.ABTest) error
	GetABTest(ctx context.Context, id string) (*models.ABTest, error)
	UpdateABTest(ctx context.Context, test *models.ABTest) error
	ListABTests(ctx context.Context, userID string) ([]*models.ABTest, error)
}

// ABTesting runs the lifecycle of one user's content tests
type ABTesting struct {
	userID string
	store  ABTestStore
	now    func() time.Time
}

func NewABTesting(userID string, store ABTestStore) *ABTesting {
	return &ABTesting{userID: userID, store: store, now: time.Now}
}

// CreateTest starts a running test with one variant per content string, named A, B, C...
func (ab *ABTesting) CreateTest(ctx context.Context, name string, contents []string) (*models.ABTest, error) {
	if len(contents) < 2 {
		return nil, ErrTooFewVariants
	}

	variants := make([]models.ABVariant, len(contents))
	for i, content := range contents {
		variants[i] = models.ABVariant{
			ID:      uuid.New().String(),
			Name:    variantName(i),
			Content: content,
		}
	}

	test := models.NewABTest(ab.userID, name, variants)
	test.ID = uuid.New().String()
	test.CreatedAt = ab.now()

	if err := ab.store.CreateABTest(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to create ab test: %w", err)
	}

	log.Printf("🧪 Created A/B test %q with %d variants", name, len(variants))
	return test, nil
}

// RecordVariantResult adds one engagement-rate sample to a variant
func (ab *ABTesting) RecordVariantResult(ctx context.Context, testID, variantID string, engagementRate float64) error {
	test, err := ab.load(ctx, testID)
	if err != nil {
		return err
	}
	if test.Status == models.ABTestCompleted {
		return fmt.Errorf("%w: %s", ErrTestCompleted, testID)
	}

	for i := range test.Variants {
		if test.Variants[i].ID == variantID {
			test.Variants[i].SampleCount++
			test.Variants[i].TotalEngagement += engagementRate
			if err := ab.store.UpdateABTest(ctx, test); err != nil {
				return fmt.Errorf("failed to record variant result: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownVariant, variantID)
}

// GetResults analyzes a test without changing it
func (ab *ABTesting) GetResults(ctx context.Context, testID string) (*models.ABTestResult, error) {
	test, err := ab.load(ctx, testID)
	if err != nil {
		return nil, err
	}
	result := AnalyzeTest(test)
	return &result, nil
}

// CompleteTest closes a running test and records the current leader as winner
func (ab *ABTesting) CompleteTest(ctx context.Context, testID string) (*models.ABTestResult, error) {
	test, err := ab.load(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test.Status == models.ABTestCompleted {
		return nil, fmt.Errorf("%w: %s", ErrTestCompleted, testID)
	}

	result := AnalyzeTest(test)
	now := ab.now()
	test.Status = models.ABTestCompleted
	test.WinnerVariantID = result.WinnerVariantID
	test.CompletedAt = &now

	if err := ab.store.UpdateABTest(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to complete ab test: %w", err)
	}

	log.Printf("🏁 A/B test %s completed (winner %s, confidence %.2f)", test.Name, result.WinnerVariantID, result.Confidence)
	return &result, nil
}

func (ab *ABTesting) ListTests(ctx context.Context) ([]*models.ABTest, error) {
	tests, err := ab.store.ListABTests(ctx, ab.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ab tests: %w", err)
	}
	return tests, nil
}

func (ab *ABTesting) load(ctx context.Context, testID string) (*models.ABTest, error) {
	test, err := ab.store.GetABTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ab test: %w", err)
	}
	if test == nil || test.UserID != ab.userID {
		return nil, fmt.Errorf("%w: %s", ErrTestNotFound, testID)
	}
	return test, nil
}

// AnalyzeTest computes per-variant averages and a directional confidence.
// Confidence is a sample-ratio proxy, not a hypothesis test: it is 0 until every
// variant has MinVariantSamples and the test has MinTotalSamples, then grows with
// the leader's relative lift, the square root of the sample size and sample balance.
func AnalyzeTest(test *models.ABTest) models.ABTestResult {
	result := models.ABTestResult{TestID: test.ID}

	minSamples, maxSamples := math.MaxInt, 0
	bestAvg, runnerUp := -1.0, -1.0
	for _, v := range test.Variants {
		avg := 0.0
		if v.SampleCount > 0 {
			avg = v.TotalEngagement / float64(v.SampleCount)
		}
		result.Variants = append(result.Variants, models.ABVariantResult{
			VariantID:         v.ID,
			Name:              v.Name,
			SampleCount:       v.SampleCount,
			AvgEngagementRate: avg,
		})
		result.TotalSamples += v.SampleCount

		if v.SampleCount < minSamples {
			minSamples = v.SampleCount
		}
		if v.SampleCount > maxSamples {
			maxSamples = v.SampleCount
		}

		if v.SampleCount == 0 {
			continue
		}
		switch {
		case avg > bestAvg:
			runnerUp = bestAvg
			bestAvg = avg
			result.WinnerVariantID = v.ID
		case avg > runnerUp:
			runnerUp = avg
		}
	}

	if len(test.Variants) < 2 || minSamples < MinVariantSamples || result.TotalSamples < MinTotalSamples {
		return result
	}
	if bestAvg <= 0 {
		return result
	}

	lift := (bestAvg - math.Max(runnerUp, 0)) / bestAvg
	balance := float64(minSamples) / float64(maxSamples)
	confidence := balance * math.Min(0.99, lift*math.Sqrt(float64(result.TotalSamples))/5)

	result.Confidence = math.Round(confidence*100) / 100
	result.Significant = result.Confidence >= significantConfidence
	return result
}

func variantName(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("V%d", i+1)
}
