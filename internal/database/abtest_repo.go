package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/content-intelligence/internal/models"
)

type ABTestRepository struct {
	db *DB
}

func NewABTestRepository(db *DB) *ABTestRepository {
	return &ABTestRepository{db: db}
}

// CreateABTest inserts a new test with its variants
func (r *ABTestRepository) CreateABTest(ctx context.Context, test *models.ABTest) error {
	if test.ID == "" {
		test.ID = uuid.New().String()
	}

	if test.CreatedAt.IsZero() {
		test.CreatedAt = time.Now()
	}

	variantsJSON, err := json.Marshal(test.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}

	query := `
		INSERT INTO ab_tests (id, user_id, name, variants, status, winner_variant_id, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		test.ID,
		test.UserID,
		test.Name,
		variantsJSON,
		test.Status,
		test.WinnerVariantID,
		test.CreatedAt,
		test.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create ab test: %w", err)
	}

	return nil
}

// GetABTest retrieves a test by ID, or nil when it does not exist
func (r *ABTestRepository) GetABTest(ctx context.Context, id string) (*models.ABTest, error) {
	query := `
		SELECT id, user_id, name, variants, status, winner_variant_id, created_at, completed_at
		FROM ab_tests
		WHERE id = $1
	`

	test, err := scanABTest(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ab test: %w", err)
	}

	return test, nil
}

// ListABTests returns the user's tests, newest first
func (r *ABTestRepository) ListABTests(ctx context.Context, userID string) ([]*models.ABTest, error) {
	query := `
		SELECT id, user_id, name, variants, status, winner_variant_id, created_at, completed_at
		FROM ab_tests
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ab tests: %w", err)
	}
	defer rows.Close()

	var tests []*models.ABTest
	for rows.Next() {
		test, err := scanABTest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ab test: %w", err)
		}
		tests = append(tests, test)
	}

	return tests, rows.Err()
}

// UpdateABTest persists variant counters, status and winner
func (r *ABTestRepository) UpdateABTest(ctx context.Context, test *models.ABTest) error {
	variantsJSON, err := json.Marshal(test.Variants)
	if err != nil {
		return fmt.Errorf("failed to marshal variants: %w", err)
	}

	query := `
		UPDATE ab_tests
		SET name = $2, variants = $3, status = $4, winner_variant_id = $5, completed_at = $6
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		test.ID,
		test.Name,
		variantsJSON,
		test.Status,
		test.WinnerVariantID,
		test.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update ab test: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteABTest deletes a test by ID
func (r *ABTestRepository) DeleteABTest(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM ab_tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ab test: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanABTest(row pgx.Row) (*models.ABTest, error) {
	test := &models.ABTest{}
	var variantsJSON []byte

	err := row.Scan(
		&test.ID,
		&test.UserID,
		&test.Name,
		&variantsJSON,
		&test.Status,
		&test.WinnerVariantID,
		&test.CreatedAt,
		&test.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(variantsJSON, &test.Variants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variants: %w", err)
	}

	return test, nil
}
