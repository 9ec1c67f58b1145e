package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/content-intelligence/internal/models"
)

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AppendSnapshot records one metrics reading; history rows are never updated
func (r *HistoryRepository) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}

	if snapshot.RecordedAt.IsZero() {
		snapshot.RecordedAt = time.Now()
	}

	metricsJSON, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
		INSERT INTO engagement_history (id, post_id, user_id, platform, metrics, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		snapshot.ID,
		snapshot.PostID,
		snapshot.UserID,
		snapshot.Platform,
		metricsJSON,
		snapshot.RecordedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append metrics snapshot: %w", err)
	}

	return nil
}

// GetMetricsHistory returns a post's snapshots, oldest first
func (r *HistoryRepository) GetMetricsHistory(ctx context.Context, postID string) ([]*models.MetricsSnapshot, error) {
	query := `
		SELECT id, post_id, user_id, platform, metrics, recorded_at
		FROM engagement_history
		WHERE post_id = $1
		ORDER BY recorded_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics history: %w", err)
	}
	defer rows.Close()

	var history []*models.MetricsSnapshot
	for rows.Next() {
		snapshot := &models.MetricsSnapshot{}
		var metricsJSON []byte

		err := rows.Scan(
			&snapshot.ID,
			&snapshot.PostID,
			&snapshot.UserID,
			&snapshot.Platform,
			&metricsJSON,
			&snapshot.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics snapshot: %w", err)
		}

		if err := json.Unmarshal(metricsJSON, &snapshot.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}

		history = append(history, snapshot)
	}

	return history, rows.Err()
}
