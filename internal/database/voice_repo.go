package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/content-intelligence/internal/models"
)

type VoiceProfileRepository struct {
	db *DB
}

func NewVoiceProfileRepository(db *DB) *VoiceProfileRepository {
	return &VoiceProfileRepository{db: db}
}

// GetVoiceProfile returns the stored profile, or nil when the user has none yet
func (r *VoiceProfileRepository) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	query := `SELECT profile FROM voice_profiles WHERE user_id = $1`

	var profileJSON []byte
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(&profileJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voice profile: %w", err)
	}

	profile := &models.VoiceProfile{}
	if err := json.Unmarshal(profileJSON, profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal voice profile: %w", err)
	}

	return profile, nil
}

// UpsertVoiceProfile replaces the user's profile wholesale
func (r *VoiceProfileRepository) UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	if profile.LastUpdated.IsZero() {
		profile.LastUpdated = time.Now()
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal voice profile: %w", err)
	}

	query := `
		INSERT INTO voice_profiles (user_id, profile, post_count, confidence, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET profile = EXCLUDED.profile,
		    post_count = EXCLUDED.post_count,
		    confidence = EXCLUDED.confidence,
		    last_updated = EXCLUDED.last_updated
	`

	_, err = r.db.Pool.Exec(ctx, query,
		profile.UserID,
		profileJSON,
		profile.PostCount,
		profile.Confidence,
		profile.LastUpdated,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert voice profile: %w", err)
	}

	return nil
}

// DeleteVoiceProfile removes a user's profile so the next initialize rebuilds it
func (r *VoiceProfileRepository) DeleteVoiceProfile(ctx context.Context, userID string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM voice_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete voice profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
