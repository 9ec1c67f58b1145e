package cache

import (
	"context"
	"log"

	"github.com/shubh-37/content-intelligence/internal/models"
	"github.com/shubh-37/content-intelligence/internal/voice"
)

// ProfileStore is a read-through cache in front of a voice.ProfileStore.
// Cache failures are logged and fall through to the backing store.
type ProfileStore struct {
	store voice.ProfileStore
	cache *Repository
}

var _ voice.ProfileStore = (*ProfileStore)(nil)

func NewProfileStore(store voice.ProfileStore, cache *Repository) *ProfileStore {
	return &ProfileStore{store: store, cache: cache}
}

func (s *ProfileStore) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	cached, err := s.cache.GetVoiceProfile(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Voice profile cache read failed for %s: %v", userID, err)
	}
	if cached != nil {
		return cached, nil
	}

	profile, err := s.store.GetVoiceProfile(ctx, userID)
	if err != nil || profile == nil {
		return profile, err
	}

	if err := s.cache.CacheVoiceProfile(ctx, profile); err != nil {
		log.Printf("⚠️ Voice profile cache write failed for %s: %v", userID, err)
	}
	return profile, nil
}

// UpsertVoiceProfile writes through and drops the cached copy
func (s *ProfileStore) UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	if err := s.store.UpsertVoiceProfile(ctx, profile); err != nil {
		return err
	}

	if err := s.cache.InvalidateVoiceProfile(ctx, profile.UserID); err != nil {
		log.Printf("⚠️ Voice profile cache invalidation failed for %s: %v", profile.UserID, err)
	}
	return nil
}
