package voice

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	// MinAuthoredPosts is the smallest sample a profile is built from
	MinAuthoredPosts = 10
	// RebuildThreshold is how many new authored posts trigger a rebuild
	RebuildThreshold = 5
	// FullConfidencePosts is the sample size at which confidence reaches 100
	FullConfidencePosts = 50
)

// PostSource reads the user's post history
type PostSource interface {
	GetAuthoredPosts(ctx context.Context, userID string) ([]*models.Post, error)
	CountAuthoredPostsSince(ctx context.Context, userID string, since time.Time) (int, error)
}

// ProfileStore persists voice profiles with upsert semantics.
// GetVoiceProfile returns (nil, nil) when the user has no profile yet.
type ProfileStore interface {
	GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error)
	UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error
}

// Builder owns the voice profile of a single user. Rebuilds for the same
// user are not guarded against each other; callers serialize them.
type Builder struct {
	userID   string
	posts    PostSource
	profiles ProfileStore
	now      func() time.Time
	profile  *models.VoiceProfile
}

func NewBuilder(userID string, posts PostSource, profiles ProfileStore) *Builder {
	return &Builder{
		userID:   userID,
		posts:    posts,
		profiles: profiles,
		now:      time.Now,
	}
}

// SetClock replaces the time source used to stamp rebuilt profiles
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// Profile returns the current profile, nil if none has been built
func (b *Builder) Profile() *models.VoiceProfile {
	return b.profile
}

// Initialize loads the stored profile and rebuilds it when enough new
// authored posts have accumulated since it was last updated
func (b *Builder) Initialize(ctx context.Context) (*models.VoiceProfile, error) {
	if _, err := b.Refresh(ctx); err != nil {
		return nil, err
	}
	return b.profile, nil
}

// Refresh builds the profile when none exists and replaces it only once
// RebuildThreshold new authored posts have arrived. It reports whether a new
// profile was stored.
func (b *Builder) Refresh(ctx context.Context) (bool, error) {
	existing, err := b.profiles.GetVoiceProfile(ctx, b.userID)
	if err != nil {
		return false, fmt.Errorf("failed to load voice profile: %w", err)
	}
	b.profile = existing

	if existing != nil {
		newPosts, err := b.posts.CountAuthoredPostsSince(ctx, b.userID, existing.LastUpdated)
		if err != nil {
			return false, fmt.Errorf("failed to count new posts: %w", err)
		}

		if newPosts < RebuildThreshold {
			log.Printf("📦 Reusing voice profile for %s (%d new posts since %s)", b.userID, newPosts, existing.LastUpdated.Format(time.RFC3339))
			return false, nil
		}
	}

	return b.rebuild(ctx)
}

// rebuild recomputes the profile from the full authored history and
// replaces the stored one. It reports false without error when the user
// does not have enough authored posts, leaving any existing profile untouched.
func (b *Builder) rebuild(ctx context.Context) (bool, error) {
	posts, err := b.posts.GetAuthoredPosts(ctx, b.userID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch authored posts: %w", err)
	}

	authored := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if !p.IsAIGenerated {
			authored = append(authored, p)
		}
	}

	if len(authored) < MinAuthoredPosts {
		log.Printf("⚠️ Not enough authored posts to build a voice profile for %s (%d/%d)", b.userID, len(authored), MinAuthoredPosts)
		return false, nil
	}

	profile := BuildProfile(b.userID, authored, b.now())
	if err := b.profiles.UpsertVoiceProfile(ctx, profile); err != nil {
		return false, fmt.Errorf("failed to save voice profile: %w", err)
	}

	b.profile = profile
	log.Printf("✅ Voice profile rebuilt for %s from %d posts (confidence %.0f)", b.userID, len(authored), profile.Confidence)
	return true, nil
}

// Confidence grows linearly with sample size and caps at 100
func Confidence(postCount int) float64 {
	c := float64(postCount) * 100 / FullConfidencePosts
	if c > 100 {
		return 100
	}
	return c
}
