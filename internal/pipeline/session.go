package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shubh-37/content-intelligence/internal/cache"
	"github.com/shubh-37/content-intelligence/internal/engagement"
	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/models"
	"github.com/shubh-37/content-intelligence/internal/voice"
)

// PostStore is everything the session needs from post persistence
type PostStore interface {
	voice.PostSource
	engagement.PostStore
	Create(ctx context.Context, post *models.Post) error
}

// InsightsCache is the part of the Redis cache the session reads through
type InsightsCache interface {
	GetInsights(ctx context.Context, userID string, days int) ([]models.EngagementInsight, error)
	CacheInsights(ctx context.Context, userID string, days int, insights []models.EngagementInsight) error
	InvalidateInsights(ctx context.Context, userID string) error
}

// Stores bundles the persistence contracts a session is built on
type Stores struct {
	Posts    PostStore
	Profiles voice.ProfileStore
	History  engagement.HistoryStore
	State    generator.UserStateProvider
	ABTests  engagement.ABTestStore
}

// Options tune a session; the zero value is usable
type Options struct {
	Seed        int64
	Fetchers    []engagement.MetricsFetcher
	ImportDelay time.Duration
	StaleAfter  time.Duration
	Cache       *cache.Repository
}

// Session wires the four pipeline components for a single user.
// The voice builder and generator are not safe for concurrent use on their own;
// the session serializes every call that touches them.
type Session struct {
	UserID    string
	Voice     *voice.Builder
	Generator *generator.Generator
	Importer  *engagement.Importer
	Analytics *engagement.Analytics
	ABTests   *engagement.ABTesting

	posts    PostStore
	insights InsightsCache
	mu       sync.Mutex
}

func NewSession(userID string, stores Stores, opts Options) *Session {
	profiles := stores.Profiles
	if opts.Cache.Enabled() {
		profiles = cache.NewProfileStore(profiles, opts.Cache)
	}

	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 24 * time.Hour
	}

	return &Session{
		UserID:    userID,
		Voice:     voice.NewBuilder(userID, stores.Posts, profiles),
		Generator: generator.NewGenerator(userID, stores.State, nil, opts.Seed),
		Importer:  engagement.NewImporter(userID, stores.Posts, stores.History, opts.Fetchers, opts.ImportDelay, staleAfter),
		Analytics: engagement.NewAnalytics(userID, stores.Posts, stores.History),
		ABTests:   engagement.NewABTesting(userID, stores.ABTests),
		posts:     stores.Posts,
		insights:  opts.Cache,
	}
}

// Start loads or builds the voice profile and hands it to the generator
func (s *Session) Start(ctx context.Context) error {
	return s.RefreshVoice(ctx)
}

// RefreshVoice reloads the stored profile, rebuilding it once enough new posts have arrived
func (s *Session) RefreshVoice(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.Voice.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize voice profile: %w", err)
	}
	s.Generator.SetProfile(profile)
	return nil
}

// Profile returns the current voice profile, nil while the user has too few posts
func (s *Session) Profile() *models.VoiceProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Voice.Profile()
}

// RebuildVoice applies the rebuild rule on demand and reports whether the profile was replaced.
// An existing profile is kept until enough new authored posts have arrived.
func (s *Session) RebuildVoice(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rebuilt, err := s.Voice.Refresh(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to refresh voice profile: %w", err)
	}
	s.Generator.SetProfile(s.Voice.Profile())
	return rebuilt, nil
}

// Generate fills a catalog template. An empty platform skips platform adaptation.
func (s *Session) Generate(ctx context.Context, templateID, platform string, custom map[string]string) (*models.GeneratedContent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if platform == "" {
		return s.Generator.GenerateByID(ctx, templateID, custom)
	}

	tpl, err := generator.TemplateByID(templateID)
	if err != nil {
		return nil, err
	}
	return s.Generator.GenerateForPlatform(ctx, tpl, platform, custom)
}

// SaveDraft persists generated content as an AI-generated draft post
func (s *Session) SaveDraft(ctx context.Context, content *models.GeneratedContent, platform string) (*models.Post, error) {
	if platform == "" {
		platform = content.Platform
	}
	if platform == "" {
		platform = models.PlatformLinkedIn
	}

	post := models.NewPost(s.UserID, platform, content.Content, content.ContentType, content.Tone)
	post.IsAIGenerated = true
	post.TemplateID = content.TemplateID
	post.Hashtags = content.Hashtags
	post.PerformanceScore = float64(content.EngagementScore)

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	log.Printf("📝 Saved %s draft %s from template %s", platform, post.ID, content.TemplateID)
	return post, nil
}

// RecordPost stores a post the user wrote themselves and drops cached insights
func (s *Session) RecordPost(ctx context.Context, post *models.Post) error {
	post.UserID = s.UserID
	post.IsAIGenerated = false
	if err := s.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	s.invalidateInsights(ctx)
	return nil
}

// ImportMetrics refreshes stale metrics and drops cached insights on any new data
func (s *Session) ImportMetrics(ctx context.Context) (engagement.ImportResult, error) {
	result, err := s.Importer.ImportMetrics(ctx)
	if result.Imported > 0 {
		s.invalidateInsights(ctx)
	}
	return result, err
}

func (s *Session) invalidateInsights(ctx context.Context) {
	if err := s.insights.InvalidateInsights(ctx, s.UserID); err != nil {
		log.Printf("⚠️ Failed to invalidate insights cache for %s: %v", s.UserID, err)
	}
}

// Insights returns ranked insights for the window, served from cache when fresh
func (s *Session) Insights(ctx context.Context, days int) ([]models.EngagementInsight, error) {
	cached, err := s.insights.GetInsights(ctx, s.UserID, days)
	if err != nil {
		log.Printf("⚠️ Insights cache read failed for %s: %v", s.UserID, err)
	}
	if cached != nil {
		return cached, nil
	}

	insights, err := s.Analytics.GenerateInsights(ctx, days)
	if err != nil {
		return nil, err
	}

	if err := s.insights.CacheInsights(ctx, s.UserID, days, insights); err != nil {
		log.Printf("⚠️ Insights cache write failed for %s: %v", s.UserID, err)
	}
	return insights, nil
}
