package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/shubh-37/content-intelligence/config"
	"github.com/shubh-37/content-intelligence/internal/cache"
	"github.com/shubh-37/content-intelligence/internal/database"
	"github.com/shubh-37/content-intelligence/internal/engagement"
	"github.com/shubh-37/content-intelligence/internal/pipeline"
)

// app holds the shared wiring every database-backed subcommand needs
type app struct {
	cfg     *config.Config
	db      *database.DB
	redis   *redis.Client
	posts   *database.PostRepository
	manager *pipeline.Manager
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	db, err := database.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	redisClient, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	posts := database.NewPostRepository(db)
	stores := pipeline.Stores{
		Posts:    posts,
		Profiles: database.NewVoiceProfileRepository(db),
		History:  database.NewHistoryRepository(db),
		State:    database.NewUserStateRepository(db),
		ABTests:  database.NewABTestRepository(db),
	}

	manager := pipeline.NewManager(stores, pipeline.Options{
		Seed:        cfg.GeneratorSeed,
		Fetchers:    fetchers(cfg),
		ImportDelay: cfg.ImportDelay,
		StaleAfter:  cfg.MetricsStale,
		Cache:       cache.NewRepository(redisClient, cfg.CacheTTL),
	})

	return &app{
		cfg:     cfg,
		db:      db,
		redis:   redisClient,
		posts:   posts,
		manager: manager,
	}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️ Failed to close Redis: %v", err)
		}
	}
	a.db.Close()
}

// users lists everyone with posts plus the default user
func (a *app) users(ctx context.Context) ([]string, error) {
	ids, err := a.posts.ListUserIDs(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if id == a.cfg.DefaultUserID {
			return ids, nil
		}
	}
	return append(ids, a.cfg.DefaultUserID), nil
}

// fetchers builds an adapter for each platform with credentials configured
func fetchers(cfg *config.Config) []engagement.MetricsFetcher {
	var out []engagement.MetricsFetcher

	if cfg.LinkedInToken != "" {
		out = append(out, engagement.NewLinkedInFetcher(cfg.LinkedInAPIURL, cfg.LinkedInToken))
	}
	if cfg.TwitterToken != "" {
		out = append(out, engagement.NewTwitterFetcher(cfg.TwitterAPIURL, cfg.TwitterToken))
	}
	if cfg.InstagramToken != "" {
		out = append(out, engagement.NewInstagramFetcher(cfg.InstagramAPIURL, cfg.InstagramToken))
	}

	if len(out) == 0 {
		log.Println("⚠️ No platform credentials configured, metrics import will skip every post")
	}
	return out
}
