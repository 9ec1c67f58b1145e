package database

import (
	"context"
	"log"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	log.Println("Creating database tables...")

	// Posts table, authored and generated alike
	postsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(100) NOT NULL,
		platform VARCHAR(30) NOT NULL,
		platform_post_id VARCHAR(255) DEFAULT '',
		content TEXT NOT NULL,
		status VARCHAR(50) DEFAULT 'draft',
		is_ai_generated BOOLEAN DEFAULT FALSE,
		template_id VARCHAR(100) DEFAULT '',
		content_type VARCHAR(50) DEFAULT '',
		tone VARCHAR(50) DEFAULT '',
		hashtags TEXT[],
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		scheduled_at TIMESTAMPTZ,
		published_at TIMESTAMPTZ,
		engagement_metrics JSONB,
		metrics_updated_at TIMESTAMPTZ,
		performance_score DOUBLE PRECISION DEFAULT 0.0,
		ab_test_id UUID,
		variant_id UUID
	);
	CREATE INDEX IF NOT EXISTS idx_posts_user_status ON posts(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_posts_scheduled ON posts(scheduled_at);
	CREATE INDEX IF NOT EXISTS idx_posts_published ON posts(published_at DESC);
	CREATE INDEX IF NOT EXISTS idx_posts_authored ON posts(user_id, created_at) WHERE is_ai_generated = FALSE;
	`

	// One voice profile per user, replaced wholesale on rebuild
	voiceTable := `
	CREATE TABLE IF NOT EXISTS voice_profiles (
		user_id VARCHAR(100) PRIMARY KEY,
		profile JSONB NOT NULL,
		post_count INT NOT NULL DEFAULT 0,
		confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_updated TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	`

	// Append-only metrics history
	historyTable := `
	CREATE TABLE IF NOT EXISTS engagement_history (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		user_id VARCHAR(100) NOT NULL,
		platform VARCHAR(30) NOT NULL,
		metrics JSONB NOT NULL,
		recorded_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_history_post ON engagement_history(post_id, recorded_at);
	`

	habitsTable := `
	CREATE TABLE IF NOT EXISTS habits (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		current_streak INT DEFAULT 0,
		longest_streak INT DEFAULT 0,
		completion_rate DOUBLE PRECISION DEFAULT 0,
		last_completed TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);
	`

	goalsTable := `
	CREATE TABLE IF NOT EXISTS goals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(100) NOT NULL,
		title VARCHAR(255) NOT NULL,
		progress DOUBLE PRECISION DEFAULT 0,
		target_date TIMESTAMPTZ,
		status VARCHAR(50) DEFAULT 'active',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_goals_user_status ON goals(user_id, status);
	`

	abTestsTable := `
	CREATE TABLE IF NOT EXISTS ab_tests (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id VARCHAR(100) NOT NULL,
		name VARCHAR(255) NOT NULL,
		variants JSONB NOT NULL,
		status VARCHAR(50) DEFAULT 'running',
		winner_variant_id VARCHAR(100) DEFAULT '',
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_ab_tests_user ON ab_tests(user_id);
	`

	// Execute all table creations
	tables := []string{postsTable, voiceTable, historyTable, habitsTable, goalsTable, abTestsTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	log.Println("✅ All tables created successfully")
	return nil
}
