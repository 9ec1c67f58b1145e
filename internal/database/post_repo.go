package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const postColumns = `
	id, user_id, platform, platform_post_id, content, status, is_ai_generated,
	template_id, content_type, tone, hashtags, created_at, scheduled_at, published_at,
	engagement_metrics, metrics_updated_at, performance_score, ab_test_id, variant_id
`

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post into the database
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	metricsJSON, err := marshalMetrics(post.Metrics)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err = r.db.Pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Platform,
		post.PlatformPostID,
		post.Content,
		post.Status,
		post.IsAIGenerated,
		post.TemplateID,
		post.ContentType,
		post.Tone,
		post.Hashtags,
		post.CreatedAt,
		post.ScheduledAt,
		post.PublishedAt,
		metricsJSON,
		post.MetricsUpdatedAt,
		post.PerformanceScore,
		nullable(post.ABTestID),
		nullable(post.VariantID),
	)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", id, notFound(err))
	}

	return post, nil
}

// GetByStatus retrieves a user's posts by status
func (r *PostRepository) GetByStatus(ctx context.Context, userID, status string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
	`

	return r.queryPosts(ctx, query, userID, status)
}

// GetScheduledPosts retrieves posts that are scheduled and due
func (r *PostRepository) GetScheduledPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = 'scheduled' AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`

	return r.queryPosts(ctx, query, userID, time.Now())
}

// GetAuthoredPosts returns the user's own posts, oldest first
func (r *PostRepository) GetAuthoredPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND is_ai_generated = FALSE
		ORDER BY created_at ASC
	`

	return r.queryPosts(ctx, query, userID)
}

// CountAuthoredPostsSince counts authored posts created after since
func (r *PostRepository) CountAuthoredPostsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM posts
		WHERE user_id = $1 AND is_ai_generated = FALSE AND created_at > $2
	`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count authored posts: %w", err)
	}

	return count, nil
}

// GetPostsNeedingMetrics returns published posts whose metrics are missing or older than staleBefore
func (r *PostRepository) GetPostsNeedingMetrics(ctx context.Context, userID string, staleBefore time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = 'published'
		  AND (metrics_updated_at IS NULL OR metrics_updated_at < $2)
		ORDER BY COALESCE(published_at, created_at) DESC
	`

	return r.queryPosts(ctx, query, userID, staleBefore)
}

// UpdatePostMetrics overwrites the current metrics of a post
func (r *PostRepository) UpdatePostMetrics(ctx context.Context, postID string, metrics *models.EngagementMetrics, updatedAt time.Time) error {
	metricsJSON, err := marshalMetrics(metrics)
	if err != nil {
		return err
	}

	query := `UPDATE posts SET engagement_metrics = $2, metrics_updated_at = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, postID, metricsJSON, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update post metrics: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetPublishedPosts returns posts published at or after since, newest first
func (r *PostRepository) GetPublishedPosts(ctx context.Context, userID string, since time.Time) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1 AND status = 'published'
		  AND COALESCE(published_at, created_at) >= $2
		ORDER BY COALESCE(published_at, created_at) DESC
	`

	return r.queryPosts(ctx, query, userID, since)
}

// ListUserIDs returns every user that owns at least one post
func (r *PostRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT user_id FROM posts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Update updates a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	metricsJSON, err := marshalMetrics(post.Metrics)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET content = $2, status = $3, platform = $4, platform_post_id = $5,
		    content_type = $6, tone = $7, hashtags = $8, scheduled_at = $9, published_at = $10,
		    engagement_metrics = $11, metrics_updated_at = $12, performance_score = $13
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		post.ID,
		post.Content,
		post.Status,
		post.Platform,
		post.PlatformPostID,
		post.ContentType,
		post.Tone,
		post.Hashtags,
		post.ScheduledAt,
		post.PublishedAt,
		metricsJSON,
		post.MetricsUpdatedAt,
		post.PerformanceScore,
	)

	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatus updates only the status of a post
func (r *PostRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE posts SET status = $2 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}
	var metricsJSON []byte
	var abTestID, variantID *string

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Platform,
		&post.PlatformPostID,
		&post.Content,
		&post.Status,
		&post.IsAIGenerated,
		&post.TemplateID,
		&post.ContentType,
		&post.Tone,
		&post.Hashtags,
		&post.CreatedAt,
		&post.ScheduledAt,
		&post.PublishedAt,
		&metricsJSON,
		&post.MetricsUpdatedAt,
		&post.PerformanceScore,
		&abTestID,
		&variantID,
	)
	if err != nil {
		return nil, err
	}

	post.ABTestID = deref(abTestID)
	post.VariantID = deref(variantID)

	// A NULL column or a JSON null both mean "not measured yet"
	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &post.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
	}

	return post, nil
}

func marshalMetrics(metrics *models.EngagementMetrics) ([]byte, error) {
	if metrics == nil {
		return nil, nil
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}
	return metricsJSON, nil
}
