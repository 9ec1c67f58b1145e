package models

import "time"

const (
	PlatformLinkedIn  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformInstagram = "instagram"
)

const (
	StatusDraft     = "draft"
	StatusApproved  = "approved"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// Post represents a social post in any stage, authored by the user or generated
type Post struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	Platform         string             `json:"platform"`
	PlatformPostID   string             `json:"platform_post_id,omitempty"`
	Content          string             `json:"content"`
	Status           string             `json:"status"`
	IsAIGenerated    bool               `json:"is_ai_generated"`
	TemplateID       string             `json:"template_id,omitempty"`
	ContentType      string             `json:"content_type"` // "motivational", "educational", "milestone", ...
	Tone             string             `json:"tone"`
	Hashtags         []string           `json:"hashtags"`
	CreatedAt        time.Time          `json:"created_at"`
	ScheduledAt      *time.Time         `json:"scheduled_at,omitempty"`
	PublishedAt      *time.Time         `json:"published_at,omitempty"`
	Metrics          *EngagementMetrics `json:"engagement_metrics,omitempty"`
	MetricsUpdatedAt *time.Time         `json:"metrics_updated_at,omitempty"`
	PerformanceScore float64            `json:"performance_score"`
	ABTestID         string             `json:"ab_test_id,omitempty"`
	VariantID        string             `json:"variant_id,omitempty"`
}

// NewPost creates a new post draft
func NewPost(userID, platform, content, contentType, tone string) *Post {
	return &Post{
		UserID:      userID,
		Platform:    platform,
		Content:     content,
		Status:      StatusDraft,
		ContentType: contentType,
		Tone:        tone,
		Hashtags:    []string{},
		CreatedAt:   time.Now(),
	}
}

// PostedAt is the publish time when known, otherwise the creation time
func (p *Post) PostedAt() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// EngagementRate returns the post's engagement rate, 0 when no metrics are attached
func (p *Post) EngagementRate() float64 {
	if p.Metrics == nil {
		return 0
	}
	return p.Metrics.EngagementRate
}
