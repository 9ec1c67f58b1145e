package agents

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/models"
)

// ScheduleStore is the slice of post persistence the scheduler works on
type ScheduleStore interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByStatus(ctx context.Context, userID, status string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
}

// ErrNotOwner is returned when a post ID names another user's post
var ErrNotOwner = errors.New("post belongs to another user")

type SchedulerAgent struct {
	userID   string
	postRepo ScheduleStore
	now      func() time.Time
}

type ScheduleConfig struct {
	PostsPerDay int
	// PreferredTimes overrides the per-platform optimal times when set
	PreferredTimes []string
	StartDate      time.Time
	Timezone       string
}

func NewSchedulerAgent(userID string, postRepo ScheduleStore) *SchedulerAgent {
	return &SchedulerAgent{
		userID:   userID,
		postRepo: postRepo,
		now:      time.Now,
	}
}

// ScheduleApprovedPosts places every approved post on successive days.
// Without preferred times each post goes out at the optimal time for its platform and content type.
func (s *SchedulerAgent) ScheduleApprovedPosts(ctx context.Context, config ScheduleConfig) (int, error) {
	approvedPosts, err := s.postRepo.GetByStatus(ctx, s.userID, models.StatusApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to get approved posts: %w", err)
	}

	if len(approvedPosts) == 0 {
		return 0, nil
	}

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		location = time.UTC
	}

	if config.PostsPerDay <= 0 {
		config.PostsPerDay = 1
	}
	if config.StartDate.IsZero() {
		config.StartDate = s.now().In(location).AddDate(0, 0, 1)
	}

	// Oldest approvals go out first
	sort.SliceStable(approvedPosts, func(i, j int) bool {
		return approvedPosts[i].CreatedAt.Before(approvedPosts[j].CreatedAt)
	})

	scheduledCount := 0
	currentDate := config.StartDate
	slot := 0

	for _, post := range approvedPosts {
		timeStr := generator.OptimalPostingTime(post.Platform, post.ContentType)
		if len(config.PreferredTimes) > 0 {
			timeStr = config.PreferredTimes[slot%len(config.PreferredTimes)]
		}

		scheduledTime, err := s.calculateScheduledTime(currentDate, timeStr, location)
		if err != nil {
			log.Printf("⚠️ Skipping post %s: %v", post.ID, err)
			continue
		}

		post.ScheduledAt = &scheduledTime
		post.Status = models.StatusScheduled

		if err := s.postRepo.Update(ctx, post); err != nil {
			log.Printf("⚠️ Failed to schedule post %s: %v", post.ID, err)
			continue
		}

		scheduledCount++

		slot++
		if slot >= config.PostsPerDay {
			slot = 0
			currentDate = currentDate.AddDate(0, 0, 1)
		}
	}

	log.Printf("📅 Scheduled %d/%d approved posts for %s", scheduledCount, len(approvedPosts), s.userID)
	return scheduledCount, nil
}

// GetSchedule returns scheduled posts due within the next days, soonest first
func (s *SchedulerAgent) GetSchedule(ctx context.Context, days int) ([]*models.Post, error) {
	scheduledPosts, err := s.postRepo.GetByStatus(ctx, s.userID, models.StatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled posts: %w", err)
	}

	cutoffDate := s.now().AddDate(0, 0, days)
	var filteredPosts []*models.Post

	for _, post := range scheduledPosts {
		if post.ScheduledAt != nil && post.ScheduledAt.Before(cutoffDate) {
			filteredPosts = append(filteredPosts, post)
		}
	}

	sort.SliceStable(filteredPosts, func(i, j int) bool {
		return filteredPosts[i].ScheduledAt.Before(*filteredPosts[j].ScheduledAt)
	})

	return filteredPosts, nil
}

func (s *SchedulerAgent) ReschedulePost(ctx context.Context, postID string, newTime time.Time) error {
	post, err := s.ownedPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.Status != models.StatusScheduled {
		return fmt.Errorf("post is not scheduled (status: %s)", post.Status)
	}

	post.ScheduledAt = &newTime
	if err := s.postRepo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to reschedule post: %w", err)
	}

	return nil
}

func (s *SchedulerAgent) CancelSchedule(ctx context.Context, postID string) error {
	post, err := s.ownedPost(ctx, postID)
	if err != nil {
		return err
	}

	post.Status = models.StatusApproved
	post.ScheduledAt = nil

	if err := s.postRepo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to cancel schedule: %w", err)
	}

	return nil
}

// MarkPublished records the platform's ID for a post so metrics can be imported for it
func (s *SchedulerAgent) MarkPublished(ctx context.Context, postID, platformPostID string) error {
	post, err := s.ownedPost(ctx, postID)
	if err != nil {
		return err
	}

	now := s.now()
	post.Status = models.StatusPublished
	post.PlatformPostID = platformPostID
	post.PublishedAt = &now

	if err := s.postRepo.Update(ctx, post); err != nil {
		return fmt.Errorf("failed to mark post published: %w", err)
	}

	return nil
}

// GetNextScheduledPost returns the soonest scheduled post, nil when nothing is queued
func (s *SchedulerAgent) GetNextScheduledPost(ctx context.Context) (*models.Post, error) {
	scheduledPosts, err := s.GetSchedule(ctx, 365)
	if err != nil {
		return nil, err
	}

	if len(scheduledPosts) == 0 {
		return nil, nil
	}

	return scheduledPosts[0], nil
}

func (s *SchedulerAgent) ownedPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post.UserID != s.userID {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, postID)
	}
	return post, nil
}

func (s *SchedulerAgent) calculateScheduledTime(date time.Time, timeStr string, location *time.Location) (time.Time, error) {
	parsedTime, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format: %w", err)
	}

	scheduledTime := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		parsedTime.Hour(),
		parsedTime.Minute(),
		0, 0,
		location,
	)

	return scheduledTime, nil
}
