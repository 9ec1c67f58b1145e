package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// UserStateRepository reads the habit and goal data that feeds template variables
type UserStateRepository struct {
	db *DB
}

func NewUserStateRepository(db *DB) *UserStateRepository {
	return &UserStateRepository{db: db}
}

// CreateHabit inserts a new habit
func (r *UserStateRepository) CreateHabit(ctx context.Context, habit *models.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}

	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO habits (id, user_id, name, current_streak, longest_streak, completion_rate, last_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.CurrentStreak,
		habit.LongestStreak,
		habit.CompletionRate,
		habit.LastCompleted,
		habit.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetHabits returns the user's habits, longest current streak first
func (r *UserStateRepository) GetHabits(ctx context.Context, userID string) ([]*models.Habit, error) {
	query := `
		SELECT id, user_id, name, current_streak, longest_streak, completion_rate, last_completed, created_at
		FROM habits
		WHERE user_id = $1
		ORDER BY current_streak DESC, created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		err := rows.Scan(
			&habit.ID,
			&habit.UserID,
			&habit.Name,
			&habit.CurrentStreak,
			&habit.LongestStreak,
			&habit.CompletionRate,
			&habit.LastCompleted,
			&habit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}

	return habits, rows.Err()
}

// UpdateHabit updates streak counters and completion data
func (r *UserStateRepository) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	query := `
		UPDATE habits
		SET name = $2, current_streak = $3, longest_streak = $4, completion_rate = $5, last_completed = $6
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		habit.ID,
		habit.Name,
		habit.CurrentStreak,
		habit.LongestStreak,
		habit.CompletionRate,
		habit.LastCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateGoal inserts a new goal
func (r *UserStateRepository) CreateGoal(ctx context.Context, goal *models.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}

	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}

	if goal.Status == "" {
		goal.Status = "active"
	}

	query := `
		INSERT INTO goals (id, user_id, title, progress, target_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Progress,
		goal.TargetDate,
		goal.Status,
		goal.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}

	return nil
}

// GetActiveGoals returns goals still in progress, nearest target date first
func (r *UserStateRepository) GetActiveGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	query := `
		SELECT id, user_id, title, progress, target_date, status, created_at
		FROM goals
		WHERE user_id = $1 AND status = 'active'
		ORDER BY target_date ASC NULLS LAST
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.Goal
	for rows.Next() {
		goal := &models.Goal{}
		err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Title,
			&goal.Progress,
			&goal.TargetDate,
			&goal.Status,
			&goal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}

	return goals, rows.Err()
}

// UpdateGoalStatus moves a goal between active, paused and completed
func (r *UserStateRepository) UpdateGoalStatus(ctx context.Context, id, status string) error {
	result, err := r.db.Pool.Exec(ctx, `UPDATE goals SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update goal status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
