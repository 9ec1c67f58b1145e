package models

import "time"

// Habit is a read-only view of the user's habit tracking data
type Habit struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Name           string     `json:"name"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	CompletionRate float64    `json:"completion_rate"` // 0-100
	LastCompleted  *time.Time `json:"last_completed,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Goal is a read-only view of an active goal
type Goal struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Progress   float64    `json:"progress"` // 0-100
	TargetDate *time.Time `json:"target_date,omitempty"`
	Status     string     `json:"status"` // "active", "completed", "paused"
	CreatedAt  time.Time  `json:"created_at"`
}

// NewHabit creates a habit with defaults
func NewHabit(userID, name string) *Habit {
	return &Habit{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// NewGoal creates an active goal
func NewGoal(userID, title string) *Goal {
	return &Goal{
		UserID:    userID,
		Title:     title,
		Status:    "active",
		CreatedAt: time.Now(),
	}
}
