package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shubh-37/content-intelligence/internal/models"
)

func TestCheckIn(t *testing.T) {
	day1 := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	habit := models.NewHabit("u1", "journaling")
	habit.CreatedAt = day1

	checkIn(habit, day1)
	assert.Equal(t, 1, habit.CurrentStreak)
	assert.Equal(t, 100.0, habit.CompletionRate)

	// same day twice is a no-op
	checkIn(habit, day1.Add(6*time.Hour))
	assert.Equal(t, 1, habit.CurrentStreak)

	checkIn(habit, day1.AddDate(0, 0, 1))
	assert.Equal(t, 2, habit.CurrentStreak)
	assert.Equal(t, 2, habit.LongestStreak)

	// a missed day restarts the streak but keeps the record
	checkIn(habit, day1.AddDate(0, 0, 3))
	assert.Equal(t, 1, habit.CurrentStreak)
	assert.Equal(t, 2, habit.LongestStreak)
	assert.Less(t, habit.CompletionRate, 100.0)
}
