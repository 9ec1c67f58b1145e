package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shubh-37/content-intelligence/internal/database"
	"github.com/shubh-37/content-intelligence/internal/models"
)

func newHabitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "habit <name>",
		Short: "Check in a habit for today, creating it on first use",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			repo := database.NewUserStateRepository(a.db)
			name := strings.Join(args, " ")

			habits, err := repo.GetHabits(ctx, userFlag)
			if err != nil {
				return err
			}

			var habit *models.Habit
			for _, h := range habits {
				if strings.EqualFold(h.Name, name) {
					habit = h
					break
				}
			}

			now := time.Now().In(cfg.Location())
			if habit == nil {
				habit = models.NewHabit(userFlag, name)
				checkIn(habit, now)
				if err := repo.CreateHabit(ctx, habit); err != nil {
					return err
				}
			} else {
				checkIn(habit, now)
				if err := repo.UpdateHabit(ctx, habit); err != nil {
					return err
				}
			}

			fmt.Printf("%s: %d day streak (longest %d)\n", habit.Name, habit.CurrentStreak, habit.LongestStreak)
			return nil
		},
	}
}

// checkIn extends the streak when the last completion was yesterday and restarts it after a gap
func checkIn(habit *models.Habit, now time.Time) {
	today := startOfDay(now)
	created := startOfDay(habit.CreatedAt.In(now.Location()))

	completed := 0.0
	if habit.LastCompleted != nil {
		last := startOfDay(habit.LastCompleted.In(now.Location()))
		completed = habit.CompletionRate / 100 * float64(daysBetween(created, last)+1)
		switch {
		case !last.Before(today):
			return
		case last.Equal(today.AddDate(0, 0, -1)):
			habit.CurrentStreak++
		default:
			habit.CurrentStreak = 1
		}
	} else {
		habit.CurrentStreak = 1
	}

	if habit.CurrentStreak > habit.LongestStreak {
		habit.LongestStreak = habit.CurrentStreak
	}

	days := daysBetween(created, today) + 1
	habit.CompletionRate = (completed + 1) / float64(days) * 100
	if habit.CompletionRate > 100 {
		habit.CompletionRate = 100
	}

	habit.LastCompleted = &now
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(time.Hour).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func newGoalCmd() *cobra.Command {
	var (
		target   string
		progress float64
		complete string
	)

	cmd := &cobra.Command{
		Use:   "goal [title]",
		Short: "Add an active goal, or complete one with --complete <id>",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			repo := database.NewUserStateRepository(a.db)

			if complete != "" {
				if err := repo.UpdateGoalStatus(ctx, complete, "completed"); err != nil {
					return err
				}
				fmt.Printf("goal %s completed\n", complete)
				return nil
			}

			if len(args) == 0 {
				goals, err := repo.GetActiveGoals(ctx, userFlag)
				if err != nil {
					return err
				}
				return printJSON(goals)
			}

			goal := models.NewGoal(userFlag, strings.Join(args, " "))
			goal.Progress = progress
			if target != "" {
				t, err := time.ParseInLocation("2006-01-02", target, cfg.Location())
				if err != nil {
					return fmt.Errorf("invalid --target %q, want YYYY-MM-DD: %w", target, err)
				}
				goal.TargetDate = &t
			}

			if err := repo.CreateGoal(ctx, goal); err != nil {
				return err
			}
			fmt.Printf("goal %s added\n", goal.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "target date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&progress, "progress", 0, "current progress, 0-100")
	cmd.Flags().StringVar(&complete, "complete", "", "mark the goal with this ID completed")
	return cmd
}
