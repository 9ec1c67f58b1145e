package generator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// userSnapshot is the live state read once per generation call
type userSnapshot struct {
	habits []*models.Habit
	goals  []*models.Goal
	now    time.Time
}

// topHabit is the habit with the longest current streak
func (s *userSnapshot) topHabit() *models.Habit {
	var best *models.Habit
	for _, h := range s.habits {
		if best == nil || h.CurrentStreak > best.CurrentStreak {
			best = h
		}
	}
	return best
}

// nearestGoal is the active goal with the closest target date. Goals without a date sort last.
func (s *userSnapshot) nearestGoal() *models.Goal {
	if len(s.goals) == 0 {
		return nil
	}
	goals := make([]*models.Goal, len(s.goals))
	copy(goals, s.goals)
	sort.SliceStable(goals, func(i, j int) bool {
		a, b := goals[i].TargetDate, goals[j].TargetDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return goals[0]
}

type resolver func(g *Generator, s *userSnapshot) string

var resolvers = map[string]resolver{
	"habit_name": func(g *Generator, s *userSnapshot) string {
		if h := s.topHabit(); h != nil && h.Name != "" {
			return strings.ToLower(h.Name)
		}
		return g.pick(habitNames)
	},
	"streak_days": func(g *Generator, s *userSnapshot) string {
		if h := s.topHabit(); h != nil && h.CurrentStreak > 0 {
			return fmt.Sprintf("%d", h.CurrentStreak)
		}
		return g.pick([]string{"7", "14", "21", "30"})
	},
	"longest_streak": func(g *Generator, s *userSnapshot) string {
		longest := 0
		for _, h := range s.habits {
			if h.LongestStreak > longest {
				longest = h.LongestStreak
			}
		}
		if longest > 0 {
			return fmt.Sprintf("%d", longest)
		}
		return g.pick([]string{"30", "45", "66"})
	},
	"completion_rate": func(g *Generator, s *userSnapshot) string {
		if h := s.topHabit(); h != nil && h.CompletionRate > 0 {
			return fmt.Sprintf("%.0f", h.CompletionRate)
		}
		return g.pick([]string{"75", "80", "90"})
	},
	"habit_count": func(g *Generator, s *userSnapshot) string {
		if len(s.habits) > 0 {
			return fmt.Sprintf("%d", len(s.habits))
		}
		return g.pick([]string{"3", "4", "5"})
	},
	"goal_title": func(g *Generator, s *userSnapshot) string {
		if goal := s.nearestGoal(); goal != nil && goal.Title != "" {
			return strings.ToLower(goal.Title)
		}
		return g.pick(goalTitles)
	},
	"goal_progress": func(g *Generator, s *userSnapshot) string {
		if goal := s.nearestGoal(); goal != nil {
			return fmt.Sprintf("%.0f", goal.Progress)
		}
		return g.pick([]string{"40", "60", "75"})
	},
	"days_remaining": func(g *Generator, s *userSnapshot) string {
		if goal := s.nearestGoal(); goal != nil && goal.TargetDate != nil {
			days := int(math.Ceil(goal.TargetDate.Sub(s.now).Hours() / 24))
			if days < 0 {
				days = 0
			}
			return fmt.Sprintf("%d", days)
		}
		return g.pick([]string{"30", "60", "90"})
	},
	"topic": func(g *Generator, s *userSnapshot) string {
		if g.profile != nil && len(g.profile.ContentPreferences.PreferredTopics) > 0 {
			return topicTitle(g.profile.ContentPreferences.PreferredTopics[0])
		}
		return g.pick([]string{"Building habits", "Deep work", "Staying consistent"})
	},
	"timeframe":      poolResolver([]string{"A year", "Six months", "90 days", "Two years"}),
	"before_state":   poolResolver(beforeStates),
	"after_state":    poolResolver(afterStates),
	"lesson":         poolResolver(lessons),
	"insight":        poolResolver(insights),
	"reflection":     poolResolver(reflections),
	"quote":          poolResolver(quotes),
	"challenge":      poolResolver(challenges),
	"call_to_action": poolResolver(callsToAction),
	"tip_1":          poolResolver(tipsStart),
	"tip_2":          poolResolver(tipsKeep),
	"tip_3":          poolResolver(tipsReview),
}

func poolResolver(pool []string) resolver {
	return func(g *Generator, _ *userSnapshot) string {
		return g.pick(pool)
	}
}

func topicTitle(topic string) string {
	t := strings.ReplaceAll(topic, "_", " ")
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}

var habitNames = []string{"a morning walk", "daily journaling", "reading 20 pages", "a 10 minute meditation"}

var goalTitles = []string{"running a half marathon", "shipping my side project", "reading 24 books this year"}

var beforeStates = []string{
	"running on four hours of sleep and endless coffee",
	"starting every week with good intentions and ending it exhausted",
	"saying yes to everything and finishing nothing",
}

var afterStates = []string{
	"calmer, sharper and finally in control of my mornings",
	"showing up with energy instead of running on fumes",
	"doing less but finishing what matters",
}

var lessons = []string{
	"Small steps compound faster than big plans.",
	"Consistency beats intensity every single time.",
	"You don't rise to your goals, you fall to your systems.",
	"Progress hides in the boring days.",
}

var insights = []string{
	"The hardest part is never the work. It's starting.",
	"Tracking it made me honest about what I actually do.",
	"Missing once is an accident. Missing twice is a new habit.",
	"Energy follows attention.",
}

var reflections = []string{
	"Looking back, the wins came from the days I almost skipped.",
	"Every plateau taught me something the breakthroughs never did.",
	"The version of me from last year would not believe this.",
}

var quotes = []string{
	"Discipline is choosing between what you want now and what you want most.",
	"Motivation gets you going. Habit keeps you going.",
	"Start where you are. Use what you have. Do what you can.",
}

var challenges = []string{
	"no phone for the first hour of the day",
	"ten minutes of deep focus before opening email",
	"one page of writing every morning",
}

var callsToAction = []string{
	"What's one habit that changed your year?",
	"Drop your current streak in the comments.",
	"Share this with someone building their own routine.",
	"Tell me what you're working on this week.",
}

var tipsStart = []string{
	"Start smaller than feels useful",
	"Attach the new habit to one you already have",
	"Decide the night before",
}

var tipsKeep = []string{
	"Track it somewhere you look every day",
	"Make skipping harder than doing",
	"Protect the time on your calendar",
}

var tipsReview = []string{
	"Review what worked every Sunday",
	"Celebrate the streak, not just the outcome",
	"Never miss twice",
}

var engagementQuestions = []string{
	"What would you add?",
	"Have you tried something similar?",
	"What's working for you right now?",
	"Which part resonates with you most?",
	"How do you approach this?",
}
