package generator

import (
	"fmt"

	"github.com/shubh-37/content-intelligence/internal/models"
)

var allPlatforms = []string{models.PlatformLinkedIn, models.PlatformTwitter, models.PlatformInstagram}

// catalog is the static template set. Entries are never modified at runtime.
var catalog = []models.ContentTemplate{
	{
		ID:       "transformation-journey",
		Name:     "Transformation journey",
		Category: models.CategoryTransformation,
		Template: "{timeframe} ago I was {before_state}.\n\n" +
			"Today I'm {after_state}.\n\n" +
			"The difference? {habit_name}, every single day. {streak_days} days in a row now.\n\n" +
			"{lesson}\n\n{hashtags}",
		Variables:    []string{"timeframe", "before_state", "after_state", "habit_name", "streak_days", "lesson"},
		Platforms:    allPlatforms,
		OptimalTimes: []string{"08:00", "12:00", "18:00"},
	},
	{
		ID:       "goal-milestone",
		Name:     "Goal milestone",
		Category: models.CategoryTransformation,
		Template: "Milestone update: I'm {goal_progress}% of the way to {goal_title}.\n\n" +
			"{days_remaining} days left and the path is clearer than ever.\n\n" +
			"{reflection}\n\n{hashtags}",
		Variables:    []string{"goal_progress", "goal_title", "days_remaining", "reflection"},
		Platforms:    []string{models.PlatformLinkedIn, models.PlatformInstagram},
		OptimalTimes: []string{"09:00", "17:00"},
	},
	{
		ID:       "habit-streak",
		Name:     "Habit streak",
		Category: models.CategoryHabits,
		Template: "Day {streak_days} of {habit_name}.\n\n" +
			"Completion rate so far: {completion_rate}%.\n\n" +
			"{insight}\n\n{call_to_action}\n\n{hashtags}",
		Variables:    []string{"streak_days", "habit_name", "completion_rate", "insight", "call_to_action"},
		Platforms:    allPlatforms,
		OptimalTimes: []string{"07:00", "12:00", "19:00"},
	},
	{
		ID:       "habit-stack",
		Name:     "Habit stack",
		Category: models.CategoryHabits,
		Template: "I track {habit_count} daily habits. The one that changed everything: {habit_name}.\n\n" +
			"Longest streak: {longest_streak} days.\n\n{insight}\n\n{hashtags}",
		Variables:    []string{"habit_count", "habit_name", "longest_streak", "insight"},
		Platforms:    []string{models.PlatformLinkedIn, models.PlatformTwitter},
		OptimalTimes: []string{"08:00", "13:00"},
	},
	{
		ID:           "motivation-quote",
		Name:         "Motivation quote",
		Category:     models.CategoryMotivation,
		Template:     "\"{quote}\"\n\n{reflection}\n\n{call_to_action}\n\n{hashtags}",
		Variables:    []string{"quote", "reflection", "call_to_action"},
		Platforms:    allPlatforms,
		OptimalTimes: []string{"06:00", "08:00", "20:00"},
	},
	{
		ID:           "weekly-challenge",
		Name:         "Weekly challenge",
		Category:     models.CategoryMotivation,
		Template:     "This week's challenge: {challenge}.\n\n{reflection}\n\n{hashtags}",
		Variables:    []string{"challenge", "reflection"},
		Platforms:    allPlatforms,
		OptimalTimes: []string{"07:00", "09:00"},
	},
	{
		ID:       "tips-list",
		Name:     "Three tips",
		Category: models.CategoryEducation,
		Template: "{topic}: 3 things that actually work\n\n" +
			"1. {tip_1}\n2. {tip_2}\n3. {tip_3}\n\n{call_to_action}\n\n{hashtags}",
		Variables:    []string{"topic", "tip_1", "tip_2", "tip_3", "call_to_action"},
		Platforms:    []string{models.PlatformLinkedIn, models.PlatformTwitter},
		OptimalTimes: []string{"09:00", "11:00", "14:00"},
	},
	{
		ID:       "lesson-learned",
		Name:     "Lesson learned",
		Category: models.CategoryEducation,
		Template: "The biggest lesson from {timeframe} of {habit_name}:\n\n" +
			"{lesson}\n\n{insight}\n\n{hashtags}",
		Variables:    []string{"timeframe", "habit_name", "lesson", "insight"},
		Platforms:    []string{models.PlatformLinkedIn},
		OptimalTimes: []string{"10:00", "15:00"},
	},
}

// Templates returns a copy of the catalog
func Templates() []models.ContentTemplate {
	out := make([]models.ContentTemplate, len(catalog))
	copy(out, catalog)
	return out
}

// TemplateByID looks up a catalog entry
func TemplateByID(id string) (models.ContentTemplate, error) {
	for _, t := range catalog {
		if t.ID == id {
			return t, nil
		}
	}
	return models.ContentTemplate{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
}

// TemplatesForPlatform lists the templates eligible for a platform
func TemplatesForPlatform(platform string) []models.ContentTemplate {
	var out []models.ContentTemplate
	for _, t := range catalog {
		if t.SupportsPlatform(platform) {
			out = append(out, t)
		}
	}
	return out
}

// ContentTypeFor maps a template category to the content type label
func ContentTypeFor(category string) string {
	switch category {
	case models.CategoryTransformation:
		return models.ContentTypeStory
	case models.CategoryHabits:
		return models.ContentTypeTips
	case models.CategoryEducation:
		return models.ContentTypeEducational
	default:
		return models.ContentTypeMotivational
	}
}
