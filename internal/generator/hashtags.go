package generator

import (
	"strings"
	"time"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	maxHashtags           = 6
	maxContextualHashtags = 2
)

var baseHashtags = map[string][]string{
	models.CategoryTransformation: {"#Transformation", "#GrowthMindset", "#PersonalGrowth"},
	models.CategoryHabits:         {"#Habits", "#Consistency", "#DailyRoutine"},
	models.CategoryMotivation:     {"#Motivation", "#Mindset", "#Inspiration"},
	models.CategoryEducation:      {"#Learning", "#Tips", "#Education"},
}

var defaultHashtags = []string{"#Growth", "#Productivity", "#Community"}

// contextualHashtags fire on substring matches in the lowercased body, first match first
var contextualHashtags = []struct {
	keywords []string
	tag      string
}{
	{[]string{"workout", "fitness", "gym", "run"}, "#Fitness"},
	{[]string{"read", "book"}, "#Reading"},
	{[]string{"meditat", "mindful", "breath"}, "#Mindfulness"},
	{[]string{"journal", "writing"}, "#Journaling"},
	{[]string{"focus", "productiv", "deep work"}, "#Productivity"},
	{[]string{"sleep", "health", "energy"}, "#Wellness"},
	{[]string{"career", "job", "promotion"}, "#Career"},
	{[]string{"startup", "founder", "side project"}, "#Entrepreneurship"},
	{[]string{"code", "developer", "software"}, "#Tech"},
}

var dayHashtags = map[time.Weekday]string{
	time.Sunday:    "#SundayReflection",
	time.Monday:    "#MondayMotivation",
	time.Tuesday:   "#TransformationTuesday",
	time.Wednesday: "#WisdomWednesday",
	time.Thursday:  "#ThursdayThoughts",
	time.Friday:    "#FridayFeeling",
	time.Saturday:  "#SaturdayVibes",
}

// GenerateHashtags builds the tag list for a body: category base tags, up to
// two contextual tags and the weekday tag. Duplicates are dropped case-insensitively
// and the list never exceeds six entries.
func GenerateHashtags(category, body string, day time.Weekday) []string {
	base, ok := baseHashtags[category]
	if !ok {
		base = defaultHashtags
	}

	candidates := make([]string, 0, len(base)+maxContextualHashtags+1)
	candidates = append(candidates, base...)

	lower := strings.ToLower(body)
	contextual := 0
	for _, entry := range contextualHashtags {
		if contextual == maxContextualHashtags {
			break
		}
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				candidates = append(candidates, entry.tag)
				contextual++
				break
			}
		}
	}

	candidates = append(candidates, dayHashtags[day])

	seen := make(map[string]struct{}, len(candidates))
	tags := make([]string, 0, maxHashtags)
	for _, tag := range candidates {
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxHashtags {
			break
		}
	}
	return tags
}
