package generator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

var (
	numberedListPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s`)
	digitPattern        = regexp.MustCompile(`\d`)
)

// Score is the advisory 0-100 engagement estimate for a finished post
func Score(content, category string) int {
	score := 50

	length := utf8.RuneCountInString(content)
	switch {
	case length >= 100 && length <= 280:
		score += 15
	case length > 280 && length <= 500:
		score += 10
	case length > 500:
		score -= 10
	}

	if analyzer.HasEmoji(content) {
		score += 10
	}
	if strings.Contains(content, "?") {
		score += 15
	}
	if analyzer.HasCallToActionVerb(content) {
		score += 10
	}

	hashtags := analyzer.HashtagCount(content)
	switch {
	case hashtags >= 3 && hashtags <= 7:
		score += 10
	case hashtags > 7:
		score -= 5
	}

	score += categoryBonus(content, category)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func categoryBonus(content, category string) int {
	switch category {
	case models.CategoryTransformation:
		return 5
	case models.CategoryEducation:
		if numberedListPattern.MatchString(content) {
			return 5
		}
	case models.CategoryHabits:
		if digitPattern.MatchString(content) {
			return 5
		}
	}
	return 0
}
