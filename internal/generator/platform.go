package generator

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

// PlatformLimits are hard character caps per platform
var PlatformLimits = map[string]int{
	models.PlatformTwitter:   280,
	models.PlatformLinkedIn:  3000,
	models.PlatformInstagram: 2200,
}

// adaptForPlatform applies the profile's per-platform habits, then enforces the hard limit
func (g *Generator) adaptForPlatform(d *draft, platform string) {
	if g.profile != nil {
		if pa, ok := g.profile.PlatformAdaptation[platform]; ok && pa.PostCount > 0 {
			switch {
			case pa.EmojiUsage > 0.5 && !analyzer.HasEmoji(d.body):
				d.body = injectEmoji(d.body)
			case pa.EmojiUsage < 0.1 && analyzer.HasEmoji(d.body):
				d.body = stripEmojiLines(d.body)
			}

			if pa.AvgLength > 0 && utf8.RuneCountInString(d.body) > pa.AvgLength*3/2 {
				d.body = firstParagraphs(d.body, 2)
			}

			keep := int(math.Round(pa.AvgHashtags))
			if keep < 1 {
				keep = 1
			}
			if keep < len(d.hashtags) {
				d.hashtags = d.hashtags[:keep]
			}
		}
	}

	limit, ok := PlatformLimits[platform]
	if !ok {
		return
	}

	// hashtags may take at most a quarter of the budget
	for len(d.hashtags) > 0 && tagLineLength(d.hashtags) > limit/4 {
		d.hashtags = d.hashtags[:len(d.hashtags)-1]
	}

	available := limit
	if len(d.hashtags) > 0 {
		available -= tagLineLength(d.hashtags)
	}
	d.body = truncate(d.body, available)
}

// tagLineLength counts the hashtag line plus its blank-line separator
func tagLineLength(tags []string) int {
	return utf8.RuneCountInString(strings.Join(tags, " ")) + 2
}

func stripEmojiLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(analyzer.StripEmoji(line))
	}
	return strings.Join(lines, "\n")
}

// truncate cuts at a word boundary and marks the cut with an ellipsis
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return string(runes[:limit])
	}

	cut := string(runes[:limit-1])
	if i := strings.LastIndexAny(cut, " \n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n,.;:") + "…"
}
