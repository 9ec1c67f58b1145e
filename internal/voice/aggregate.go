package voice

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

// Fallbacks used when none of the sampled posts carry engagement metrics
const (
	defaultBestLength       = 250
	defaultBestTone         = models.ToneInspirational
	defaultBestTime         = "09:00"
	defaultBestHashtagCount = 5

	topPerformerFraction = 0.2
	maxPreferredTopics   = 3
)

type analyzedPost struct {
	post     *models.Post
	analysis analyzer.ContentAnalysis
}

// BuildProfile folds a sample of authored posts into a fresh profile
func BuildProfile(userID string, posts []*models.Post, now time.Time) *models.VoiceProfile {
	analyzed := make([]analyzedPost, 0, len(posts))
	for _, p := range posts {
		analyzed = append(analyzed, analyzedPost{
			post:     p,
			analysis: analyzer.Analyze(p.Content, &analyzer.Metadata{Platform: p.Platform, PostedAt: p.PostedAt()}),
		})
	}

	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Content
	}

	languagePatterns := languagePatterns(analyzed)

	return &models.VoiceProfile{
		UserID:             userID,
		AveragePostLength:  averageLength(analyzed),
		ToneProfile:        toneProfile(analyzed),
		LanguagePatterns:   languagePatterns,
		Vocabulary:         buildVocabulary(texts),
		EngagementPatterns: engagementPatterns(analyzed),
		ContentPreferences: contentPreferences(analyzed, languagePatterns),
		PlatformAdaptation: platformAdaptation(analyzed),
		PostCount:          len(posts),
		Confidence:         Confidence(len(posts)),
		LastUpdated:        now,
	}
}

func averageLength(posts []analyzedPost) int {
	if len(posts) == 0 {
		return 0
	}
	total := 0
	for _, p := range posts {
		total += p.analysis.Length
	}
	return int(math.Round(float64(total) / float64(len(posts))))
}

func toneProfile(posts []analyzedPost) models.ToneProfile {
	var tp models.ToneProfile
	if len(posts) == 0 {
		return tp
	}
	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.analysis.Tone]++
	}
	n := float64(len(posts))
	tp.Professional = float64(counts[models.ToneProfessional]) / n
	tp.Casual = float64(counts[models.ToneCasual]) / n
	tp.Inspirational = float64(counts[models.ToneInspirational]) / n
	tp.Educational = float64(counts[models.ToneEducational]) / n
	return tp
}

func languagePatterns(posts []analyzedPost) models.LanguagePatterns {
	var lp models.LanguagePatterns
	if len(posts) == 0 {
		return lp
	}
	var emoji, question, exclamation, link, hashtags int
	for _, p := range posts {
		e := p.analysis.Engagement
		if e.HasEmoji {
			emoji++
		}
		if e.HasQuestion {
			question++
		}
		if e.HasExclamation {
			exclamation++
		}
		if e.HasLink {
			link++
		}
		hashtags += e.HashtagCount
	}
	n := float64(len(posts))
	lp.EmojiUsage = float64(emoji) / n
	lp.QuestionUsage = float64(question) / n
	lp.ExclamationUsage = float64(exclamation) / n
	lp.LinkUsage = float64(link) / n
	lp.HashtagUsage = float64(hashtags) / n
	return lp
}

// engagementPatterns looks only at the top 20% of posts by engagement rate
func engagementPatterns(posts []analyzedPost) models.EngagementPatterns {
	var measured []analyzedPost
	for _, p := range posts {
		if p.post.Metrics != nil {
			measured = append(measured, p)
		}
	}

	if len(measured) == 0 {
		return models.EngagementPatterns{
			BestLength:       defaultBestLength,
			BestTone:         defaultBestTone,
			BestTime:         defaultBestTime,
			BestHashtagCount: defaultBestHashtagCount,
		}
	}

	sort.SliceStable(measured, func(i, j int) bool {
		return measured[i].post.Metrics.EngagementRate > measured[j].post.Metrics.EngagementRate
	})

	n := int(float64(len(measured)) * topPerformerFraction)
	if n < 1 {
		n = 1
	}
	top := measured[:n]

	var length, hashtags int
	tones := make(map[string]int)
	hours := make(map[int]int)
	for _, p := range top {
		length += p.analysis.Length
		hashtags += p.analysis.Engagement.HashtagCount
		tones[p.analysis.Tone]++
		hours[p.post.PostedAt().Hour()]++
	}

	bestTone := models.ToneCasual
	bestToneCount := 0
	for _, tone := range models.Tones {
		if tones[tone] > bestToneCount {
			bestTone, bestToneCount = tone, tones[tone]
		}
	}

	bestHour, bestHourCount := 0, 0
	for h := 0; h < 24; h++ {
		if hours[h] > bestHourCount {
			bestHour, bestHourCount = h, hours[h]
		}
	}

	return models.EngagementPatterns{
		BestLength:       int(math.Round(float64(length) / float64(n))),
		BestTone:         bestTone,
		BestTime:         fmt.Sprintf("%02d:00", bestHour),
		BestHashtagCount: int(math.Round(float64(hashtags) / float64(n))),
		SampleSize:       n,
	}
}

func contentPreferences(posts []analyzedPost, lp models.LanguagePatterns) models.ContentPreferences {
	prefs := models.ContentPreferences{
		PreferredTopics:     preferredTopics(posts),
		CallToActionStyle:   "soft",
		StorytellingPerson:  storytellingPerson(posts),
		StructurePreference: structurePreference(posts),
	}
	if len(posts) == 0 {
		return prefs
	}

	direct := 0
	for _, p := range posts {
		if analyzer.HasCallToActionVerb(p.post.Content) {
			direct++
		}
	}
	switch {
	case float64(direct)/float64(len(posts)) >= 0.5:
		prefs.CallToActionStyle = "direct"
	case lp.QuestionUsage >= 0.3:
		prefs.CallToActionStyle = "question"
	}
	return prefs
}

func preferredTopics(posts []analyzedPost) []string {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, topic := range p.analysis.Topics {
			counts[topic]++
		}
	}
	return topN(counts, maxPreferredTopics, 1)
}

func storytellingPerson(posts []analyzedPost) string {
	var first, collective, second int
	for _, p := range posts {
		for _, w := range analyzer.Words(p.post.Content) {
			switch w {
			case "i", "me", "my", "i'm", "i've", "mine":
				first++
			case "we", "our", "us", "we're", "ours":
				collective++
			case "you", "your", "you're", "yours":
				second++
			}
		}
	}
	switch {
	case first >= collective && first >= second:
		return "first_person"
	case collective >= second:
		return "collective"
	default:
		return "second_person"
	}
}

func structurePreference(posts []analyzedPost) string {
	if len(posts) == 0 {
		return "single_block"
	}
	var listPosts, paragraphs int
	for _, p := range posts {
		listLines := 0
		for _, line := range strings.Split(p.post.Content, "\n") {
			if isListLine(line) {
				listLines++
			}
		}
		if listLines >= 2 {
			listPosts++
		}
		paragraphs += len(splitParagraphs(p.post.Content))
	}

	n := float64(len(posts))
	switch {
	case float64(listPosts)/n > 0.3:
		return "list"
	case float64(paragraphs)/n >= 3:
		return "multi_paragraph"
	default:
		return "single_block"
	}
}

func platformAdaptation(posts []analyzedPost) map[string]models.PlatformAdaptation {
	grouped := make(map[string][]analyzedPost)
	for _, p := range posts {
		if p.post.Platform == "" {
			continue
		}
		grouped[p.post.Platform] = append(grouped[p.post.Platform], p)
	}

	result := make(map[string]models.PlatformAdaptation, len(grouped))
	for platform, group := range grouped {
		lp := languagePatterns(group)
		result[platform] = models.PlatformAdaptation{
			PostCount:     len(group),
			AvgLength:     averageLength(group),
			EmojiUsage:    lp.EmojiUsage,
			AvgHashtags:   lp.HashtagUsage,
			PreferredTone: toneProfile(group).Dominant(),
		}
	}
	return result
}

func isListLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*") {
		return true
	}
	return len(line) > 1 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')')
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// topN ranks keys by count descending, then alphabetically, keeping those with count >= minCount
func topN(counts map[string]int, n, minCount int) []string {
	keys := make([]string, 0, len(counts))
	for k, c := range counts {
		if c >= minCount {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
