package analyzer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/models"
)

var (
	wordPattern     = regexp.MustCompile(`[a-z0-9']+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	hashtagPattern  = regexp.MustCompile(`#(\w+)`)
	mentionPattern  = regexp.MustCompile(`@(\w+)`)
	linkPattern     = regexp.MustCompile(`(?i)https?://\S+`)
	emojiPattern    = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{1F000}-\x{1F2FF}\x{2600}-\x{27BF}\x{2B50}\x{2B55}]`)
	ctaVerbPattern  = buildCTAPattern(callToActionVerbs)
	thoughtsPattern = regexp.MustCompile(`(?i)\byour thoughts\b`)

	syllableSuffix = regexp.MustCompile(`(?:[^laeiouy]es|ed|[^laeiouy]e)$`)
	vowelGroup     = regexp.MustCompile(`[aeiouy]{1,2}`)
)

var toneSets = func() map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(toneKeywords))
	for tone, words := range toneKeywords {
		sets[tone] = toSet(words...)
	}
	return sets
}()

// Metadata is optional context about where and when a post was published
type Metadata struct {
	Platform string
	PostedAt time.Time
}

// EngagementFactors are the surface signals that tend to drive interaction
type EngagementFactors struct {
	HasEmoji        bool `json:"has_emoji"`
	HasQuestion     bool `json:"has_question"`
	HasExclamation  bool `json:"has_exclamation"`
	HasCallToAction bool `json:"has_call_to_action"`
	HasLink         bool `json:"has_link"`
	HashtagCount    int  `json:"hashtag_count"`
	MentionCount    int  `json:"mention_count"`
}

// ContentAnalysis is the per-post scoring result. Never persisted.
type ContentAnalysis struct {
	Length      int               `json:"length"`
	WordCount   int               `json:"word_count"`
	Tone        string            `json:"tone"`
	ToneScores  map[string]int    `json:"tone_scores"`
	Sentiment   float64           `json:"sentiment"`
	Readability float64           `json:"readability"`
	Engagement  EngagementFactors `json:"engagement"`
	Topics      []string          `json:"topics"`
	Personality []string          `json:"personality"`
	Platform    string            `json:"platform,omitempty"`
	PostedAt    time.Time         `json:"posted_at,omitempty"`
}

// Analyze scores a single piece of text. It has no side effects and
// shares no mutable state, so it is safe to call from multiple goroutines.
func Analyze(text string, meta *Metadata) ContentAnalysis {
	lower := strings.ToLower(text)
	words := wordPattern.FindAllString(lower, -1)

	tone, scores := detectTone(words)

	analysis := ContentAnalysis{
		Length:      utf8.RuneCountInString(text),
		WordCount:   len(words),
		Tone:        tone,
		ToneScores:  scores,
		Sentiment:   sentiment(words),
		Readability: Readability(text),
		Engagement:  engagementFactors(text),
		Topics:      detectTopics(lower),
		Personality: detectPersonality(text),
	}

	if meta != nil {
		analysis.Platform = meta.Platform
		analysis.PostedAt = meta.PostedAt
	}

	return analysis
}

// detectTone picks the tone with most whole-word keyword hits
func detectTone(words []string) (string, map[string]int) {
	scores := make(map[string]int, len(models.Tones))
	for _, w := range words {
		for tone, set := range toneSets {
			if _, ok := set[w]; ok {
				scores[tone]++
			}
		}
	}

	best, bestScore := models.ToneCasual, 0
	for _, tone := range models.Tones {
		if scores[tone] > bestScore {
			best, bestScore = tone, scores[tone]
		}
	}
	return best, scores
}

func sentiment(words []string) float64 {
	var pos, neg int
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}

// Readability approximates Flesch Reading Ease, clamped to [0,100].
// Text without detectable sentences or words scores 50.
func Readability(text string) float64 {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	sentences := splitIntoSentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return 50
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wordCount := float64(len(words))
	score := 206.835 - 1.015*(wordCount/float64(len(sentences))) - 84.6*(float64(syllables)/wordCount)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// CountSyllables estimates syllables from vowel groups, dropping a silent
// trailing e and counting vowel pairs once. Every word has at least one.
func CountSyllables(word string) int {
	word = strings.ToLower(strings.Trim(word, ".,?!:;()'\""))
	if len(word) <= 3 {
		return 1
	}

	word = syllableSuffix.ReplaceAllString(word, "")
	word = strings.TrimPrefix(word, "y")

	count := len(vowelGroup.FindAllString(word, -1))
	if count < 1 {
		return 1
	}
	return count
}

func splitIntoSentences(text string) []string {
	var result []string
	for _, s := range sentencePattern.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" && wordPattern.MatchString(strings.ToLower(s)) {
			result = append(result, s)
		}
	}
	return result
}

func engagementFactors(text string) EngagementFactors {
	return EngagementFactors{
		HasEmoji:        HasEmoji(text),
		HasQuestion:     strings.Contains(text, "?"),
		HasExclamation:  strings.Contains(text, "!"),
		HasCallToAction: HasCallToAction(text),
		HasLink:         linkPattern.MatchString(text),
		HashtagCount:    len(hashtagPattern.FindAllString(text, -1)),
		MentionCount:    len(mentionPattern.FindAllString(text, -1)),
	}
}

// HasEmoji reports whether text contains a character from the emoji ranges
func HasEmoji(text string) bool {
	return emojiPattern.MatchString(text)
}

// StripEmoji removes emoji characters and collapses the leftover double spaces
func StripEmoji(text string) string {
	out := emojiPattern.ReplaceAllString(text, "")
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	return out
}

// HasCallToActionVerb reports whether one of the fixed CTA verbs appears
func HasCallToActionVerb(text string) bool {
	return ctaVerbPattern.MatchString(text)
}

// HasCallToAction also accepts "your thoughts" phrasing or a line ending in a question mark
func HasCallToAction(text string) bool {
	if HasCallToActionVerb(text) || thoughtsPattern.MatchString(text) {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.HasSuffix(strings.TrimSpace(line), "?") {
			return true
		}
	}
	return false
}

// Hashtags returns hashtag tokens without the leading '#', in order of appearance
func Hashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// HashtagCount counts '#' tokens
func HashtagCount(text string) int {
	return len(hashtagPattern.FindAllString(text, -1))
}

// Words tokenizes text into lowercase word tokens
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Sentences splits text on terminal punctuation, dropping empty fragments
func Sentences(text string) []string {
	return splitIntoSentences(text)
}

func detectTopics(lower string) []string {
	padded := " " + lower + " "
	var topics []string
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(padded, kw) {
				topics = append(topics, entry.topic)
				break
			}
		}
	}
	return topics
}

func detectPersonality(text string) []string {
	var traits []string
	for _, p := range personalityPatterns {
		if p.pattern.MatchString(text) {
			traits = append(traits, p.trait)
		}
	}
	return traits
}

func buildCTAPattern(verbs []string) *regexp.Regexp {
	quoted := make([]string, len(verbs))
	for i, v := range verbs {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}
