package analyzer

import (
	"regexp"

	"github.com/shubh-37/content-intelligence/internal/models"
)

// toneKeywords is matched on whole words. Order of models.Tones decides ties.
var toneKeywords = map[string][]string{
	models.ToneProfessional: {
		"strategy", "business", "leadership", "professional", "industry", "results", "growth",
		"team", "clients", "revenue", "management", "stakeholders", "performance", "career",
		"organization", "executive", "roi", "market", "partnership", "deliver",
	},
	models.ToneCasual: {
		"lol", "hey", "honestly", "kinda", "gonna", "wanna", "stuff", "awesome", "cool",
		"fun", "guys", "yeah", "super", "literally", "vibes", "chill", "haha", "okay", "pretty", "weekend",
	},
	models.ToneInspirational: {
		"dream", "believe", "inspire", "inspired", "journey", "passion", "purpose", "courage",
		"never", "achieve", "possible", "transform", "mindset", "grateful", "motivation",
		"overcome", "rise", "hope", "potential", "unstoppable",
	},
	models.ToneEducational: {
		"learn", "learned", "how", "why", "tips", "guide", "steps", "lesson", "lessons",
		"explained", "understand", "framework", "tutorial", "research", "data", "study",
		"example", "method", "technique", "strategies",
	},
}

var positiveWords = toSet(
	"good", "great", "excellent", "amazing", "awesome", "love", "happy", "grateful", "success",
	"win", "wins", "proud", "excited", "best", "wonderful", "fantastic", "progress", "achieve",
	"achieved", "thrilled", "inspired", "joy", "growth", "better", "brilliant", "positive",
)

var negativeWords = toSet(
	"bad", "terrible", "awful", "hate", "sad", "fail", "failed", "failure", "struggle",
	"struggling", "worst", "difficult", "hard", "problem", "tired", "stressed", "angry",
	"disappointed", "frustrated", "burnout", "lost", "broke", "pain", "negative", "worry",
)

var callToActionVerbs = []string{
	"comment", "share", "like", "follow", "subscribe", "click", "join", "tag", "dm",
	"sign up", "check out", "let me know", "tell me", "drop", "repost", "save",
}

// topicKeywords matches on substrings, so short stems are intentional
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"productivity", []string{"productiv", "focus", "time management", "routine", "habit", "efficien", "deep work", "schedule"}},
	{"wellness", []string{"health", "wellness", "sleep", "meditat", "exercise", "workout", "mental", "fitness", "nutrition"}},
	{"career", []string{"career", "job", "interview", "promotion", "resume", "hiring", "manager", "salary"}},
	{"personal_growth", []string{"growth", "mindset", "learn", "improve", "self", "reflect", "goal"}},
	{"entrepreneurship", []string{"startup", "founder", "entrepreneur", "business", "customers", "launch", "bootstrap"}},
	{"technology", []string{" ai ", "artificial intelligence", "software", "code", "tech", "developer", "engineering", "automation", "data"}},
	{"lifestyle", []string{"travel", "family", "weekend", "coffee", "home", "hobby", "life"}},
	{"finance", []string{"money", "invest", "finance", "budget", "saving", "income", "wealth"}},
}

var personalityPatterns = []struct {
	trait   string
	pattern *regexp.Regexp
}{
	{"storyteller", regexp.MustCompile(`(?i)\b(once|years ago|i remember|back when|story|that day)\b`)},
	{"analytical", regexp.MustCompile(`(?i)(\d+(\.\d+)?%|\bdata\b|\banalysis\b|\bmetrics?\b|\bnumbers\b)`)},
	{"motivational", regexp.MustCompile(`(?i)\b(you can|don't give up|keep going|believe in|start today|never stop)\b`)},
	{"humorous", regexp.MustCompile(`(?i)(\blol\b|\bhaha\b|😂|🤣|\bjoke\b|\bfunny\b)`)},
	{"vulnerable", regexp.MustCompile(`(?i)\b(i struggled|i failed|honestly|i was scared|hard truth|i admit|confession)\b`)},
	{"authoritative", regexp.MustCompile(`(?i)\b(you should|you must|here's how|the key is|always|never)\b`)},
	{"community_focused", regexp.MustCompile(`(?i)\b(we|our|together|community|everyone|all of us)\b`)},
	{"introspective", regexp.MustCompile(`(?i)\b(i realized|reflecting|i wonder|looking back|i learned)\b`)},
}

var stopWords = toSet(
	"the", "and", "for", "are", "but", "not", "you", "all", "any", "can", "had", "her",
	"was", "one", "our", "out", "day", "get", "has", "him", "his", "how", "man", "new",
	"now", "old", "see", "two", "way", "who", "boy", "did", "its", "let", "put", "say",
	"she", "too", "use", "that", "with", "have", "this", "will", "your", "from", "they",
	"know", "want", "been", "good", "much", "some", "time", "very", "when", "come", "here",
	"just", "like", "long", "make", "many", "over", "such", "take", "than", "them", "well",
	"were", "what", "into", "about", "there", "their", "which", "would", "could", "should",
	"these", "those", "then", "also", "because", "more", "most", "only", "other", "where",
	"while", "being", "after", "before", "every", "really", "today", "my", "me", "i'm",
	"it's", "don't", "i've", "we're", "you're",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopWord reports whether a lowercase token is a stop word
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
