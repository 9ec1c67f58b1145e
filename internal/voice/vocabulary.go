package voice

import (
	"regexp"
	"strings"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	maxCommonWords     = 20
	maxPhrases         = 10
	maxTechnicalTerms  = 10
	maxBrandingPhrases = 5
)

var technicalTerms = map[string]struct{}{
	"api": {}, "saas": {}, "kpi": {}, "kpis": {}, "roi": {}, "ai": {}, "ml": {}, "llm": {},
	"automation": {}, "analytics": {}, "framework": {}, "algorithm": {}, "cloud": {},
	"devops": {}, "backend": {}, "frontend": {}, "database": {}, "pipeline": {}, "sprint": {},
	"agile": {}, "scrum": {}, "okr": {}, "okrs": {}, "b2b": {}, "b2c": {}, "mvp": {},
	"funnel": {}, "conversion": {}, "metrics": {}, "dashboard": {}, "kubernetes": {}, "python": {},
	"golang": {}, "javascript": {}, "microservices": {}, "startup": {}, "seo": {},
}

var brandingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi help [^.!?\n]{3,60}`),
	regexp.MustCompile(`(?i)\bmy mission is [^.!?\n]{3,60}`),
	regexp.MustCompile(`(?i)\bi'?m passionate about [^.!?\n]{3,60}`),
	regexp.MustCompile(`(?i)\bfounder of [^.!?\n]{3,40}`),
	regexp.MustCompile(`(?i)\bi believe that [^.!?\n]{3,60}`),
}

func buildVocabulary(texts []string) models.VocabularyProfile {
	return models.VocabularyProfile{
		CommonWords:     commonWords(texts),
		Phrases:         recurringPhrases(texts),
		TechnicalTerms:  technicalVocabulary(texts),
		BrandingPhrases: brandingPhrases(texts),
	}
}

func commonWords(texts []string) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, w := range analyzer.Words(text) {
			w = strings.Trim(w, "'")
			if len(w) <= 2 || analyzer.IsStopWord(w) {
				continue
			}
			counts[w]++
		}
	}
	return topN(counts, maxCommonWords, 1)
}

// recurringPhrases collects 2- and 3-word windows inside each sentence and
// keeps the ones that occur more than once. Windows made only of stop words are skipped.
func recurringPhrases(texts []string) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, sentence := range analyzer.Sentences(text) {
			words := analyzer.Words(sentence)
			for size := 2; size <= 3; size++ {
				for i := 0; i+size <= len(words); i++ {
					window := words[i : i+size]
					if allStopWords(window) {
						continue
					}
					counts[strings.Join(window, " ")]++
				}
			}
		}
	}
	return topN(counts, maxPhrases, 2)
}

func technicalVocabulary(texts []string) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, w := range analyzer.Words(text) {
			if _, ok := technicalTerms[w]; ok {
				counts[w]++
			}
		}
	}
	return topN(counts, maxTechnicalTerms, 1)
}

func brandingPhrases(texts []string) []string {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, re := range brandingPatterns {
			for _, m := range re.FindAllString(text, -1) {
				counts[strings.ToLower(strings.TrimSpace(m))]++
			}
		}
	}
	return topN(counts, maxBrandingPhrases, 1)
}

func allStopWords(words []string) bool {
	for _, w := range words {
		if len(w) > 2 && !analyzer.IsStopWord(w) {
			return false
		}
	}
	return true
}
