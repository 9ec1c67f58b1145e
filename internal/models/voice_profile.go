package models

import "time"

// VoiceProfile is the per-user statistical model of writing style.
// It is always replaced wholesale, never patched.
type VoiceProfile struct {
	UserID             string                        `json:"user_id"`
	AveragePostLength  int                           `json:"average_post_length"`
	ToneProfile        ToneProfile                   `json:"tone_profile"`
	LanguagePatterns   LanguagePatterns              `json:"language_patterns"`
	Vocabulary         VocabularyProfile             `json:"vocabulary"`
	EngagementPatterns EngagementPatterns            `json:"engagement_patterns"`
	ContentPreferences ContentPreferences            `json:"content_preferences"`
	PlatformAdaptation map[string]PlatformAdaptation `json:"platform_adaptation"`
	PostCount          int                           `json:"post_count"`
	Confidence         float64                       `json:"confidence"`
	LastUpdated        time.Time                     `json:"last_updated"`
}

// ToneProfile holds the fraction of posts per dominant tone
type ToneProfile struct {
	Professional  float64 `json:"professional"`
	Casual        float64 `json:"casual"`
	Inspirational float64 `json:"inspirational"`
	Educational   float64 `json:"educational"`
}

// Dominant returns the tone with the largest fraction, ties going to the first declared
func (t ToneProfile) Dominant() string {
	best, bestVal := ToneCasual, -1.0
	for _, kv := range []struct {
		tone string
		val  float64
	}{
		{ToneProfessional, t.Professional},
		{ToneCasual, t.Casual},
		{ToneInspirational, t.Inspirational},
		{ToneEducational, t.Educational},
	} {
		if kv.val > bestVal {
			best, bestVal = kv.tone, kv.val
		}
	}
	return best
}

// LanguagePatterns are usage fractions across the sample; HashtagUsage is a mean count
type LanguagePatterns struct {
	EmojiUsage       float64 `json:"emoji_usage"`
	QuestionUsage    float64 `json:"question_usage"`
	ExclamationUsage float64 `json:"exclamation_usage"`
	HashtagUsage     float64 `json:"hashtag_usage"`
	LinkUsage        float64 `json:"link_usage"`
}

type VocabularyProfile struct {
	CommonWords     []string `json:"common_words"`
	Phrases         []string `json:"phrases"`
	TechnicalTerms  []string `json:"technical_terms"`
	BrandingPhrases []string `json:"branding_phrases"`
}

// EngagementPatterns come from the top 20% of posts by engagement rate
type EngagementPatterns struct {
	BestLength       int    `json:"best_length"`
	BestTone         string `json:"best_tone"`
	BestTime         string `json:"best_time"`
	BestHashtagCount int    `json:"best_hashtag_count"`
	SampleSize       int    `json:"sample_size"`
}

type ContentPreferences struct {
	PreferredTopics     []string `json:"preferred_topics"`
	CallToActionStyle   string   `json:"call_to_action_style"` // "direct", "question", "soft"
	StorytellingPerson  string   `json:"storytelling_person"`  // "first_person", "collective", "second_person"
	StructurePreference string   `json:"structure_preference"` // "list", "multi_paragraph", "single_block"
}

// PlatformAdaptation summarizes how the user writes on one platform
type PlatformAdaptation struct {
	PostCount     int     `json:"post_count"`
	AvgLength     int     `json:"avg_length"`
	EmojiUsage    float64 `json:"emoji_usage"`
	AvgHashtags   float64 `json:"avg_hashtags"`
	PreferredTone string  `json:"preferred_tone"`
}
