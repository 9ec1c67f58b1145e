package models

const (
	ToneProfessional  = "professional"
	ToneCasual        = "casual"
	ToneInspirational = "inspirational"
	ToneEducational   = "educational"
)

// Tones lists the tone labels in declaration order; ties resolve to the earlier entry
var Tones = []string{ToneProfessional, ToneCasual, ToneInspirational, ToneEducational}

const (
	CategoryTransformation = "transformation"
	CategoryHabits         = "habits"
	CategoryMotivation     = "motivation"
	CategoryEducation      = "education"
)

const (
	ContentTypeMotivational = "motivational"
	ContentTypeEducational  = "educational"
	ContentTypeMilestone    = "milestone"
	ContentTypeStory        = "story"
	ContentTypeTips         = "tips"
	ContentTypeCelebration  = "celebration"
)

// ContentTemplate is a static catalog entry. Template holds {variable} placeholders
// plus a literal {hashtags} placeholder.
type ContentTemplate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Template     string   `json:"template"`
	Variables    []string `json:"variables"`
	Platforms    []string `json:"platforms"`
	OptimalTimes []string `json:"optimal_times"`
}

// SupportsPlatform reports whether the template is eligible for a platform
func (t ContentTemplate) SupportsPlatform(platform string) bool {
	for _, p := range t.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// GeneratedContent is the result of one generation call. Not persisted here.
type GeneratedContent struct {
	TemplateID      string   `json:"template_id"`
	Platform        string   `json:"platform,omitempty"`
	Content         string   `json:"content"`
	Hashtags        []string `json:"hashtags"`
	SuggestedTimes  []string `json:"suggested_times"`
	EngagementScore int      `json:"engagement_score"`
	Tone            string   `json:"tone"`
	ContentType     string   `json:"content_type"`
}
