package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

var (
	// ErrUnresolvedVariable means a placeholder had neither a custom input nor a resolver
	ErrUnresolvedVariable  = errors.New("unresolved template variable")
	ErrUnknownTemplate     = errors.New("unknown template")
	ErrUnsupportedPlatform = errors.New("template does not support platform")
)

const hashtagsPlaceholder = "{hashtags}"

var (
	placeholderPattern = regexp.MustCompile(`\{([a-z0-9_]+)\}`)
	extraBlankLines    = regexp.MustCompile(`\n{3,}`)

	// filled values may not introduce placeholders of their own
	braceStripper = strings.NewReplacer("{", "", "}", "")
)

// UserStateProvider exposes the live habit and goal data used by resolvers
type UserStateProvider interface {
	GetHabits(ctx context.Context, userID string) ([]*models.Habit, error)
	GetActiveGoals(ctx context.Context, userID string) ([]*models.Goal, error)
}

// Generator fills templates for one user. It owns a seeded random source
// and is not safe for concurrent use.
type Generator struct {
	userID  string
	state   UserStateProvider
	profile *models.VoiceProfile
	rng     *rand.Rand
	now     func() time.Time
}

// draft is a generated body before hashtags are joined back in
type draft struct {
	tpl      models.ContentTemplate
	body     string
	hashtags []string
}

// NewGenerator creates a generator. A zero seed picks a time-based one.
// state and profile may be nil.
func NewGenerator(userID string, state UserStateProvider, profile *models.VoiceProfile, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		userID:  userID,
		state:   state,
		profile: profile,
		rng:     rand.New(rand.NewSource(seed)),
		now:     time.Now,
	}
}

// SetProfile swaps the voice profile used for adaptation
func (g *Generator) SetProfile(profile *models.VoiceProfile) {
	g.profile = profile
}

// SetClock replaces the time source used for weekday tags and goal deadlines
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// Generate fills a template, applies voice adaptation and attaches hashtags
func (g *Generator) Generate(ctx context.Context, tpl models.ContentTemplate, custom map[string]string) (*models.GeneratedContent, error) {
	d, err := g.compose(ctx, tpl, custom)
	if err != nil {
		return nil, err
	}
	return g.finish(d, ""), nil
}

// GenerateByID is Generate for a catalog template id
func (g *Generator) GenerateByID(ctx context.Context, templateID string, custom map[string]string) (*models.GeneratedContent, error) {
	tpl, err := TemplateByID(templateID)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, tpl, custom)
}

// GenerateForPlatform is Generate followed by per-platform adaptation
func (g *Generator) GenerateForPlatform(ctx context.Context, tpl models.ContentTemplate, platform string, custom map[string]string) (*models.GeneratedContent, error) {
	if !tpl.SupportsPlatform(platform) {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedPlatform, tpl.ID, platform)
	}

	d, err := g.compose(ctx, tpl, custom)
	if err != nil {
		return nil, err
	}
	g.adaptForPlatform(d, platform)
	return g.finish(d, platform), nil
}

func (g *Generator) compose(ctx context.Context, tpl models.ContentTemplate, custom map[string]string) (*draft, error) {
	snapshot := g.loadState(ctx)

	names := append([]string{}, tpl.Variables...)
	for _, m := range placeholderPattern.FindAllStringSubmatch(tpl.Template, -1) {
		names = append(names, m[1])
	}

	values := make(map[string]string, len(names))
	for _, name := range names {
		if name == "hashtags" {
			continue
		}
		if _, done := values[name]; done {
			continue
		}
		value, err := g.resolve(name, snapshot, custom)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", tpl.ID, err)
		}
		values[name] = braceStripper.Replace(value)
	}

	// {hashtags} stays in the body until finish; at the very end it is the default position
	body := placeholderPattern.ReplaceAllStringFunc(tpl.Template, func(token string) string {
		if token == hashtagsPlaceholder {
			return token
		}
		return values[token[1:len(token)-1]]
	})
	body = strings.TrimSpace(body)
	body = strings.TrimSpace(strings.TrimSuffix(body, hashtagsPlaceholder))

	if g.profile != nil {
		body = g.adaptToVoice(body)
	}

	return &draft{
		tpl:      tpl,
		body:     body,
		hashtags: GenerateHashtags(tpl.Category, withoutHashtagSlot(body), g.now().Weekday()),
	}, nil
}

func (g *Generator) resolve(name string, snapshot *userSnapshot, custom map[string]string) (string, error) {
	if v, ok := custom[name]; ok && strings.TrimSpace(v) != "" {
		return v, nil
	}
	if r, ok := resolvers[name]; ok {
		return r(g, snapshot), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnresolvedVariable, name)
}

// loadState reads habits and goals. Provider failures degrade to canned values.
func (g *Generator) loadState(ctx context.Context) *userSnapshot {
	snapshot := &userSnapshot{now: g.now()}
	if g.state == nil {
		return snapshot
	}

	habits, err := g.state.GetHabits(ctx, g.userID)
	if err != nil {
		log.Printf("⚠️ Failed to load habits for %s: %v", g.userID, err)
	} else {
		snapshot.habits = habits
	}

	goals, err := g.state.GetActiveGoals(ctx, g.userID)
	if err != nil {
		log.Printf("⚠️ Failed to load goals for %s: %v", g.userID, err)
	} else {
		snapshot.goals = goals
	}

	return snapshot
}

func (g *Generator) finish(d *draft, platform string) *models.GeneratedContent {
	tagLine := strings.Join(d.hashtags, " ")
	content := d.body
	switch {
	case strings.Contains(content, hashtagsPlaceholder):
		if tagLine != "" {
			content = strings.Replace(content, hashtagsPlaceholder, tagLine, 1)
		}
		content = withoutHashtagSlot(content)
	case tagLine != "":
		content = d.body + "\n\n" + tagLine
	}

	suggested := make([]string, len(d.tpl.OptimalTimes))
	copy(suggested, d.tpl.OptimalTimes)

	hashtags := make([]string, len(d.hashtags))
	copy(hashtags, d.hashtags)

	return &models.GeneratedContent{
		TemplateID:      d.tpl.ID,
		Platform:        platform,
		Content:         content,
		Hashtags:        hashtags,
		SuggestedTimes:  suggested,
		EngagementScore: Score(content, d.tpl.Category),
		Tone:            analyzer.Analyze(withoutHashtagSlot(d.body), nil).Tone,
		ContentType:     ContentTypeFor(d.tpl.Category),
	}
}

// withoutHashtagSlot drops any remaining {hashtags} slot and the blank lines it leaves
func withoutHashtagSlot(text string) string {
	if !strings.Contains(text, hashtagsPlaceholder) {
		return text
	}
	text = strings.ReplaceAll(text, hashtagsPlaceholder, "")
	return strings.TrimSpace(extraBlankLines.ReplaceAllString(text, "\n\n"))
}

// adaptToVoice nudges the body toward the user's profile
func (g *Generator) adaptToVoice(body string) string {
	lp := g.profile.LanguagePatterns

	if lp.EmojiUsage > 0.5 && !analyzer.HasEmoji(body) {
		body = injectEmoji(body)
	}

	if g.profile.AveragePostLength < 150 && utf8.RuneCountInString(body) > 200 {
		body = firstParagraphs(body, 2)
	}

	if lp.QuestionUsage > 0.3 && !strings.Contains(body, "?") {
		body = body + "\n\n" + g.pick(engagementQuestions)
	}

	return body
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// emojiKeywords decorate the first line containing the keyword
var emojiKeywords = []struct {
	keywords []string
	emoji    string
}{
	{[]string{"goal", "milestone"}, "🎯"},
	{[]string{"streak", "day "}, "🔥"},
	{[]string{"grow", "progress"}, "🌱"},
	{[]string{"learn", "lesson"}, "📚"},
	{[]string{"win", "success"}, "🏆"},
	{[]string{"start", "challenge"}, "🚀"},
	{[]string{"strong", "discipline"}, "💪"},
	{[]string{"idea", "insight", "tip"}, "💡"},
}

const maxInjectedEmoji = 2

func injectEmoji(body string) string {
	lines := strings.Split(body, "\n")
	decorated := make(map[int]bool)
	injected := 0

	for _, entry := range emojiKeywords {
		if injected == maxInjectedEmoji {
			break
		}
		for i, line := range lines {
			if decorated[i] || !containsAny(strings.ToLower(line), entry.keywords) {
				continue
			}
			lines[i] = strings.TrimRight(line, " ") + " " + entry.emoji
			decorated[i] = true
			injected++
			break
		}
	}
	return strings.Join(lines, "\n")
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func firstParagraphs(text string, n int) string {
	var kept []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		kept = append(kept, p)
		if len(kept) == n {
			break
		}
	}
	return strings.Join(kept, "\n\n")
}
