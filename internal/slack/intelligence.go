package slack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/engagement"
	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/models"
	"github.com/shubh-37/content-intelligence/internal/pipeline"
	"github.com/shubh-37/content-intelligence/internal/voice"
)

var insightIcons = map[string]string{
	models.InsightOpportunity:    "🚀",
	models.InsightWarning:        "⚠️",
	models.InsightAchievement:    "🏆",
	models.InsightRecommendation: "💡",
}

// HandleAnalyze scores a piece of text without saving it
func (h *CommandHandler) HandleAnalyze(channelID, text string) error {
	platform, body := splitPlatformPrefix(text)
	if body == "" {
		return h.client.SendMessage(channelID, "Usage: `analyze <text>`")
	}

	analysis := analyzer.Analyze(body, &analyzer.Metadata{Platform: platform})
	score := generator.Score(body, "")

	message := "🔍 *Content Analysis*\n\n"
	message += fmt.Sprintf("*Tone:* %s\n", analysis.Tone)
	message += fmt.Sprintf("*Sentiment:* %+.2f\n", analysis.Sentiment)
	message += fmt.Sprintf("*Readability:* %.0f/100\n", analysis.Readability)
	message += fmt.Sprintf("*Length:* %d characters, %d words\n", analysis.Length, analysis.WordCount)
	message += fmt.Sprintf("*Engagement score:* %d/100\n", score)

	if len(analysis.Topics) > 0 {
		message += fmt.Sprintf("*Topics:* %s\n", strings.Join(analysis.Topics, ", "))
	}
	if len(analysis.Personality) > 0 {
		message += fmt.Sprintf("*Personality:* %s\n", strings.Join(analysis.Personality, ", "))
	}

	f := analysis.Engagement
	message += fmt.Sprintf("\n%s question | %s call to action | %s emoji | %d hashtags | %d mentions",
		check(f.HasQuestion), check(f.HasCallToAction), check(f.HasEmoji), f.HashtagCount, f.MentionCount)

	return h.client.SendMessage(channelID, message)
}

// HandleVoice summarizes the stored voice profile
func (h *CommandHandler) HandleVoice(channelID string, session *pipeline.Session) error {
	profile := session.Profile()
	if profile == nil {
		return h.client.SendMessage(channelID, fmt.Sprintf(
			"🎙️ No voice profile yet. I need at least %d posts you wrote yourself. Paste a few here and I'll learn your style.",
			voice.MinAuthoredPosts))
	}

	return h.client.SendMessage(channelID, formatVoiceProfile(profile))
}

// HandleRebuildVoice rebuilds the profile when none exists or enough new posts have arrived
func (h *CommandHandler) HandleRebuildVoice(ctx context.Context, channelID string, session *pipeline.Session) error {
	rebuilt, err := session.RebuildVoice(ctx)
	if err != nil {
		log.Printf("❌ Failed to rebuild voice for %s: %v", session.UserID, err)
		return h.client.SendMessage(channelID, "❌ Failed to rebuild your voice profile.")
	}

	profile := session.Profile()
	switch {
	case rebuilt:
		return h.client.SendMessage(channelID, "✅ Voice profile rebuilt!\n\n"+formatVoiceProfile(profile))
	case profile == nil:
		return h.client.SendMessage(channelID, fmt.Sprintf(
			"📭 Not enough posts yet. I need at least %d posts you wrote yourself.", voice.MinAuthoredPosts))
	default:
		return h.client.SendMessage(channelID, fmt.Sprintf(
			"📦 Your voice profile is current. It rebuilds once %d new posts have come in since %s.",
			voice.RebuildThreshold, profile.LastUpdated.Format("Jan 2")))
	}
}

// HandleInsights renders ranked insights as Block Kit sections
func (h *CommandHandler) HandleInsights(ctx context.Context, channelID string, session *pipeline.Session, days int) error {
	insights, err := session.Insights(ctx, days)
	if err != nil {
		log.Printf("❌ Failed to generate insights: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to generate insights")
	}

	if len(insights) == 0 {
		return h.client.SendMessage(channelID, fmt.Sprintf(
			"📭 Nothing to report for the last %d days. Publish a few posts and run `import` first.", days))
	}

	return h.client.SendMessageWithBlocks(channelID, insightBlocks(insights, days))
}

// HandleAnalytics shows the platform, content and timing breakdowns
func (h *CommandHandler) HandleAnalytics(ctx context.Context, channelID string, session *pipeline.Session, days int) error {
	platforms, err := session.Analytics.GetPlatformAnalytics(ctx, days)
	if err != nil {
		log.Printf("❌ Failed to load analytics: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to load analytics")
	}

	if len(platforms) == 0 {
		return h.client.SendMessage(channelID, fmt.Sprintf(
			"📭 No measured posts in the last %d days. Run `import` after publishing.", days))
	}

	content, err := session.Analytics.GetContentAnalytics(ctx, days)
	if err != nil {
		log.Printf("⚠️ Failed to load content analytics: %v", err)
	}
	slots, err := session.Analytics.GetTimeAnalytics(ctx, days)
	if err != nil {
		log.Printf("⚠️ Failed to load time analytics: %v", err)
	}

	message := fmt.Sprintf("📊 *Analytics* (last %d days)\n\n*By platform:*\n", days)
	for _, p := range platforms {
		message += fmt.Sprintf("• *%s*: %d posts, %.2f%% avg rate, %d views, %d interactions | best %s on %s\n",
			p.Platform, p.PostCount, p.AvgEngagementRate, p.TotalViews, p.TotalEngagement,
			p.BestPostingTime, p.BestPostingDay)
	}

	if len(content) > 0 {
		message += "\n*By content type:*\n"
		for _, c := range content {
			message += fmt.Sprintf("• *%s*: %d posts, %.2f%% avg rate, best length %d, %d hashtags works best\n",
				c.ContentType, c.PostCount, c.AvgEngagementRate, c.BestLength, c.OptimalHashtagCount)
		}
	}

	if len(slots) > 0 {
		message += "\n*Top time slots:*\n"
		for i, s := range slots {
			if i >= 3 {
				break
			}
			message += fmt.Sprintf("• %s %02d:00: %.2f%% avg rate over %d posts (%.1fx reach)\n",
				s.DayOfWeek, s.Hour, s.AvgEngagementRate, s.PostCount, s.ReachMultiplier)
		}
	}

	return h.client.SendMessage(channelID, message)
}

// HandleImport pulls fresh metrics for published posts
func (h *CommandHandler) HandleImport(ctx context.Context, channelID string, session *pipeline.Session) error {
	if err := h.client.SendMessage(channelID, "⏳ Importing metrics..."); err != nil {
		log.Printf("⚠️ Failed to send progress message: %v", err)
	}

	result, err := session.ImportMetrics(ctx)
	if err != nil {
		log.Printf("❌ Metrics import failed for %s: %v", session.UserID, err)
		return h.client.SendMessage(channelID, "❌ Metrics import failed. Please try again later.")
	}

	if result.Attempted == 0 && result.Skipped == 0 {
		return h.client.SendMessage(channelID, "📭 Nothing to import. Use `published <post id> <platform id>` to link your live posts.")
	}

	return h.client.SendMessage(channelID, fmt.Sprintf(
		"✅ Import done: %d updated, %d failed, %d skipped (no connected account)",
		result.Imported, result.Failed, result.Skipped))
}

// HandleTrend shows how a post's metrics moved across imports
func (h *CommandHandler) HandleTrend(ctx context.Context, channelID string, session *pipeline.Session, args []string) error {
	if len(args) == 0 {
		return h.client.SendMessage(channelID, "Usage: `trend <post id>`")
	}

	post, err := h.postRepo.GetByID(ctx, args[0])
	if err != nil || post.UserID != session.UserID {
		log.Printf("⚠️ %s asked for the trend of post %s: %v", session.UserID, args[0], err)
		return h.client.SendMessage(channelID, "❌ Couldn't find that post.")
	}

	history, err := session.Analytics.GetMetricsHistory(ctx, post.ID)
	if err != nil {
		log.Printf("❌ Failed to load metrics history: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to load metrics history")
	}

	if len(history) == 0 {
		return h.client.SendMessage(channelID, "📭 No metrics recorded for that post yet.")
	}

	t := engagement.Trend(history)
	return h.client.SendMessage(channelID, fmt.Sprintf(
		"📈 *Trend for* `%s` (%d snapshots)\n\nRate: %.2f%% → %.2f%% (%+.2f, %s)\nViews: %+d | Interactions: %+d",
		args[0], t.Snapshots, t.FirstRate, t.LastRate, t.RateDelta, t.Direction, t.ViewsDelta, t.InteractionsDelta))
}

// HandleABTest routes the abtest subcommands
func (h *CommandHandler) HandleABTest(ctx context.Context, channelID string, session *pipeline.Session, args []string) error {
	if len(args) == 0 {
		return h.client.SendMessage(channelID, "Usage: `abtest create <template> [platform] | record <id> <variant> <rate> | results <id> | complete <id> | list`")
	}

	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "create":
		return h.createABTest(ctx, channelID, session, rest)
	case "record":
		return h.recordABResult(ctx, channelID, session, rest)
	case "results":
		return h.showABResults(ctx, channelID, session, rest, false)
	case "complete":
		return h.showABResults(ctx, channelID, session, rest, true)
	case "list":
		return h.listABTests(ctx, channelID, session)
	}

	return h.client.SendMessage(channelID, fmt.Sprintf("❌ Unknown abtest command `%s`", sub))
}

func (h *CommandHandler) createABTest(ctx context.Context, channelID string, session *pipeline.Session, args []string) error {
	if len(args) == 0 {
		return h.client.SendMessage(channelID, "Usage: `abtest create <template> [platform]`")
	}

	templateID := strings.ToLower(args[0])
	platform := ""
	if len(args) > 1 {
		platform = strings.ToLower(args[1])
	}

	contents := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		content, err := session.Generate(ctx, templateID, platform, nil)
		if err != nil {
			return h.sendGenerateError(channelID, templateID, platform, err)
		}
		contents = append(contents, content.Content)
	}

	test, err := session.ABTests.CreateTest(ctx, templateID, contents)
	if err != nil {
		log.Printf("❌ Failed to create A/B test: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to create A/B test")
	}

	message := fmt.Sprintf("🧪 *A/B test created* `%s`\n\n", test.ID)
	for _, v := range test.Variants {
		message += fmt.Sprintf("*Variant %s*\n%s\n\n", v.Name, v.Content)
	}
	message += fmt.Sprintf("_Record results with `abtest record %s A 3.2`_", test.ID)

	return h.client.SendMessage(channelID, message)
}

func (h *CommandHandler) recordABResult(ctx context.Context, channelID string, session *pipeline.Session, args []string) error {
	if len(args) < 3 {
		return h.client.SendMessage(channelID, "Usage: `abtest record <test id> <variant> <engagement rate>`")
	}

	rate, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "%"), 64)
	if err != nil || rate < 0 {
		return h.client.SendMessage(channelID, "❌ Engagement rate must be a non-negative number")
	}

	result, err := session.ABTests.GetResults(ctx, args[0])
	if err != nil {
		return h.sendABError(channelID, err)
	}

	variantID := args[1]
	for _, v := range result.Variants {
		if strings.EqualFold(v.Name, args[1]) {
			variantID = v.VariantID
			break
		}
	}

	if err := session.ABTests.RecordVariantResult(ctx, args[0], variantID, rate); err != nil {
		return h.sendABError(channelID, err)
	}

	return h.client.SendMessage(channelID, fmt.Sprintf("✅ Recorded %.2f%% for variant %s", rate, args[1]))
}

func (h *CommandHandler) showABResults(ctx context.Context, channelID string, session *pipeline.Session, args []string, complete bool) error {
	if len(args) == 0 {
		return h.client.SendMessage(channelID, "Usage: `abtest results <test id>`")
	}

	var (
		result *models.ABTestResult
		err    error
	)
	if complete {
		result, err = session.ABTests.CompleteTest(ctx, args[0])
	} else {
		result, err = session.ABTests.GetResults(ctx, args[0])
	}
	if err != nil {
		return h.sendABError(channelID, err)
	}

	title := "🧪 *A/B test results*"
	if complete {
		title = "🏁 *A/B test completed*"
	}

	message := fmt.Sprintf("%s `%s`\n\n", title, result.TestID)
	for _, v := range result.Variants {
		marker := ""
		if v.VariantID == result.WinnerVariantID {
			marker = " 👑"
		}
		message += fmt.Sprintf("• Variant %s: %.2f%% avg over %d samples%s\n", v.Name, v.AvgEngagementRate, v.SampleCount, marker)
	}

	message += fmt.Sprintf("\nSamples: %d | Confidence: %.0f%%", result.TotalSamples, result.Confidence*100)
	if result.Significant {
		message += " | ✅ significant"
	} else {
		message += fmt.Sprintf(" | needs %d+ samples per variant and %d+ total",
			engagement.MinVariantSamples, engagement.MinTotalSamples)
	}

	return h.client.SendMessage(channelID, message)
}

func (h *CommandHandler) listABTests(ctx context.Context, channelID string, session *pipeline.Session) error {
	tests, err := session.ABTests.ListTests(ctx)
	if err != nil {
		log.Printf("❌ Failed to list A/B tests: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to list A/B tests")
	}

	if len(tests) == 0 {
		return h.client.SendMessage(channelID, "📭 No A/B tests yet. Start one with `abtest create <template>`.")
	}

	message := fmt.Sprintf("🧪 *A/B Tests* (%d)\n\n", len(tests))
	for _, t := range tests {
		message += fmt.Sprintf("• `%s` %s (%s, %d variants, started %s)\n",
			t.ID, t.Name, t.Status, len(t.Variants), t.CreatedAt.Format("Jan 02"))
	}

	return h.client.SendMessage(channelID, message)
}

func (h *CommandHandler) sendABError(channelID string, err error) error {
	switch {
	case errors.Is(err, engagement.ErrTestNotFound):
		return h.client.SendMessage(channelID, "❌ No A/B test with that ID")
	case errors.Is(err, engagement.ErrTestCompleted):
		return h.client.SendMessage(channelID, "❌ That A/B test is already completed")
	case errors.Is(err, engagement.ErrUnknownVariant):
		return h.client.SendMessage(channelID, "❌ Unknown variant. Use the letter shown when the test was created.")
	default:
		log.Printf("❌ A/B test command failed: %v", err)
		return h.client.SendMessage(channelID, "❌ A/B test command failed")
	}
}

func insightBlocks(insights []models.EngagementInsight, days int) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf("📈 Insights for the last %d days", days), true, false),
	)

	blocks := []slack.Block{header}
	for _, insight := range insights {
		icon := insightIcons[insight.Type]
		if icon == "" {
			icon = "💡"
		}

		text := fmt.Sprintf("%s *%s*\n%s\n_Impact %d/10 | Confidence %.0f%%_",
			icon, insight.Title, insight.Description, insight.ImpactScore, insight.Confidence*100)
		for _, item := range insight.ActionItems {
			text += "\n• " + item
		}

		blocks = append(blocks,
			slack.NewDividerBlock(),
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		)
	}

	return blocks
}

func formatVoiceProfile(p *models.VoiceProfile) string {
	message := fmt.Sprintf("🎙️ *Your Voice Profile* (%d posts, %.0f%% confidence)\n\n", p.PostCount, p.Confidence)
	message += fmt.Sprintf("*Dominant tone:* %s\n", p.ToneProfile.Dominant())
	message += fmt.Sprintf("*Average length:* %d characters\n", p.AveragePostLength)
	message += fmt.Sprintf("*Structure:* %s | *Storytelling:* %s | *CTA style:* %s\n",
		p.ContentPreferences.StructurePreference,
		p.ContentPreferences.StorytellingPerson,
		p.ContentPreferences.CallToActionStyle)

	lp := p.LanguagePatterns
	message += fmt.Sprintf("*Habits:* emoji %.0f%% | questions %.0f%% | %.1f hashtags per post\n",
		lp.EmojiUsage*100, lp.QuestionUsage*100, lp.HashtagUsage)

	if len(p.ContentPreferences.PreferredTopics) > 0 {
		message += fmt.Sprintf("*Topics:* %s\n", strings.Join(p.ContentPreferences.PreferredTopics, ", "))
	}
	if len(p.Vocabulary.CommonWords) > 0 {
		message += fmt.Sprintf("*Words you reach for:* %s\n", strings.Join(firstN(p.Vocabulary.CommonWords, 8), ", "))
	}

	ep := p.EngagementPatterns
	if ep.SampleSize > 0 {
		message += fmt.Sprintf("\n*What works best* (top %d posts): %s tone, ~%d characters, %d hashtags, around %s\n",
			ep.SampleSize, ep.BestTone, ep.BestLength, ep.BestHashtagCount, ep.BestTime)
	}

	message += fmt.Sprintf("\n_Last updated %s_", p.LastUpdated.Format("Jan 02 15:04"))
	return message
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func check(ok bool) string {
	if ok {
		return "✅"
	}
	return "➖"
}
