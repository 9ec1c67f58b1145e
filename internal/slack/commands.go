package slack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shubh-37/content-intelligence/internal/agents"
	"github.com/shubh-37/content-intelligence/internal/generator"
	"github.com/shubh-37/content-intelligence/internal/models"
	"github.com/shubh-37/content-intelligence/internal/pipeline"
)

const maxVariations = 3

// PostStore is the post persistence the Slack surface reads and writes
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByStatus(ctx context.Context, userID, status string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// SessionProvider hands out the per-user pipeline session
type SessionProvider interface {
	Session(ctx context.Context, userID string) (*pipeline.Session, error)
}

type CommandHandler struct {
	client    Messenger
	sessions  SessionProvider
	postRepo  PostStore
	approvals *ApprovalHandler
	timezone  string
}

func NewCommandHandler(
	client Messenger,
	sessions SessionProvider,
	postRepo PostStore,
	approvals *ApprovalHandler,
	timezone string,
) *CommandHandler {
	return &CommandHandler{
		client:    client,
		sessions:  sessions,
		postRepo:  postRepo,
		approvals: approvals,
		timezone:  timezone,
	}
}

// Dispatch runs a parsed command for a Slack user
func (h *CommandHandler) Dispatch(ctx context.Context, channelID, userID string, cmd command) error {
	log.Printf("🤖 %s ran %q %v", userID, cmd.name, cmd.args)

	switch cmd.name {
	case "help":
		return h.sendHelpMessage(channelID)
	case "templates":
		return h.HandleTemplates(channelID, cmd.args)
	case "analyze":
		return h.HandleAnalyze(channelID, cmd.raw)
	}

	session, err := h.sessions.Session(ctx, userID)
	if err != nil {
		log.Printf("❌ Failed to open session for %s: %v", userID, err)
		return h.client.SendMessage(channelID, "❌ Couldn't load your profile. Please try again.")
	}

	switch cmd.name {
	case "generate":
		return h.HandleGenerate(ctx, channelID, session, cmd.args)
	case "voice":
		return h.HandleVoice(channelID, session)
	case "rebuild voice":
		return h.HandleRebuildVoice(ctx, channelID, session)
	case "insights":
		return h.HandleInsights(ctx, channelID, session, parseDays(cmd.args, 30))
	case "analytics":
		return h.HandleAnalytics(ctx, channelID, session, parseDays(cmd.args, 30))
	case "import":
		return h.HandleImport(ctx, channelID, session)
	case "drafts":
		return h.HandleListDrafts(ctx, channelID, userID)
	case "schedule":
		return h.HandleSchedule(ctx, channelID, userID, cmd.args)
	case "view schedule":
		return h.HandleViewSchedule(ctx, channelID, userID, parseDays(cmd.args, 7))
	case "published":
		return h.HandlePublished(ctx, channelID, userID, cmd.args)
	case "abtest":
		return h.HandleABTest(ctx, channelID, session, cmd.args)
	case "trend":
		return h.HandleTrend(ctx, channelID, session, cmd.args)
	}

	return h.sendHelpMessage(channelID)
}

// HandleTemplates lists the catalog, optionally for one platform
func (h *CommandHandler) HandleTemplates(channelID string, args []string) error {
	templates := generator.Templates()
	title := "📚 *Content Templates*"
	if len(args) > 0 {
		platform := strings.ToLower(args[0])
		templates = generator.TemplatesForPlatform(platform)
		title = fmt.Sprintf("📚 *Content Templates for %s*", platform)
	}

	if len(templates) == 0 {
		return h.client.SendMessage(channelID, "📭 No templates for that platform. Try linkedin, twitter or instagram.")
	}

	message := title + "\n\n"
	for _, tpl := range templates {
		message += fmt.Sprintf("• `%s` %s (_%s_) | %s | best at %s\n",
			tpl.ID, tpl.Name, tpl.Category,
			strings.Join(tpl.Platforms, ", "),
			strings.Join(tpl.OptimalTimes, ", "))
	}
	message += "\n_Use: `generate <template> [platform] [1-3]`_"

	return h.client.SendMessage(channelID, message)
}

// HandleGenerate fills a template one or more times and saves each result as a draft
func (h *CommandHandler) HandleGenerate(ctx context.Context, channelID string, session *pipeline.Session, args []string) error {
	if len(args) == 0 {
		return h.client.SendMessage(channelID, "Please name a template: `generate <template> [platform] [1-3]`. See `templates`.")
	}

	templateID := strings.ToLower(args[0])
	platform := ""
	count := 1
	for _, arg := range args[1:] {
		if n, err := strconv.Atoi(arg); err == nil {
			count = n
			continue
		}
		platform = strings.ToLower(arg)
	}

	if count < 1 || count > maxVariations {
		return h.client.SendMessage(channelID, fmt.Sprintf("❌ Variations must be between 1 and %d", maxVariations))
	}

	var drafts []draftSummary
	message := "🎯 *Generated Drafts*\n\n"

	for i := 0; i < count; i++ {
		content, err := session.Generate(ctx, templateID, platform, nil)
		if err != nil {
			return h.sendGenerateError(channelID, templateID, platform, err)
		}

		post, err := session.SaveDraft(ctx, content, platform)
		if err != nil {
			log.Printf("⚠️ Failed to save draft %d: %v", i+1, err)
			continue
		}
		prediction := generator.PredictPerformance(content, post.Platform)
		drafts = append(drafts, draftSummary{
			postID:   post.ID,
			score:    content.EngagementScore,
			views:    prediction.EstimatedViews,
			bestTime: prediction.OptimalTime,
		})

		message += "━━━━━━━━━━━━━━━━━━\n"
		message += fmt.Sprintf("*Variation %d* (%s, score %d/100)\n\n", i+1, post.Platform, content.EngagementScore)
		message += content.Content + "\n\n"
		message += fmt.Sprintf("_Est. %d views, %d likes, %d comments | Best time %s_\n\n",
			prediction.EstimatedViews, prediction.EstimatedLikes, prediction.EstimatedComments, prediction.OptimalTime)
	}

	if len(drafts) == 0 {
		return h.client.SendMessage(channelID, "❌ Failed to save drafts. Please try again.")
	}

	message += "━━━━━━━━━━━━━━━━━━\n\n"
	message += "💡 *React to approve:*\n"
	message += "• ✅ to approve all drafts\n"
	message += "• ❌ to reject all drafts\n"
	if len(drafts) > 1 {
		message += "• 1️⃣ 2️⃣ 3️⃣ to keep one variation\n"
	}

	messageTS, err := h.client.PostMessage(channelID, message)
	if err != nil {
		return err
	}

	h.approvals.Track(messageTS, session.UserID, drafts)
	return nil
}

func (h *CommandHandler) sendGenerateError(channelID, templateID, platform string, err error) error {
	switch {
	case errors.Is(err, generator.ErrUnknownTemplate):
		return h.client.SendMessage(channelID, fmt.Sprintf("❌ Unknown template `%s`. See `templates`.", templateID))
	case errors.Is(err, generator.ErrUnsupportedPlatform):
		return h.client.SendMessage(channelID, fmt.Sprintf("❌ `%s` isn't available for %s. Try `templates %s`.", templateID, platform, platform))
	default:
		log.Printf("❌ Failed to generate post: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to generate post. Please try again.")
	}
}

// HandleListDrafts shows all pending drafts
func (h *CommandHandler) HandleListDrafts(ctx context.Context, channelID, userID string) error {
	drafts, err := h.postRepo.GetByStatus(ctx, userID, models.StatusDraft)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Failed to fetch drafts")
	}

	if len(drafts) == 0 {
		return h.client.SendMessage(channelID, "📭 No pending drafts. Use `generate <template>` to create some!")
	}

	message := fmt.Sprintf("📝 *Pending Drafts* (%d)\n\n", len(drafts))

	for i, draft := range drafts {
		message += fmt.Sprintf("*Draft %d* `%s` (%s):\n%s\n\n", i+1, draft.ID, draft.Platform, preview(draft.Content, 100))

		if i >= 4 { // Show max 5 drafts
			if len(drafts) > 5 {
				message += fmt.Sprintf("_...and %d more_\n", len(drafts)-5)
			}
			break
		}
	}

	return h.client.SendMessage(channelID, message)
}

// HandleSchedule schedules approved posts at their optimal times
func (h *CommandHandler) HandleSchedule(ctx context.Context, channelID, userID string, args []string) error {
	log.Printf("📅 Handling schedule command with args: %v", args)

	postsPerDay := 2
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return h.client.SendMessage(channelID, "❌ Usage: `schedule [posts per day 1-4]`")
		}
		postsPerDay = n
	}

	if postsPerDay < 1 || postsPerDay > 4 {
		return h.client.SendMessage(channelID, "❌ Posts per day must be between 1 and 4")
	}

	scheduler := agents.NewSchedulerAgent(userID, h.postRepo)
	scheduledCount, err := scheduler.ScheduleApprovedPosts(ctx, agents.ScheduleConfig{
		PostsPerDay: postsPerDay,
		Timezone:    h.timezone,
	})
	if err != nil {
		log.Printf("❌ Failed to schedule posts: %v", err)
		return h.client.SendMessage(channelID, "❌ Failed to schedule posts. Please try again.")
	}

	if scheduledCount == 0 {
		return h.client.SendMessage(channelID, "📭 No approved posts to schedule. Approve some drafts first with ✅ reaction!")
	}

	schedule, err := scheduler.GetSchedule(ctx, 7)
	if err != nil {
		log.Printf("⚠️ Failed to get schedule: %v", err)
	}

	message := fmt.Sprintf("✅ *Scheduled %d posts!*\n\n", scheduledCount)
	message += fmt.Sprintf("📊 Up to %d per day, each at its best time slot\n\n", postsPerDay)

	if len(schedule) > 0 {
		message += "*Upcoming Posts:*\n"
		message += formatSchedule(schedule, 10)
	}

	return h.client.SendMessage(channelID, message)
}

// HandleViewSchedule shows the current schedule
func (h *CommandHandler) HandleViewSchedule(ctx context.Context, channelID, userID string, days int) error {
	schedule, err := agents.NewSchedulerAgent(userID, h.postRepo).GetSchedule(ctx, days)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Failed to fetch schedule")
	}

	if len(schedule) == 0 {
		return h.client.SendMessage(channelID, "📭 No posts scheduled. Use `schedule` to schedule approved posts!")
	}

	message := fmt.Sprintf("📅 *Posting Schedule* (Next %d days)\n\n", days)
	message += formatSchedule(schedule, len(schedule))
	message += fmt.Sprintf("\n_Total: %d scheduled posts_", len(schedule))

	return h.client.SendMessage(channelID, message)
}

// HandlePublished links a post to its platform ID so its metrics get imported
func (h *CommandHandler) HandlePublished(ctx context.Context, channelID, userID string, args []string) error {
	if len(args) < 2 {
		return h.client.SendMessage(channelID, "Usage: `published <post id> <platform post id>`")
	}

	scheduler := agents.NewSchedulerAgent(userID, h.postRepo)
	if err := scheduler.MarkPublished(ctx, args[0], args[1]); err != nil {
		log.Printf("❌ Failed to mark %s published: %v", args[0], err)
		return h.client.SendMessage(channelID, "❌ Couldn't find that post.")
	}

	return h.client.SendMessage(channelID, fmt.Sprintf("🚀 Marked `%s` as published. Metrics will be imported on the next `import`.", args[0]))
}

func (h *CommandHandler) sendHelpMessage(channelID string) error {
	helpText := `*Content Intelligence Bot*

I learn how you write, generate posts in your voice and tell you what's working.

*Writing:*
- templates [platform] - List content templates
- generate <template> [platform] [1-3] - Generate drafts
- drafts - View pending drafts
- schedule [1-4] - Schedule approved posts at their best times
- view schedule [days] - See posting schedule
- published <post id> <platform id> - Link a post to the live version

*Voice:*
- voice - Show your voice profile
- rebuild voice - Rebuild it from all your posts
- analyze <text> - Score a piece of text

*Performance:*
- import - Pull fresh metrics from LinkedIn, Twitter and Instagram
- insights [days] - Ranked recommendations
- analytics [days] - Platform, content and timing breakdown
- trend <post id> - How a post's metrics moved across imports
- abtest create <template> [platform] | record <id> <variant> <rate> | results <id> | complete <id> | list

*Workflow:*
1. Paste posts you've written (prefix with twitter: or instagram: for other platforms)
2. Generate drafts: generate habit-streak linkedin 2
3. React with ✅, ❌ or 1️⃣ 2️⃣ 3️⃣
4. Schedule: schedule 2`

	return h.client.SendMessage(channelID, helpText)
}

func formatSchedule(posts []*models.Post, limit int) string {
	var b strings.Builder
	for i, post := range posts {
		if i >= limit {
			fmt.Fprintf(&b, "_...and %d more_\n", len(posts)-limit)
			break
		}

		timeStr := "unknown"
		if post.ScheduledAt != nil {
			timeStr = post.ScheduledAt.Format("Jan 02 at 3:04 PM")
		}

		fmt.Fprintf(&b, "*%d. %s* (%s)\n%s\n\n", i+1, timeStr, post.Platform, preview(post.Content, 80))
	}
	return b.String()
}

func preview(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}

func parseDays(args []string, fallback int) int {
	if len(args) == 0 {
		return fallback
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days <= 0 {
		return fallback
	}
	if days > 365 {
		return 365
	}
	return days
}
