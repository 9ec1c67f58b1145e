package slack

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/slack-go/slack/slackevents"

	"github.com/shubh-37/content-intelligence/internal/analyzer"
	"github.com/shubh-37/content-intelligence/internal/models"
)

// commandNames are matched in order against the start of a message
var commandNames = []string{
	"help", "templates", "generate", "rebuild voice", "voice", "insights", "analytics",
	"import", "drafts", "view schedule", "show schedule", "schedule", "published", "abtest", "analyze", "trend",
}

// bareCommands take no arguments and only match the whole message
var bareCommands = map[string]bool{"help": true, "voice": true, "rebuild voice": true, "import": true, "drafts": true}

type command struct {
	name string
	args []string
	// raw is the original text after the command word
	raw string
}

func parseCommand(text string) (command, bool) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(trimmed)
	normalized := strings.ToLower(strings.Join(fields, " "))

	for _, name := range commandNames {
		if normalized != name && (bareCommands[name] || !strings.HasPrefix(normalized, name+" ")) {
			continue
		}
		words := len(strings.Fields(name))
		cmd := command{name: name, args: fields[words:]}
		if name == "show schedule" {
			cmd.name = "view schedule"
		}
		if words == 1 {
			cmd.raw = strings.TrimSpace(trimmed[len(name):])
		}
		return cmd, true
	}

	return command{}, false
}

type MessageHandler struct {
	client         Messenger
	sessions       SessionProvider
	commandHandler *CommandHandler
}

func NewMessageHandler(client Messenger, sessions SessionProvider, commandHandler *CommandHandler) *MessageHandler {
	return &MessageHandler{
		client:         client,
		sessions:       sessions,
		commandHandler: commandHandler,
	}
}

// HandleMessage runs commands and records anything else as a post the user wrote
func (h *MessageHandler) HandleMessage(ctx context.Context, event *slackevents.MessageEvent) error {
	if event.BotID != "" {
		return nil
	}

	if event.User == h.client.GetBotID() {
		return nil
	}

	if event.SubType != "" {
		return nil
	}

	if strings.TrimSpace(event.Text) == "" {
		return nil
	}

	if event.ThreadTimeStamp != "" && event.ThreadTimeStamp != event.TimeStamp {
		return nil
	}

	// Mentions arrive again as app_mention events
	if strings.HasPrefix(strings.TrimSpace(event.Text), "<@") {
		return nil
	}

	if cmd, ok := parseCommand(event.Text); ok {
		return h.commandHandler.Dispatch(ctx, event.Channel, event.User, cmd)
	}

	return h.capturePost(ctx, event.Channel, event.User, event.Text)
}

func (h *MessageHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	text := strings.TrimSpace(strings.Replace(event.Text, "<@"+h.client.GetBotID()+">", "", 1))

	if text == "" {
		return h.commandHandler.Dispatch(ctx, event.Channel, event.User, command{name: "help"})
	}

	if cmd, ok := parseCommand(text); ok {
		return h.commandHandler.Dispatch(ctx, event.Channel, event.User, cmd)
	}

	return h.capturePost(ctx, event.Channel, event.User, text)
}

// capturePost stores text as an authored post so it feeds the voice profile.
// A leading "twitter:", "instagram:" or "linkedin:" picks the platform.
func (h *MessageHandler) capturePost(ctx context.Context, channelID, userID, text string) error {
	platform, body := splitPlatformPrefix(text)
	if body == "" {
		return nil
	}

	now := time.Now()
	analysis := analyzer.Analyze(body, &analyzer.Metadata{Platform: platform, PostedAt: now})

	post := models.NewPost(userID, platform, body, "", analysis.Tone)
	post.Status = models.StatusPublished
	post.PublishedAt = &now
	for _, tag := range analyzer.Hashtags(body) {
		post.Hashtags = append(post.Hashtags, "#"+tag)
	}

	session, err := h.sessions.Session(ctx, userID)
	if err != nil {
		log.Printf("Failed to open session for %s: %v", userID, err)
		return err
	}

	if err := session.RecordPost(ctx, post); err != nil {
		log.Printf("Failed to save post: %v", err)
		return err
	}

	confirmationMsg := fmt.Sprintf("📥 Saved to your %s history | Tone: *%s* | Readability: %.0f | Hashtags: %d",
		platform,
		analysis.Tone,
		analysis.Readability,
		analysis.Engagement.HashtagCount)

	if err := h.client.SendMessage(channelID, confirmationMsg); err != nil {
		log.Printf("Failed to send confirmation: %v", err)
	}

	return nil
}

func splitPlatformPrefix(text string) (string, string) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	for _, platform := range []string{models.PlatformLinkedIn, models.PlatformTwitter, models.PlatformInstagram} {
		if strings.HasPrefix(lower, platform+":") {
			return platform, strings.TrimSpace(trimmed[len(platform)+1:])
		}
	}
	return models.PlatformLinkedIn, trimmed
}
