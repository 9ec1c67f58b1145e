package slack

import (
	"context"
	"testing"

	"github.com/slack-go/slack/slackevents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/content-intelligence/internal/models"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		ok   bool
		name string
		args []string
		raw  string
	}{
		{text: "help", ok: true, name: "help", args: []string{}},
		{text: "  Generate habit-streak twitter 2 ", ok: true, name: "generate", args: []string{"habit-streak", "twitter", "2"}, raw: "habit-streak twitter 2"},
		{text: "show schedule 14", ok: true, name: "view schedule", args: []string{"14"}},
		{text: "view   schedule", ok: true, name: "view schedule", args: []string{}},
		{text: "rebuild voice", ok: true, name: "rebuild voice", args: []string{}},
		{text: "analyze Shipping beats perfect. What do you think?", ok: true, name: "analyze",
			args: []string{"Shipping", "beats", "perfect.", "What", "do", "you", "think?"},
			raw:  "Shipping beats perfect. What do you think?"},
		{text: "voice matters more than polish", ok: false},
		{text: "importance of rest days", ok: false},
		{text: "drafts are where ideas go to die", ok: false},
		{text: "Today I learned something", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, ok := parseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.name, cmd.name)
			assert.Equal(t, tt.args, cmd.args)
			assert.Equal(t, tt.raw, cmd.raw)
		})
	}
}

func TestSplitPlatformPrefix(t *testing.T) {
	platform, body := splitPlatformPrefix("Twitter: short and sharp")
	assert.Equal(t, models.PlatformTwitter, platform)
	assert.Equal(t, "short and sharp", body)

	platform, body = splitPlatformPrefix("  a plain LinkedIn post ")
	assert.Equal(t, models.PlatformLinkedIn, platform)
	assert.Equal(t, "a plain LinkedIn post", body)
}

func TestHandleMessageCapturesAuthoredPost(t *testing.T) {
	bot := newTestBot()

	err := bot.messages.HandleMessage(context.Background(), &slackevents.MessageEvent{
		User:    "U1",
		Channel: "C1",
		Text:    "instagram: Day 30 of journaling. Consistency wins! #habits #growth",
	})
	require.NoError(t, err)

	require.Len(t, bot.store.posts, 1)
	post := bot.store.posts[0]
	assert.Equal(t, "U1", post.UserID)
	assert.Equal(t, models.PlatformInstagram, post.Platform)
	assert.Equal(t, models.StatusPublished, post.Status)
	assert.False(t, post.IsAIGenerated)
	assert.NotNil(t, post.PublishedAt)
	assert.Equal(t, []string{"#habits", "#growth"}, post.Hashtags)

	assert.Contains(t, bot.messenger.last().text, "Saved to your instagram history")
}

func TestHandleMessageIgnoresBotsAndThreads(t *testing.T) {
	bot := newTestBot()
	ctx := context.Background()

	events := []*slackevents.MessageEvent{
		{User: "U1", Channel: "C1", Text: "from a bot", BotID: "B1"},
		{User: "UBOT", Channel: "C1", Text: "from myself"},
		{User: "U1", Channel: "C1", Text: "edited", SubType: "message_changed"},
		{User: "U1", Channel: "C1", Text: "reply", ThreadTimeStamp: "1.0", TimeStamp: "2.0"},
		{User: "U1", Channel: "C1", Text: "<@UBOT> help"},
		{User: "U1", Channel: "C1", Text: "   "},
	}
	for _, ev := range events {
		require.NoError(t, bot.messages.HandleMessage(ctx, ev))
	}

	assert.Empty(t, bot.store.posts)
	assert.Empty(t, bot.messenger.sent)
}

func TestHandleAppMentionDefaultsToHelp(t *testing.T) {
	bot := newTestBot()

	err := bot.messages.HandleAppMention(context.Background(), &slackevents.AppMentionEvent{
		User:    "U1",
		Channel: "C1",
		Text:    "<@UBOT>",
	})
	require.NoError(t, err)
	assert.Contains(t, bot.messenger.last().text, "Content Intelligence Bot")
}
