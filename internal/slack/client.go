package slack

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Messenger is the outbound side of Slack the handlers talk to
type Messenger interface {
	GetBotID() string
	SendMessage(channelID, message string) error
	// PostMessage sends a message and returns its timestamp for reaction tracking
	PostMessage(channelID, message string) (string, error)
	SendMessageWithBlocks(channelID string, blocks []slack.Block) error
}

type Client struct {
	api   *slack.Client
	botID string
}

var _ Messenger = (*Client)(nil)

func NewClient(token string) (*Client, error) {
	api := slack.New(token)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	return &Client{
		api:   api,
		botID: authTest.UserID,
	}, nil
}

func (c *Client) GetAPI() *slack.Client {
	return c.api
}

func (c *Client) GetBotID() string {
	return c.botID
}

func (c *Client) SendMessage(channelID, message string) error {
	_, _, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	return err
}

func (c *Client) PostMessage(channelID, message string) (string, error) {
	_, timestamp, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
	)
	return timestamp, err
}

func (c *Client) SendMessageWithBlocks(channelID string, blocks []slack.Block) error {
	_, _, err := c.api.PostMessage(
		channelID,
		slack.MsgOptionBlocks(blocks...),
	)
	return err
}
