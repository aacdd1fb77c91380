package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides the Slack operations used for notifications
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)

	// GetChannelName resolves a channel ID to its name (with caching)
	GetChannelName(ctx context.Context, channelID string) (string, error)
}
