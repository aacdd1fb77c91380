package config

import (
	"log/slog"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack configures application notifications
type Slack struct {
	botToken  string
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for application notifications",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("APPLYONCE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives new application notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("APPLYONCE_SLACK_CHANNEL_ID"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured checks if both the token and the channel are set
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channelID != ""
}

// ChannelID returns the notification channel
func (x *Slack) ChannelID() string {
	return x.channelID
}

// Configure creates the Slack service, or returns nil when notifications are
// disabled. Setting only one of token and channel is an error.
func (x *Slack) Configure() (slack.Service, error) {
	switch {
	case x.botToken == "" && x.channelID == "":
		return nil, nil
	case x.botToken == "":
		return nil, goerr.Wrap(ErrMissingOption, "--slack-bot-token is required with --slack-channel-id")
	case x.channelID == "":
		return nil, goerr.Wrap(ErrMissingOption, "--slack-channel-id is required with --slack-bot-token")
	}

	svc, err := slack.New(x.botToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	return svc, nil
}
