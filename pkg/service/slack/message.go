package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/slack-go/slack"
)

// maxSectionBytes is Slack's limit for a section block's text
const maxSectionBytes = 3000

// truncateToMaxBytes cuts s to at most maxBytes without splitting a UTF-8
// sequence, appending "..." when anything was removed.
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "..."
	cut := maxBytes - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}

// BuildApplicationMessage renders the notification posted when a user
// applies to an opportunity. The second return value is the fallback text.
func BuildApplicationMessage(opp *model.Opportunity, app *model.Application) ([]slack.Block, string) {
	text := fmt.Sprintf("New application for %s", opp.Title)

	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes(text, 150), false, false),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Opportunity*\n%s", opp.ID), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Applicant*\n%s", app.UserID), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Status*\n%s", app.Status), false, false),
	}
	if opp.Deadline != "" {
		fields = append(fields,
			slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Deadline*\n%s", opp.Deadline), false, false))
	}

	blocks := []slack.Block{
		header,
		slack.NewSectionBlock(nil, fields, nil),
	}

	if app.CoverLetter != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(app.CoverLetter, maxSectionBytes), false, false),
			nil, nil,
		))
	}

	return blocks, text
}
