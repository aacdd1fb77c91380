package slack_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/slack"
	"github.com/m-mizutani/gt"
)

func TestTruncateToMaxBytes(t *testing.T) {
	gt.Value(t, slack.TruncateToMaxBytes("short", 10)).Equal("short")

	got := slack.TruncateToMaxBytes(strings.Repeat("a", 20), 10)
	gt.Value(t, got).Equal("aaaaaaa...")

	// multi-byte runes are never split
	got = slack.TruncateToMaxBytes(strings.Repeat("é", 10), 9)
	gt.B(t, utf8.ValidString(got)).True()
	gt.B(t, len(got) <= 9).True()
}

func TestBuildApplicationMessage(t *testing.T) {
	opp := &model.Opportunity{ID: "opp-1", Title: "Engineer", Deadline: "2030-01-31"}
	app := &model.Application{
		UserID:      "user-1",
		Status:      types.ApplicationStatusPending,
		CoverLetter: "I would love to join.",
	}

	blocks, text := slack.BuildApplicationMessage(opp, app)
	gt.Value(t, text).Equal("New application for Engineer")
	gt.A(t, blocks).Length(3)

	blocks, _ = slack.BuildApplicationMessage(opp, &model.Application{UserID: "user-2"})
	gt.A(t, blocks).Length(2)
}
