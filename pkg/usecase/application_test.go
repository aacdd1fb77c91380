package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/memory"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
	goslack "github.com/slack-go/slack"
)

// mockSlackService records posted messages
type mockSlackService struct {
	mu     sync.Mutex
	posted []string
	done   chan struct{}
}

func newMockSlackService() *mockSlackService {
	return &mockSlackService{done: make(chan struct{}, 10)}
}

func (m *mockSlackService) PostMessage(ctx context.Context, channelID string, blocks []goslack.Block, text string) (string, error) {
	m.mu.Lock()
	m.posted = append(m.posted, channelID+":"+text)
	m.mu.Unlock()
	m.done <- struct{}{}
	return "1234567890.123456", nil
}

func (m *mockSlackService) GetChannelName(ctx context.Context, channelID string) (string, error) {
	return "applications", nil
}

func fixedClock(ts string) func() time.Time {
	now, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return now }
}

func publishJob(t *testing.T, uc *usecase.UseCases, deadline string) *model.Opportunity {
	t.Helper()
	opp, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
		Title:      "Engineer",
		CategoryID: "jobs-id",
		Deadline:   deadline,
	})
	gt.NoError(t, err).Required()
	return opp
}

func TestApplicationUseCase_Apply(t *testing.T) {
	t.Run("applies once and notifies Slack", func(t *testing.T) {
		slackSvc := newMockSlackService()
		uc := usecase.New(memory.New(),
			usecase.WithSlack(slackSvc, "C123"),
			usecase.WithClock(fixedClock("2030-01-01T00:00:00Z")),
		)
		setupJobs(t, uc)
		createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Years of experience", Type: types.FieldTypeNumber, Required: true})
		opp := publishJob(t, uc, "2030-01-31")

		app, err := uc.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{
			CoverLetter: "Hello",
			ResumeURL:   "https://files.example.com/cv.pdf",
			Answers:     model.FieldValueRecord{"years_of_experience": 4},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, app.Status).Equal(types.ApplicationStatusPending)
		gt.Value(t, app.UserID).Equal(types.UserID("user-1"))

		select {
		case <-slackSvc.done:
		case <-time.After(time.Second):
			t.Fatal("slack notification was not posted")
		}
		slackSvc.mu.Lock()
		gt.A(t, slackSvc.posted).Equal([]string{"C123:New application for Engineer"})
		slackSvc.mu.Unlock()

		_, err = uc.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{
			Answers: model.FieldValueRecord{"years_of_experience": 4},
		})
		gt.Error(t, err).Is(usecase.ErrConflict)
	})

	t.Run("answers are validated like config", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithClock(fixedClock("2030-01-01T00:00:00Z")))
		setupJobs(t, uc)
		createField(t, uc, "jobs-id", usecase.FieldInput{Label: "Portfolio", Type: types.FieldTypeURL, Required: true})
		opp := publishJob(t, uc, "")

		_, err := uc.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{
			ResumeURL: "not a url",
		})
		fields := fieldErrors(t, err)
		gt.Map(t, fields).HasKey("answers.portfolio")
		gt.Map(t, fields).HasKey("resume_url")
	})

	t.Run("deadline day is still open, the day after is not", func(t *testing.T) {
		repo := memory.New()
		setup := usecase.New(repo)
		setupJobs(t, setup)
		opp := publishJob(t, setup, "2030-01-31")

		onDay := usecase.New(repo, usecase.WithClock(fixedClock("2030-01-31T23:00:00Z")))
		_, err := onDay.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{})
		gt.NoError(t, err)

		after := usecase.New(repo, usecase.WithClock(fixedClock("2030-02-01T00:00:01Z")))
		_, err = after.Application.Apply(userCtx("user-2"), opp.ID, usecase.ApplyInput{})
		gt.Error(t, err).Is(usecase.ErrOpportunityClosed)
	})

	t.Run("closed opportunity rejects applications", func(t *testing.T) {
		uc := usecase.New(memory.New())
		setupJobs(t, uc)
		opp, err := uc.Opportunity.CreateOpportunity(companyCtx("company-1"), usecase.OpportunityInput{
			Title:      "Engineer",
			CategoryID: "jobs-id",
			Status:     types.OpportunityStatusClosed,
		})
		gt.NoError(t, err).Required()

		_, err = uc.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{})
		gt.Error(t, err).Is(usecase.ErrOpportunityClosed)
	})

	t.Run("anonymous callers are unauthorized", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.Application.Apply(context.Background(), "opp-1", usecase.ApplyInput{})
		gt.Error(t, err).Is(usecase.ErrUnauthorized)
	})
}

func TestApplicationUseCase_Review(t *testing.T) {
	uc := usecase.New(memory.New())
	setupJobs(t, uc)
	opp := publishJob(t, uc, "")

	app, err := uc.Application.Apply(userCtx("user-1"), opp.ID, usecase.ApplyInput{})
	gt.NoError(t, err).Required()
	_, err = uc.Application.Apply(userCtx("user-2"), opp.ID, usecase.ApplyInput{})
	gt.NoError(t, err).Required()

	t.Run("applicants see only their own", func(t *testing.T) {
		mine, err := uc.Application.ListMyApplications(userCtx("user-1"))
		gt.NoError(t, err).Required()
		gt.A(t, mine).Length(1)
		gt.Value(t, mine[0].ID).Equal(app.ID)
	})

	t.Run("owner and admin can list and review", func(t *testing.T) {
		list, err := uc.Application.ListApplicationsForOpportunity(companyCtx("company-1"), opp.ID)
		gt.NoError(t, err).Required()
		gt.A(t, list).Length(2)

		updated, err := uc.Application.UpdateApplicationStatus(companyCtx("company-1"), app.ID, types.ApplicationStatusReviewing)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.ApplicationStatusReviewing)

		updated, err = uc.Application.UpdateApplicationStatus(adminCtx(), app.ID, types.ApplicationStatusAccepted)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.Status).Equal(types.ApplicationStatusAccepted)
	})

	t.Run("others are forbidden", func(t *testing.T) {
		_, err := uc.Application.ListApplicationsForOpportunity(userCtx("user-1"), opp.ID)
		gt.Error(t, err).Is(usecase.ErrForbidden)

		_, err = uc.Application.UpdateApplicationStatus(companyCtx("company-2"), app.ID, types.ApplicationStatusRejected)
		gt.Error(t, err).Is(usecase.ErrForbidden)
	})

	t.Run("invalid status is a validation error", func(t *testing.T) {
		_, err := uc.Application.UpdateApplicationStatus(companyCtx("company-1"), app.ID, "hired")
		gt.Map(t, fieldErrors(t, err)).HasKey("status")
	})
}
