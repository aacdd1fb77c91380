package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/slack"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/async"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type ApplicationUseCase struct {
	repo         interfaces.Repository
	slackService slack.Service
	slackChannel string
	clock        func() time.Time
}

func NewApplicationUseCase(repo interfaces.Repository, slackService slack.Service, slackChannel string, clock func() time.Time) *ApplicationUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ApplicationUseCase{
		repo:         repo,
		slackService: slackService,
		slackChannel: slackChannel,
		clock:        clock,
	}
}

// ApplyInput is a user's submission to an opportunity
type ApplyInput struct {
	CoverLetter string
	ResumeURL   string
	Answers     model.FieldValueRecord
}

// Apply records the caller's application. The opportunity must be open and
// before its deadline, and a user may apply only once.
func (uc *ApplicationUseCase) Apply(ctx context.Context, opportunityID types.OpportunityID, in ApplyInput) (*model.Application, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	app := &model.Application{
		OpportunityID: opportunityID,
		UserID:        sess.UserID,
		Status:        types.ApplicationStatusPending,
		CoverLetter:   in.CoverLetter,
		ResumeURL:     in.ResumeURL,
	}
	verr := app.ValidateFixed()

	opp, err := uc.repo.Opportunity().Get(ctx, opportunityID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, opportunityID))
	}
	if !opp.AcceptsApplications(uc.clock()) {
		return nil, goerr.Wrap(ErrOpportunityClosed, "opportunity is closed or past its deadline",
			goerr.V(OpportunityIDKey, opportunityID), goerr.V("deadline", opp.Deadline), goerr.V("status", opp.Status))
	}

	fields, err := uc.repo.CategoryField().List(ctx, opp.CategoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list fields", goerr.V(CategoryIDKey, opp.CategoryID))
	}
	app.Answers = model.MergeRecord(fields, in.Answers)
	if err := model.NewRecordValidator(fields).Validate(app.Answers); err != nil {
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			return nil, goerr.Wrap(err, "failed to validate answers")
		}
		verr.Merge("answers.", ve)
	}
	if !verr.Empty() {
		return nil, verr
	}

	created, err := uc.repo.Application().Create(ctx, app)
	if err != nil {
		if errors.Is(err, interfaces.ErrAlreadyExists) {
			return nil, goerr.Wrap(ErrConflict, "already applied to this opportunity",
				goerr.V(OpportunityIDKey, opportunityID), goerr.V(UserIDKey, sess.UserID))
		}
		return nil, goerr.Wrap(err, "failed to create application", goerr.V(OpportunityIDKey, opportunityID))
	}

	uc.notify(ctx, opp, created)
	return created, nil
}

// notify posts the application to Slack in the background when configured
func (uc *ApplicationUseCase) notify(ctx context.Context, opp *model.Opportunity, app *model.Application) {
	if uc.slackService == nil || uc.slackChannel == "" {
		return
	}

	svc, channel := uc.slackService, uc.slackChannel
	async.Dispatch(ctx, func(ctx context.Context) error {
		blocks, text := slack.BuildApplicationMessage(opp, app)
		ts, err := svc.PostMessage(ctx, channel, blocks, text)
		if err != nil {
			return goerr.Wrap(err, "failed to post application notification",
				goerr.V(ApplicationIDKey, app.ID), goerr.V("channel", channel))
		}
		logging.From(ctx).Debug("Posted application notification", "application_id", app.ID, "ts", ts)
		return nil
	})
}

// ListMyApplications returns the caller's applications, newest first
func (uc *ApplicationUseCase) ListMyApplications(ctx context.Context) ([]*model.Application, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	list, err := uc.repo.Application().ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list applications", goerr.V(UserIDKey, sess.UserID))
	}
	return list, nil
}

// ListApplicationsForOpportunity is available to the owning company and admins
func (uc *ApplicationUseCase) ListApplicationsForOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Application, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}

	opp, err := uc.repo.Opportunity().Get(ctx, opportunityID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, opportunityID))
	}
	if err := requireOwner(sess, opp); err != nil {
		return nil, err
	}

	list, err := uc.repo.Application().ListByOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list applications", goerr.V(OpportunityIDKey, opportunityID))
	}
	return list, nil
}

// UpdateApplicationStatus moves an application through review. Only the
// owning company or an admin may change it.
func (uc *ApplicationUseCase) UpdateApplicationStatus(ctx context.Context, id types.ApplicationID, status types.ApplicationStatus) (*model.Application, error) {
	sess, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		verr := model.NewValidationError()
		verr.Add("status", "status must be pending, reviewing, accepted or rejected")
		return nil, verr
	}

	app, err := uc.repo.Application().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get application", goerr.V(ApplicationIDKey, id))
	}
	opp, err := uc.repo.Opportunity().Get(ctx, app.OpportunityID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V(OpportunityIDKey, app.OpportunityID))
	}
	if err := requireOwner(sess, opp); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Application().UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update application status", goerr.V(ApplicationIDKey, id))
	}
	return updated, nil
}
