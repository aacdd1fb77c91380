package usecase

import (
	"context"
	"io"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/slack"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/m-mizutani/goerr/v2"
)

type UseCases struct {
	repo         interfaces.Repository
	slackService slack.Service
	slackChannel string
	store        storage.Store
	clock        func() time.Time

	Category    *CategoryUseCase
	Field       *FieldUseCase
	Opportunity *OpportunityUseCase
	Application *ApplicationUseCase
	Response    *ResponseUseCase
	Auth        *AuthUseCase
}

type Option func(*UseCases)

// WithSlack enables application notifications to channelID
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

func WithStorage(store storage.Store) Option {
	return func(uc *UseCases) {
		uc.store = store
	}
}

func WithAuth(auth *AuthUseCase) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithClock replaces time.Now, mainly for deadline checks in tests
func WithClock(clock func() time.Time) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:  repo,
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Category = NewCategoryUseCase(repo)
	uc.Field = NewFieldUseCase(repo)
	uc.Opportunity = NewOpportunityUseCase(repo)
	uc.Application = NewApplicationUseCase(repo, uc.slackService, uc.slackChannel, uc.clock)
	uc.Response = NewResponseUseCase(repo)
	if uc.Auth == nil {
		uc.Auth = NewAuthUseCase(repo)
	}

	return uc
}

// Upload stores a file for a file field and returns its object descriptor
func (uc *UseCases) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*storage.Object, error) {
	if _, err := requireSession(ctx); err != nil {
		return nil, err
	}
	if uc.store == nil {
		return nil, goerr.Wrap(ErrUploadDisabled, "no storage backend")
	}

	obj, err := uc.store.Put(ctx, filename, contentType, r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store upload", goerr.V("filename", filename))
	}
	return obj, nil
}
