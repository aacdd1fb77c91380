package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type profileDocument struct {
	ID              string    `firestore:"id"`
	Email           string    `firestore:"email"`
	FullName        string    `firestore:"full_name"`
	Role            string    `firestore:"role"`
	CompanyName     string    `firestore:"company_name"`
	AdminSecretHash string    `firestore:"admin_secret_hash"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

type profileRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *profileRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "profiles"))
}

func profileToModel(doc *profileDocument) *model.Profile {
	return &model.Profile{
		ID:              types.UserID(doc.ID),
		Email:           doc.Email,
		FullName:        doc.FullName,
		Role:            types.Role(doc.Role).Normalize(),
		CompanyName:     doc.CompanyName,
		AdminSecretHash: doc.AdminSecretHash,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("id", id))
	}

	var doc profileDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal profile", goerr.V("id", id))
	}
	return profileToModel(&doc), nil
}

func (r *profileRepository) Put(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	ref := r.collection().Doc(string(p.ID))
	now := time.Now().UTC()

	doc := &profileDocument{
		ID:              string(p.ID),
		Email:           p.Email,
		FullName:        p.FullName,
		Role:            string(p.Role.Normalize()),
		CompanyName:     p.CompanyName,
		AdminSecretHash: p.AdminSecretHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			var existing profileDocument
			if err := snap.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to unmarshal profile")
			}
			doc.CreatedAt = existing.CreatedAt
		} else if status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get profile")
		}
		return tx.Set(ref, doc)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put profile", goerr.V("id", p.ID))
	}

	return profileToModel(doc), nil
}
