package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type categoryFieldDocument struct {
	ID          string    `firestore:"id"`
	CategoryID  string    `firestore:"category_id"`
	Label       string    `firestore:"label"`
	Name        string    `firestore:"name"`
	Type        string    `firestore:"type"`
	Required    bool      `firestore:"required"`
	Placeholder string    `firestore:"placeholder"`
	Options     []string  `firestore:"options,omitempty"`
	Min         *float64  `firestore:"min,omitempty"`
	Max         *float64  `firestore:"max,omitempty"`
	Step        *float64  `firestore:"step,omitempty"`
	Order       int64     `firestore:"order"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type categoryFieldRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCategoryFieldRepository(client *firestore.Client) *categoryFieldRepository {
	return &categoryFieldRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *categoryFieldRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "category_fields"))
}

// Field IDs are unique per category only, so the document ID carries both
func categoryFieldDocID(categoryID types.CategoryID, id types.FieldID) string {
	return string(categoryID) + "_" + string(id)
}

func categoryFieldToDocument(f *model.CategoryField) *categoryFieldDocument {
	spec := model.EncodeFieldSpec(f.Spec)
	return &categoryFieldDocument{
		ID:          string(f.ID),
		CategoryID:  string(f.CategoryID),
		Label:       f.Label,
		Name:        f.Name,
		Type:        string(spec.Type),
		Required:    f.Required,
		Placeholder: f.Placeholder,
		Options:     spec.Options,
		Min:         spec.Min,
		Max:         spec.Max,
		Step:        spec.Step,
		Order:       int64(f.Order),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func categoryFieldToModel(doc *categoryFieldDocument) *model.CategoryField {
	return &model.CategoryField{
		ID:          types.FieldID(doc.ID),
		CategoryID:  types.CategoryID(doc.CategoryID),
		Label:       doc.Label,
		Name:        doc.Name,
		Required:    doc.Required,
		Placeholder: doc.Placeholder,
		Order:       int(doc.Order),
		Spec: model.DecodeFieldSpec(model.FieldSpecInput{
			Type:    types.FieldType(doc.Type),
			Options: doc.Options,
			Min:     doc.Min,
			Max:     doc.Max,
			Step:    doc.Step,
		}),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *categoryFieldRepository) Create(ctx context.Context, f *model.CategoryField) (*model.CategoryField, error) {
	now := time.Now().UTC()
	doc := categoryFieldToDocument(f)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	siblings := r.collection().Where("category_id", "==", string(f.CategoryID))

	// The sibling query is part of the transaction's read set, so a
	// concurrent create in the same category forces a retry.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.Documents(siblings).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query sibling fields", goerr.V("category_id", f.CategoryID))
		}
		for _, snap := range snaps {
			var sibling categoryFieldDocument
			if err := snap.DataTo(&sibling); err != nil {
				return goerr.Wrap(err, "failed to unmarshal field", goerr.V("doc_id", snap.Ref.ID))
			}
			if sibling.ID == doc.ID || sibling.Name == doc.Name {
				return goerr.Wrap(ErrAlreadyExists, "field already exists",
					goerr.V("id", f.ID), goerr.V("name", f.Name))
			}
		}
		doc.Order = int64(len(snaps))
		return tx.Create(r.collection().Doc(categoryFieldDocID(f.CategoryID, f.ID)), doc)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "field already exists", goerr.V("id", f.ID))
		}
		return nil, goerr.Wrap(err, "failed to create field",
			goerr.V("category_id", f.CategoryID), goerr.V("id", f.ID))
	}

	return categoryFieldToModel(doc), nil
}

func (r *categoryFieldRepository) Get(ctx context.Context, categoryID types.CategoryID, id types.FieldID) (*model.CategoryField, error) {
	snap, err := r.collection().Doc(categoryFieldDocID(categoryID, id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "field not found",
				goerr.V("category_id", categoryID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get field",
			goerr.V("category_id", categoryID), goerr.V("id", id))
	}

	var doc categoryFieldDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal field", goerr.V("id", id))
	}
	return categoryFieldToModel(&doc), nil
}

func (r *categoryFieldRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	iter := r.collection().
		Where("category_id", "==", string(categoryID)).
		OrderBy("order", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	fields := make([]*model.CategoryField, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate fields", goerr.V("category_id", categoryID))
		}

		var doc categoryFieldDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal field", goerr.V("category_id", categoryID))
		}
		fields = append(fields, categoryFieldToModel(&doc))
	}

	return fields, nil
}

func (r *categoryFieldRepository) Delete(ctx context.Context, categoryID types.CategoryID, id types.FieldID) error {
	ref := r.collection().Doc(categoryFieldDocID(categoryID, id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "field not found",
				goerr.V("category_id", categoryID), goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get field", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete field", goerr.V("id", id))
	}
	return nil
}

func (r *categoryFieldRepository) DeleteByCategory(ctx context.Context, categoryID types.CategoryID) error {
	iter := r.collection().Where("category_id", "==", string(categoryID)).Documents(ctx)
	defer iter.Stop()

	bulkWriter := r.client.BulkWriter(ctx)

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to iterate fields for deletion", goerr.V("category_id", categoryID))
		}

		if _, err := bulkWriter.Delete(snap.Ref); err != nil {
			bulkWriter.End()
			return goerr.Wrap(err, "failed to delete field", goerr.V("category_id", categoryID))
		}
	}

	bulkWriter.End()

	return nil
}

func (r *categoryFieldRepository) UpdateOrders(ctx context.Context, categoryID types.CategoryID, orders map[types.FieldID]int) error {
	if len(orders) == 0 {
		return nil
	}

	now := time.Now().UTC()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for id, order := range orders {
			ref := r.collection().Doc(categoryFieldDocID(categoryID, id))
			err := tx.Update(ref, []firestore.Update{
				{Path: "order", Value: int64(order)},
				{Path: "updated_at", Value: now},
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "field not found", goerr.V("category_id", categoryID))
		}
		return goerr.Wrap(err, "failed to update field orders", goerr.V("category_id", categoryID))
	}
	return nil
}
