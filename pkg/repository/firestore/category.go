package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type categoryDocument struct {
	ID          string    `firestore:"id"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	Icon        string    `firestore:"icon"`
	Color       string    `firestore:"color"`
	Count       int64     `firestore:"count"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type categoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCategoryRepository(client *firestore.Client) *categoryRepository {
	return &categoryRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *categoryRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "categories"))
}

func categoryToDocument(c *model.Category) *categoryDocument {
	return &categoryDocument{
		ID:          string(c.ID),
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Count:       int64(c.Count),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func categoryToModel(doc *categoryDocument) *model.Category {
	return &model.Category{
		ID:          types.CategoryID(doc.ID),
		Title:       doc.Title,
		Description: doc.Description,
		Icon:        doc.Icon,
		Color:       doc.Color,
		Count:       int(doc.Count),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	now := time.Now().UTC()
	doc := categoryToDocument(c)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.collection().Doc(doc.ID).Create(ctx, doc); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(ErrAlreadyExists, "category already exists", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to create category", goerr.V("id", c.ID))
	}

	return categoryToModel(doc), nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	snap, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get category", goerr.V("id", id))
	}

	var doc categoryDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal category", goerr.V("id", id))
	}
	return categoryToModel(&doc), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	categories := make([]*model.Category, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate categories")
		}

		var doc categoryDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal category")
		}
		categories = append(categories, categoryToModel(&doc))
	}

	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Title == categories[j].Title {
			return categories[i].ID < categories[j].ID
		}
		return categories[i].Title < categories[j].Title
	})
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	ref := r.collection().Doc(string(c.ID))

	var updated *categoryDocument
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to get category", goerr.V("id", c.ID))
		}

		var existing categoryDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal category", goerr.V("id", c.ID))
		}

		updated = categoryToDocument(c)
		updated.Count = existing.Count
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		return tx.Set(ref, updated)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update category", goerr.V("id", c.ID))
	}

	return categoryToModel(updated), nil
}

func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	ref := r.collection().Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get category", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete category", goerr.V("id", id))
	}
	return nil
}

func (r *categoryRepository) AdjustCount(ctx context.Context, id types.CategoryID, delta int) error {
	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "count", Value: firestore.Increment(delta)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to adjust category count", goerr.V("id", id), goerr.V("delta", delta))
	}
	return nil
}

func (r *categoryRepository) SetCount(ctx context.Context, id types.CategoryID, count int) error {
	_, err := r.collection().Doc(string(id)).Update(ctx, []firestore.Update{
		{Path: "count", Value: int64(count)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to set category count", goerr.V("id", id), goerr.V("count", count))
	}
	return nil
}
