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

type categoryResponseDocument struct {
	CategoryID string         `firestore:"category_id"`
	UserID     string         `firestore:"user_id"`
	Config     map[string]any `firestore:"config"`
	UpdatedAt  time.Time      `firestore:"updated_at"`
}

type categoryResponseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCategoryResponseRepository(client *firestore.Client) *categoryResponseRepository {
	return &categoryResponseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *categoryResponseRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, "category_responses"))
}

func categoryResponseDocID(categoryID types.CategoryID, userID types.UserID) string {
	return string(categoryID) + "_" + string(userID)
}

func categoryResponseToModel(doc *categoryResponseDocument) *model.CategoryResponse {
	config := model.FieldValueRecord(doc.Config)
	if config == nil {
		config = model.FieldValueRecord{}
	}
	return &model.CategoryResponse{
		CategoryID: types.CategoryID(doc.CategoryID),
		UserID:     types.UserID(doc.UserID),
		Config:     config,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func (r *categoryResponseRepository) Get(ctx context.Context, categoryID types.CategoryID, userID types.UserID) (*model.CategoryResponse, error) {
	snap, err := r.collection().Doc(categoryResponseDocID(categoryID, userID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get category response",
			goerr.V("category_id", categoryID), goerr.V("user_id", userID))
	}

	var doc categoryResponseDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal category response")
	}
	return categoryResponseToModel(&doc), nil
}

func (r *categoryResponseRepository) Put(ctx context.Context, resp *model.CategoryResponse) (*model.CategoryResponse, error) {
	config := map[string]any(resp.Config)
	if config == nil {
		config = map[string]any{}
	}
	doc := &categoryResponseDocument{
		CategoryID: string(resp.CategoryID),
		UserID:     string(resp.UserID),
		Config:     config,
		UpdatedAt:  time.Now().UTC(),
	}

	if _, err := r.collection().Doc(categoryResponseDocID(resp.CategoryID, resp.UserID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put category response",
			goerr.V("category_id", resp.CategoryID), goerr.V("user_id", resp.UserID))
	}
	return categoryResponseToModel(doc), nil
}

func (r *categoryResponseRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryResponse, error) {
	iter := r.collection().Where("category_id", "==", string(categoryID)).Documents(ctx)
	defer iter.Stop()

	result := make([]*model.CategoryResponse, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate category responses", goerr.V("category_id", categoryID))
		}

		var doc categoryResponseDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal category response")
		}
		result = append(result, categoryResponseToModel(&doc))
	}
	return result, nil
}
