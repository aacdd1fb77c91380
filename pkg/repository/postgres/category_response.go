package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type categoryResponseRepository struct {
	db *sql.DB
}

func scanCategoryResponse(row rowScanner) (*model.CategoryResponse, error) {
	var (
		resp      model.CategoryResponse
		configRaw []byte
	)
	if err := row.Scan(&resp.CategoryID, &resp.UserID, &configRaw, &resp.UpdatedAt); err != nil {
		return nil, err
	}
	config, err := decodeRecord(configRaw)
	if err != nil {
		return nil, err
	}
	resp.Config = config
	return &resp, nil
}

func (r *categoryResponseRepository) Get(ctx context.Context, categoryID types.CategoryID, userID types.UserID) (*model.CategoryResponse, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT category_id, user_id, config, updated_at
		FROM category_responses
		WHERE category_id = $1 AND user_id = $2
	`, categoryID, userID)

	resp, err := scanCategoryResponse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get category response",
			goerr.V("category_id", categoryID), goerr.V("user_id", userID))
	}
	return resp, nil
}

func (r *categoryResponseRepository) Put(ctx context.Context, resp *model.CategoryResponse) (*model.CategoryResponse, error) {
	stored := *resp
	stored.UpdatedAt = time.Now().UTC()
	if stored.Config == nil {
		stored.Config = model.FieldValueRecord{}
	}

	configRaw, err := encodeRecord(stored.Config)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO category_responses (category_id, user_id, config, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category_id, user_id)
		DO UPDATE SET config = EXCLUDED.config, updated_at = EXCLUDED.updated_at
	`, stored.CategoryID, stored.UserID, configRaw, stored.UpdatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put category response",
			goerr.V("category_id", resp.CategoryID), goerr.V("user_id", resp.UserID))
	}
	return &stored, nil
}

func (r *categoryResponseRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryResponse, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category_id, user_id, config, updated_at
		FROM category_responses
		WHERE category_id = $1
	`, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list category responses", goerr.V("category_id", categoryID))
	}
	defer rows.Close()

	result := make([]*model.CategoryResponse, 0)
	for rows.Next() {
		resp, err := scanCategoryResponse(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan category response")
		}
		result = append(result, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate category responses")
	}
	return result, nil
}
