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

type categoryRepository struct {
	db *sql.DB
}

const categoryColumns = `id, title, description, icon, color, count, created_at, updated_at`

func scanCategory(row rowScanner) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Icon, &c.Color, &c.Count, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	now := time.Now().UTC()
	created := *c
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, title, description, icon, color, count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, created.ID, created.Title, created.Description, created.Icon, created.Color, created.Count, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerr.Wrap(ErrAlreadyExists, "category already exists", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to insert category", goerr.V("id", c.ID))
	}
	return &created, nil
}

func (r *categoryRepository) Get(ctx context.Context, id types.CategoryID) (*model.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get category", goerr.V("id", id))
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY title, id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list categories")
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate categories")
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE categories
		SET title = $2, description = $3, icon = $4, color = $5, updated_at = $6
		WHERE id = $1
		RETURNING `+categoryColumns,
		c.ID, c.Title, c.Description, c.Icon, c.Color, time.Now().UTC())

	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "category not found", goerr.V("id", c.ID))
		}
		return nil, goerr.Wrap(err, "failed to update category", goerr.V("id", c.ID))
	}
	return updated, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id types.CategoryID) error {
	return execOne(ctx, r.db, "category", id, `DELETE FROM categories WHERE id = $1`, id)
}

func (r *categoryRepository) AdjustCount(ctx context.Context, id types.CategoryID, delta int) error {
	return execOne(ctx, r.db, "category", id,
		`UPDATE categories SET count = GREATEST(count + $2, 0) WHERE id = $1`, id, delta)
}

func (r *categoryRepository) SetCount(ctx context.Context, id types.CategoryID, count int) error {
	return execOne(ctx, r.db, "category", id,
		`UPDATE categories SET count = $2 WHERE id = $1`, id, count)
}

// execOne runs a statement expected to touch exactly one row and maps zero
// affected rows to ErrNotFound
func execOne(ctx context.Context, db *sql.DB, entity string, id any, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return goerr.Wrap(err, "failed to execute statement", goerr.V("entity", entity), goerr.V("id", id))
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return goerr.Wrap(ErrNotFound, entity+" not found", goerr.V("id", id))
	}
	return nil
}
