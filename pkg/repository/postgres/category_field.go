package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
)

type categoryFieldRepository struct {
	db *sql.DB
}

const categoryFieldColumns = `category_id, id, label, name, type, required, placeholder, options, min, max, step, sort_order, created_at, updated_at`

func scanCategoryField(row rowScanner) (*model.CategoryField, error) {
	var (
		f             model.CategoryField
		fieldType     string
		options       []string
		minV, maxV, s sql.NullFloat64
	)
	if err := row.Scan(&f.CategoryID, &f.ID, &f.Label, &f.Name, &fieldType, &f.Required, &f.Placeholder,
		pq.Array(&options), &minV, &maxV, &s, &f.Order, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}

	f.Spec = model.DecodeFieldSpec(model.FieldSpecInput{
		Type:    types.FieldType(fieldType),
		Options: options,
		Min:     nullFloat(minV),
		Max:     nullFloat(maxV),
		Step:    nullFloat(s),
	})
	return &f, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func (r *categoryFieldRepository) Create(ctx context.Context, f *model.CategoryField) (*model.CategoryField, error) {
	now := time.Now().UTC()
	created := *f
	created.CreatedAt = now
	created.UpdatedAt = now

	spec := model.EncodeFieldSpec(f.Spec)
	var options any
	if spec.Options != nil {
		options = pq.Array(spec.Options)
	}

	err := withinTx(ctx, r.db, func(tx *sql.Tx) error {
		// Serializes creates of one category until commit
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
			"category_fields:"+string(f.CategoryID)); err != nil {
			return goerr.Wrap(err, "failed to lock category fields", goerr.V("category_id", f.CategoryID))
		}

		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_fields WHERE category_id = $1`,
			f.CategoryID).Scan(&created.Order); err != nil {
			return goerr.Wrap(err, "failed to count fields", goerr.V("category_id", f.CategoryID))
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO category_fields (`+categoryFieldColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, created.CategoryID, created.ID, created.Label, created.Name, string(spec.Type), created.Required, created.Placeholder,
			options, spec.Min, spec.Max, spec.Step, created.Order, created.CreatedAt, created.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return goerr.Wrap(ErrAlreadyExists, "field already exists",
					goerr.V("id", f.ID), goerr.V("name", f.Name))
			}
			return goerr.Wrap(err, "failed to insert field", goerr.V("category_id", f.CategoryID), goerr.V("id", f.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *categoryFieldRepository) Get(ctx context.Context, categoryID types.CategoryID, id types.FieldID) (*model.CategoryField, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+categoryFieldColumns+`
		FROM category_fields
		WHERE category_id = $1 AND id = $2
	`, categoryID, id)

	f, err := scanCategoryField(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "field not found", goerr.V("category_id", categoryID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get field", goerr.V("id", id))
	}
	return f, nil
}

func (r *categoryFieldRepository) List(ctx context.Context, categoryID types.CategoryID) ([]*model.CategoryField, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+categoryFieldColumns+`
		FROM category_fields
		WHERE category_id = $1
		ORDER BY sort_order
	`, categoryID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list fields", goerr.V("category_id", categoryID))
	}
	defer rows.Close()

	fields := make([]*model.CategoryField, 0)
	for rows.Next() {
		f, err := scanCategoryField(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan field")
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate fields")
	}
	return fields, nil
}

func (r *categoryFieldRepository) Delete(ctx context.Context, categoryID types.CategoryID, id types.FieldID) error {
	return execOne(ctx, r.db, "field", id,
		`DELETE FROM category_fields WHERE category_id = $1 AND id = $2`, categoryID, id)
}

func (r *categoryFieldRepository) DeleteByCategory(ctx context.Context, categoryID types.CategoryID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM category_fields WHERE category_id = $1`, categoryID); err != nil {
		return goerr.Wrap(err, "failed to delete fields", goerr.V("category_id", categoryID))
	}
	return nil
}

func (r *categoryFieldRepository) UpdateOrders(ctx context.Context, categoryID types.CategoryID, orders map[types.FieldID]int) error {
	if len(orders) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return withinTx(ctx, r.db, func(tx *sql.Tx) error {
		for id, order := range orders {
			result, err := tx.ExecContext(ctx, `
				UPDATE category_fields SET sort_order = $3, updated_at = $4
				WHERE category_id = $1 AND id = $2
			`, categoryID, id, order, now)
			if err != nil {
				return goerr.Wrap(err, "failed to update field order", goerr.V("id", id))
			}
			if rows, _ := result.RowsAffected(); rows == 0 {
				return goerr.Wrap(ErrNotFound, "field not found", goerr.V("category_id", categoryID), goerr.V("id", id))
			}
		}
		return nil
	})
}
