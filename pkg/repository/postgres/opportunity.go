package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type opportunityRepository struct {
	db *sql.DB
}

const opportunityColumns = `id, title, description, category_id, company_id, location, deadline, apply_url, status, config, created_at, updated_at`

func scanOpportunity(row rowScanner) (*model.Opportunity, error) {
	var (
		o         model.Opportunity
		configRaw []byte
	)
	if err := row.Scan(&o.ID, &o.Title, &o.Description, &o.CategoryID, &o.CompanyID, &o.Location,
		&o.Deadline, &o.ApplyURL, &o.Status, &configRaw, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	config, err := decodeRecord(configRaw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid opportunity config", goerr.V("id", o.ID))
	}
	o.Config = config
	return &o, nil
}

func (r *opportunityRepository) Create(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	now := time.Now().UTC()
	created := *o
	if created.ID == "" {
		created.ID = types.NewOpportunityID()
	}
	created.Status = created.Status.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now
	if created.Config == nil {
		created.Config = model.FieldValueRecord{}
	}

	configRaw, err := encodeRecord(created.Config)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO opportunities (`+opportunityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, created.ID, created.Title, created.Description, created.CategoryID, created.CompanyID, created.Location,
		created.Deadline, created.ApplyURL, created.Status, configRaw, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerr.Wrap(ErrAlreadyExists, "opportunity already exists", goerr.V("id", created.ID))
		}
		return nil, goerr.Wrap(err, "failed to insert opportunity", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *opportunityRepository) Get(ctx context.Context, id types.OpportunityID) (*model.Opportunity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	o, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get opportunity", goerr.V("id", id))
	}
	return o, nil
}

func (r *opportunityRepository) List(ctx context.Context, opts ...interfaces.ListOpportunityOption) ([]*model.Opportunity, error) {
	cfg := interfaces.BuildListOpportunityConfig(opts...)

	var (
		where []string
		args  []any
	)
	addFilter := func(column string, value any) {
		args = append(args, value)
		where = append(where, column+" = $"+strconv.Itoa(len(args)))
	}
	if id := cfg.CategoryID(); id != nil {
		addFilter("category_id", *id)
	}
	if id := cfg.CompanyID(); id != nil {
		addFilter("company_id", *id)
	}
	if s := cfg.Status(); s != nil {
		addFilter("status", *s)
	}

	query := `SELECT ` + opportunityColumns + ` FROM opportunities`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit := cfg.Limit(); limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list opportunities")
	}
	defer rows.Close()

	result := make([]*model.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan opportunity")
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate opportunities")
	}
	return result, nil
}

func (r *opportunityRepository) Update(ctx context.Context, o *model.Opportunity) (*model.Opportunity, error) {
	configRaw, err := encodeRecord(o.Config)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE opportunities
		SET title = $2, description = $3, category_id = $4, company_id = $5, location = $6,
		    deadline = $7, apply_url = $8, status = $9, config = $10, updated_at = $11
		WHERE id = $1
		RETURNING `+opportunityColumns,
		o.ID, o.Title, o.Description, o.CategoryID, o.CompanyID, o.Location,
		o.Deadline, o.ApplyURL, o.Status.Normalize(), configRaw, time.Now().UTC())

	updated, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "opportunity not found", goerr.V("id", o.ID))
		}
		return nil, goerr.Wrap(err, "failed to update opportunity", goerr.V("id", o.ID))
	}
	return updated, nil
}

func (r *opportunityRepository) Delete(ctx context.Context, id types.OpportunityID) error {
	return execOne(ctx, r.db, "opportunity", id, `DELETE FROM opportunities WHERE id = $1`, id)
}

func (r *opportunityRepository) CountByCategory(ctx context.Context) (map[types.CategoryID]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category_id, COUNT(*) FROM opportunities GROUP BY category_id`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count opportunities")
	}
	defer rows.Close()

	counts := make(map[types.CategoryID]int)
	for rows.Next() {
		var (
			id    types.CategoryID
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, goerr.Wrap(err, "failed to scan opportunity count")
		}
		counts[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate opportunity counts")
	}
	return counts, nil
}
