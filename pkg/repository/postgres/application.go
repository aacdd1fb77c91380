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

type applicationRepository struct {
	db *sql.DB
}

const applicationColumns = `id, opportunity_id, user_id, status, cover_letter, resume_url, answers, created_at, updated_at`

func scanApplication(row rowScanner) (*model.Application, error) {
	var (
		a          model.Application
		answersRaw []byte
	)
	if err := row.Scan(&a.ID, &a.OpportunityID, &a.UserID, &a.Status, &a.CoverLetter, &a.ResumeURL,
		&answersRaw, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}

	answers, err := decodeRecord(answersRaw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid application answers", goerr.V("id", a.ID))
	}
	a.Answers = answers
	return &a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *model.Application) (*model.Application, error) {
	now := time.Now().UTC()
	created := *a
	if created.ID == "" {
		created.ID = types.NewApplicationID()
	}
	if created.Status == "" {
		created.Status = types.ApplicationStatusPending
	}
	if created.Answers == nil {
		created.Answers = model.FieldValueRecord{}
	}
	created.CreatedAt = now
	created.UpdatedAt = now

	answersRaw, err := encodeRecord(created.Answers)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, created.ID, created.OpportunityID, created.UserID, created.Status, created.CoverLetter, created.ResumeURL,
		answersRaw, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerr.Wrap(ErrAlreadyExists, "application already exists",
				goerr.V("opportunity_id", a.OpportunityID), goerr.V("user_id", a.UserID))
		}
		return nil, goerr.Wrap(err, "failed to insert application", goerr.V("id", created.ID))
	}
	return &created, nil
}

func (r *applicationRepository) Get(ctx context.Context, id types.ApplicationID) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get application", goerr.V("id", id))
	}
	return a, nil
}

func (r *applicationRepository) listWhere(ctx context.Context, column string, value any) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		WHERE `+column+` = $1
		ORDER BY created_at DESC
	`, value)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list applications", goerr.V(column, value))
	}
	defer rows.Close()

	result := make([]*model.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan application")
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate applications")
	}
	return result, nil
}

func (r *applicationRepository) ListByOpportunity(ctx context.Context, opportunityID types.OpportunityID) ([]*model.Application, error) {
	return r.listWhere(ctx, "opportunity_id", opportunityID)
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID types.UserID) ([]*model.Application, error) {
	return r.listWhere(ctx, "user_id", userID)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id types.ApplicationID, status types.ApplicationStatus) (*model.Application, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE applications SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+applicationColumns,
		id, status, time.Now().UTC())

	a, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "application not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to update application status", goerr.V("id", id))
	}
	return a, nil
}

func (r *applicationRepository) DeleteByOpportunity(ctx context.Context, opportunityID types.OpportunityID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE opportunity_id = $1`, opportunityID); err != nil {
		return goerr.Wrap(err, "failed to delete applications", goerr.V("opportunity_id", opportunityID))
	}
	return nil
}
