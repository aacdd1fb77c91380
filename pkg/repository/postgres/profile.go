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

type profileRepository struct {
	db *sql.DB
}

const profileColumns = `id, email, full_name, role, company_name, admin_secret_hash, created_at, updated_at`

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.CompanyName, &p.AdminSecretHash,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Role = p.Role.Normalize()
	return &p, nil
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("id", id))
	}
	return p, nil
}

func (r *profileRepository) Put(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			role = EXCLUDED.role,
			company_name = EXCLUDED.company_name,
			admin_secret_hash = EXCLUDED.admin_secret_hash,
			updated_at = EXCLUDED.updated_at
		RETURNING `+profileColumns,
		p.ID, p.Email, p.FullName, p.Role.Normalize(), p.CompanyName, p.AdminSecretHash, now)

	stored, err := scanProfile(row)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put profile", goerr.V("id", p.ID))
	}
	return stored, nil
}
