package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound      = interfaces.ErrNotFound
	ErrAlreadyExists = interfaces.ErrAlreadyExists
)

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = pq.ErrorCode("23505")

// Postgres is a Repository backed by a PostgreSQL database such as the one
// behind a Supabase project
type Postgres struct {
	db               *sql.DB
	category         *categoryRepository
	categoryField    *categoryFieldRepository
	opportunity      *opportunityRepository
	application      *applicationRepository
	categoryResponse *categoryResponseRepository
	profile          *profileRepository
}

var _ interfaces.Repository = &Postgres{}

// Open connects with the lib/pq driver and verifies the connection
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres")
	}
	if err := db.PingContext(ctx); err != nil {
		safe.Close(ctx, db)
		return nil, goerr.Wrap(err, "failed to connect to postgres")
	}
	return New(db), nil
}

// New wraps an existing database handle
func New(db *sql.DB) *Postgres {
	return &Postgres{
		db:               db,
		category:         &categoryRepository{db: db},
		categoryField:    &categoryFieldRepository{db: db},
		opportunity:      &opportunityRepository{db: db},
		application:      &applicationRepository{db: db},
		categoryResponse: &categoryResponseRepository{db: db},
		profile:          &profileRepository{db: db},
	}
}

// DB returns the underlying handle, used by migrations
func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) Category() interfaces.CategoryRepository {
	return p.category
}

func (p *Postgres) CategoryField() interfaces.CategoryFieldRepository {
	return p.categoryField
}

func (p *Postgres) Opportunity() interfaces.OpportunityRepository {
	return p.opportunity
}

func (p *Postgres) Application() interfaces.ApplicationRepository {
	return p.application
}

func (p *Postgres) CategoryResponse() interfaces.CategoryResponseRepository {
	return p.categoryResponse
}

func (p *Postgres) Profile() interfaces.ProfileRepository {
	return p.profile
}

func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func encodeRecord(r model.FieldValueRecord) ([]byte, error) {
	if r == nil {
		r = model.FieldValueRecord{}
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode field values")
	}
	return raw, nil
}

func decodeRecord(raw []byte) (model.FieldValueRecord, error) {
	record := model.FieldValueRecord{}
	if len(raw) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode field values")
	}
	return record, nil
}

// withinTx runs fn in a transaction, committing when fn returns nil
func withinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(ctx, tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}
