package config

import (
	"context"
	"log/slog"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/memory"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/postgres"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend          string
	projectID        string
	databaseID       string
	collectionPrefix string
	postgresDSN      string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (memory, firestore or postgres)",
			Value:       BackendMemory,
			Category:    "Repository",
			Sources:     cli.EnvVars("APPLYONCE_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("APPLYONCE_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("APPLYONCE_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix for Firestore collection names",
			Category:    "Repository",
			Sources:     cli.EnvVars("APPLYONCE_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &r.collectionPrefix,
		},
		&cli.StringFlag{
			Name:        "postgres-dsn",
			Usage:       "PostgreSQL connection string (required when using postgres backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("APPLYONCE_POSTGRES_DSN", "DATABASE_URL"),
			Destination: &r.postgresDSN,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("firestore-project-id", r.projectID),
		slog.String("firestore-database-id", r.databaseID),
		slog.Int("postgres-dsn.len", len(r.postgresDSN)),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// CollectionPrefix returns the Firestore collection prefix
func (r *Repository) CollectionPrefix() string {
	return r.collectionPrefix
}

// Validate checks that the options required by the backend are set
func (r *Repository) Validate() error {
	switch r.backend {
	case BackendMemory:
		return nil
	case BackendFirestore:
		if r.projectID == "" {
			return goerr.Wrap(ErrMissingOption, "firestore-project-id is required when using firestore backend")
		}
		return nil
	case BackendPostgres:
		if r.postgresDSN == "" {
			return goerr.Wrap(ErrMissingOption, "postgres-dsn is required when using postgres backend")
		}
		return nil
	default:
		return goerr.Wrap(ErrInvalidBackend, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	switch r.backend {
	case BackendFirestore:
		var opts []firestore.Option
		if r.collectionPrefix != "" {
			opts = append(opts, firestore.WithCollectionPrefix(r.collectionPrefix))
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendPostgres:
		repo, err := postgres.Open(ctx, r.postgresDSN)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository")
		}
		logging.Default().Info("Using PostgreSQL repository")
		return repo, nil

	default:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil
	}
}

// OpenPostgres connects to the configured database for schema migration
func (r *Repository) OpenPostgres(ctx context.Context) (*postgres.Postgres, error) {
	if r.postgresDSN == "" {
		return nil, goerr.Wrap(ErrMissingOption, "postgres-dsn is required")
	}
	return postgres.Open(ctx, r.postgresDSN)
}
