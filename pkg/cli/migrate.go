package cli

import (
	"context"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/cli/config"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/postgres"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying (firestore only)",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes or the PostgreSQL schema",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := repoCfg.Validate(); err != nil {
				return err
			}

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, &repoCfg, dryRun)
			case config.BackendPostgres:
				return migratePostgres(ctx, &repoCfg)
			default:
				logging.Default().Info("Nothing to migrate for backend", "backend", repoCfg.Backend())
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, repoCfg *config.Repository, dryRun bool) error {
	logger := logging.Default()

	logger.Info("Migrate configuration",
		"projectID", repoCfg.ProjectID(),
		"databaseID", repoCfg.DatabaseID(),
		"prefix", repoCfg.CollectionPrefix(),
		"dryRun", dryRun)

	indexConfig := getIndexConfig(repoCfg.CollectionPrefix())

	client, err := fireconf.NewClient(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID())
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer safe.Close(ctx, client)

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		plan, err := client.GetMigrationPlan(ctx, indexConfig)
		if err != nil {
			return goerr.Wrap(err, "failed to create migration plan")
		}

		if len(plan.Steps) == 0 {
			logger.Info("No changes required")
			return nil
		}

		for _, step := range plan.Steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"description", step.Description,
				"destructive", step.Destructive)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx, indexConfig); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

func migratePostgres(ctx context.Context, repoCfg *config.Repository) error {
	db, err := repoCfg.OpenPostgres(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to connect to postgres")
	}
	defer safe.Close(ctx, db)

	if err := postgres.Migrate(ctx, db.DB()); err != nil {
		return err
	}
	logging.Default().Info("PostgreSQL schema is up to date", "statements", postgres.SchemaStatements())
	return nil
}

func createdAtDesc(paths ...string) fireconf.Index {
	fields := make([]fireconf.IndexField, 0, len(paths)+1)
	for _, p := range paths {
		fields = append(fields, fireconf.IndexField{Path: p, Order: fireconf.OrderAscending})
	}
	fields = append(fields, fireconf.IndexField{Path: "created_at", Order: fireconf.OrderDescending})
	return fireconf.Index{Fields: fields}
}

// getIndexConfig returns the composite indexes needed by the Firestore
// repository queries
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, "applications"),
				Indexes: []fireconf.Index{
					// ListByOpportunity
					createdAtDesc("opportunity_id"),
					// ListByUser
					createdAtDesc("user_id"),
				},
			},
			{
				Name: firestore.CollectionName(prefix, "category_fields"),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "category_id", Order: fireconf.OrderAscending},
							{Path: "order", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				// List filters are optional, so every combination needs an index
				Name: firestore.CollectionName(prefix, "opportunities"),
				Indexes: []fireconf.Index{
					createdAtDesc("category_id"),
					createdAtDesc("company_id"),
					createdAtDesc("status"),
					createdAtDesc("category_id", "company_id"),
					createdAtDesc("category_id", "status"),
					createdAtDesc("company_id", "status"),
					createdAtDesc("category_id", "company_id", "status"),
				},
			},
		},
	}
}
