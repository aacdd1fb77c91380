package cli

import (
	"context"
	"errors"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/cli/config"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// seedActor is the identity seed operations run as
const seedActor types.UserID = "applyonce-seed"

// SeedResult counts what applySeed created
type SeedResult struct {
	Categories int
	Fields     int
	Admins     int
}

func cmdSeed() *cli.Command {
	var path string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Seed file (TOML)",
			Required:    true,
			Sources:     cli.EnvVars("APPLYONCE_SEED_FILE"),
			Destination: &path,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load categories, fields and admin accounts from a TOML file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			seed, err := config.LoadSeed(path)
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			result, err := applySeed(ctx, usecase.New(repo), seed)
			if err != nil {
				return err
			}

			logging.Default().Info("Seed applied",
				"path", path,
				"categories", result.Categories,
				"fields", result.Fields,
				"admins", result.Admins,
			)
			return nil
		},
	}
}

// applySeed creates missing categories and fields and grants admin roles.
// Existing categories and fields with the same name are left untouched, so
// a seed file can be applied repeatedly.
func applySeed(ctx context.Context, uc *usecase.UseCases, seed *config.Seed) (*SeedResult, error) {
	ctx = auth.ContextWithSession(ctx, &auth.Session{UserID: seedActor, Role: types.RoleAdmin})
	logger := logging.From(ctx)
	result := &SeedResult{}

	for _, sc := range seed.Categories {
		id := types.CategoryID(sc.ID)
		if id == "" {
			id = usecase.CategoryIDFromTitle(sc.Title)
		}

		c, err := uc.Category.CreateCategory(ctx, usecase.CategoryInput{
			ID:          id,
			Title:       sc.Title,
			Description: sc.Description,
			Icon:        sc.Icon,
			Color:       sc.Color,
		})
		switch {
		case err == nil:
			result.Categories++
		case errors.Is(err, usecase.ErrConflict):
			c, err = uc.Category.GetCategory(ctx, id)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to load existing category", goerr.V("category_id", id))
			}
			logger.Info("Category already exists, keeping it", "category_id", c.ID)
		default:
			return nil, goerr.Wrap(err, "failed to create category", goerr.V("title", sc.Title))
		}

		existing, err := uc.Field.ListFields(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		names := make(map[string]bool, len(existing))
		for _, f := range existing {
			names[f.Name] = true
		}

		for _, sf := range sc.Fields {
			if names[fieldName(sf)] {
				continue
			}

			f, err := uc.Field.CreateField(ctx, c.ID, usecase.FieldInput{
				Label:       sf.Label,
				Name:        sf.Name,
				Type:        types.FieldType(sf.Type),
				Required:    sf.Required,
				Placeholder: sf.Placeholder,
				Options:     sf.Options,
				Min:         sf.Min,
				Max:         sf.Max,
				Step:        sf.Step,
			})
			if err != nil {
				return nil, goerr.Wrap(err, "failed to create field",
					goerr.V("category_id", c.ID), goerr.V("label", sf.Label))
			}
			names[f.Name] = true
			result.Fields++
		}
	}

	for _, a := range seed.Admins {
		if _, err := uc.Auth.SetAdmin(ctx, types.UserID(a.ID), a.Email, a.Secret); err != nil {
			return nil, goerr.Wrap(err, "failed to set admin", goerr.V("user_id", a.ID))
		}
		result.Admins++
	}

	return result, nil
}

func fieldName(sf config.SeedField) string {
	if sf.Name != "" {
		return sf.Name
	}
	name, _ := model.DeriveFieldName(sf.Label)
	return name
}
