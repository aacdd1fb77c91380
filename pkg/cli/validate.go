package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/cli/config"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/logging"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var errInconsistentDB = goerr.New("DB consistency check found issues")

func cmdValidate() *cli.Command {
	var seedPath string
	var checkDB bool
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "seed",
			Usage:       "Seed file to validate (TOML)",
			Sources:     cli.EnvVars("APPLYONCE_SEED_FILE"),
			Destination: &seedPath,
		},
		&cli.BoolFlag{
			Name:        "check-db",
			Usage:       "Check stored opportunities and responses against their category fields",
			Destination: &checkDB,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a seed file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if seedPath != "" {
				seed, err := config.LoadSeed(seedPath)
				if err != nil {
					return goerr.Wrap(err, "seed validation failed")
				}
				logger.Info("Seed validation passed",
					"path", seedPath,
					"category_count", len(seed.Categories),
					"admin_count", len(seed.Admins),
				)
			}

			if !checkDB {
				logger.Info("DB consistency check not requested, skipping")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			result, err := usecase.New(repo).ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			printValidationReport(os.Stdout, result)
			if result.HasIssues() {
				return goerr.Wrap(errInconsistentDB, "inconsistent records", goerr.V("issues", len(result.Issues)))
			}
			return nil
		},
	}
}

// printValidationReport writes one line per issue followed by a summary
func printValidationReport(w io.Writer, result *usecase.ValidationResult) {
	bold := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	ok := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)

	for _, issue := range result.Issues {
		_, _ = bold.Fprintf(w, "%s %s/%s", issue.CategoryID, issue.Source, issue.RecordID)
		_, _ = fmt.Fprintf(w, " %s: ", issue.Key)
		_, _ = warn.Fprint(w, issue.Message)
		if issue.Actual != "" {
			_, _ = fmt.Fprintf(w, " (actual: %s)", issue.Actual)
		}
		_, _ = fmt.Fprintln(w)
	}

	if result.HasIssues() {
		_, _ = bad.Fprintf(w, "%d issue(s) found", len(result.Issues))
	} else {
		_, _ = ok.Fprint(w, "No issues found")
	}
	_, _ = fmt.Fprintf(w, " in %d record(s)\n", result.Scanned)
}
