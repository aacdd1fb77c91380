package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/cli"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const validSeed = `
[[category]]
title = "Jobs"
icon = "briefcase"

  [[category.field]]
  label = "Salary"
  type = "number"
  required = true

  [[category.field]]
  label = "Work Mode"
  type = "select"
  options = ["remote", "onsite"]

[[admin]]
id = "admin-1"
email = "admin@example.com"
secret = "s3cret"
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_ValidSeed(t *testing.T) {
	path := writeSeed(t, validSeed)

	err := cli.Run(context.Background(), []string{"applyonce", "validate", "--seed", path}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidSeed(t *testing.T) {
	// select without options
	path := writeSeed(t, `
[[category]]
title = "Jobs"

  [[category.field]]
  label = "Work Mode"
  type = "select"
`)

	err := cli.Run(context.Background(), []string{"applyonce", "validate", "--seed", path}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.toml")

	err := cli.Run(context.Background(), []string{"applyonce", "validate", "--seed", path}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_DBCheckWithMemory(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"applyonce", "validate",
		"--check-db",
		"--repository-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidBackend(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"applyonce", "validate",
		"--check-db",
		"--repository-backend", "mysql",
	}, "test")
	gt.Value(t, err).NotNil()
}

func TestPrintValidationReport(t *testing.T) {
	t.Run("with issues", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintValidationReport(&buf, &usecase.ValidationResult{
			Scanned: 3,
			Issues: []usecase.ValidationIssue{
				{
					CategoryID: "jobs",
					Source:     usecase.SourceOpportunity,
					RecordID:   "opp-1",
					Key:        "work_mode",
					Message:    "value is not an option",
					Actual:     "hybrid",
				},
			},
		})

		out := buf.String()
		gt.B(t, strings.Contains(out, "jobs opportunity/opp-1")).True()
		gt.B(t, strings.Contains(out, "work_mode")).True()
		gt.B(t, strings.Contains(out, "(actual: hybrid)")).True()
		gt.B(t, strings.Contains(out, "1 issue(s) found")).True()
		gt.B(t, strings.Contains(out, "in 3 record(s)")).True()
	})

	t.Run("no issues", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintValidationReport(&buf, &usecase.ValidationResult{Scanned: 2})
		gt.B(t, strings.Contains(buf.String(), "No issues found")).True()
		gt.B(t, strings.Contains(buf.String(), "in 2 record(s)")).True()
	})
}
