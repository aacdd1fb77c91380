package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Seed is the content of a seed file: categories with their fields, and
// admin accounts.
type Seed struct {
	Categories []SeedCategory `toml:"category"`
	Admins     []SeedAdmin    `toml:"admin"`
}

// SeedCategory represents a category and its fields
type SeedCategory struct {
	ID          string      `toml:"id"`
	Title       string      `toml:"title"`
	Description string      `toml:"description"`
	Icon        string      `toml:"icon"`
	Color       string      `toml:"color"`
	Fields      []SeedField `toml:"field"`
}

// SeedField represents one field definition. Name defaults to the label.
type SeedField struct {
	Label       string   `toml:"label"`
	Name        string   `toml:"name"`
	Type        string   `toml:"type"`
	Required    bool     `toml:"required"`
	Placeholder string   `toml:"placeholder"`
	Options     []string `toml:"options"`
	Min         *float64 `toml:"min"`
	Max         *float64 `toml:"max"`
	Step        *float64 `toml:"step"`
}

// SeedAdmin grants the admin role to an existing or future Supabase user
type SeedAdmin struct {
	ID     string `toml:"id"`
	Email  string `toml:"email"`
	Secret string `toml:"secret" masq:"secret"`
}

// SpecInput converts the field to the input of model.NewFieldSpec
func (f *SeedField) SpecInput() model.FieldSpecInput {
	return model.FieldSpecInput{
		Type:    types.FieldType(f.Type),
		Options: f.Options,
		Min:     f.Min,
		Max:     f.Max,
		Step:    f.Step,
	}
}

// Validate checks if the SeedField is valid
func (f *SeedField) Validate() error {
	if strings.TrimSpace(f.Label) == "" {
		return goerr.Wrap(ErrMissingName, "field label is required")
	}
	if f.Name == "" {
		if _, err := model.DeriveFieldName(f.Label); err != nil {
			return goerr.Wrap(err, "cannot derive field name", goerr.V(FieldLabelKey, f.Label))
		}
	} else if err := model.ValidateFieldName(f.Name); err != nil {
		return goerr.Wrap(err, "invalid field name", goerr.V(FieldLabelKey, f.Label))
	}
	if _, err := model.NewFieldSpec(f.SpecInput()); err != nil {
		return goerr.Wrap(err, "invalid field definition", goerr.V(FieldLabelKey, f.Label))
	}
	return nil
}

// Validate checks if the SeedCategory is valid
func (c *SeedCategory) Validate() error {
	if c.ID != "" {
		if err := types.CategoryID(c.ID).Validate(); err != nil {
			return goerr.Wrap(err, "invalid category ID")
		}
	}
	if strings.TrimSpace(c.Title) == "" {
		return goerr.Wrap(ErrMissingName, "category title is required", goerr.V(CategoryIDKey, c.ID))
	}

	names := make(map[string]bool)
	for i, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return goerr.Wrap(err, "invalid field", goerr.V(CategoryIDKey, c.ID), goerr.V(FieldIndexKey, i))
		}
		name := f.Name
		if name == "" {
			name, _ = model.DeriveFieldName(f.Label)
		}
		if names[name] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate field name",
				goerr.V(CategoryIDKey, c.ID), goerr.V("name", name))
		}
		names[name] = true
	}
	return nil
}

// Validate checks if the Seed is valid
func (s *Seed) Validate() error {
	ids := make(map[string]bool)
	for i, c := range s.Categories {
		if err := c.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category", goerr.V(CategoryIndexKey, i))
		}
		if c.ID == "" {
			continue
		}
		if ids[c.ID] {
			return goerr.Wrap(ErrDuplicateEntry, "duplicate category ID", goerr.V(CategoryIDKey, c.ID))
		}
		ids[c.ID] = true
	}

	for i, a := range s.Admins {
		if a.ID == "" || a.Secret == "" {
			return goerr.Wrap(ErrMissingOption, "admin requires id and secret", goerr.V(AdminIndexKey, i))
		}
	}
	return nil
}

// LoadSeed reads and validates a TOML seed file
func LoadSeed(path string) (*Seed, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "seed file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read seed file", goerr.V(ConfigPathKey, path))
	}

	var seed Seed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML seed file",
			goerr.V(ConfigPathKey, path), goerr.V("reason", err.Error()))
	}

	if err := seed.Validate(); err != nil {
		return nil, goerr.Wrap(err, "seed validation failed", goerr.V(ConfigPathKey, path))
	}

	return &seed, nil
}
