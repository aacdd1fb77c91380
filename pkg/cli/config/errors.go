package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
	ErrMissingOption  = goerr.New("required option is missing")
	ErrInvalidBackend = goerr.New("invalid backend")
	ErrDuplicateEntry = goerr.New("duplicate entry")
	ErrMissingName    = goerr.New("name is required")
)

// Context keys for error values
const (
	ConfigPathKey    = "config_path"
	BackendKey       = "backend"
	CategoryIDKey    = "category_id"
	CategoryIndexKey = "category_index"
	FieldIndexKey    = "field_index"
	FieldLabelKey    = "field_label"
	AdminIndexKey    = "admin_index"
)
