package config

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/service/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage backends for uploads
const (
	StorageNone   = "none"
	StorageMemory = "memory"
	StorageGCS    = "gcs"
)

// Storage configures where uploaded files are kept
type Storage struct {
	backend string
	bucket  string
	baseURL string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Upload storage backend (none, memory or gcs)",
			Value:       StorageNone,
			Category:    "Storage",
			Sources:     cli.EnvVars("APPLYONCE_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Cloud Storage bucket (required for gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("APPLYONCE_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-base-url",
			Usage:       "Public URL prefix of stored objects",
			Category:    "Storage",
			Sources:     cli.EnvVars("APPLYONCE_STORAGE_BASE_URL"),
			Destination: &x.baseURL,
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("bucket", x.bucket),
		slog.String("base-url", x.baseURL),
	)
}

// Backend returns the configured backend
func (x *Storage) Backend() string {
	return x.backend
}

// Configure returns the store, or nil when uploads are disabled. For the
// memory backend serverURL is used as the URL prefix unless a base URL is set.
func (x *Storage) Configure(ctx context.Context, serverURL string) (storage.Store, error) {
	switch x.backend {
	case "", StorageNone:
		return nil, nil

	case StorageMemory:
		base := x.baseURL
		if base == "" {
			base = strings.TrimRight(serverURL, "/") + "/files"
		}
		return storage.NewMemory(base), nil

	case StorageGCS:
		if x.bucket == "" {
			return nil, goerr.Wrap(ErrMissingOption, "--storage-bucket is required for gcs backend")
		}
		var opts []storage.GCSOption
		if x.baseURL != "" {
			opts = append(opts, storage.WithBaseURL(x.baseURL))
		}
		store, err := storage.NewGCS(ctx, x.bucket, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize cloud storage", goerr.V("bucket", x.bucket))
		}
		return store, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid storage backend", goerr.V(BackendKey, x.backend))
	}
}
