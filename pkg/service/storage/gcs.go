package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCS stores uploads in a Google Cloud Storage bucket
type GCS struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

type GCSOption func(*GCS)

// WithBaseURL sets the public URL prefix objects are served from. The default
// is https://storage.googleapis.com/<bucket>.
func WithBaseURL(base string) GCSOption {
	return func(g *GCS) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// NewGCS creates a GCS store. clientOpts are passed to the storage client.
func NewGCS(ctx context.Context, bucket string, opts []GCSOption, clientOpts ...option.ClientOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://storage.googleapis.com/%s", bucket),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) Put(ctx context.Context, filename, contentType string, r io.Reader) (*Object, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, err
	}

	owner := "anonymous"
	if sess := auth.SessionFromContext(ctx); sess != nil {
		owner = sess.UserID.String()
	}
	key := ObjectKey(owner, filename)

	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"original_filename": filename}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		safe.Close(ctx, w)
		return nil, goerr.Wrap(err, "failed to write object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", g.bucket), goerr.V("key", key))
	}

	return &Object{
		Key:         key,
		URL:         g.baseURL + "/" + (&url.URL{Path: key}).EscapedPath(),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Close releases the underlying client
func (g *GCS) Close() error {
	return g.client.Close()
}
