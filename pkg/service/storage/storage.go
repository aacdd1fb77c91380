package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// MaxObjectSize is the largest upload accepted by any Store
const MaxObjectSize = 10 << 20

var (
	ErrTooLarge = goerr.New("object exceeds size limit")
	ErrEmpty    = goerr.New("object is empty")
)

// Object describes an uploaded file
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store persists uploaded files and returns a URL that can be stored in a
// file field's value.
type Store interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader) (*Object, error)
}

// ObjectKey builds a collision-free key for a user's upload, keeping the
// original extension.
func ObjectKey(owner, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	return path.Join("uploads", owner, uuid.NewString()+ext)
}

// readLimited reads the whole body and rejects anything over MaxObjectSize
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxObjectSize+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload")
	}
	if len(data) > MaxObjectSize {
		return nil, goerr.Wrap(ErrTooLarge, "upload too large", goerr.V("limit", MaxObjectSize))
	}
	if len(data) == 0 {
		return nil, goerr.Wrap(ErrEmpty, "upload has no content")
	}
	return data, nil
}
