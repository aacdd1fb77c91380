package storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/model/auth"
	"github.com/m-mizutani/goerr/v2"
)

// Memory keeps uploads in process. It is meant for development and tests.
type Memory struct {
	baseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemory creates a Memory store whose URLs start with baseURL
func NewMemory(baseURL string) *Memory {
	return &Memory{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]memoryObject),
	}
}

func (m *Memory) Put(ctx context.Context, filename, contentType string, r io.Reader) (*Object, error) {
	data, err := readLimited(r)
	if err != nil {
		return nil, err
	}

	owner := "anonymous"
	if sess := auth.SessionFromContext(ctx); sess != nil {
		owner = sess.UserID.String()
	}
	key := ObjectKey(owner, filename)

	m.mu.Lock()
	m.objects[key] = memoryObject{contentType: contentType, data: data}
	m.mu.Unlock()

	return &Object{
		Key:         key,
		URL:         m.baseURL + "/" + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Get returns a stored object's content type and body
func (m *Memory) Get(key string) (string, []byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return "", nil, goerr.New("object not found", goerr.V("key", key))
	}
	return obj.contentType, append([]byte{}, obj.data...), nil
}
