// storage/backend.go
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dev-mohitbeniwal/neonvault/config"
)

// PutOptions carries the attributes stored alongside an object body.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Object is an open object body. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Backend stores object bodies by key. Get returns
// errors.ErrStorageObjectNotFound for keys that do not exist.
type Backend interface {
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// NewBackend builds the backend selected by cfg.Driver.
func NewBackend(cfg config.StorageConfiguration) (Backend, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Backend(cfg)
	case "local":
		return NewLocalBackend(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
