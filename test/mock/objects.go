// test/mock/objects.go
package mock

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/storage"
)

// MemoryObjectStore keeps object rows in memory.
type MemoryObjectStore struct {
	mu   sync.Mutex
	rows map[string]model.ObjectMetadata
}

func NewMemoryObjectStore(rows ...model.ObjectMetadata) *MemoryObjectStore {
	s := &MemoryObjectStore{rows: make(map[string]model.ObjectMetadata)}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *MemoryObjectStore) GetObjectByID(_ context.Context, id string) (*model.ObjectMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, vault_errors.ErrNotFound
	}
	return &row, nil
}

func (s *MemoryObjectStore) CreateObject(_ context.Context, obj *model.ObjectMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[obj.ID]; ok {
		return vault_errors.ErrObjectConflict
	}
	now := time.Now().UTC()
	if obj.CreatedAt.IsZero() {
		obj.CreatedAt = now
	}
	if obj.UpdatedAt.IsZero() {
		obj.UpdatedAt = now
	}
	s.rows[obj.ID] = *obj
	return nil
}

func (s *MemoryObjectStore) DeleteObject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *MemoryObjectStore) ListObjectsByOwner(_ context.Context, ownerSub string, limit, offset int) ([]model.ObjectMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.ObjectMetadata{}
	for _, r := range s.rows {
		if r.OwnerSub == ownerSub {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return []model.ObjectMetadata{}, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// MockObjectStore is a mock implementation of service.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) GetObjectByID(ctx context.Context, id string) (*model.ObjectMetadata, error) {
	args := m.Called(ctx, id)
	meta, _ := args.Get(0).(*model.ObjectMetadata)
	return meta, args.Error(1)
}

func (m *MockObjectStore) CreateObject(ctx context.Context, obj *model.ObjectMetadata) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockObjectStore) DeleteObject(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockObjectStore) ListObjectsByOwner(ctx context.Context, ownerSub string, limit, offset int) ([]model.ObjectMetadata, error) {
	args := m.Called(ctx, ownerSub, limit, offset)
	objects, _ := args.Get(0).([]model.ObjectMetadata)
	return objects, args.Error(1)
}

// MockBackend is a mock implementation of storage.Backend. Put drains the
// body so streaming callers observe a complete read.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Put(ctx context.Context, key string, body io.Reader, opts storage.PutOptions) error {
	_, _ = io.Copy(io.Discard, body)
	args := m.Called(ctx, key, opts)
	return args.Error(0)
}

func (m *MockBackend) Get(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}

func (m *MockBackend) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockMetadataCache is a mock implementation of service.MetadataCache
type MockMetadataCache struct {
	mock.Mock
}

func (m *MockMetadataCache) GetObjectMeta(ctx context.Context, ownerSub, objectID string) *model.ObjectMetadata {
	args := m.Called(ctx, ownerSub, objectID)
	meta, _ := args.Get(0).(*model.ObjectMetadata)
	return meta
}

func (m *MockMetadataCache) SetObjectMeta(ctx context.Context, meta model.ObjectMetadata, ownerSub string) error {
	args := m.Called(ctx, meta, ownerSub)
	return args.Error(0)
}

func (m *MockMetadataCache) InvalidateObjectMeta(ctx context.Context, objectID, ownerSub string) error {
	args := m.Called(ctx, objectID, ownerSub)
	return args.Error(0)
}
