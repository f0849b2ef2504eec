package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/service"
	"github.com/dev-mohitbeniwal/neonvault/storage"
	"github.com/dev-mohitbeniwal/neonvault/test/mock"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

var alice = &model.Identity{Subject: "u1", Email: "u1@example.com", Audience: []string{"aud"}}

func aliceObject() model.ObjectMetadata {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.ObjectMetadata{
		ID:          "obj-1",
		R2Key:       "u1/obj-1/a.txt",
		OwnerSub:    "u1",
		Filename:    "a.txt",
		ContentType: "text/plain",
		SizeBytes:   3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type fixture struct {
	svc     *service.ObjectService
	kv      *mock.MemoryKV
	cache   *util.CacheService
	objects *mock.MemoryObjectStore
	backend *storage.LocalBackend
}

func newFixture(t *testing.T, rows ...model.ObjectMetadata) *fixture {
	t.Helper()
	backend, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	kv := mock.NewMemoryKV()
	cache := util.NewCacheService(kv, time.Minute)
	objects := mock.NewMemoryObjectStore(rows...)
	return &fixture{
		svc:     service.NewObjectService(backend, objects, cache, util.NewValidationUtil()),
		kv:      kv,
		cache:   cache,
		objects: objects,
		backend: backend,
	}
}

func TestGetObjectMetaReadThrough(t *testing.T) {
	f := newFixture(t, aliceObject())
	ctx := context.Background()

	meta, cached, err := f.svc.GetObjectMeta(ctx, alice, "obj-1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "obj-1", meta.ID)
	assert.Equal(t, []string{"meta:u1:obj-1"}, f.kv.Keys("meta:"))

	meta, cached, err = f.svc.GetObjectMeta(ctx, alice, "obj-1")
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, aliceObject(), *meta)
}

func TestGetObjectMetaHidesForeignObjects(t *testing.T) {
	f := newFixture(t, aliceObject())
	bob := &model.Identity{Subject: "u2"}

	_, _, err := f.svc.GetObjectMeta(context.Background(), bob, "obj-1")
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
	_, _, err = f.svc.GetObjectMeta(context.Background(), bob, "missing")
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
	assert.Empty(t, f.kv.Keys("meta:"))
}

func TestGetObjectMetaCacheKeysWithColons(t *testing.T) {
	// owner "a:b" with id "c" and owner "a" with id "b:c" share the key meta:a:b:c
	colonOwner := &model.Identity{Subject: "a:b"}
	plainOwner := &model.Identity{Subject: "a"}
	f := newFixture(t, model.ObjectMetadata{ID: "c", R2Key: "a:b/c/x.txt", OwnerSub: "a:b", Filename: "x.txt"})
	ctx := context.Background()

	meta, cached, err := f.svc.GetObjectMeta(ctx, colonOwner, "c")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"meta:a:b:c"}, f.kv.Keys("meta:"))

	_, cached, err = f.svc.GetObjectMeta(ctx, plainOwner, "b:c")
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
	assert.False(t, cached)

	require.NoError(t, f.objects.CreateObject(ctx, &model.ObjectMetadata{ID: "b:c", R2Key: "a/b:c/y.txt", OwnerSub: "a", Filename: "y.txt"}))
	meta, cached, err = f.svc.GetObjectMeta(ctx, plainOwner, "b:c")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "a", meta.OwnerSub)

	// the shared key now holds the entry for "a"; "a:b" must not see it
	meta, cached, err = f.svc.GetObjectMeta(ctx, colonOwner, "c")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "a:b", meta.OwnerSub)
	assert.Equal(t, "c", meta.ID)
}

func TestGetObjectMetaIgnoresForeignCacheEntry(t *testing.T) {
	cache := new(mock.MockMetadataCache)
	foreign := aliceObject()
	foreign.OwnerSub = "u2"
	cache.On("GetObjectMeta", tmock.Anything, "u1", "obj-1").Return(&foreign)
	cache.On("SetObjectMeta", tmock.Anything, tmock.Anything, "u1").Return(nil)
	backend, err := storage.NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	svc := service.NewObjectService(backend, mock.NewMemoryObjectStore(aliceObject()), cache, util.NewValidationUtil())

	meta, cached, err := svc.GetObjectMeta(context.Background(), alice, "obj-1")
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, "u1", meta.OwnerSub)
}

func TestUploadDownloadDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	obj, err := f.svc.UploadObject(ctx, alice, service.UploadRequest{
		Body:        strings.NewReader("hello world"),
		Filename:    "greeting.txt",
		ContentType: "text/plain",
		Tags:        "demo",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1/"+obj.ID+"/greeting.txt", obj.R2Key)
	assert.Equal(t, int64(11), obj.SizeBytes)
	sum := sha256.Sum256([]byte("hello world"))
	assert.Equal(t, hex.EncodeToString(sum[:]), *obj.SHA256Hex)
	assert.Equal(t, `["demo"]`, *obj.TagsJSON)
	assert.Equal(t, "u1@example.com", *obj.OwnerEmail)

	meta, blob, err := f.svc.OpenObject(ctx, alice, obj.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	require.NoError(t, blob.Body.Close())
	assert.Equal(t, "hello world", string(body))
	assert.Equal(t, "greeting.txt", meta.Filename)

	_, _, err = f.svc.GetObjectMeta(ctx, alice, obj.ID)
	require.NoError(t, err)
	require.Len(t, f.kv.Keys("meta:"), 1)

	_, err = f.svc.DeleteObject(ctx, alice, obj.ID)
	require.NoError(t, err)
	assert.Empty(t, f.kv.Keys("meta:"))
	_, _, err = f.svc.GetObjectMeta(ctx, alice, obj.ID)
	assert.ErrorIs(t, err, vault_errors.ErrNotFound)
	_, err = f.backend.Get(ctx, obj.R2Key)
	assert.ErrorIs(t, err, vault_errors.ErrStorageObjectNotFound)
}

func TestUploadDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	obj, err := f.svc.UploadObject(ctx, alice, service.UploadRequest{Body: strings.NewReader("x")})
	require.NoError(t, err)
	assert.Equal(t, "upload.bin", obj.Filename)
	assert.Equal(t, "application/octet-stream", obj.ContentType)
	assert.Equal(t, "[]", *obj.TagsJSON)

	_, err = f.svc.UploadObject(ctx, alice, service.UploadRequest{Body: strings.NewReader("")})
	assert.ErrorIs(t, err, vault_errors.ErrMissingBody)

	_, err = f.svc.UploadObject(ctx, alice, service.UploadRequest{})
	assert.ErrorIs(t, err, vault_errors.ErrMissingBody)

	_, err = f.svc.UploadObject(ctx, alice, service.UploadRequest{Body: strings.NewReader("x"), Filename: "../escape"})
	assert.ErrorIs(t, err, vault_errors.ErrInvalidRequest)
}

func TestOpenObjectMissingInStorage(t *testing.T) {
	f := newFixture(t, aliceObject())

	_, _, err := f.svc.OpenObject(context.Background(), alice, "obj-1")
	assert.ErrorIs(t, err, vault_errors.ErrStorageObjectNotFound)
}

func TestListObjects(t *testing.T) {
	older := aliceObject()
	newer := aliceObject()
	newer.ID = "obj-2"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	foreign := aliceObject()
	foreign.ID = "obj-3"
	foreign.OwnerSub = "u2"
	f := newFixture(t, older, newer, foreign)

	objects, err := f.svc.ListObjects(context.Background(), alice, 200, 0)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "obj-2", objects[0].ID)
	assert.Equal(t, "obj-1", objects[1].ID)
}

func TestMutationsInvalidateAfterCommit(t *testing.T) {
	var order []string
	record := func(step string) func(tmock.Arguments) {
		return func(tmock.Arguments) { order = append(order, step) }
	}

	backend := new(mock.MockBackend)
	objects := new(mock.MockObjectStore)
	cache := new(mock.MockMetadataCache)
	svc := service.NewObjectService(backend, objects, cache, util.NewValidationUtil())

	backend.On("Put", tmock.Anything, tmock.Anything, tmock.Anything).Run(record("backend.put")).Return(nil)
	objects.On("CreateObject", tmock.Anything, tmock.Anything).Run(record("row.create")).Return(nil)
	cache.On("InvalidateObjectMeta", tmock.Anything, tmock.Anything, "u1").Run(record("cache.invalidate")).Return(nil)

	_, err := svc.UploadObject(context.Background(), alice, service.UploadRequest{Body: strings.NewReader("abc")})
	require.NoError(t, err)
	assert.Equal(t, []string{"backend.put", "row.create", "cache.invalidate"}, order)

	order = nil
	obj := aliceObject()
	objects.On("GetObjectByID", tmock.Anything, "obj-1").Return(&obj, nil)
	backend.On("Delete", tmock.Anything, "u1/obj-1/a.txt").Run(record("backend.delete")).Return(nil)
	objects.On("DeleteObject", tmock.Anything, "obj-1").Run(record("row.delete")).Return(nil)

	_, err = svc.DeleteObject(context.Background(), alice, "obj-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend.delete", "row.delete", "cache.invalidate"}, order)
}

func TestFailedBackendWriteSkipsInvalidation(t *testing.T) {
	backend := new(mock.MockBackend)
	objects := new(mock.MockObjectStore)
	cache := new(mock.MockMetadataCache)
	svc := service.NewObjectService(backend, objects, cache, util.NewValidationUtil())

	obj := aliceObject()
	objects.On("GetObjectByID", tmock.Anything, "obj-1").Return(&obj, nil)
	backend.On("Delete", tmock.Anything, obj.R2Key).Return(errors.New("bucket unavailable"))

	_, err := svc.DeleteObject(context.Background(), alice, "obj-1")
	assert.ErrorIs(t, err, vault_errors.ErrInternal)
	cache.AssertNotCalled(t, "InvalidateObjectMeta", tmock.Anything, tmock.Anything, tmock.Anything)
	objects.AssertNotCalled(t, "DeleteObject", tmock.Anything, tmock.Anything)
}

func TestFailedRowInsertRemovesUploadedBody(t *testing.T) {
	backend := new(mock.MockBackend)
	objects := new(mock.MockObjectStore)
	cache := new(mock.MockMetadataCache)
	svc := service.NewObjectService(backend, objects, cache, util.NewValidationUtil())

	backend.On("Put", tmock.Anything, tmock.Anything, tmock.Anything).Return(nil)
	objects.On("CreateObject", tmock.Anything, tmock.Anything).Return(vault_errors.ErrDatabaseOperation)
	backend.On("Delete", tmock.Anything, tmock.Anything).Return(nil)

	_, err := svc.UploadObject(context.Background(), alice, service.UploadRequest{Body: strings.NewReader("abc")})
	assert.ErrorIs(t, err, vault_errors.ErrDatabaseOperation)
	backend.AssertCalled(t, "Delete", tmock.Anything, tmock.Anything)
	cache.AssertNotCalled(t, "InvalidateObjectMeta", tmock.Anything, tmock.Anything, tmock.Anything)
}
