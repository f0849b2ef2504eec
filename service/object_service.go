// service/object_service.go
package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/storage"
	"github.com/dev-mohitbeniwal/neonvault/util"
)

// ObjectStore is the relational store of object rows.
type ObjectStore interface {
	GetObjectByID(ctx context.Context, id string) (*model.ObjectMetadata, error)
	CreateObject(ctx context.Context, obj *model.ObjectMetadata) error
	DeleteObject(ctx context.Context, id string) error
	ListObjectsByOwner(ctx context.Context, ownerSub string, limit, offset int) ([]model.ObjectMetadata, error)
}

// MetadataCache is the owner-scoped metadata cache.
type MetadataCache interface {
	GetObjectMeta(ctx context.Context, ownerSub, objectID string) *model.ObjectMetadata
	SetObjectMeta(ctx context.Context, meta model.ObjectMetadata, ownerSub string) error
	InvalidateObjectMeta(ctx context.Context, objectID, ownerSub string) error
}

// UploadRequest is one streamed upload as received from the caller.
type UploadRequest struct {
	Body        io.Reader
	Filename    string
	ContentType string
	Tags        string
}

// ObjectService runs the object operations on behalf of a verified identity.
// Every mutation commits to the backend and the row store before the cached
// metadata is invalidated.
type ObjectService struct {
	backend    storage.Backend
	objects    ObjectStore
	cache      MetadataCache
	validation *util.ValidationUtil
}

func NewObjectService(backend storage.Backend, objects ObjectStore, cache MetadataCache, validation *util.ValidationUtil) *ObjectService {
	return &ObjectService{
		backend:    backend,
		objects:    objects,
		cache:      cache,
		validation: validation,
	}
}

func (s *ObjectService) ListObjects(ctx context.Context, identity *model.Identity, limit, offset int) ([]model.ObjectMetadata, error) {
	return s.objects.ListObjectsByOwner(ctx, identity.Subject, limit, offset)
}

// GetObjectMeta serves metadata through the cache. The second result reports
// a cache hit. Objects owned by someone else are reported as not found and
// are never cached.
func (s *ObjectService) GetObjectMeta(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, bool, error) {
	if cached := s.cache.GetObjectMeta(ctx, identity.Subject, id); cached != nil && cached.OwnerSub == identity.Subject && cached.ID == id {
		return cached, true, nil
	}

	meta, err := s.ownedObject(ctx, identity, id)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.SetObjectMeta(ctx, *meta, identity.Subject); err != nil {
		logger.Warn("Failed to populate metadata cache", zap.Error(err), zap.String("objectID", id))
	}
	return meta, false, nil
}

// UploadObject streams the body to the backend, records the row and then
// invalidates any cached metadata for the new id.
func (s *ObjectService) UploadObject(ctx context.Context, identity *model.Identity, req UploadRequest) (*model.ObjectMetadata, error) {
	filename, err := s.validation.ValidateFilename(req.Filename)
	if err != nil {
		return nil, err
	}
	contentType, err := s.validation.ValidateContentType(req.ContentType)
	if err != nil {
		return nil, err
	}
	tags, err := s.validation.ParseTags(req.Tags)
	if err != nil {
		return nil, err
	}
	if req.Body == nil {
		return nil, vault_errors.ErrMissingBody
	}
	body := bufio.NewReader(req.Body)
	if _, err := body.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, vault_errors.ErrMissingBody
		}
		return nil, fmt.Errorf("%w: read body: %v", vault_errors.ErrInternal, err)
	}

	id := uuid.NewString()
	key := fmt.Sprintf("%s/%s/%s", identity.Subject, id, filename)

	digest := newDigestReader(body)
	err = s.backend.Put(ctx, key, digest, storage.PutOptions{
		ContentType: contentType,
		Metadata: map[string]string{
			"owner_sub":   identity.Subject,
			"owner_email": identity.Email,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vault_errors.ErrInternal, err)
	}

	sum := digest.Sum()
	obj := &model.ObjectMetadata{
		ID:          id,
		R2Key:       key,
		OwnerSub:    identity.Subject,
		OwnerEmail:  optional(identity.Email),
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   digest.n,
		SHA256Hex:   &sum,
		TagsJSON:    &tags,
	}
	if err := s.objects.CreateObject(ctx, obj); err != nil {
		if delErr := s.backend.Delete(ctx, key); delErr != nil {
			logger.Error("Failed to remove orphaned upload", zap.Error(delErr), zap.String("key", key))
		}
		return nil, err
	}

	if err := s.cache.InvalidateObjectMeta(ctx, id, identity.Subject); err != nil {
		return nil, fmt.Errorf("%w: %v", vault_errors.ErrInternal, err)
	}
	logger.Info("Object uploaded",
		zap.String("objectID", id),
		zap.String("owner", identity.Subject),
		zap.Int64("size", obj.SizeBytes))
	return obj, nil
}

// OpenObject returns the metadata and an open body for an owned object.
func (s *ObjectService) OpenObject(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, *storage.Object, error) {
	meta, err := s.ownedObject(ctx, identity, id)
	if err != nil {
		return nil, nil, err
	}
	obj, err := s.backend.Get(ctx, meta.R2Key)
	if err != nil {
		if errors.Is(err, vault_errors.ErrStorageObjectNotFound) {
			return meta, nil, err
		}
		return meta, nil, fmt.Errorf("%w: %v", vault_errors.ErrInternal, err)
	}
	return meta, obj, nil
}

// DeleteObject removes the body, then the row, then the cached metadata.
func (s *ObjectService) DeleteObject(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, error) {
	meta, err := s.ownedObject(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if err := s.backend.Delete(ctx, meta.R2Key); err != nil {
		return meta, fmt.Errorf("%w: %v", vault_errors.ErrInternal, err)
	}
	if err := s.objects.DeleteObject(ctx, id); err != nil {
		return meta, err
	}
	if err := s.cache.InvalidateObjectMeta(ctx, id, identity.Subject); err != nil {
		return meta, fmt.Errorf("%w: %v", vault_errors.ErrInternal, err)
	}

	logger.Info("Object deleted", zap.String("objectID", id), zap.String("owner", identity.Subject))
	return meta, nil
}

// ownedObject loads the row and hides objects of other owners behind ErrNotFound.
func (s *ObjectService) ownedObject(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, error) {
	meta, err := s.objects.GetObjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meta.OwnerSub != identity.Subject {
		return nil, vault_errors.ErrNotFound
	}
	return meta, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// digestReader hashes and counts what passes through it.
type digestReader struct {
	r io.Reader
	h hash.Hash
	n int64
}

func newDigestReader(r io.Reader) *digestReader {
	return &digestReader{r: r, h: sha256.New()}
}

func (d *digestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.n += int64(n)
	}
	return n, err
}

func (d *digestReader) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
