// service/services.go
package service

import (
	"context"

	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/storage"
)

// IObjectService is the object API consumed by the controllers.
type IObjectService interface {
	ListObjects(ctx context.Context, identity *model.Identity, limit, offset int) ([]model.ObjectMetadata, error)
	GetObjectMeta(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, bool, error)
	UploadObject(ctx context.Context, identity *model.Identity, req UploadRequest) (*model.ObjectMetadata, error)
	OpenObject(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, *storage.Object, error)
	DeleteObject(ctx context.Context, identity *model.Identity, id string) (*model.ObjectMetadata, error)
}

var _ IObjectService = (*ObjectService)(nil)
