// dao/object_dao.go
package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dev-mohitbeniwal/neonvault/db"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

// ObjectDAO reads and writes object rows in the relational store.
type ObjectDAO struct {
	DB *gorm.DB
}

func NewObjectDAO(db *gorm.DB) *ObjectDAO {
	return &ObjectDAO{DB: db}
}

// GetObjectByID returns the row for id, or ErrNotFound.
func (dao *ObjectDAO) GetObjectByID(ctx context.Context, id string) (*model.ObjectMetadata, error) {
	var obj model.ObjectMetadata
	err := dao.DB.WithContext(ctx).Where("id = ?", id).Take(&obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, vault_errors.ErrNotFound
		}
		logger.Error("Failed to get object", zap.Error(err), zap.String("objectID", id))
		return nil, fmt.Errorf("%w: get object: %v", vault_errors.ErrDatabaseOperation, err)
	}
	return &obj, nil
}

func (dao *ObjectDAO) CreateObject(ctx context.Context, obj *model.ObjectMetadata) error {
	start := time.Now()
	if err := dao.DB.WithContext(ctx).Create(obj).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", vault_errors.ErrObjectConflict, obj.ID)
		}
		logger.Error("Failed to create object", zap.Error(err), zap.String("objectID", obj.ID))
		return fmt.Errorf("%w: create object: %v", vault_errors.ErrDatabaseOperation, err)
	}
	logger.Info("Object created",
		zap.String("objectID", obj.ID),
		zap.String("owner", obj.OwnerSub),
		zap.Duration("duration", time.Since(start)))
	return nil
}

// DeleteObject hard-deletes the row. Deleting a missing row is not an error.
func (dao *ObjectDAO) DeleteObject(ctx context.Context, id string) error {
	result := dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.ObjectMetadata{})
	if result.Error != nil {
		logger.Error("Failed to delete object", zap.Error(result.Error), zap.String("objectID", id))
		return fmt.Errorf("%w: delete object: %v", vault_errors.ErrDatabaseOperation, result.Error)
	}
	logger.Info("Object deleted", zap.String("objectID", id), zap.Int64("rows", result.RowsAffected))
	return nil
}

// ListObjectsByOwner returns ownerSub's objects, newest first.
func (dao *ObjectDAO) ListObjectsByOwner(ctx context.Context, ownerSub string, limit, offset int) ([]model.ObjectMetadata, error) {
	objects := []model.ObjectMetadata{}
	err := dao.DB.WithContext(ctx).
		Where("owner_sub = ?", ownerSub).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&objects).Error
	if err != nil {
		logger.Error("Failed to list objects", zap.Error(err), zap.String("owner", ownerSub))
		return nil, fmt.Errorf("%w: list objects: %v", vault_errors.ErrDatabaseOperation, err)
	}
	return objects, nil
}
