// controller/object_controller.go
package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
	"github.com/dev-mohitbeniwal/neonvault/service"
	"github.com/dev-mohitbeniwal/neonvault/util"
	helper_util "github.com/dev-mohitbeniwal/neonvault/util/helper"
)

type ObjectController struct {
	objectService service.IObjectService
	auditor       audit.Auditor
}

func NewObjectController(objectService service.IObjectService, auditor audit.Auditor) *ObjectController {
	return &ObjectController{
		objectService: objectService,
		auditor:       auditor,
	}
}

// RegisterRoutes registers the API routes
func (oc *ObjectController) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")
	{
		v1.GET("/objects", oc.ListObjects)
		v1.GET("/objects/:id/meta", oc.GetObjectMeta)
		v1.GET("/objects/:id/download", oc.DownloadObject)
		v1.DELETE("/objects/:id", oc.DeleteObject)
		v1.POST("/upload", oc.UploadObject)
	}
}

// fail hands err to the error middleware and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (oc *ObjectController) identity(c *gin.Context) (*model.Identity, bool) {
	identity := util.GetIdentityFromContext(c)
	if identity == nil {
		fail(c, vault_errors.ErrUnauthenticated)
		return nil, false
	}
	return identity, true
}

func (oc *ObjectController) audit(c *gin.Context, identity *model.Identity, action audit.Action, status int, objectID, key string) {
	oc.auditor.Dispatch(util.NewAuditRecord(c, identity, action, status, objectID, key))
}

// ListObjects endpoint
func (oc *ObjectController) ListObjects(c *gin.Context) {
	identity, ok := oc.identity(c)
	if !ok {
		return
	}
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		fail(c, err)
		return
	}

	objects, err := oc.objectService.ListObjects(c.Request.Context(), identity, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}

	oc.audit(c, identity, audit.ActionList, http.StatusOK, "", "")
	c.JSON(http.StatusOK, gin.H{"objects": objects, "requestId": util.GetRequestID(c)})
}

// GetObjectMeta endpoint
func (oc *ObjectController) GetObjectMeta(c *gin.Context) {
	identity, ok := oc.identity(c)
	if !ok {
		return
	}
	id := c.Param("id")

	meta, cached, err := oc.objectService.GetObjectMeta(c.Request.Context(), identity, id)
	if err != nil {
		fail(c, err)
		return
	}

	oc.audit(c, identity, audit.ActionMetaRead, http.StatusOK, id, meta.R2Key)
	c.JSON(http.StatusOK, gin.H{"meta": meta, "cached": cached, "requestId": util.GetRequestID(c)})
}

// UploadObject endpoint
func (oc *ObjectController) UploadObject(c *gin.Context) {
	identity, ok := oc.identity(c)
	if !ok {
		return
	}

	var body io.Reader
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		body = c.Request.Body
	}
	obj, err := oc.objectService.UploadObject(c.Request.Context(), identity, service.UploadRequest{
		Body:        body,
		Filename:    c.GetHeader("X-Filename"),
		ContentType: c.GetHeader("Content-Type"),
		Tags:        c.GetHeader("X-Tags"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	oc.audit(c, identity, audit.ActionUpload, http.StatusCreated, obj.ID, obj.R2Key)
	c.JSON(http.StatusCreated, gin.H{
		"id":        obj.ID,
		"r2Key":     obj.R2Key,
		"created":   true,
		"requestId": util.GetRequestID(c),
	})
}

// DownloadObject endpoint
func (oc *ObjectController) DownloadObject(c *gin.Context) {
	identity, ok := oc.identity(c)
	if !ok {
		return
	}
	id := c.Param("id")

	meta, obj, err := oc.objectService.OpenObject(c.Request.Context(), identity, id)
	if err != nil {
		fail(c, err)
		return
	}
	defer obj.Body.Close()

	contentType := meta.ContentType
	if contentType == "" {
		contentType = util.DefaultContentType
	}
	filename := meta.Filename
	if filename == "" {
		filename = "download.bin"
	}

	oc.audit(c, identity, audit.ActionDownload, http.StatusOK, id, meta.R2Key)

	c.Header("Cache-Control", "private, no-store")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		logger.Warn("Download interrupted", zap.Error(err), zap.String("objectID", id))
	}
}

// DeleteObject endpoint
func (oc *ObjectController) DeleteObject(c *gin.Context) {
	identity, ok := oc.identity(c)
	if !ok {
		return
	}
	id := c.Param("id")

	meta, err := oc.objectService.DeleteObject(c.Request.Context(), identity, id)
	if err != nil {
		fail(c, err)
		return
	}

	oc.audit(c, identity, audit.ActionDelete, http.StatusNoContent, id, meta.R2Key)
	c.Status(http.StatusNoContent)
}
