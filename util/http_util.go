// util/http_util.go
package util

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
	logger "github.com/dev-mohitbeniwal/neonvault/logging"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

// ClientIPHeader carries the original client address set by the edge proxy.
const ClientIPHeader = "Cf-Connecting-Ip"

// Context keys shared by the gate middleware and the handlers.
const (
	RequestIDKey    = "requestID"
	RequestStartKey = "requestStart"
	IdentityKey     = "identity"
)

// ErrorEnvelope is the body of every rejected request.
type ErrorEnvelope struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Status    int    `json:"status"`
	RequestID string `json:"requestId"`
	LatencyMS int64  `json:"latency_ms"`
}

// RespondWithError maps err to its status and writes the error envelope.
func RespondWithError(c *gin.Context, err error) int {
	status, message := vault_errors.Status(err)
	if status >= 500 {
		logger.Error(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))
	}

	c.AbortWithStatusJSON(status, ErrorEnvelope{
		OK:        false,
		Error:     message,
		Status:    status,
		RequestID: GetRequestID(c),
		LatencyMS: time.Since(GetRequestStart(c)).Milliseconds(),
	})
	return status
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

func GetRequestStart(c *gin.Context) time.Time {
	if start, ok := c.Get(RequestStartKey); ok {
		if t, ok := start.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

// GetIdentityFromContext returns the verified caller, or nil before verification.
func GetIdentityFromContext(c *gin.Context) *model.Identity {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	identity, _ := v.(*model.Identity)
	return identity
}

// NewAuditRecord describes the outcome of the current request for identity.
// Empty objectID and key are stored as absent.
func NewAuditRecord(c *gin.Context, identity *model.Identity, action audit.Action, status int, objectID, key string) audit.AuditRecord {
	ip := c.GetHeader(ClientIPHeader)
	if ip == "" {
		ip = c.ClientIP()
	}
	return audit.AuditRecord{
		ActorSub:   identity.Subject,
		ActorEmail: optionalString(identity.Email),
		Action:     action,
		ObjectID:   optionalString(objectID),
		R2Key:      optionalString(key),
		OK:         status < 400,
		Status:     status,
		RequestID:  GetRequestID(c),
		IPHash:     audit.HashIP(ip),
		UserAgent:  c.Request.UserAgent(),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
