// audit/model.go
package audit

import "time"

type Action string

const (
	ActionList     Action = "LIST"
	ActionMetaRead Action = "META_READ"
	ActionUpload   Action = "UPLOAD"
	ActionDownload Action = "DOWNLOAD"
	ActionDelete   Action = "DELETE"
	ActionError    Action = "ERROR"
)

// AuditRecord is one access decision. Records are append only.
type AuditRecord struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	ActorSub   string    `json:"actor_sub" gorm:"column:actor_sub;not null;index"`
	ActorEmail *string   `json:"actor_email,omitempty" gorm:"column:actor_email"`
	Action     Action    `json:"action" gorm:"type:text;not null"`
	ObjectID   *string   `json:"object_id,omitempty" gorm:"column:object_id;index"`
	R2Key      *string   `json:"r2_key,omitempty" gorm:"column:r2_key"`
	OK         bool      `json:"ok" gorm:"column:ok;not null"`
	Status     int       `json:"status" gorm:"not null"`
	RequestID  string    `json:"request_id" gorm:"column:request_id;not null"`
	IPHash     *string   `json:"ip_hash,omitempty" gorm:"column:ip_hash"`
	UserAgent  string    `json:"user_agent" gorm:"column:user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;not null;index"`
}

func (AuditRecord) TableName() string {
	return "audit"
}
