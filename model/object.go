// model/object.go
package model

import "time"

// ObjectMetadata describes one stored object. OwnerSub is the subject that
// uploaded it and the only subject allowed to read, download or delete it.
type ObjectMetadata struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	R2Key       string    `json:"r2_key" gorm:"column:r2_key;not null;uniqueIndex"`
	OwnerSub    string    `json:"owner_sub" gorm:"column:owner_sub;not null;index:idx_objects_owner_created,priority:1"`
	OwnerEmail  *string   `json:"owner_email" gorm:"column:owner_email"`
	Filename    string    `json:"filename" gorm:"not null"`
	ContentType string    `json:"content_type" gorm:"column:content_type;not null"`
	SizeBytes   int64     `json:"size_bytes" gorm:"column:size_bytes;not null"`
	SHA256Hex   *string   `json:"sha256_hex" gorm:"column:sha256_hex"`
	TagsJSON    *string   `json:"tags_json" gorm:"column:tags_json"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;not null;index:idx_objects_owner_created,priority:2,sort:desc"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;not null"`
}

func (ObjectMetadata) TableName() string {
	return "objects"
}
