package models

import (
	"time"
)

// Project lifecycle (create, membership, key rotation) is owned by the
// management service; this collector only resolves api keys and scopes
// queries by project id.
type Project struct {
	ID          int32      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description *string    `gorm:"size:1024" json:"description,omitempty"`
	APIKey      string     `gorm:"size:64;uniqueIndex;not null" json:"apiKey"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	DeletedAt   *time.Time `gorm:"index" json:"deletedAt,omitempty"`
	DeletedBy   *int64     `json:"deletedBy,omitempty"`
}

func (Project) TableName() string { return "projects" }
