package models

import (
	"encoding/json"
	"time"
)

type Priority string

const (
	PriorityHigh Priority = "HIGH"
	PriorityMed  Priority = "MED"
	PriorityLow  Priority = "LOW"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMed, PriorityLow:
		return true
	}
	return false
}

// Event is one reported error occurrence. Rows are never physically
// deleted; DeletedAt/DeletedBy mark soft deletion and default read paths
// filter them out.
type Event struct {
	ID             int32           `gorm:"primaryKey;autoIncrement" json:"id"`
	Message        string          `gorm:"type:text;not null" json:"message"`
	Stacktrace     string          `gorm:"type:text;not null" json:"stacktrace"`
	AppVersion     string          `gorm:"size:64;not null" json:"appVersion"`
	Timestamp      time.Time       `json:"timestamp"`
	GroupHash      string          `gorm:"size:64;index" json:"groupHash"`
	Replay         json.RawMessage `gorm:"type:json" json:"replay,omitempty"`
	Environment    string          `gorm:"size:32;not null;default:production" json:"environment"`
	Browser        *string         `gorm:"size:128" json:"browser,omitempty"`
	OS             *string         `gorm:"size:128" json:"os,omitempty"`
	IPAddress      *string         `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent      *string         `gorm:"size:512" json:"userAgent,omitempty"`
	ProjectID      int32           `gorm:"index;not null" json:"projectId"`
	IssueID        *int32          `gorm:"index" json:"issueId,omitempty"`
	ReportedBy     *int32          `json:"reportedBy,omitempty"`
	AdditionalInfo json.RawMessage `gorm:"type:json" json:"additionalInfo,omitempty"`
	Priority       *Priority       `gorm:"size:8" json:"priority,omitempty"`
	AssignedTo     *int32          `json:"assignedTo,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
	DeletedAt      *time.Time      `gorm:"index" json:"deletedAt,omitempty"`
	DeletedBy      *int64          `json:"deletedBy,omitempty"`
}

func (Event) TableName() string { return "events" }
