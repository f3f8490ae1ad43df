package models

import (
	"encoding/json"
	"time"
)

// Transaction is one reconstructed trace. TraceID is a short identifier
// generated at ingest time, not the original OTLP trace id (that one
// lives in each span's attribute map). Immutable after insert.
type Transaction struct {
	ID             int32           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID      int32           `gorm:"index;not null" json:"projectId"`
	TraceID        string          `gorm:"size:32;uniqueIndex;not null" json:"traceId"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	StartTimestamp time.Time       `json:"startTimestamp"`
	EndTimestamp   time.Time       `json:"endTimestamp"`
	DurationMs     int32           `json:"durationMs"`
	Environment    string          `gorm:"size:32" json:"environment"`
	Status         string          `gorm:"size:20" json:"status"`
	Tags           json.RawMessage `gorm:"type:json" json:"tags,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"createdAt"`

	Spans []Span `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
