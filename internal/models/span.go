package models

import (
	"time"
)

// Span is one timed operation inside a Transaction. The HTTP facet
// columns are pulled out of the attribute map at ingest time so they can
// be filtered without unpacking JSON; Attributes keeps the full map,
// including the original OTLP trace id.
type Span struct {
	ID            int32  `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID int32  `gorm:"index;not null" json:"transactionId"`
	SpanID        []byte `gorm:"type:varbinary(8)" json:"-"`
	ParentSpanID  []byte `gorm:"type:varbinary(8)" json:"-"`

	Name           string    `gorm:"size:255;not null" json:"name"`
	StartTimestamp time.Time `json:"startTimestamp"`
	EndTimestamp   time.Time `json:"endTimestamp"`
	DurationMs     int32     `json:"durationMs"`

	HTTPMethod                *string `gorm:"size:16" json:"httpMethod,omitempty"`
	HTTPURL                   *string `gorm:"size:2048" json:"httpUrl,omitempty"`
	HTTPStatusCode            *int32  `json:"httpStatusCode,omitempty"`
	HTTPStatusText            *string `gorm:"size:64" json:"httpStatusText,omitempty"`
	HTTPResponseContentLength *int64  `json:"httpResponseContentLength,omitempty"`
	HTTPHost                  *string `gorm:"size:255" json:"httpHost,omitempty"`
	HTTPScheme                *string `gorm:"size:16" json:"httpScheme,omitempty"`
	HTTPUserAgent             *string `gorm:"size:512" json:"httpUserAgent,omitempty"`

	Attributes map[string]string `gorm:"serializer:json" json:"attributes,omitempty"`
}

func (Span) TableName() string { return "spans" }
