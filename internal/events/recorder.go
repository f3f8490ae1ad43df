// Package events implements the error-report write path: single-event
// recording, batch ingestion with per-item isolation, and the listing /
// operator mutations over recorded events.
package events

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/fingerprint"
	"github.com/rusty-replay/replay-be/internal/issues"
	"github.com/rusty-replay/replay-be/internal/metrics"
	"github.com/rusty-replay/replay-be/internal/models"
	"github.com/rusty-replay/replay-be/internal/projects"
)

const defaultEnvironment = "production"

type ReportRequest struct {
	Message        string          `json:"message"`
	Stacktrace     string          `json:"stacktrace"`
	AppVersion     string          `json:"appVersion"`
	Timestamp      time.Time       `json:"timestamp"`
	Replay         json.RawMessage `json:"replay,omitempty"`
	Environment    *string         `json:"environment,omitempty"`
	Browser        *string         `json:"browser,omitempty"`
	OS             *string         `json:"os,omitempty"`
	UserAgent      *string         `json:"userAgent,omitempty"`
	APIKey         string          `json:"apiKey"`
	UserID         *int32          `json:"userId,omitempty"`
	AdditionalInfo json.RawMessage `json:"additionalInfo,omitempty"`
}

func (r *ReportRequest) Validate() error {
	if r.Message == "" {
		return errorz.Validation("message is required")
	}
	if r.APIKey == "" {
		return errorz.Validation("apiKey is required")
	}
	return nil
}

// Recorder persists one error report: api key resolution, fingerprint,
// issue aggregation, then the event row itself.
type Recorder struct {
	db         *gorm.DB
	resolver   *projects.Resolver
	aggregator *issues.Aggregator
	logger     *zap.Logger
}

func NewRecorder(db *gorm.DB, resolver *projects.Resolver, aggregator *issues.Aggregator, logger *zap.Logger) *Recorder {
	return &Recorder{db: db, resolver: resolver, aggregator: aggregator, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, req ReportRequest) (*models.Event, error) {
	if err := req.Validate(); err != nil {
		metrics.EventsRejected.Inc()
		return nil, err
	}

	projectID, err := r.resolver.ResolveAPIKey(ctx, req.APIKey)
	if err != nil {
		metrics.EventsRejected.Inc()
		return nil, err
	}

	groupHash := fingerprint.Compute(req.Message, req.Stacktrace)
	issueID, err := r.aggregator.Aggregate(ctx, projectID, groupHash, req.Message)
	if err != nil {
		metrics.EventsRejected.Inc()
		return nil, err
	}

	environment := defaultEnvironment
	if req.Environment != nil && *req.Environment != "" {
		environment = *req.Environment
	}
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	event := models.Event{
		Message:        req.Message,
		Stacktrace:     req.Stacktrace,
		AppVersion:     req.AppVersion,
		Timestamp:      timestamp,
		GroupHash:      groupHash,
		Replay:         req.Replay,
		Environment:    environment,
		Browser:        req.Browser,
		OS:             req.OS,
		UserAgent:      req.UserAgent,
		ProjectID:      projectID,
		IssueID:        &issueID,
		ReportedBy:     req.UserID,
		AdditionalInfo: req.AdditionalInfo,
		CreatedAt:      time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		metrics.EventsRejected.Inc()
		return nil, errorz.Storage(err)
	}

	metrics.EventsIngested.Inc()
	return &event, nil
}
