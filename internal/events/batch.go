package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rusty-replay/replay-be/internal/alert"
	"github.com/rusty-replay/replay-be/internal/models"
)

type BatchRequest struct {
	Events []ReportRequest `json:"events"`
}

// BatchResponse reports per-item outcomes: Processed counts every input,
// Success the subset that persisted, Events one description per failed
// index.
type BatchResponse struct {
	Processed int      `json:"processed"`
	Success   int      `json:"success"`
	Events    []string `json:"events"`
}

// Coordinator fans a batch of reports through the Recorder. Items are
// independent: one failure never aborts the rest. After the batch it
// checks the affected project against the alert threshold and fires a
// best-effort webhook notification.
type Coordinator struct {
	db        *gorm.DB
	recorder  *Recorder
	notifier  *alert.Notifier
	threshold int64
	logger    *zap.Logger
}

func NewCoordinator(db *gorm.DB, recorder *Recorder, notifier *alert.Notifier, threshold int64, logger *zap.Logger) *Coordinator {
	return &Coordinator{db: db, recorder: recorder, notifier: notifier, threshold: threshold, logger: logger}
}

func (c *Coordinator) Ingest(ctx context.Context, reqs []ReportRequest) BatchResponse {
	resp := BatchResponse{
		Processed: len(reqs),
		Events:    []string{},
	}

	var projectID int32
	for i, req := range reqs {
		event, err := c.recorder.Record(ctx, req)
		if err != nil {
			resp.Events = append(resp.Events, fmt.Sprintf("event #%d: %v", i, err))
			continue
		}
		resp.Success++
		projectID = event.ProjectID
	}

	if projectID != 0 {
		c.maybeAlert(ctx, projectID)
	}
	return resp
}

// maybeAlert fires the webhook when the project's event count reaches
// the threshold. Failures are logged and swallowed, never retried, never
// surfaced to the reporting client.
func (c *Coordinator) maybeAlert(ctx context.Context, projectID int32) {
	if c.notifier == nil || !c.notifier.Enabled() {
		return
	}

	var count int64
	if err := c.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Count(&count).Error; err != nil {
		c.logger.Warn("failed to count events for alert threshold",
			zap.Int32("project_id", projectID), zap.Error(err))
		return
	}
	if count < c.threshold {
		return
	}

	text := fmt.Sprintf("🚨 project %d has accumulated %d error events", projectID, count)
	if err := c.notifier.Send(ctx, text); err != nil {
		c.logger.Warn("alert webhook delivery failed",
			zap.Int32("project_id", projectID), zap.Error(err))
	}
}
