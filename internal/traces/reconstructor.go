package traces

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/metrics"
	"github.com/rusty-replay/replay-be/internal/models"
)

// originalTraceIDKey preserves the OTLP trace id inside each span's
// attribute blob; the transaction row carries only the locally
// generated short id.
const originalTraceIDKey = "trace_id"

const publicTraceIDLen = 16

// Reconstructor rolls decoded spans up into transaction records. One
// export payload is one all-or-nothing unit: every row of every trace
// group commits together or not at all.
type Reconstructor struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewReconstructor(db *gorm.DB, logger *zap.Logger) *Reconstructor {
	return &Reconstructor{db: db, logger: logger}
}

// Ingest groups spans by their original trace id and persists one
// Transaction plus its Span rows per group inside a single database
// transaction. An empty span list is a no-op success.
func (r *Reconstructor) Ingest(ctx context.Context, projectID int32, environment string, spans []RawSpan) error {
	if len(spans) == 0 {
		return nil
	}

	order, groups := groupByTrace(spans)

	var transactions, spanRows int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, traceID := range order {
			group := groups[traceID]
			start, end := bounds(group)
			now := time.Now().UTC()

			txn := models.Transaction{
				ProjectID:      projectID,
				TraceID:        newPublicTraceID(),
				Name:           rootName(group),
				StartTimestamp: start,
				EndTimestamp:   end,
				DurationMs:     durationMs(start, end),
				Environment:    environment,
				Status:         "ok",
				CreatedAt:      now,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return err
			}
			transactions++

			for _, raw := range group {
				row := buildSpanRow(txn.ID, traceID, raw)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
				spanRows++
			}
		}
		return nil
	})
	if err != nil {
		return errorz.Storage(err)
	}

	metrics.TransactionsIngested.Add(float64(transactions))
	metrics.SpansIngested.Add(float64(spanRows))
	r.logger.Info("trace export ingested",
		zap.Int32("project_id", projectID),
		zap.Int("transactions", transactions),
		zap.Int("spans", spanRows))
	return nil
}

// groupByTrace buckets spans by original trace id, keeping first-seen
// order so ingestion is deterministic for a given payload.
func groupByTrace(spans []RawSpan) ([]string, map[string][]RawSpan) {
	var order []string
	groups := make(map[string][]RawSpan)
	for _, span := range spans {
		if _, ok := groups[span.TraceID]; !ok {
			order = append(order, span.TraceID)
		}
		groups[span.TraceID] = append(groups[span.TraceID], span)
	}
	return order, groups
}

func bounds(group []RawSpan) (time.Time, time.Time) {
	if len(group) == 0 {
		now := time.Now().UTC()
		return now, now
	}
	start, end := group[0].Start, group[0].End
	for _, span := range group[1:] {
		if span.Start.Before(start) {
			start = span.Start
		}
		if span.End.After(end) {
			end = span.End
		}
	}
	return start, end
}

// rootName picks the transaction name from the root span: the one with
// no parent, or whose parent is not part of this group.
func rootName(group []RawSpan) string {
	ids := make(map[string]bool, len(group))
	for _, span := range group {
		ids[string(span.SpanID)] = true
	}
	for _, span := range group {
		if len(span.ParentSpanID) == 0 || !ids[string(span.ParentSpanID)] {
			return span.Name
		}
	}
	return group[0].Name
}

func durationMs(start, end time.Time) int32 {
	return int32(end.Sub(start).Milliseconds())
}

// newPublicTraceID generates the externally visible short trace id,
// decoupled from the original OTLP trace id so external collisions never
// clash with internal storage keys.
func newPublicTraceID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])[:publicTraceIDLen]
}

func buildSpanRow(transactionID int32, traceID string, raw RawSpan) models.Span {
	attrs := make(map[string]string, len(raw.Attributes)+1)
	for k, v := range raw.Attributes {
		attrs[k] = v
	}
	attrs[originalTraceIDKey] = traceID

	row := models.Span{
		TransactionID:  transactionID,
		SpanID:         raw.SpanID,
		ParentSpanID:   raw.ParentSpanID,
		Name:           raw.Name,
		StartTimestamp: raw.Start,
		EndTimestamp:   raw.End,
		DurationMs:     durationMs(raw.Start, raw.End),
		Attributes:     attrs,
	}
	applyHTTPFacet(&row, raw.Attributes)
	return row
}

// applyHTTPFacet copies the well-known http.* attributes into dedicated
// columns. Unparseable numeric values just stay behind in the blob.
func applyHTTPFacet(row *models.Span, attrs map[string]string) {
	if v, ok := attrs["http.method"]; ok {
		row.HTTPMethod = &v
	}
	if v, ok := attrs["http.url"]; ok {
		row.HTTPURL = &v
	}
	if v, ok := attrs["http.status_code"]; ok {
		if code, err := strconv.ParseInt(v, 10, 32); err == nil {
			c := int32(code)
			row.HTTPStatusCode = &c
		}
	}
	if v, ok := attrs["http.status_text"]; ok {
		row.HTTPStatusText = &v
	}
	if v, ok := attrs["http.response_content_length"]; ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			row.HTTPResponseContentLength = &n
		}
	}
	if v, ok := attrs["http.host"]; ok {
		row.HTTPHost = &v
	}
	if v, ok := attrs["http.scheme"]; ok {
		row.HTTPScheme = &v
	}
	if v, ok := attrs["http.user_agent"]; ok {
		row.HTTPUserAgent = &v
	}
}
