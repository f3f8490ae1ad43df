package traces

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/models"
	"github.com/rusty-replay/replay-be/internal/pagination"
)

type ListQuery struct {
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// SpanView renders a span with hex-encoded ids.
type SpanView struct {
	ID                        int32             `json:"id"`
	TransactionID             int32             `json:"transactionId"`
	SpanID                    string            `json:"spanId"`
	ParentSpanID              *string           `json:"parentSpanId,omitempty"`
	Name                      string            `json:"name"`
	StartTimestamp            time.Time         `json:"startTimestamp"`
	EndTimestamp              time.Time         `json:"endTimestamp"`
	DurationMs                int32             `json:"durationMs"`
	HTTPMethod                *string           `json:"httpMethod,omitempty"`
	HTTPURL                   *string           `json:"httpUrl,omitempty"`
	HTTPStatusCode            *int32            `json:"httpStatusCode,omitempty"`
	HTTPStatusText            *string           `json:"httpStatusText,omitempty"`
	HTTPResponseContentLength *int64            `json:"httpResponseContentLength,omitempty"`
	HTTPHost                  *string           `json:"httpHost,omitempty"`
	HTTPScheme                *string           `json:"httpScheme,omitempty"`
	HTTPUserAgent             *string           `json:"httpUserAgent,omitempty"`
	Attributes                map[string]string `json:"attributes,omitempty"`
}

func newSpanView(span models.Span) SpanView {
	view := SpanView{
		ID:                        span.ID,
		TransactionID:             span.TransactionID,
		SpanID:                    hex.EncodeToString(span.SpanID),
		Name:                      span.Name,
		StartTimestamp:            span.StartTimestamp,
		EndTimestamp:              span.EndTimestamp,
		DurationMs:                span.DurationMs,
		HTTPMethod:                span.HTTPMethod,
		HTTPURL:                   span.HTTPURL,
		HTTPStatusCode:            span.HTTPStatusCode,
		HTTPStatusText:            span.HTTPStatusText,
		HTTPResponseContentLength: span.HTTPResponseContentLength,
		HTTPHost:                  span.HTTPHost,
		HTTPScheme:                span.HTTPScheme,
		HTTPUserAgent:             span.HTTPUserAgent,
		Attributes:                span.Attributes,
	}
	if len(span.ParentSpanID) > 0 {
		parent := hex.EncodeToString(span.ParentSpanID)
		view.ParentSpanID = &parent
	}
	return view
}

type TransactionWithSpans struct {
	Transaction models.Transaction `json:"transaction"`
	Spans       []SpanView         `json:"spans"`
}

// Service serves reads over reconstructed transactions.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) List(ctx context.Context, projectID int32, q ListQuery) (pagination.Page[models.Transaction], error) {
	page, pageSize := pagination.Normalize(q.Page, q.PageSize)

	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("project_id = ?", projectID)
	}
	filter := func(tx *gorm.DB) *gorm.DB {
		if q.Search != "" {
			pattern := "%" + q.Search + "%"
			tx = tx.Where("(name LIKE ? OR trace_id LIKE ?)", pattern, pattern)
		}
		if q.StartDate != nil {
			tx = tx.Where("start_timestamp >= ?", *q.StartDate)
		}
		if q.EndDate != nil {
			tx = tx.Where("start_timestamp <= ?", *q.EndDate)
		}
		return tx
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Scopes(scope).Count(&total).Error; err != nil {
		return pagination.Page[models.Transaction]{}, errorz.Storage(err)
	}

	var filtered int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Scopes(scope, filter).Count(&filtered).Error; err != nil {
		return pagination.Page[models.Transaction]{}, errorz.Storage(err)
	}

	var rows []models.Transaction
	err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Scopes(scope, filter).
		Order("created_at DESC, id DESC").
		Offset(pagination.Offset(page, pageSize)).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return pagination.Page[models.Transaction]{}, errorz.Storage(err)
	}

	return pagination.New(rows, page, pageSize, total, filtered), nil
}

// Get returns one transaction and its spans ordered by start time.
func (s *Service) Get(ctx context.Context, projectID, transactionID int32) (*TransactionWithSpans, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND id = ?", projectID, transactionID).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errorz.NotFound("transaction not found")
	}
	if err != nil {
		return nil, errorz.Storage(err)
	}

	var spans []models.Span
	err = s.db.WithContext(ctx).
		Where("transaction_id = ?", txn.ID).
		Order("start_timestamp ASC, id ASC").
		Find(&spans).Error
	if err != nil {
		return nil, errorz.Storage(err)
	}

	views := make([]SpanView, 0, len(spans))
	for _, span := range spans {
		views = append(views, newSpanView(span))
	}
	return &TransactionWithSpans{Transaction: txn, Spans: views}, nil
}
