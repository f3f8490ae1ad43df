package traces

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/models"
)

func seedTransactions(t *testing.T, gormDB *gorm.DB, projectID int32, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		txn := models.Transaction{
			ProjectID:      projectID,
			TraceID:        fmt.Sprintf("trace%04d%08d", projectID, i),
			Name:           fmt.Sprintf("GET /resource/%d", i),
			StartTimestamp: base.Add(time.Duration(i) * time.Minute),
			EndTimestamp:   base.Add(time.Duration(i)*time.Minute + time.Second),
			DurationMs:     1000,
			Environment:    "production",
			Status:         "ok",
			CreatedAt:      base,
		}
		require.NoError(t, gormDB.Create(&txn).Error)
	}
}

func TestTransactionListPaginates(t *testing.T) {
	gormDB := newTestDB(t)
	svc := NewService(gormDB, zap.NewNop())
	seedTransactions(t, gormDB, 1, 25)
	ctx := context.Background()

	page2, err := svc.List(ctx, 1, ListQuery{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Content, 10)
	assert.Equal(t, 3, page2.TotalPages)
	assert.True(t, page2.HasNext)

	page3, err := svc.List(ctx, 1, ListQuery{Page: 3, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Content, 5)
	assert.False(t, page3.HasNext)
}

func TestTransactionListFiltersByName(t *testing.T) {
	gormDB := newTestDB(t)
	svc := NewService(gormDB, zap.NewNop())
	seedTransactions(t, gormDB, 1, 25)

	page, err := svc.List(context.Background(), 1, ListQuery{Search: "/resource/12"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.FilteredElements)
	assert.Equal(t, int64(25), page.TotalElements)
}

func TestTransactionListFiltersByDate(t *testing.T) {
	gormDB := newTestDB(t)
	svc := NewService(gormDB, zap.NewNop())
	seedTransactions(t, gormDB, 1, 25)

	start := time.Date(2025, 6, 1, 12, 20, 0, 0, time.UTC)
	page, err := svc.List(context.Background(), 1, ListQuery{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.FilteredElements)
}

func TestTransactionGetWithSpans(t *testing.T) {
	gormDB := newTestDB(t)
	rec := NewReconstructor(gormDB, zap.NewNop())
	svc := NewService(gormDB, zap.NewNop())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	spans := []RawSpan{
		rawSpan("trace-a", []byte{0x0a, 0x0b}, nil, "GET /users", base, base.Add(time.Second), nil),
		rawSpan("trace-a", []byte{0x0c, 0x0d}, []byte{0x0a, 0x0b}, "db query", base.Add(100*time.Millisecond), base.Add(300*time.Millisecond), nil),
	}
	require.NoError(t, rec.Ingest(context.Background(), 1, "production", spans))

	var txn models.Transaction
	require.NoError(t, gormDB.First(&txn).Error)

	got, err := svc.Get(context.Background(), 1, txn.ID)
	require.NoError(t, err)
	require.Len(t, got.Spans, 2)

	// Spans come back ordered by start time, ids hex-encoded.
	assert.Equal(t, "0a0b", got.Spans[0].SpanID)
	assert.Nil(t, got.Spans[0].ParentSpanID)
	require.NotNil(t, got.Spans[1].ParentSpanID)
	assert.Equal(t, "0a0b", *got.Spans[1].ParentSpanID)
}

func TestTransactionGetNotFound(t *testing.T) {
	gormDB := newTestDB(t)
	svc := NewService(gormDB, zap.NewNop())

	_, err := svc.Get(context.Background(), 1, 404)

	appErr, ok := errorz.As(err)
	require.True(t, ok)
	assert.Equal(t, errorz.CodeNotFound, appErr.Code)
}

func TestTransactionGetScopedToProject(t *testing.T) {
	gormDB := newTestDB(t)
	svc := NewService(gormDB, zap.NewNop())
	seedTransactions(t, gormDB, 1, 1)

	var txn models.Transaction
	require.NoError(t, gormDB.First(&txn).Error)

	_, err := svc.Get(context.Background(), 2, txn.ID)
	_, ok := errorz.As(err)
	require.True(t, ok)
}
