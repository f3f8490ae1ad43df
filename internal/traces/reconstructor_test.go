package traces

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rusty-replay/replay-be/internal/models"
)

func rawSpan(traceID string, spanID, parentID []byte, name string, start, end time.Time, attrs map[string]string) RawSpan {
	return RawSpan{
		TraceID:      traceID,
		SpanID:       spanID,
		ParentSpanID: parentID,
		Name:         name,
		Start:        start,
		End:          end,
		Attributes:   attrs,
	}
}

func TestIngestEmptyInputIsNoOp(t *testing.T) {
	gormDB := newTestDB(t)
	rec := NewReconstructor(gormDB, zap.NewNop())

	require.NoError(t, rec.Ingest(context.Background(), 1, "production", nil))

	var txnCount, spanCount int64
	require.NoError(t, gormDB.Model(&models.Transaction{}).Count(&txnCount).Error)
	require.NoError(t, gormDB.Model(&models.Span{}).Count(&spanCount).Error)
	assert.Zero(t, txnCount)
	assert.Zero(t, spanCount)
}

func TestIngestSingleTraceGroup(t *testing.T) {
	gormDB := newTestDB(t)
	rec := NewReconstructor(gormDB, zap.NewNop())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	root := []byte{0x01}
	child := []byte{0x02}
	spans := []RawSpan{
		rawSpan("trace-a", child, root, "SELECT users", base.Add(20*time.Millisecond), base.Add(80*time.Millisecond), nil),
		rawSpan("trace-a", root, nil, "GET /users", base, base.Add(150*time.Millisecond), map[string]string{
			"http.method":      "GET",
			"http.url":         "https://api.example.com/users",
			"http.status_code": "200",
		}),
		rawSpan("trace-a", []byte{0x03}, root, "render", base.Add(90*time.Millisecond), base.Add(140*time.Millisecond), nil),
	}

	require.NoError(t, rec.Ingest(context.Background(), 7, "staging", spans))

	var txns []models.Transaction
	require.NoError(t, gormDB.Find(&txns).Error)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, int32(7), txn.ProjectID)
	assert.Equal(t, "GET /users", txn.Name)
	assert.Equal(t, "staging", txn.Environment)
	assert.Len(t, txn.TraceID, 16)
	assert.NotEqual(t, "trace-a", txn.TraceID)
	assert.True(t, txn.StartTimestamp.Equal(base))
	assert.True(t, txn.EndTimestamp.Equal(base.Add(150*time.Millisecond)))
	assert.Equal(t, int32(150), txn.DurationMs)

	var rows []models.Span
	require.NoError(t, gormDB.Where("transaction_id = ?", txn.ID).Find(&rows).Error)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.Equal(t, "trace-a", row.Attributes["trace_id"])
	}
}

func TestIngestExtractsHTTPFacet(t *testing.T) {
	gormDB := newTestDB(t)
	rec := NewReconstructor(gormDB, zap.NewNop())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	spans := []RawSpan{
		rawSpan("trace-a", []byte{0x01}, nil, "GET /users", base, base.Add(time.Second), map[string]string{
			"http.method":                  "GET",
			"http.url":                     "https://api.example.com/users",
			"http.status_code":             "200",
			"http.status_text":             "OK",
			"http.response_content_length": "512",
			"http.host":                    "api.example.com",
			"http.scheme":                  "https",
			"http.user_agent":              "curl/8.0",
			"custom.key":                   "custom-value",
		}),
	}
	require.NoError(t, rec.Ingest(context.Background(), 1, "production", spans))

	var row models.Span
	require.NoError(t, gormDB.First(&row).Error)

	require.NotNil(t, row.HTTPMethod)
	assert.Equal(t, "GET", *row.HTTPMethod)
	require.NotNil(t, row.HTTPStatusCode)
	assert.Equal(t, int32(200), *row.HTTPStatusCode)
	require.NotNil(t, row.HTTPResponseContentLength)
	assert.Equal(t, int64(512), *row.HTTPResponseContentLength)
	require.NotNil(t, row.HTTPScheme)
	assert.Equal(t, "https", *row.HTTPScheme)
	assert.Equal(t, "custom-value", row.Attributes["custom.key"])
	assert.Equal(t, int32(1000), row.DurationMs)
}

func TestIngestSplitsTraceGroups(t *testing.T) {
	gormDB := newTestDB(t)
	rec := NewReconstructor(gormDB, zap.NewNop())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	spans := []RawSpan{
		rawSpan("trace-a", []byte{0x01}, nil, "op-a", base, base.Add(time.Second), nil),
		rawSpan("trace-b", []byte{0x02}, nil, "op-b", base, base.Add(time.Second), nil),
		rawSpan("trace-a", []byte{0x03}, []byte{0x01}, "op-a-child", base, base.Add(time.Second), nil),
	}
	require.NoError(t, rec.Ingest(context.Background(), 1, "production", spans))

	var txnCount, spanCount int64
	require.NoError(t, gormDB.Model(&models.Transaction{}).Count(&txnCount).Error)
	require.NoError(t, gormDB.Model(&models.Span{}).Count(&spanCount).Error)
	assert.Equal(t, int64(2), txnCount)
	assert.Equal(t, int64(3), spanCount)

	var txns []models.Transaction
	require.NoError(t, gormDB.Order("id").Find(&txns).Error)
	assert.NotEqual(t, txns[0].TraceID, txns[1].TraceID)
}

func TestIngestGeneratesUniquePublicTraceIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := newPublicTraceID()
		assert.Len(t, id, publicTraceIDLen)
		assert.False(t, seen[id])
		seen[id] = true
	}
}
