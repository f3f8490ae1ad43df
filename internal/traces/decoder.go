// Package traces implements the trace-export ingestion path: decoding
// OTLP protobuf payloads, reconstructing transactions from span groups,
// and serving transaction reads.
package traces

import (
	"encoding/hex"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/proto"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
)

// RawSpan is one decoded span, reduced to what the reconstructor needs.
// TraceID is the hex-encoded original OTLP trace id; span ids stay
// binary until rendering.
type RawSpan struct {
	TraceID      string
	SpanID       []byte
	ParentSpanID []byte
	Name         string
	Start        time.Time
	End          time.Time
	Attributes   map[string]string
}

type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode parses a binary ExportTraceServiceRequest. A malformed payload
// fails the whole call; a span with an unrepresentable timestamp is
// skipped with a warning so the rest of the export survives.
func (d *Decoder) Decode(payload []byte) ([]RawSpan, error) {
	var req coltracepb.ExportTraceServiceRequest
	if err := proto.Unmarshal(payload, &req); err != nil {
		return nil, errorz.InvalidTraceEncoding(err)
	}

	var spans []RawSpan
	for _, resourceSpans := range req.ResourceSpans {
		for _, scopeSpans := range resourceSpans.ScopeSpans {
			for _, span := range scopeSpans.Spans {
				if span.StartTimeUnixNano > math.MaxInt64 || span.EndTimeUnixNano > math.MaxInt64 {
					d.logger.Warn("skipping span with out-of-range timestamp",
						zap.String("span_name", span.Name),
						zap.Uint64("start_unix_nano", span.StartTimeUnixNano),
						zap.Uint64("end_unix_nano", span.EndTimeUnixNano))
					continue
				}

				spans = append(spans, RawSpan{
					TraceID:      hex.EncodeToString(span.TraceId),
					SpanID:       span.SpanId,
					ParentSpanID: span.ParentSpanId,
					Name:         span.Name,
					Start:        time.Unix(0, int64(span.StartTimeUnixNano)).UTC(),
					End:          time.Unix(0, int64(span.EndTimeUnixNano)).UTC(),
					Attributes:   decodeAttributes(span.Attributes),
				})
			}
		}
	}
	return spans, nil
}

// decodeAttributes reduces OTLP attribute values to strings. Only the
// string/int/double/bool kinds are kept; array and kvlist values are
// dropped attribute-by-attribute without failing the span.
func decodeAttributes(kvs []*commonpb.KeyValue) map[string]string {
	attrs := make(map[string]string, len(kvs))
	for _, kv := range kvs {
		if kv.Value == nil {
			continue
		}
		switch v := kv.Value.Value.(type) {
		case *commonpb.AnyValue_StringValue:
			attrs[kv.Key] = v.StringValue
		case *commonpb.AnyValue_IntValue:
			attrs[kv.Key] = strconv.FormatInt(v.IntValue, 10)
		case *commonpb.AnyValue_DoubleValue:
			attrs[kv.Key] = strconv.FormatFloat(v.DoubleValue, 'f', -1, 64)
		case *commonpb.AnyValue_BoolValue:
			attrs[kv.Key] = strconv.FormatBool(v.BoolValue)
		}
	}
	return attrs
}
