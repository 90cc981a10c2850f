package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

// TestStartSpan_ParentChild 测试子Span继承TraceID
func TestStartSpan_ParentChild(t *testing.T) {
	rec := withRecorder(t)

	ctx, parent := StartSpan(context.Background(), "http.request")
	_, child := StartSpan(ctx, "lending.Borrow", attribute.String("book_id", "b1"))
	End(child, nil)
	End(parent, nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[0].SpanContext().TraceID(), spans[1].SpanContext().TraceID())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.String("book_id", "b1"))
	assert.NotEmpty(t, ExtractTraceID(ctx))
}

// TestEnd_Error 测试失败时记录错误状态
func TestEnd_Error(t *testing.T) {
	rec := withRecorder(t)

	_, span := StartSpan(context.Background(), "lending.Return")
	End(span, errors.New("库存更新失败"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
}

// TestExtractTraceID_NoSpan 测试无Span时返回空串
func TestExtractTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
}
