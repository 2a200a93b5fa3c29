package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewProviders_Disabled(t *testing.T) {
	p, err := NewProviders(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NotNil(t, p.Tracer("test"))
	assert.NotNil(t, p.Meter("test"))
	assert.Equal(t, zapcore.NewNopCore(), p.ZapCore(zapcore.InfoLevel))
	p.EnableSpanProfiles()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	core := &levelFilterCore{Core: zapcore.NewNopCore(), minLevel: zapcore.WarnLevel}
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.IsType(t, &levelFilterCore{}, core.With(nil))
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "payment_voucher", "approve", attribute.Int64("voucher_id", 7))
	assert.NotEmpty(t, GetTraceID(ctx))
	EndSpan(span, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "payment_voucher.approve", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("voucher_id", 7))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestBusinessMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	bm, err := NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordCreated(ctx, DocumentPaymentVoucher, "Cheque", decimal.NewFromInt(250))
	bm.RecordCreated(ctx, DocumentPaymentVoucher, "Cheque", decimal.NewFromInt(50))
	bm.RecordApproved(ctx, DocumentPaymentVoucher)
	bm.RecordReversed(ctx, DocumentLeaseReceipt)
	bm.RecordLogin(ctx, "success")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	values := map[string]float64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					values[m.Name] += float64(dp.Value)
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					values[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, 2.0, values["erp_documents_created_total"])
	assert.Equal(t, 300.0, values["erp_documents_amount_total"])
	assert.Equal(t, 1.0, values["erp_documents_approved_total"])
	assert.Equal(t, 1.0, values["erp_documents_reversed_total"])
	assert.Equal(t, 1.0, values["erp_login_attempts_total"])
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var bm *BusinessMetrics
	assert.NotPanics(t, func() {
		bm.RecordCreated(context.Background(), DocumentPettyCash, "", decimal.Zero)
		bm.RecordApproved(context.Background(), DocumentPettyCash)
		bm.RecordReversed(context.Background(), DocumentPettyCash)
		bm.RecordLogin(context.Background(), "invalid")
	})
}

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "erp"}, zap.NewNop())
	assert.Error(t, err)
}
