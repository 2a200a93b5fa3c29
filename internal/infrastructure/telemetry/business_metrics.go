package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrDocument    = attribute.Key("document")
	AttrPaymentType = attribute.Key("payment_type")
	AttrOutcome     = attribute.Key("outcome")
)

// Document kinds used as the document attribute
const (
	DocumentPettyCash      = "petty_cash"
	DocumentPaymentVoucher = "payment_voucher"
	DocumentLeaseReceipt   = "lease_receipt"
	DocumentLeaseInvoice   = "lease_invoice"
)

// BusinessMetrics counts document lifecycle events
type BusinessMetrics struct {
	created  metric.Int64Counter
	approved metric.Int64Counter
	reversed metric.Int64Counter
	amount   metric.Float64Counter
	logins   metric.Int64Counter
}

// NewBusinessMetrics creates the business counters on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	bm := &BusinessMetrics{}
	var err error
	if bm.created, err = meter.Int64Counter("erp_documents_created_total",
		metric.WithDescription("Documents created"), metric.WithUnit("{documents}")); err != nil {
		return nil, err
	}
	if bm.approved, err = meter.Int64Counter("erp_documents_approved_total",
		metric.WithDescription("Vouchers approved"), metric.WithUnit("{documents}")); err != nil {
		return nil, err
	}
	if bm.reversed, err = meter.Int64Counter("erp_documents_reversed_total",
		metric.WithDescription("Documents reversed"), metric.WithUnit("{documents}")); err != nil {
		return nil, err
	}
	if bm.amount, err = meter.Float64Counter("erp_documents_amount_total",
		metric.WithDescription("Amount carried by created documents"), metric.WithUnit("{currency}")); err != nil {
		return nil, err
	}
	if bm.logins, err = meter.Int64Counter("erp_login_attempts_total",
		metric.WithDescription("Login attempts by outcome"), metric.WithUnit("{attempts}")); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordCreated counts a new document and its amount
func (bm *BusinessMetrics) RecordCreated(ctx context.Context, document, paymentType string, amount decimal.Decimal) {
	if bm == nil {
		return
	}
	attrs := metric.WithAttributes(AttrDocument.String(document), AttrPaymentType.String(paymentType))
	bm.created.Add(ctx, 1, attrs)
	bm.amount.Add(ctx, amount.InexactFloat64(), attrs)
}

// RecordApproved counts an approval
func (bm *BusinessMetrics) RecordApproved(ctx context.Context, document string) {
	if bm == nil {
		return
	}
	bm.approved.Add(ctx, 1, metric.WithAttributes(AttrDocument.String(document)))
}

// RecordReversed counts a reversal
func (bm *BusinessMetrics) RecordReversed(ctx context.Context, document string) {
	if bm == nil {
		return
	}
	bm.reversed.Add(ctx, 1, metric.WithAttributes(AttrDocument.String(document)))
}

// RecordLogin counts a login attempt; outcome is success, invalid or locked
func (bm *BusinessMetrics) RecordLogin(ctx context.Context, outcome string) {
	if bm == nil {
		return
	}
	bm.logins.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}
