package printing

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	requests []*RenderRequest
	err      error
}

func (r *recordingRenderer) Render(_ context.Context, req *RenderRequest) (*RenderResult, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &RenderResult{PDFData: []byte("%PDF-1.7"), PageCount: 1}, nil
}

func (r *recordingRenderer) Close() error { return nil }

func newTestPrinter(t *testing.T, renderer PDFRenderer) *DocumentPrinter {
	t.Helper()
	p, err := NewDocumentPrinter(renderer, DocumentPrinterConfig{CompanyName: "Gulf Properties LLC", CurrencyCode: "AED"})
	require.NoError(t, err)
	return p
}

func testPaymentVoucher() *finance.PaymentVoucher {
	pv := &finance.PaymentVoucher{
		VoucherNo:    "PV-000012",
		VoucherDate:  shared.NewDate(2024, 3, 9),
		SupplierName: "Al Noor <Trading>",
		PaymentDetails: finance.PaymentDetails{
			PaymentType:   finance.PaymentTypeCheque,
			ChequeNo:      "004512",
			ChequeDate:    shared.NewDate(2024, 3, 15),
			BankName:      "Emirates NBD",
			BankAccountNo: "1012003004",
		},
		Amount:    decimal.RequireFromString("1250.75"),
		Narration: "March maintenance",
		Status:    finance.VoucherStatusApproved,
	}
	pv.ApprovedBy = "manager"
	return pv
}

func TestDocumentPrinter_PaymentVoucherHTML(t *testing.T) {
	p := newTestPrinter(t, &recordingRenderer{})

	html, err := p.PaymentVoucherHTML(testPaymentVoucher())
	require.NoError(t, err)

	assert.Contains(t, html, "Gulf Properties LLC")
	assert.Contains(t, html, "PV-000012")
	assert.Contains(t, html, "09/03/2024")
	assert.Contains(t, html, "Al Noor &lt;Trading&gt;", "party names are escaped")
	assert.Contains(t, html, "Cheque")
	assert.Contains(t, html, "004512")
	assert.Contains(t, html, "15/03/2024")
	assert.Contains(t, html, "AED 1,250.75")
	assert.Contains(t, html, "75/100 Only")
	assert.Contains(t, html, "manager")
	assert.NotContains(t, html, "Reference</dt>", "unused payment fields are not printed")
}

func TestDocumentPrinter_PettyCashHTML(t *testing.T) {
	p := newTestPrinter(t, &recordingRenderer{})
	v := &finance.PettyCashVoucher{
		VoucherNo:   "PC-000003",
		VoucherDate: shared.NewDate(2024, 5, 2),
		PaidTo:      "Office boy",
		TotalAmount: decimal.NewFromInt(150),
		Status:      finance.VoucherStatusReversed,
		Lines: []finance.PettyCashLine{
			{LineNo: 1, AccountCode: "6100", AccountName: "Stationery", Debit: decimal.NewFromInt(150), Credit: decimal.Zero},
			{LineNo: 2, AccountCode: "1010", AccountName: "Petty Cash", Debit: decimal.Zero, Credit: decimal.NewFromInt(150)},
		},
	}

	html, err := p.PettyCashHTML(v)
	require.NoError(t, err)

	assert.Contains(t, html, "Petty Cash Voucher")
	assert.Contains(t, html, "6100 Stationery")
	assert.Contains(t, html, "1010 Petty Cash")
	assert.Contains(t, html, "150.00")
	assert.Contains(t, html, "status reversed")
}

func TestDocumentPrinter_LeaseReceiptHTML(t *testing.T) {
	p := newTestPrinter(t, &recordingRenderer{})
	r := &finance.LeaseReceipt{
		ReceiptNo:         "LR-000001",
		ReceiptDate:       shared.NewDate(2024, 6, 1),
		CustomerName:      "Sara Khan",
		PaymentDetails:    finance.PaymentDetails{PaymentType: finance.PaymentTypeBankTransfer, BankName: "ADCB", BankAccountNo: "55", TransactionRef: "TRX-9"},
		Amount:            decimal.NewFromInt(5000),
		UnallocatedAmount: decimal.NewFromInt(1000),
		Status:            finance.LeaseReceiptPosted,
		Allocations: []finance.ReceiptAllocation{
			{LeaseInvoiceID: 1, InvoiceNo: "LI-000001", AllocatedAmount: decimal.NewFromInt(4000)},
		},
	}

	html, err := p.LeaseReceiptHTML(r)
	require.NoError(t, err)

	assert.Contains(t, html, "Received From")
	assert.Contains(t, html, "LI-000001")
	assert.Contains(t, html, "4,000.00")
	assert.Contains(t, html, "On Account")
	assert.Contains(t, html, "TRX-9")
	assert.Contains(t, html, "AED 5,000.00")
}

func TestDocumentPrinter_PaymentVoucherPDF(t *testing.T) {
	renderer := &recordingRenderer{}
	p := newTestPrinter(t, renderer)

	pdf, err := p.PaymentVoucherPDF(context.Background(), testPaymentVoucher())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)

	require.Len(t, renderer.requests, 1)
	req := renderer.requests[0]
	assert.Equal(t, PaperSizeA4, req.PaperSize)
	assert.Equal(t, "Payment Voucher PV-000012", req.Title)
	assert.Contains(t, req.HTML, "<!DOCTYPE html>")
	assert.Contains(t, req.FooterHTML, "pageNumber")
}

func TestDocumentPrinter_RenderFailure(t *testing.T) {
	boom := errors.New("chrome unavailable")
	p := newTestPrinter(t, &recordingRenderer{err: boom})

	_, err := p.LeaseReceiptPDF(context.Background(), &finance.LeaseReceipt{ReceiptNo: "LR-1"})
	assert.ErrorIs(t, err, boom)
}
