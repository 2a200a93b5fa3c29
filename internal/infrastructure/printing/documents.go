package printing

import (
	"context"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentPrinterConfig holds the letterhead and rendering settings
type DocumentPrinterConfig struct {
	CompanyName  string
	CurrencyCode string
	PaperSize    PaperSize
	Logger       *zap.Logger
}

// DocumentPrinter renders finance documents to HTML and PDF
type DocumentPrinter struct {
	engine    *TemplateEngine
	renderer  PDFRenderer
	company   string
	paperSize PaperSize
	logger    *zap.Logger
}

// NewDocumentPrinter creates a printer over renderer
func NewDocumentPrinter(renderer PDFRenderer, cfg DocumentPrinterConfig) (*DocumentPrinter, error) {
	engine, err := NewTemplateEngine(cfg.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if cfg.PaperSize == "" {
		cfg.PaperSize = PaperSizeA4
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentPrinter{
		engine:    engine,
		renderer:  renderer,
		company:   cfg.CompanyName,
		paperSize: cfg.PaperSize,
		logger:    logger,
	}, nil
}

type paymentView struct {
	PaymentTypeName string
	ChequeNo        string
	ChequeDate      shared.Date
	BankName        string
	BankAccountNo   string
	TransactionRef  string
}

type documentView struct {
	Company    string
	Title      string
	Number     string
	Status     string
	Date       shared.Date
	PartyName  string
	Payment    paymentView
	Amount     decimal.Decimal
	Narration  string
	PreparedBy string
	ApprovedBy string

	Lines       []finance.PettyCashLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal

	Allocations []finance.ReceiptAllocation
	Unallocated decimal.Decimal
}

func newPaymentView(d finance.PaymentDetails) paymentView {
	return paymentView{
		PaymentTypeName: d.PaymentType.String(),
		ChequeNo:        d.ChequeNo,
		ChequeDate:      d.ChequeDate,
		BankName:        d.BankName,
		BankAccountNo:   d.BankAccountNo,
		TransactionRef:  d.TransactionRef,
	}
}

// PaymentVoucherHTML renders a payment voucher as HTML
func (p *DocumentPrinter) PaymentVoucherHTML(pv *finance.PaymentVoucher) (string, error) {
	return p.engine.Execute("payment_voucher.html", documentView{
		Company:    p.company,
		Title:      "Payment Voucher",
		Number:     pv.VoucherNo,
		Status:     string(pv.Status),
		Date:       pv.VoucherDate,
		PartyName:  pv.SupplierName,
		Payment:    newPaymentView(pv.PaymentDetails),
		Amount:     pv.Amount,
		Narration:  pv.Narration,
		PreparedBy: pv.CreatedBy,
		ApprovedBy: pv.ApprovedBy,
	})
}

// PettyCashHTML renders a petty cash voucher as HTML
func (p *DocumentPrinter) PettyCashHTML(v *finance.PettyCashVoucher) (string, error) {
	view := documentView{
		Company:     p.company,
		Title:       "Petty Cash Voucher",
		Number:      v.VoucherNo,
		Status:      string(v.Status),
		Date:        v.VoucherDate,
		PartyName:   v.PaidTo,
		Amount:      v.TotalAmount,
		Narration:   v.Description,
		PreparedBy:  v.CreatedBy,
		ApprovedBy:  v.ApprovedBy,
		Lines:       v.Lines,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, line := range v.Lines {
		view.TotalDebit = view.TotalDebit.Add(line.Debit)
		view.TotalCredit = view.TotalCredit.Add(line.Credit)
	}
	return p.engine.Execute("petty_cash.html", view)
}

// LeaseReceiptHTML renders a lease receipt as HTML
func (p *DocumentPrinter) LeaseReceiptHTML(r *finance.LeaseReceipt) (string, error) {
	return p.engine.Execute("lease_receipt.html", documentView{
		Company:     p.company,
		Title:       "Receipt",
		Number:      r.ReceiptNo,
		Status:      string(r.Status),
		Date:        r.ReceiptDate,
		PartyName:   r.CustomerName,
		Payment:     newPaymentView(r.PaymentDetails),
		Amount:      r.Amount,
		Narration:   r.Narration,
		PreparedBy:  r.CreatedBy,
		Allocations: r.Allocations,
		Unallocated: r.UnallocatedAmount,
	})
}

// PaymentVoucherPDF renders a payment voucher to PDF
func (p *DocumentPrinter) PaymentVoucherPDF(ctx context.Context, pv *finance.PaymentVoucher) ([]byte, error) {
	html, err := p.PaymentVoucherHTML(pv)
	if err != nil {
		return nil, err
	}
	return p.pdf(ctx, "Payment Voucher "+pv.VoucherNo, html)
}

// PettyCashPDF renders a petty cash voucher to PDF
func (p *DocumentPrinter) PettyCashPDF(ctx context.Context, v *finance.PettyCashVoucher) ([]byte, error) {
	html, err := p.PettyCashHTML(v)
	if err != nil {
		return nil, err
	}
	return p.pdf(ctx, "Petty Cash Voucher "+v.VoucherNo, html)
}

// LeaseReceiptPDF renders a lease receipt to PDF
func (p *DocumentPrinter) LeaseReceiptPDF(ctx context.Context, r *finance.LeaseReceipt) ([]byte, error) {
	html, err := p.LeaseReceiptHTML(r)
	if err != nil {
		return nil, err
	}
	return p.pdf(ctx, "Receipt "+r.ReceiptNo, html)
}

func (p *DocumentPrinter) pdf(ctx context.Context, title, html string) ([]byte, error) {
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		PaperSize:  p.paperSize,
		Margins:    DefaultMargins(),
		Title:      title,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		p.logger.Warn("Document rendering failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}
