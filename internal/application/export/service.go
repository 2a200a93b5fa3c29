// Package export renders finance documents to PDF and master lists to
// spreadsheets for download.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/erp/backoffice/internal/contract"
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Content types of the produced files
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// pageSize is the largest page the list operations accept
const pageSize = 200

// DocumentPrinter renders single finance documents to PDF
type DocumentPrinter interface {
	PaymentVoucherPDF(ctx context.Context, pv *finance.PaymentVoucher) ([]byte, error)
	PettyCashPDF(ctx context.Context, v *finance.PettyCashVoucher) ([]byte, error)
	LeaseReceiptPDF(ctx context.Context, r *finance.LeaseReceipt) ([]byte, error)
}

// Sources are the read operations the exports draw from. Nil sources
// disable the matching export.
type Sources struct {
	Customers       func(ctx context.Context, p contract.ListParams) (shared.Paginated[partner.Customer], error)
	Suppliers       func(ctx context.Context, p contract.ListParams) (shared.Paginated[partner.Supplier], error)
	PaymentVouchers func(ctx context.Context, p contract.ListParams) (shared.Paginated[finance.PaymentVoucher], error)

	PaymentVoucher func(ctx context.Context, id int64) (*finance.PaymentVoucher, error)
	PettyCash      func(ctx context.Context, id int64) (*finance.PettyCashVoucher, error)
	LeaseReceipt   func(ctx context.Context, id int64) (*finance.LeaseReceipt, error)
}

// File is a rendered download
type File struct {
	Name        string
	ContentType string
	Content     []byte
}

// Service produces export files
type Service struct {
	src     Sources
	printer DocumentPrinter
	now     func() time.Time
}

// NewService creates an export service. printer may be nil when PDF
// rendering is disabled.
func NewService(src Sources, printer DocumentPrinter) *Service {
	return &Service{src: src, printer: printer, now: time.Now}
}

// ErrUnavailable is returned when an export has no source or renderer configured
var ErrUnavailable = shared.NewDomainError("EXPORT_UNAVAILABLE", "Export is not available")

// PaymentVoucherPDF renders one payment voucher
func (s *Service) PaymentVoucherPDF(ctx context.Context, id int64) (*File, error) {
	if s.printer == nil || s.src.PaymentVoucher == nil {
		return nil, ErrUnavailable
	}
	return s.renderPDF(ctx, "payment-voucher", id, func(ctx context.Context) (string, []byte, error) {
		pv, err := s.src.PaymentVoucher(ctx, id)
		if err != nil {
			return "", nil, err
		}
		content, err := s.printer.PaymentVoucherPDF(ctx, pv)
		return pv.VoucherNo, content, err
	})
}

// PettyCashPDF renders one petty cash voucher
func (s *Service) PettyCashPDF(ctx context.Context, id int64) (*File, error) {
	if s.printer == nil || s.src.PettyCash == nil {
		return nil, ErrUnavailable
	}
	return s.renderPDF(ctx, "petty-cash", id, func(ctx context.Context) (string, []byte, error) {
		v, err := s.src.PettyCash(ctx, id)
		if err != nil {
			return "", nil, err
		}
		content, err := s.printer.PettyCashPDF(ctx, v)
		return v.VoucherNo, content, err
	})
}

// LeaseReceiptPDF renders one lease receipt
func (s *Service) LeaseReceiptPDF(ctx context.Context, id int64) (*File, error) {
	if s.printer == nil || s.src.LeaseReceipt == nil {
		return nil, ErrUnavailable
	}
	return s.renderPDF(ctx, "lease-receipt", id, func(ctx context.Context) (string, []byte, error) {
		r, err := s.src.LeaseReceipt(ctx, id)
		if err != nil {
			return "", nil, err
		}
		content, err := s.printer.LeaseReceiptPDF(ctx, r)
		return r.ReceiptNo, content, err
	})
}

func (s *Service) renderPDF(ctx context.Context, doc string, id int64, render func(context.Context) (string, []byte, error)) (file *File, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "pdf",
		attribute.String("export.document", doc),
		attribute.Int64("export.id", id))
	defer func() { telemetry.EndSpan(span, err) }()

	number, content, err := render(ctx)
	if err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Document exported",
		zap.String("document", doc),
		zap.String("number", number),
		zap.Int("bytes", len(content)))
	return &File{Name: number + ".pdf", ContentType: ContentTypePDF, Content: content}, nil
}

// CustomersXLSX exports every customer matching p
func (s *Service) CustomersXLSX(ctx context.Context, p contract.ListParams) (*File, error) {
	if s.src.Customers == nil {
		return nil, ErrUnavailable
	}
	rows, err := collect(ctx, p, s.src.Customers)
	if err != nil {
		return nil, err
	}
	sheet := sheetSpec{
		name:    "Customers",
		headers: []string{"Code", "Type", "Full Name", "Account Name", "Tax Reg No", "Email", "Mobile", "Country", "City", "Credit Limit", "Credit Days", "Active"},
	}
	for _, c := range rows {
		sheet.rows = append(sheet.rows, []any{
			c.CustomerCode, string(c.CustomerType), c.FullName, c.AccountName, c.TaxRegNo,
			c.Email, c.Mobile, c.CountryName, c.CityName, c.CreditLimit.InexactFloat64(), c.CreditDays, yesNo(c.IsActive),
		})
	}
	return s.workbook(ctx, "customers", sheet)
}

// SuppliersXLSX exports every supplier matching p
func (s *Service) SuppliersXLSX(ctx context.Context, p contract.ListParams) (*File, error) {
	if s.src.Suppliers == nil {
		return nil, ErrUnavailable
	}
	rows, err := collect(ctx, p, s.src.Suppliers)
	if err != nil {
		return nil, err
	}
	sheet := sheetSpec{
		name:    "Suppliers",
		headers: []string{"Code", "Name", "Account Name", "Tax Reg No", "VAT Reg No", "Contact Person", "Email", "Phone", "Country", "City", "IBAN", "Payment Terms", "Active"},
	}
	for _, sp := range rows {
		sheet.rows = append(sheet.rows, []any{
			sp.SupplierCode, sp.SupplierName, sp.AccountName, sp.TaxRegNo, sp.VATRegNo, sp.ContactPerson,
			sp.Email, sp.Phone, sp.CountryName, sp.CityName, sp.IBAN, sp.PaymentTermsDays, yesNo(sp.IsActive),
		})
	}
	return s.workbook(ctx, "suppliers", sheet)
}

// PaymentVouchersXLSX exports every payment voucher matching p
func (s *Service) PaymentVouchersXLSX(ctx context.Context, p contract.ListParams) (*File, error) {
	if s.src.PaymentVouchers == nil {
		return nil, ErrUnavailable
	}
	rows, err := collect(ctx, p, s.src.PaymentVouchers)
	if err != nil {
		return nil, err
	}
	sheet := sheetSpec{
		name:    "Payment Vouchers",
		headers: []string{"Voucher No", "Date", "Supplier", "Payment Type", "Cheque No", "Bank", "Reference", "Amount", "Status", "Narration"},
	}
	for _, pv := range rows {
		sheet.rows = append(sheet.rows, []any{
			pv.VoucherNo, pv.VoucherDate.String(), pv.SupplierName, pv.PaymentType.String(), pv.ChequeNo,
			pv.BankName, pv.TransactionRef, pv.Amount.InexactFloat64(), string(pv.Status), pv.Narration,
		})
	}
	return s.workbook(ctx, "payment_vouchers", sheet)
}

// collect walks every page of a list operation
func collect[T any](ctx context.Context, p contract.ListParams, list func(context.Context, contract.ListParams) (shared.Paginated[T], error)) ([]T, error) {
	p.PageSize = pageSize
	var all []T
	for page := 1; ; page++ {
		p.PageNumber = page
		res, err := list(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if len(res.Items) == 0 || page >= res.TotalPages {
			return all, nil
		}
	}
}

type sheetSpec struct {
	name    string
	headers []string
	rows    [][]any
}

func (s *Service) workbook(ctx context.Context, base string, sheet sheetSpec) (file *File, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "xlsx",
		attribute.String("export.sheet", sheet.name),
		attribute.Int("export.rows", len(sheet.rows)))
	defer func() { telemetry.EndSpan(span, err) }()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheet.name)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for i, header := range sheet.headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.name, cell, header); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(sheet.headers), 1)
	if err := f.SetCellStyle(sheet.name, "A1", last, bold); err != nil {
		return nil, err
	}

	for r, row := range sheet.rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.L(ctx).Info("Workbook exported",
		zap.String("sheet", sheet.name),
		zap.Int("rows", len(sheet.rows)))

	name := fmt.Sprintf("%s_%s.xlsx", base, s.now().Format("20060102_150405"))
	return &File{Name: name, ContentType: ContentTypeXLSX, Content: buf.Bytes()}, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
