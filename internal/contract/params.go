package contract

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EmptyParams is the parameter bag of modes without inputs
type EmptyParams struct{}

// ListParams drives the paged list modes
type ListParams struct {
	PageNumber    int    `json:"PageNumber" validate:"gte=0"`
	PageSize      int    `json:"PageSize" validate:"gte=0,lte=200"`
	SortColumn    string `json:"SortColumn,omitempty" validate:"omitempty,max=50"`
	SortDirection string `json:"SortDirection,omitempty" validate:"omitempty,oneof=asc desc ASC DESC"`
	SearchText    string `json:"SearchText,omitempty" validate:"omitempty,max=100"`
	IsActive      *bool  `json:"IsActive,omitempty"`
	Status        string `json:"Status,omitempty" validate:"omitempty,max=20"`
}

// Filter converts the list parameters into a repository filter
func (p ListParams) Filter() shared.Filter {
	return shared.Filter{
		Page:     p.PageNumber,
		PageSize: p.PageSize,
		OrderBy:  p.SortColumn,
		OrderDir: p.SortDirection,
		Search:   p.SearchText,
		IsActive: p.IsActive,
		Status:   p.Status,
	}.Normalize()
}

// SearchParams drives the picker search modes
type SearchParams struct {
	SearchText string `json:"SearchText" validate:"required,max=100"`
	MaxResults int    `json:"MaxResults,omitempty" validate:"omitempty,gte=1,lte=50"`
}

// Limit returns MaxResults or the default of 10
func (p SearchParams) Limit() int {
	if p.MaxResults == 0 {
		return 10
	}
	return p.MaxResults
}

// ContactParams is one contact person row of a partner
type ContactParams struct {
	ContactTypeID int64  `json:"ContactTypeID" validate:"required,gt=0"`
	ContactName   string `json:"ContactName" validate:"required,min=2,max=100"`
	Phone         string `json:"Phone,omitempty" validate:"omitempty,max=20"`
	Email         string `json:"Email,omitempty" validate:"omitempty,email,max=120"`
	IsPrimary     bool   `json:"IsPrimary"`
}

// CustomerParams is the parameter bag of customer create
type CustomerParams struct {
	CustomerCode string          `json:"CustomerCode" validate:"required,max=20"`
	CustomerType string          `json:"CustomerType" validate:"required,oneof=Individual Corporate"`
	FirstName    string          `json:"FirstName" validate:"required,min=2,max=50"`
	LastName     string          `json:"LastName" validate:"required,min=2,max=50"`
	FullName     string          `json:"FullName,omitempty" validate:"omitempty,max=120"`
	AccountName  string          `json:"AccountName,omitempty" validate:"omitempty,max=120"`
	TaxRegNo     string          `json:"TaxRegNo" validate:"required,min=5,max=30"`
	Email        string          `json:"Email,omitempty" validate:"omitempty,email,max=120"`
	Phone        string          `json:"Phone,omitempty" validate:"omitempty,max=20"`
	Mobile       string          `json:"Mobile,omitempty" validate:"omitempty,max=20"`
	Address      string          `json:"Address,omitempty" validate:"omitempty,max=250"`
	CountryID    int64           `json:"CountryID" validate:"required,gt=0"`
	CityID       int64           `json:"CityID,omitempty" validate:"omitempty,gt=0"`
	CreditLimit  decimal.Decimal `json:"CreditLimit" validate:"gte=0,lte=999999999"`
	CreditDays   int             `json:"CreditDays" validate:"gte=0,lte=365"`
	IsActive     bool            `json:"IsActive"`
	Remarks      string          `json:"Remarks,omitempty" validate:"omitempty,max=500"`
	Contacts     []ContactParams `json:"Contacts,omitempty" validate:"max=20,dive"`
}

// UpdateCustomerParams is the parameter bag of customer update
type UpdateCustomerParams struct {
	CustomerID int64 `json:"CustomerID" validate:"required,gt=0"`
	CustomerParams
}

// CustomerIDParams addresses one customer
type CustomerIDParams struct {
	CustomerID int64 `json:"CustomerID" validate:"required,gt=0"`
}

// SupplierParams is the parameter bag of supplier create
type SupplierParams struct {
	SupplierCode     string          `json:"SupplierCode" validate:"required,max=20"`
	SupplierName     string          `json:"SupplierName" validate:"required,min=2,max=150"`
	AccountName      string          `json:"AccountName,omitempty" validate:"omitempty,max=150"`
	TaxRegNo         string          `json:"TaxRegNo" validate:"required,min=5,max=30"`
	VATRegNo         string          `json:"VATRegNo,omitempty" validate:"omitempty,max=30"`
	ContactPerson    string          `json:"ContactPerson,omitempty" validate:"omitempty,max=100"`
	Email            string          `json:"Email,omitempty" validate:"omitempty,email,max=120"`
	Phone            string          `json:"Phone,omitempty" validate:"omitempty,max=20"`
	Address          string          `json:"Address,omitempty" validate:"omitempty,max=250"`
	CountryID        int64           `json:"CountryID" validate:"required,gt=0"`
	CityID           int64           `json:"CityID,omitempty" validate:"omitempty,gt=0"`
	BankName         string          `json:"BankName,omitempty" validate:"omitempty,max=100"`
	BankAccountNo    string          `json:"BankAccountNo,omitempty" validate:"omitempty,max=50"`
	IBAN             string          `json:"IBAN,omitempty" validate:"omitempty,min=15,max=34"`
	PaymentTermsDays int             `json:"PaymentTermsDays" validate:"gte=0,lte=365"`
	IsActive         bool            `json:"IsActive"`
	Remarks          string          `json:"Remarks,omitempty" validate:"omitempty,max=500"`
	Contacts         []ContactParams `json:"Contacts,omitempty" validate:"max=20,dive"`
}

// UpdateSupplierParams is the parameter bag of supplier update
type UpdateSupplierParams struct {
	SupplierID int64 `json:"SupplierID" validate:"required,gt=0"`
	SupplierParams
}

// SupplierIDParams addresses one supplier
type SupplierIDParams struct {
	SupplierID int64 `json:"SupplierID" validate:"required,gt=0"`
}

// CityParams is the parameter bag of city create
type CityParams struct {
	CityCode  string `json:"CityCode" validate:"required,max=10"`
	CityName  string `json:"CityName" validate:"required,min=2,max=100"`
	CountryID int64  `json:"CountryID" validate:"required,gt=0"`
	IsActive  bool   `json:"IsActive"`
}

// UpdateCityParams is the parameter bag of city update
type UpdateCityParams struct {
	CityID int64 `json:"CityID" validate:"required,gt=0"`
	CityParams
}

// CityIDParams addresses one city
type CityIDParams struct {
	CityID int64 `json:"CityID" validate:"required,gt=0"`
}

// CitiesByCountryParams selects the cities of one country
type CitiesByCountryParams struct {
	CountryID int64 `json:"CountryID" validate:"required,gt=0"`
}

// PettyCashLineParams is one posting line of a petty cash voucher
type PettyCashLineParams struct {
	AccountCode string          `json:"AccountCode" validate:"required,max=20"`
	AccountName string          `json:"AccountName,omitempty" validate:"omitempty,max=100"`
	Description string          `json:"Description,omitempty" validate:"omitempty,max=250"`
	Debit       decimal.Decimal `json:"Debit" validate:"gte=0"`
	Credit      decimal.Decimal `json:"Credit" validate:"gte=0"`
	CostCenter  string          `json:"CostCenter,omitempty" validate:"omitempty,max=20"`
}

// DebitAmount implements finance.BalanceLine
func (l PettyCashLineParams) DebitAmount() decimal.Decimal { return l.Debit }

// CreditAmount implements finance.BalanceLine
func (l PettyCashLineParams) CreditAmount() decimal.Decimal { return l.Credit }

// PettyCashParams is the parameter bag of petty cash create
type PettyCashParams struct {
	VoucherDate shared.Date           `json:"VoucherDate" validate:"required"`
	PaidTo      string                `json:"PaidTo" validate:"required,min=2,max=100"`
	Description string                `json:"Description,omitempty" validate:"omitempty,max=500"`
	Lines       []PettyCashLineParams `json:"Lines" validate:"required,min=2,max=50,dive"`
}

// DomainLines converts the lines into voucher lines
func (p PettyCashParams) DomainLines() []finance.PettyCashLine {
	lines := make([]finance.PettyCashLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, finance.PettyCashLine{
			AccountCode: strings.TrimSpace(l.AccountCode),
			AccountName: strings.TrimSpace(l.AccountName),
			Description: strings.TrimSpace(l.Description),
			Debit:       l.Debit,
			Credit:      l.Credit,
			CostCenter:  strings.TrimSpace(l.CostCenter),
		})
	}
	return lines
}

// UpdatePettyCashParams is the parameter bag of petty cash update
type UpdatePettyCashParams struct {
	PettyCashID int64 `json:"PettyCashID" validate:"required,gt=0"`
	PettyCashParams
}

// PettyCashIDParams addresses one petty cash voucher
type PettyCashIDParams struct {
	PettyCashID int64 `json:"PettyCashID" validate:"required,gt=0"`
}

// ApprovePettyCashParams is the parameter bag of petty cash approval
type ApprovePettyCashParams struct {
	PettyCashID     int64  `json:"PettyCashID" validate:"required,gt=0"`
	ApprovalRemarks string `json:"ApprovalRemarks,omitempty" validate:"omitempty,max=500"`
}

// ReversePettyCashParams is the parameter bag of petty cash reversal
type ReversePettyCashParams struct {
	PettyCashID    int64  `json:"PettyCashID" validate:"required,gt=0"`
	ReversalReason string `json:"ReversalReason" validate:"required,min=3,max=500"`
}

// PaymentParams carries the payment-type dependent fields. Which of them
// are required, and checked at all, depends on PaymentType; the rest are
// cleared by Details.
type PaymentParams struct {
	PaymentType    int         `json:"PaymentType" validate:"required,gte=1,lte=5"`
	ChequeNo       string      `json:"ChequeNo,omitempty"`
	ChequeDate     shared.Date `json:"ChequeDate"`
	BankName       string      `json:"BankName,omitempty"`
	BankAccountNo  string      `json:"BankAccountNo,omitempty"`
	TransactionRef string      `json:"TransactionRef,omitempty"`
}

// Details converts the parameters into normalized payment details
func (p PaymentParams) Details() finance.PaymentDetails {
	d := finance.PaymentDetails{
		PaymentType:    finance.PaymentType(p.PaymentType),
		ChequeNo:       p.ChequeNo,
		ChequeDate:     p.ChequeDate,
		BankName:       p.BankName,
		BankAccountNo:  p.BankAccountNo,
		TransactionRef: p.TransactionRef,
	}
	d.Normalize()
	return d
}

// PaymentVoucherParams is the parameter bag of payment voucher create
type PaymentVoucherParams struct {
	VoucherDate shared.Date `json:"VoucherDate" validate:"required"`
	SupplierID  int64       `json:"SupplierID" validate:"required,gt=0"`
	PaymentParams
	Amount      decimal.Decimal `json:"Amount" validate:"gt=0,lte=999999999"`
	Narration   string          `json:"Narration,omitempty" validate:"omitempty,max=500"`
	SaveAsDraft bool            `json:"SaveAsDraft,omitempty"`
}

// UpdatePaymentVoucherParams is the parameter bag of payment voucher update
type UpdatePaymentVoucherParams struct {
	PaymentVoucherID int64 `json:"PaymentVoucherID" validate:"required,gt=0"`
	PaymentVoucherParams
}

// PaymentVoucherIDParams addresses one payment voucher
type PaymentVoucherIDParams struct {
	PaymentVoucherID int64 `json:"PaymentVoucherID" validate:"required,gt=0"`
}

// ApprovePaymentVoucherParams is the parameter bag of voucher approval
type ApprovePaymentVoucherParams struct {
	PaymentVoucherID int64  `json:"PaymentVoucherID" validate:"required,gt=0"`
	ApprovalRemarks  string `json:"ApprovalRemarks,omitempty" validate:"omitempty,max=500"`
}

// ReversePaymentVoucherParams is the parameter bag of voucher reversal
type ReversePaymentVoucherParams struct {
	PaymentVoucherID int64  `json:"PaymentVoucherID" validate:"required,gt=0"`
	ReversalReason   string `json:"ReversalReason" validate:"required,min=3,max=500"`
}

// LeaseInvoiceParams is the parameter bag of lease invoice create
type LeaseInvoiceParams struct {
	CustomerID  int64           `json:"CustomerID" validate:"required,gt=0"`
	PropertyRef string          `json:"PropertyRef" validate:"required,max=50"`
	InvoiceDate shared.Date     `json:"InvoiceDate" validate:"required"`
	DueDate     shared.Date     `json:"DueDate" validate:"required"`
	Amount      decimal.Decimal `json:"Amount" validate:"gt=0,lte=999999999"`
}

// LeaseInvoiceIDParams addresses one lease invoice
type LeaseInvoiceIDParams struct {
	LeaseInvoiceID int64 `json:"LeaseInvoiceID" validate:"required,gt=0"`
}

// AllocationParams applies part of a receipt to an invoice
type AllocationParams struct {
	LeaseInvoiceID  int64           `json:"LeaseInvoiceID" validate:"required,gt=0"`
	AllocatedAmount decimal.Decimal `json:"AllocatedAmount" validate:"gt=0"`
}

// LeaseReceiptParams is the parameter bag of lease receipt create
type LeaseReceiptParams struct {
	ReceiptDate shared.Date `json:"ReceiptDate" validate:"required"`
	CustomerID  int64       `json:"CustomerID" validate:"required,gt=0"`
	PaymentParams
	Amount      decimal.Decimal    `json:"Amount" validate:"gt=0,lte=999999999"`
	Narration   string             `json:"Narration,omitempty" validate:"omitempty,max=500"`
	Allocations []AllocationParams `json:"Allocations,omitempty" validate:"max=50,dive"`
}

// LeaseReceiptIDParams addresses one lease receipt
type LeaseReceiptIDParams struct {
	LeaseReceiptID int64 `json:"LeaseReceiptID" validate:"required,gt=0"`
}

// ReverseLeaseReceiptParams is the parameter bag of receipt reversal
type ReverseLeaseReceiptParams struct {
	LeaseReceiptID int64  `json:"LeaseReceiptID" validate:"required,gt=0"`
	ReversalReason string `json:"ReversalReason" validate:"required,min=3,max=500"`
}

// OutstandingParams selects the open invoices of a customer
type OutstandingParams struct {
	CustomerID int64 `json:"CustomerID" validate:"required,gt=0"`
}

// UploadAttachmentParams carries one file as base64 plus its metadata
type UploadAttachmentParams struct {
	OwnerID         int64       `json:"OwnerID" validate:"required,gt=0"`
	DocTypeID       int64       `json:"DocTypeID" validate:"required,gt=0"`
	DocumentName    string      `json:"DocumentName,omitempty" validate:"omitempty,max=150"`
	FileName        string      `json:"FileName" validate:"required,max=255"`
	FileContentType string      `json:"FileContentType" validate:"required,max=100"`
	FileSize        int64       `json:"FileSize" validate:"required,gt=0,lte=10485760"`
	FileContent     string      `json:"FileContent" validate:"required,base64"`
	ExpiryDate      shared.Date `json:"ExpiryDate"`
}

// AttachmentIDParams addresses one attachment
type AttachmentIDParams struct {
	AttachmentID int64 `json:"AttachmentID" validate:"required,gt=0"`
}

// OwnerParams addresses the record owning attachments
type OwnerParams struct {
	OwnerID int64 `json:"OwnerID" validate:"required,gt=0"`
}

// LoginParams is the body of POST /api/auth/login
type LoginParams struct {
	Username string `json:"Username" validate:"required,min=3,max=100"`
	Password string `json:"Password" validate:"required,max=72"`
}
