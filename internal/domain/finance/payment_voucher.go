package finance

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentVoucher records a payment made to a supplier
type PaymentVoucher struct {
	PaymentVoucherID int64           `json:"PaymentVoucherID" gorm:"primaryKey;autoIncrement"`
	VoucherNo        string          `json:"VoucherNo" gorm:"size:30;not null;uniqueIndex"`
	VoucherDate      shared.Date     `json:"VoucherDate" gorm:"type:date;not null"`
	SupplierID       int64           `json:"SupplierID" gorm:"not null;index"`
	SupplierName     string          `json:"SupplierName" gorm:"size:150"`
	PaymentDetails   `gorm:"embedded"`
	Amount           decimal.Decimal `json:"Amount" gorm:"type:decimal(18,2);not null"`
	Narration        string          `json:"Narration" gorm:"size:500"`
	Status           VoucherStatus   `json:"Status" gorm:"size:20;not null;index"`
	ApprovalTrail    `gorm:"embedded"`
	shared.Audit     `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (PaymentVoucher) TableName() string {
	return "payment_vouchers"
}

// PaymentVoucherInput carries the editable fields of a payment voucher
type PaymentVoucherInput struct {
	VoucherDate  shared.Date
	SupplierID   int64
	SupplierName string
	Payment      PaymentDetails
	Amount       decimal.Decimal
	Narration    string
	SaveAsDraft  bool
}

// NewPaymentVoucher creates a payment voucher. Payment types that need
// approval start Pending; the rest are Approved on creation. SaveAsDraft
// always yields a Draft.
func NewPaymentVoucher(voucherNo string, in PaymentVoucherInput, user string, now time.Time) (*PaymentVoucher, error) {
	if strings.TrimSpace(voucherNo) == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NO", "Voucher number cannot be empty")
	}
	pv := &PaymentVoucher{VoucherNo: strings.TrimSpace(voucherNo)}
	if err := pv.setContent(in); err != nil {
		return nil, err
	}

	switch {
	case in.SaveAsDraft:
		pv.Status = VoucherStatusDraft
	case pv.PaymentType.Requirements().Approval:
		pv.Status = VoucherStatusPending
	default:
		pv.Status = VoucherStatusApproved
		pv.ApprovedBy = user
		pv.ApprovedAt = &now
		pv.ApprovalRemarks = "Auto-approved: " + pv.PaymentType.String()
	}
	return pv, nil
}

// Update replaces the editable fields of a Draft or Pending voucher
func (pv *PaymentVoucher) Update(in PaymentVoucherInput) error {
	if !pv.Status.CanEdit() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot edit voucher in %s status", pv.Status)
	}
	return pv.setContent(in)
}

func (pv *PaymentVoucher) setContent(in PaymentVoucherInput) error {
	if !in.VoucherDate.IsSet() {
		return shared.NewDomainError("INVALID_VOUCHER_DATE", "Voucher date is required")
	}
	if in.SupplierID <= 0 {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	payment := in.Payment
	payment.Normalize()
	if err := payment.Validate(); err != nil {
		return err
	}

	pv.VoucherDate = in.VoucherDate
	pv.SupplierID = in.SupplierID
	pv.SupplierName = in.SupplierName
	pv.PaymentDetails = payment
	pv.Amount = amount
	pv.Narration = strings.TrimSpace(in.Narration)
	return nil
}

// RequiresApproval reports whether the voucher's payment type needs approval
func (pv *PaymentVoucher) RequiresApproval() bool {
	return pv.PaymentType.Requirements().Approval
}

// Approve moves the voucher to Approved
func (pv *PaymentVoucher) Approve(user, remarks string, now time.Time) error {
	return approve(&pv.Status, &pv.ApprovalTrail, user, remarks, now)
}

// Reverse moves an approved voucher to Reversed
func (pv *PaymentVoucher) Reverse(user, reason string, now time.Time) error {
	return reverse(&pv.Status, &pv.ApprovalTrail, user, reason, now)
}

// CanDelete reports whether the voucher may be deleted
func (pv *PaymentVoucher) CanDelete() bool {
	return pv.Status.CanEdit()
}
