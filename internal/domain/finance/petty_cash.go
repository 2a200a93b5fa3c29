package finance

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest debit/credit difference a voucher may carry
var BalanceTolerance = decimal.New(1, -2)

// BalanceLine is implemented by anything carrying a debit and a credit amount
type BalanceLine interface {
	DebitAmount() decimal.Decimal
	CreditAmount() decimal.Decimal
}

// BalanceError reports why a set of voucher lines does not balance.
// LineNo is 1-based; 0 means the voucher as a whole.
type BalanceError struct {
	LineNo int
	*shared.DomainError
}

// Unwrap exposes the domain error to errors.As
func (e *BalanceError) Unwrap() error {
	return e.DomainError
}

// CheckBalance verifies that there are at least two lines, every line has
// exactly one positive side, and total debit equals total credit within
// BalanceTolerance. It returns the voucher total (sum of debits).
func CheckBalance[L BalanceLine](lines []L) (decimal.Decimal, error) {
	if len(lines) < 2 {
		return decimal.Zero, &BalanceError{DomainError: shared.NewDomainError(
			"INSUFFICIENT_LINES", "A petty cash voucher needs at least two lines")}
	}

	debit, credit := decimal.Zero, decimal.Zero
	for i, line := range lines {
		d, c := line.DebitAmount(), line.CreditAmount()
		if d.IsNegative() || c.IsNegative() || d.IsPositive() == c.IsPositive() {
			return decimal.Zero, &BalanceError{LineNo: i + 1, DomainError: shared.NewDomainErrorf(
				"INVALID_LINE", "Line %d must have either a debit or a credit amount", i+1)}
		}
		debit = debit.Add(d)
		credit = credit.Add(c)
	}

	if debit.Sub(credit).Abs().GreaterThan(BalanceTolerance) {
		return decimal.Zero, &BalanceError{DomainError: shared.NewDomainErrorf(
			"UNBALANCED_VOUCHER", "Total debit %s does not equal total credit %s",
			debit.StringFixed(2), credit.StringFixed(2))}
	}
	return debit, nil
}

// PettyCashLine is one debit or credit posting of a petty cash voucher
type PettyCashLine struct {
	PettyCashLineID int64           `json:"PettyCashLineID" gorm:"primaryKey;autoIncrement"`
	PettyCashID     int64           `json:"PettyCashID" gorm:"not null;index"`
	LineNo          int             `json:"LineNo" gorm:"not null"`
	AccountCode     string          `json:"AccountCode" gorm:"size:20;not null"`
	AccountName     string          `json:"AccountName" gorm:"size:120"`
	Description     string          `json:"Description" gorm:"size:250"`
	Debit           decimal.Decimal `json:"Debit" gorm:"type:decimal(18,2);not null"`
	Credit          decimal.Decimal `json:"Credit" gorm:"type:decimal(18,2);not null"`
	CostCenter      string          `json:"CostCenter" gorm:"size:20"`
}

// TableName returns the table name for GORM
func (PettyCashLine) TableName() string {
	return "petty_cash_lines"
}

// DebitAmount implements BalanceLine
func (l PettyCashLine) DebitAmount() decimal.Decimal { return l.Debit }

// CreditAmount implements BalanceLine
func (l PettyCashLine) CreditAmount() decimal.Decimal { return l.Credit }

// PettyCashVoucher records a small cash disbursement split across accounts
type PettyCashVoucher struct {
	PettyCashID   int64           `json:"PettyCashID" gorm:"primaryKey;autoIncrement"`
	VoucherNo     string          `json:"VoucherNo" gorm:"size:30;not null;uniqueIndex"`
	VoucherDate   shared.Date     `json:"VoucherDate" gorm:"type:date;not null"`
	PaidTo        string          `json:"PaidTo" gorm:"size:120;not null"`
	Description   string          `json:"Description" gorm:"size:500"`
	TotalAmount   decimal.Decimal `json:"TotalAmount" gorm:"type:decimal(18,2);not null"`
	Status        VoucherStatus   `json:"Status" gorm:"size:20;not null;index"`
	Lines         []PettyCashLine `json:"Lines" gorm:"foreignKey:PettyCashID;references:PettyCashID;constraint:OnDelete:CASCADE"`
	ApprovalTrail `gorm:"embedded"`
	shared.Audit  `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (PettyCashVoucher) TableName() string {
	return "petty_cash_vouchers"
}

// NewPettyCashVoucher creates a pending petty cash voucher after checking
// that its lines balance.
func NewPettyCashVoucher(voucherNo string, voucherDate shared.Date, paidTo, description string, lines []PettyCashLine) (*PettyCashVoucher, error) {
	if strings.TrimSpace(voucherNo) == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NO", "Voucher number cannot be empty")
	}
	v := &PettyCashVoucher{
		VoucherNo: strings.TrimSpace(voucherNo),
		Status:    VoucherStatusPending,
	}
	if err := v.setContent(voucherDate, paidTo, description, lines); err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces the header and lines of an editable voucher
func (v *PettyCashVoucher) Update(voucherDate shared.Date, paidTo, description string, lines []PettyCashLine) error {
	if !v.Status.CanEdit() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot edit voucher in %s status", v.Status)
	}
	return v.setContent(voucherDate, paidTo, description, lines)
}

func (v *PettyCashVoucher) setContent(voucherDate shared.Date, paidTo, description string, lines []PettyCashLine) error {
	if !voucherDate.IsSet() {
		return shared.NewDomainError("INVALID_VOUCHER_DATE", "Voucher date is required")
	}
	if strings.TrimSpace(paidTo) == "" {
		return shared.NewDomainError("INVALID_PAID_TO", "Paid to cannot be empty")
	}
	total, err := CheckBalance(lines)
	if err != nil {
		return err
	}

	numbered := make([]PettyCashLine, len(lines))
	for i, line := range lines {
		line.PettyCashLineID = 0
		line.PettyCashID = v.PettyCashID
		line.LineNo = i + 1
		numbered[i] = line
	}

	v.VoucherDate = voucherDate
	v.PaidTo = strings.TrimSpace(paidTo)
	v.Description = strings.TrimSpace(description)
	v.Lines = numbered
	v.TotalAmount = total
	return nil
}

// Approve moves the voucher to Approved
func (v *PettyCashVoucher) Approve(user, remarks string, now time.Time) error {
	return approve(&v.Status, &v.ApprovalTrail, user, remarks, now)
}

// Reverse moves an approved voucher to Reversed
func (v *PettyCashVoucher) Reverse(user, reason string, now time.Time) error {
	return reverse(&v.Status, &v.ApprovalTrail, user, reason, now)
}

// CanDelete reports whether the voucher may be deleted
func (v *PettyCashVoucher) CanDelete() bool {
	return v.Status.CanEdit()
}
