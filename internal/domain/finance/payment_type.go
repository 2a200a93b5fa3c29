package finance

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// PaymentType identifies how a voucher or receipt is settled
type PaymentType int

const (
	PaymentTypeCash          PaymentType = 1
	PaymentTypeCheque        PaymentType = 2
	PaymentTypeBankTransfer  PaymentType = 3
	PaymentTypeCreditCard    PaymentType = 4
	PaymentTypeOnlinePayment PaymentType = 5
)

// PaymentRequirements lists which dependent fields a payment type needs
type PaymentRequirements struct {
	Cheque         bool `json:"RequiresCheque"`         // ChequeNo, ChequeDate
	Bank           bool `json:"RequiresBank"`           // BankName, BankAccountNo
	TransactionRef bool `json:"RequiresTransactionRef"` // TransactionRef
	Approval       bool `json:"RequiresApproval"`
}

var paymentRequirements = map[PaymentType]PaymentRequirements{
	PaymentTypeCash:          {},
	PaymentTypeCheque:        {Cheque: true, Bank: true, Approval: true},
	PaymentTypeBankTransfer:  {Bank: true, TransactionRef: true, Approval: true},
	PaymentTypeCreditCard:    {TransactionRef: true},
	PaymentTypeOnlinePayment: {TransactionRef: true, Approval: true},
}

var paymentTypeNames = map[PaymentType]string{
	PaymentTypeCash:          "Cash",
	PaymentTypeCheque:        "Cheque",
	PaymentTypeBankTransfer:  "Bank Transfer",
	PaymentTypeCreditCard:    "Credit Card",
	PaymentTypeOnlinePayment: "Online Payment",
}

// IsValid checks if the payment type is one of the known types
func (p PaymentType) IsValid() bool {
	_, ok := paymentRequirements[p]
	return ok
}

// Requirements returns the dependent-field requirements of the payment type.
// Unknown types require nothing.
func (p PaymentType) Requirements() PaymentRequirements {
	return paymentRequirements[p]
}

// String returns the display name of the payment type
func (p PaymentType) String() string {
	if name, ok := paymentTypeNames[p]; ok {
		return name
	}
	return "Unknown"
}

// PaymentTypeInfo is the lookup row describing one payment type
type PaymentTypeInfo struct {
	PaymentTypeID   PaymentType `json:"PaymentTypeID"`
	PaymentTypeName string      `json:"PaymentTypeName"`
	PaymentRequirements
}

// PaymentTypes returns every payment type in id order
func PaymentTypes() []PaymentTypeInfo {
	out := make([]PaymentTypeInfo, 0, len(paymentRequirements))
	for p := PaymentTypeCash; p <= PaymentTypeOnlinePayment; p++ {
		out = append(out, PaymentTypeInfo{
			PaymentTypeID:       p,
			PaymentTypeName:     p.String(),
			PaymentRequirements: p.Requirements(),
		})
	}
	return out
}

// PaymentDetails holds the payment-type dependent fields shared by payment
// vouchers and lease receipts.
type PaymentDetails struct {
	PaymentType    PaymentType `json:"PaymentType" gorm:"not null"`
	ChequeNo       string      `json:"ChequeNo" gorm:"size:30"`
	ChequeDate     shared.Date `json:"ChequeDate" gorm:"type:date"`
	BankName       string      `json:"BankName" gorm:"size:100"`
	BankAccountNo  string      `json:"BankAccountNo" gorm:"size:50"`
	TransactionRef string      `json:"TransactionRef" gorm:"size:100"`
}

// Normalize trims every dependent field and clears those the payment type
// does not require.
func (d *PaymentDetails) Normalize() {
	req := d.PaymentType.Requirements()

	d.ChequeNo = strings.TrimSpace(d.ChequeNo)
	d.BankName = strings.TrimSpace(d.BankName)
	d.BankAccountNo = strings.TrimSpace(d.BankAccountNo)
	d.TransactionRef = strings.TrimSpace(d.TransactionRef)

	if !req.Cheque {
		d.ChequeNo = ""
		d.ChequeDate = shared.Date{}
	}
	if !req.Bank {
		d.BankName = ""
		d.BankAccountNo = ""
	}
	if !req.TransactionRef {
		d.TransactionRef = ""
	}
}

// MissingFields returns the names of required dependent fields that are empty
func (d PaymentDetails) MissingFields() []string {
	req := d.PaymentType.Requirements()
	var missing []string
	if req.Cheque {
		if strings.TrimSpace(d.ChequeNo) == "" {
			missing = append(missing, "ChequeNo")
		}
		if !d.ChequeDate.IsSet() {
			missing = append(missing, "ChequeDate")
		}
	}
	if req.Bank {
		if strings.TrimSpace(d.BankName) == "" {
			missing = append(missing, "BankName")
		}
		if strings.TrimSpace(d.BankAccountNo) == "" {
			missing = append(missing, "BankAccountNo")
		}
	}
	if req.TransactionRef && strings.TrimSpace(d.TransactionRef) == "" {
		missing = append(missing, "TransactionRef")
	}
	return missing
}

// Validate checks the payment type and its required dependent fields
func (d PaymentDetails) Validate() error {
	if !d.PaymentType.IsValid() {
		return shared.NewDomainErrorf("INVALID_PAYMENT_TYPE", "Payment type %d is not valid", int(d.PaymentType))
	}
	if missing := d.MissingFields(); len(missing) > 0 {
		return shared.NewDomainErrorf("PAYMENT_DETAILS_REQUIRED", "%s required for %s payments",
			strings.Join(missing, ", "), d.PaymentType)
	}
	return nil
}
