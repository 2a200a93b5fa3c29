package forms

import (
	"github.com/erp/backoffice/internal/domain/finance"
	"github.com/erp/backoffice/internal/domain/shared"
)

// PaymentForm edits the payment-type dependent fields of a voucher or
// receipt.
type PaymentForm struct {
	details finance.PaymentDetails
}

// NewPaymentForm starts a form from existing details
func NewPaymentForm(details finance.PaymentDetails) *PaymentForm {
	return &PaymentForm{details: details}
}

// SetPaymentType switches the payment type and clears every dependent
// field the new type does not require. It returns the cleared field names.
func (f *PaymentForm) SetPaymentType(pt finance.PaymentType) []string {
	before := f.details
	f.details.PaymentType = pt
	f.details.Normalize()

	var cleared []string
	if before.ChequeNo != "" && f.details.ChequeNo == "" {
		cleared = append(cleared, "ChequeNo")
	}
	if before.ChequeDate.IsSet() && !f.details.ChequeDate.IsSet() {
		cleared = append(cleared, "ChequeDate")
	}
	if before.BankName != "" && f.details.BankName == "" {
		cleared = append(cleared, "BankName")
	}
	if before.BankAccountNo != "" && f.details.BankAccountNo == "" {
		cleared = append(cleared, "BankAccountNo")
	}
	if before.TransactionRef != "" && f.details.TransactionRef == "" {
		cleared = append(cleared, "TransactionRef")
	}
	return cleared
}

// SetCheque sets the cheque number and date
func (f *PaymentForm) SetCheque(no string, date shared.Date) {
	f.details.ChequeNo = no
	f.details.ChequeDate = date
}

// SetBank sets the bank name and account number
func (f *PaymentForm) SetBank(name, accountNo string) {
	f.details.BankName = name
	f.details.BankAccountNo = accountNo
}

// SetTransactionRef sets the transaction reference
func (f *PaymentForm) SetTransactionRef(ref string) {
	f.details.TransactionRef = ref
}

// Requirements returns the field configuration of the current type
func (f *PaymentForm) Requirements() finance.PaymentRequirements {
	return f.details.PaymentType.Requirements()
}

// Missing returns the required fields that are still empty
func (f *PaymentForm) Missing() []string {
	return f.details.MissingFields()
}

// Details returns the current payment details
func (f *PaymentForm) Details() finance.PaymentDetails {
	return f.details
}
