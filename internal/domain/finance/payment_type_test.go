package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentType_Requirements(t *testing.T) {
	tests := []struct {
		paymentType PaymentType
		want        PaymentRequirements
	}{
		{PaymentTypeCash, PaymentRequirements{}},
		{PaymentTypeCheque, PaymentRequirements{Cheque: true, Bank: true, Approval: true}},
		{PaymentTypeBankTransfer, PaymentRequirements{Bank: true, TransactionRef: true, Approval: true}},
		{PaymentTypeCreditCard, PaymentRequirements{TransactionRef: true}},
		{PaymentTypeOnlinePayment, PaymentRequirements{TransactionRef: true, Approval: true}},
		{PaymentType(9), PaymentRequirements{}},
	}
	for _, tt := range tests {
		t.Run(tt.paymentType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.paymentType.Requirements())
		})
	}
	assert.False(t, PaymentType(0).IsValid())
	assert.Equal(t, "Unknown", PaymentType(0).String())
}

func TestPaymentTypes(t *testing.T) {
	types := PaymentTypes()
	require.Len(t, types, 5)
	assert.Equal(t, PaymentTypeCash, types[0].PaymentTypeID)
	assert.Equal(t, "Online Payment", types[4].PaymentTypeName)
	assert.True(t, types[1].Cheque)
}

func fullDetails(p PaymentType) PaymentDetails {
	return PaymentDetails{
		PaymentType:    p,
		ChequeNo:       " 000123 ",
		ChequeDate:     shared.NewDate(2024, time.May, 1),
		BankName:       "First Bank",
		BankAccountNo:  "0011223344",
		TransactionRef: "TX-99",
	}
}

func TestPaymentDetails_Normalize(t *testing.T) {
	t.Run("cash clears every dependent field", func(t *testing.T) {
		d := fullDetails(PaymentTypeCash)
		d.Normalize()
		assert.Equal(t, PaymentDetails{PaymentType: PaymentTypeCash}, d)
	})

	t.Run("cheque keeps cheque and bank fields", func(t *testing.T) {
		d := fullDetails(PaymentTypeCheque)
		d.Normalize()
		assert.Equal(t, "000123", d.ChequeNo)
		assert.True(t, d.ChequeDate.IsSet())
		assert.Equal(t, "First Bank", d.BankName)
		assert.Empty(t, d.TransactionRef)
	})

	t.Run("switching cheque to bank transfer clears cheque fields", func(t *testing.T) {
		d := fullDetails(PaymentTypeCheque)
		d.Normalize()
		d.PaymentType = PaymentTypeBankTransfer
		d.TransactionRef = "TX-1"
		d.Normalize()

		assert.Empty(t, d.ChequeNo)
		assert.False(t, d.ChequeDate.IsSet())
		assert.Equal(t, "0011223344", d.BankAccountNo)
		assert.NoError(t, d.Validate())
	})

	t.Run("credit card keeps only the transaction ref", func(t *testing.T) {
		d := fullDetails(PaymentTypeCreditCard)
		d.Normalize()
		assert.Equal(t, PaymentDetails{PaymentType: PaymentTypeCreditCard, TransactionRef: "TX-99"}, d)
	})
}

func TestPaymentDetails_Validate(t *testing.T) {
	t.Run("cheque without details", func(t *testing.T) {
		d := PaymentDetails{PaymentType: PaymentTypeCheque}
		assert.Equal(t, []string{"ChequeNo", "ChequeDate", "BankName", "BankAccountNo"}, d.MissingFields())

		err := d.Validate()
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "PAYMENT_DETAILS_REQUIRED", domainErr.Code)
		assert.Contains(t, domainErr.Message, "Cheque payments")
	})

	t.Run("online payment needs transaction ref", func(t *testing.T) {
		d := PaymentDetails{PaymentType: PaymentTypeOnlinePayment}
		assert.Equal(t, []string{"TransactionRef"}, d.MissingFields())
	})

	t.Run("cash needs nothing", func(t *testing.T) {
		assert.NoError(t, PaymentDetails{PaymentType: PaymentTypeCash}.Validate())
	})

	t.Run("invalid type", func(t *testing.T) {
		err := PaymentDetails{PaymentType: 42}.Validate()
		assert.ErrorContains(t, err, "Payment type 42 is not valid")
	})
}
