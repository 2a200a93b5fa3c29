package finance

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoice(t *testing.T, amount string) *LeaseInvoice {
	inv, err := NewLeaseInvoice("LI-000001", 5, "Jane Doe", "UNIT-12",
		shared.NewDate(2024, 1, 1), shared.NewDate(2024, 1, 31), decimal.RequireFromString(amount))
	require.NoError(t, err)
	return inv
}

func TestLeaseInvoice_Payments(t *testing.T) {
	inv := newInvoice(t, "1000")
	assert.Equal(t, LeaseInvoiceOpen, inv.Status)

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400)))
	assert.Equal(t, LeaseInvoicePartiallyPaid, inv.Status)
	assert.Equal(t, "600.00", inv.Balance.StringFixed(2))

	err := inv.ApplyPayment(decimal.NewFromInt(601))
	assert.ErrorContains(t, err, "exceeds the balance")

	require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(600)))
	assert.Equal(t, LeaseInvoicePaid, inv.Status)
	assert.False(t, inv.IsOutstanding())

	require.NoError(t, inv.RevertPayment(decimal.NewFromInt(1000)))
	assert.Equal(t, LeaseInvoiceOpen, inv.Status)
	assert.ErrorContains(t, inv.RevertPayment(decimal.NewFromInt(1)), "Cannot revert")
}

func TestNewLeaseInvoice_DueBeforeInvoice(t *testing.T) {
	_, err := NewLeaseInvoice("LI-1", 5, "", "UNIT-1",
		shared.NewDate(2024, 2, 1), shared.NewDate(2024, 1, 1), decimal.NewFromInt(10))
	assert.ErrorContains(t, err, "Due date")
}

func TestNewLeaseInvoice_SubCentAmount(t *testing.T) {
	_, err := NewLeaseInvoice("LI-2", 5, "", "UNIT-1",
		shared.NewDate(2024, 1, 1), shared.NewDate(2024, 1, 31), decimal.RequireFromString("0.004"))
	assert.ErrorContains(t, err, "Amount must be positive")

	inv := newInvoice(t, "0.005")
	assert.Equal(t, "0.01", inv.Balance.StringFixed(2))
	assert.True(t, inv.IsOutstanding())
}

func receiptInput(allocs ...ReceiptAllocation) LeaseReceiptInput {
	return LeaseReceiptInput{
		ReceiptDate: shared.NewDate(2024, 1, 15),
		CustomerID:  5,
		Payment:     PaymentDetails{PaymentType: PaymentTypeCash, TransactionRef: "ignored"},
		Amount:      decimal.NewFromInt(500),
		Allocations: allocs,
	}
}

func TestNewLeaseReceipt(t *testing.T) {
	t.Run("valid allocations", func(t *testing.T) {
		r, err := NewLeaseReceipt("LR-000001", receiptInput(
			ReceiptAllocation{LeaseInvoiceID: 1, AllocatedAmount: decimal.NewFromInt(300)},
			ReceiptAllocation{LeaseInvoiceID: 2, AllocatedAmount: decimal.NewFromInt(150)},
		))
		require.NoError(t, err)
		assert.Equal(t, LeaseReceiptPosted, r.Status)
		assert.Equal(t, "50.00", r.UnallocatedAmount.StringFixed(2))
		assert.Empty(t, r.TransactionRef)
	})

	t.Run("allocations over the receipt amount", func(t *testing.T) {
		_, err := NewLeaseReceipt("LR-000002", receiptInput(
			ReceiptAllocation{LeaseInvoiceID: 1, AllocatedAmount: decimal.NewFromInt(300)},
			ReceiptAllocation{LeaseInvoiceID: 2, AllocatedAmount: decimal.NewFromInt(201)},
		))
		assert.ErrorContains(t, err, "exceeds the receipt amount")
	})

	t.Run("sub-cent amounts", func(t *testing.T) {
		in := receiptInput()
		in.Amount = decimal.RequireFromString("0.001")
		_, err := NewLeaseReceipt("LR-000005", in)
		assert.ErrorContains(t, err, "Amount must be positive")

		_, err = NewLeaseReceipt("LR-000006", receiptInput(
			ReceiptAllocation{LeaseInvoiceID: 1, AllocatedAmount: decimal.RequireFromString("0.002")},
		))
		assert.ErrorContains(t, err, "Allocated amount must be positive")
	})

	t.Run("duplicate invoice", func(t *testing.T) {
		_, err := NewLeaseReceipt("LR-000003", receiptInput(
			ReceiptAllocation{LeaseInvoiceID: 1, AllocatedAmount: decimal.NewFromInt(10)},
			ReceiptAllocation{LeaseInvoiceID: 1, AllocatedAmount: decimal.NewFromInt(10)},
		))
		assert.ErrorContains(t, err, "more than once")
	})

	t.Run("reverse", func(t *testing.T) {
		r, err := NewLeaseReceipt("LR-000004", receiptInput())
		require.NoError(t, err)
		assert.ErrorContains(t, r.Reverse("admin", "", time.Now()), "reversal reason")
		require.NoError(t, r.Reverse("admin", "bounced", time.Now()))
		assert.ErrorContains(t, r.Reverse("admin", "again", time.Now()), "Reversed status")
	})
}
