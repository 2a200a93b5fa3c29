package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(code string, debit, credit string) PettyCashLine {
	return PettyCashLine{
		AccountCode: code,
		Debit:       decimal.RequireFromString(debit),
		Credit:      decimal.RequireFromString(credit),
	}
}

func balancedLines() []PettyCashLine {
	return []PettyCashLine{
		line("6100", "40.00", "0"),
		line("6200", "60.00", "0"),
		line("1010", "0", "100.00"),
	}
}

func TestCheckBalance(t *testing.T) {
	t.Run("balanced voucher returns total", func(t *testing.T) {
		total, err := CheckBalance(balancedLines())
		require.NoError(t, err)
		assert.Equal(t, "100.00", total.StringFixed(2))
	})

	t.Run("difference within tolerance is accepted", func(t *testing.T) {
		_, err := CheckBalance([]PettyCashLine{line("6100", "100.01", "0"), line("1010", "0", "100.00")})
		assert.NoError(t, err)
	})

	t.Run("difference beyond tolerance is rejected", func(t *testing.T) {
		_, err := CheckBalance([]PettyCashLine{line("6100", "100.02", "0"), line("1010", "0", "100.00")})

		var balanceErr *BalanceError
		require.True(t, errors.As(err, &balanceErr))
		assert.Equal(t, "UNBALANCED_VOUCHER", balanceErr.Code)
		assert.Zero(t, balanceErr.LineNo)

		var domainErr *shared.DomainError
		assert.True(t, errors.As(err, &domainErr))
	})

	t.Run("single line is rejected", func(t *testing.T) {
		_, err := CheckBalance([]PettyCashLine{line("6100", "10", "0")})
		assert.ErrorContains(t, err, "at least two lines")
	})

	t.Run("line with both sides is rejected", func(t *testing.T) {
		_, err := CheckBalance([]PettyCashLine{line("6100", "10", "10"), line("1010", "0", "0.00")})
		var balanceErr *BalanceError
		require.True(t, errors.As(err, &balanceErr))
		assert.Equal(t, 1, balanceErr.LineNo)
	})

	t.Run("negative amount is rejected", func(t *testing.T) {
		_, err := CheckBalance([]PettyCashLine{line("6100", "10", "0"), line("1010", "0", "-10")})
		var balanceErr *BalanceError
		require.True(t, errors.As(err, &balanceErr))
		assert.Equal(t, 2, balanceErr.LineNo)
	})
}

func TestPettyCashVoucher_Lifecycle(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	v, err := NewPettyCashVoucher("PC-000001", shared.NewDate(2024, 6, 1), "Office Supplies Ltd", "Stationery", balancedLines())
	require.NoError(t, err)

	assert.Equal(t, VoucherStatusPending, v.Status)
	assert.Equal(t, "100.00", v.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, v.Lines[2].LineNo)
	assert.True(t, v.CanDelete())

	assert.ErrorContains(t, v.Reverse("admin", "typo", now), "Cannot reverse voucher in Pending status")

	require.NoError(t, v.Approve("admin", "ok", now))
	assert.Equal(t, VoucherStatusApproved, v.Status)
	assert.Equal(t, "admin", v.ApprovedBy)
	assert.False(t, v.CanDelete())

	assert.ErrorContains(t, v.Update(shared.NewDate(2024, 6, 2), "X", "", balancedLines()), "Cannot edit")
	assert.ErrorContains(t, v.Approve("admin", "", now), "Cannot approve")
	assert.ErrorContains(t, v.Reverse("admin", "", now), "reversal reason")

	require.NoError(t, v.Reverse("admin", "duplicate entry", now))
	assert.Equal(t, VoucherStatusReversed, v.Status)
	assert.Equal(t, "duplicate entry", v.ReversalReason)
}

func TestNewPettyCashVoucher_Invalid(t *testing.T) {
	_, err := NewPettyCashVoucher("", shared.NewDate(2024, 6, 1), "A", "", balancedLines())
	assert.ErrorContains(t, err, "Voucher number")

	_, err = NewPettyCashVoucher("PC-1", shared.Date{}, "A", "", balancedLines())
	assert.ErrorContains(t, err, "Voucher date")

	_, err = NewPettyCashVoucher("PC-1", shared.NewDate(2024, 6, 1), "A", "", []PettyCashLine{
		line("6100", "50", "0"), line("1010", "0", "40"),
	})
	assert.ErrorContains(t, err, "does not equal")
}
