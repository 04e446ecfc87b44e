package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// Test helpers

func money(t *testing.T, s string) valueobject.Money {
	m, err := valueobject.NewMoneyUSDFromString(s)
	require.NoError(t, err)
	return m
}

func createTestInvoice(t *testing.T, total string) *Invoice {
	inv, err := NewInvoice("INV-2026-001", uuid.New(), money(t, total), nil)
	require.NoError(t, err)
	require.NoError(t, inv.MarkSent())
	return inv
}

// ============================================
// InvoiceStatus Tests
// ============================================

func TestInvoiceStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  InvoiceStatus
		isValid bool
	}{
		{InvoiceStatusDraft, true},
		{InvoiceStatusSent, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusCancelled, true},
		{InvoiceStatus("INVALID"), false},
		{InvoiceStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestInvoiceStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status     InvoiceStatus
		isTerminal bool
	}{
		{InvoiceStatusDraft, false},
		{InvoiceStatusSent, false},
		{InvoiceStatusPartiallyPaid, false},
		{InvoiceStatusPaid, true},
		{InvoiceStatusOverdue, false},
		{InvoiceStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestInvoiceStatus_CanApplyPayment(t *testing.T) {
	tests := []struct {
		status   InvoiceStatus
		canApply bool
	}{
		{InvoiceStatusDraft, false},
		{InvoiceStatusSent, true},
		{InvoiceStatusPartiallyPaid, true},
		{InvoiceStatusOverdue, true},
		{InvoiceStatusPaid, false},
		{InvoiceStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canApply, tt.status.CanApplyPayment())
		})
	}
}

// ============================================
// Status derivation
// ============================================

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		current InvoiceStatus
		paid    string
		balance string
		want    InvoiceStatus
	}{
		{"zero balance is paid", InvoiceStatusSent, "100", "0", InvoiceStatusPaid},
		{"negative balance is paid", InvoiceStatusPartiallyPaid, "100.01", "-0.01", InvoiceStatusPaid},
		{"partial payment", InvoiceStatusSent, "40", "60", InvoiceStatusPartiallyPaid},
		{"partial payment on overdue", InvoiceStatusOverdue, "40", "60", InvoiceStatusPartiallyPaid},
		{"no payment keeps sent", InvoiceStatusSent, "0", "100", InvoiceStatusSent},
		{"no payment keeps overdue", InvoiceStatusOverdue, "0", "100", InvoiceStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, err := decimal.NewFromString(tt.paid)
			require.NoError(t, err)
			balance, err := decimal.NewFromString(tt.balance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, deriveStatus(tt.current, paid, balance))
		})
	}
}

// ============================================
// NewInvoice
// ============================================

func TestNewInvoice(t *testing.T) {
	t.Run("creates draft invoice with balance equal to total", func(t *testing.T) {
		inv, err := NewInvoice("INV-001", uuid.New(), money(t, "250.50"), nil)
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.TotalAmount.Equal(decimal.RequireFromString("250.50")))
		assert.True(t, inv.PaidAmount.IsZero())
		assert.True(t, inv.BalanceAmount.Equal(inv.TotalAmount))
		assert.Len(t, inv.GetDomainEvents(), 1)
	})

	t.Run("rejects empty invoice number", func(t *testing.T) {
		_, err := NewInvoice("", uuid.New(), money(t, "100"), nil)
		assert.Error(t, err)
	})

	t.Run("rejects nil customer", func(t *testing.T) {
		_, err := NewInvoice("INV-001", uuid.Nil, money(t, "100"), nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		_, err := NewInvoice("INV-001", uuid.New(), money(t, "0"), nil)
		assert.Error(t, err)

		_, err = NewInvoice("INV-001", uuid.New(), money(t, "-5"), nil)
		assert.Error(t, err)
	})
}

// ============================================
// ApplyPayment
// ============================================

func TestInvoice_ApplyPayment(t *testing.T) {
	t.Run("full payment transitions to PAID", func(t *testing.T) {
		inv := createTestInvoice(t, "1000.00")

		err := inv.ApplyPayment(money(t, "1000.00"))
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.BalanceAmount.IsZero())
		assert.True(t, inv.PaidAmount.Equal(inv.TotalAmount))
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("partial payment transitions to PARTIALLY_PAID", func(t *testing.T) {
		inv := createTestInvoice(t, "1000.00")

		err := inv.ApplyPayment(money(t, "400.00"))
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, inv.PaidAmount.Equal(decimal.RequireFromString("400")))
		assert.True(t, inv.BalanceAmount.Equal(decimal.RequireFromString("600")))
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("balance invariant holds across chained payments", func(t *testing.T) {
		inv := createTestInvoice(t, "999.99")

		for _, amount := range []string{"333.33", "333.33", "333.33"} {
			require.NoError(t, inv.ApplyPayment(money(t, amount)))
			expected := decimal.Max(inv.TotalAmount.Sub(inv.PaidAmount), decimal.Zero)
			assert.True(t, inv.BalanceAmount.Equal(expected),
				"balance %s != max(total-paid, 0) %s", inv.BalanceAmount, expected)
		}

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})

	t.Run("overpayment is rejected and leaves state unchanged", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")
		require.NoError(t, inv.ApplyPayment(money(t, "60.00")))

		beforePaid := inv.PaidAmount
		beforeBalance := inv.BalanceAmount
		beforeVersion := inv.GetVersion()

		err := inv.ApplyPayment(money(t, "60.00"))
		require.Error(t, err)

		reason, ok := shared.GuardrailReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, shared.GuardrailOverpayment, reason)
		assert.True(t, inv.PaidAmount.Equal(beforePaid))
		assert.True(t, inv.BalanceAmount.Equal(beforeBalance))
		assert.Equal(t, beforeVersion, inv.GetVersion())
	})

	t.Run("rejection is idempotent", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")

		for i := 0; i < 3; i++ {
			err := inv.ApplyPayment(money(t, "100.01"))
			require.Error(t, err)
			reason, ok := shared.GuardrailReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, shared.GuardrailOverpayment, reason)
		}
		assert.True(t, inv.PaidAmount.IsZero())
	})

	t.Run("payment on paid invoice is rejected with invoice-state guard", func(t *testing.T) {
		inv := createTestInvoice(t, "50.00")
		require.NoError(t, inv.ApplyPayment(money(t, "50.00")))

		err := inv.ApplyPayment(money(t, "1.00"))
		require.Error(t, err)
		reason, ok := shared.GuardrailReasonOf(err)
		require.True(t, ok)
		assert.Equal(t, shared.GuardrailInvoiceNotPayable, reason)
	})

	t.Run("payment on cancelled invoice is rejected", func(t *testing.T) {
		inv, err := NewInvoice("INV-002", uuid.New(), money(t, "50.00"), nil)
		require.NoError(t, err)
		require.NoError(t, inv.Cancel("customer withdrew order"))

		err = inv.ApplyPayment(money(t, "10.00"))
		require.Error(t, err)
		assert.True(t, shared.IsGuardrailViolation(err))
	})

	t.Run("zero or negative payment is a validation error", func(t *testing.T) {
		inv := createTestInvoice(t, "50.00")

		err := inv.ApplyPayment(money(t, "0"))
		assert.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))

		err = inv.ApplyPayment(money(t, "-10"))
		assert.Error(t, err)
	})

	t.Run("clamps sub-cent rounding slack to zero", func(t *testing.T) {
		inv := createTestInvoice(t, "10.00")
		// 3 + 3 + 4 covers the total exactly; slack cannot appear here, but
		// a payment equal to the displayed balance after rounding must land
		// on a zero stored balance, not a negative one.
		require.NoError(t, inv.ApplyPayment(money(t, "3.335")))
		require.NoError(t, inv.ApplyPayment(money(t, "3.335")))
		balance := inv.BalanceAmount
		require.NoError(t, inv.ApplyPayment(valueobject.NewMoneyUSD(balance)))

		assert.True(t, inv.BalanceAmount.GreaterThanOrEqual(decimal.Zero))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}

// ============================================
// Cancel
// ============================================

func TestInvoice_Cancel(t *testing.T) {
	t.Run("cancels unpaid invoice", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")
		err := inv.Cancel("duplicate")
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.NotNil(t, inv.CancelledAt)
	})

	t.Run("rejects cancel with payments", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")
		require.NoError(t, inv.ApplyPayment(money(t, "10.00")))

		err := inv.Cancel("duplicate")
		assert.Error(t, err)
	})

	t.Run("rejects cancel without reason", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")
		err := inv.Cancel("")
		assert.Error(t, err)
	})

	t.Run("rejects cancel in terminal state", func(t *testing.T) {
		inv := createTestInvoice(t, "100.00")
		require.NoError(t, inv.Cancel("duplicate"))
		err := inv.Cancel("again")
		assert.Error(t, err)
	})
}
