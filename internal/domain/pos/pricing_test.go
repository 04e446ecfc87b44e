package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

func money(t *testing.T, s string) valueobject.Money {
	m, err := valueobject.NewMoneyUSDFromString(s)
	require.NoError(t, err)
	return m
}

func TestCheckPriceDeviation(t *testing.T) {
	threshold := DefaultPriceDeviationPercent

	tests := []struct {
		name      string
		catalog   string
		requested string
		role      shared.Role
		wantErr   bool
	}{
		{"exact catalog price passes", "100", "100", shared.RoleCashier, false},
		{"20 percent below passes at the boundary", "100", "80", shared.RoleCashier, false},
		{"20 percent above passes at the boundary", "100", "120", shared.RoleCashier, false},
		{"25 percent below rejected for cashier", "100", "75", shared.RoleCashier, true},
		{"25 percent below allowed for manager", "100", "75", shared.RoleManager, false},
		{"25 percent below allowed for admin", "100", "75", shared.RoleAdmin, false},
		{"25 percent above rejected for clerk", "100", "125", shared.RoleClerk, true},
		{"free item rejected for cashier", "100", "0", shared.RoleCashier, true},
		{"free item allowed for manager", "100", "0", shared.RoleManager, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPriceDeviation(money(t, tt.catalog), money(t, tt.requested), tt.role, threshold)
			if tt.wantErr {
				require.Error(t, err)
				reason, ok := shared.GuardrailReasonOf(err)
				require.True(t, ok)
				assert.Equal(t, shared.GuardrailPriceDeviation, reason)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("non-positive catalog price is a validation error", func(t *testing.T) {
		err := CheckPriceDeviation(money(t, "0"), money(t, "10"), shared.RoleAdmin, threshold)
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))
	})

	t.Run("negative requested price is a validation error", func(t *testing.T) {
		err := CheckPriceDeviation(money(t, "100"), money(t, "-1"), shared.RoleAdmin, threshold)
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))
	})
}

func TestCheckDiscountCap(t *testing.T) {
	cap := DefaultDiscountCapPercent

	tests := []struct {
		name    string
		percent string
		wantErr bool
	}{
		{"zero discount passes", "0", false},
		{"below cap passes", "10", false},
		{"at cap passes", "15", false},
		{"above cap rejected", "15.01", true},
		{"far above cap rejected", "50", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDiscountCap(decimal.RequireFromString(tt.percent), cap)
			if tt.wantErr {
				require.Error(t, err)
				reason, ok := shared.GuardrailReasonOf(err)
				require.True(t, ok)
				assert.Equal(t, shared.GuardrailDiscountCap, reason)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("cap binds every role the same way", func(t *testing.T) {
		// The cap has no role-based waiver; an admin hits it too.
		err := CheckDiscountCap(decimal.RequireFromString("20"), cap)
		assert.Error(t, err)
	})

	t.Run("negative discount is a validation error", func(t *testing.T) {
		err := CheckDiscountCap(decimal.RequireFromString("-5"), cap)
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))
	})
}

func TestPriceOrderLine(t *testing.T) {
	threshold := DefaultPriceDeviationPercent

	t.Run("within threshold stores price without override", func(t *testing.T) {
		priced, err := PriceOrderLine(money(t, "100"), money(t, "90"), shared.RoleCashier, threshold)
		require.NoError(t, err)
		assert.False(t, priced.OverrideApplied)
		assert.True(t, priced.UnitPrice.Amount().Equal(decimal.RequireFromString("90")))
	})

	t.Run("beyond threshold marks override for authorized role", func(t *testing.T) {
		priced, err := PriceOrderLine(money(t, "100"), money(t, "70"), shared.RoleManager, threshold)
		require.NoError(t, err)
		assert.True(t, priced.OverrideApplied)
		assert.True(t, priced.UnitPrice.Amount().Equal(decimal.RequireFromString("70")))
	})

	t.Run("beyond threshold rejected for unauthorized role", func(t *testing.T) {
		_, err := PriceOrderLine(money(t, "100"), money(t, "70"), shared.RoleCashier, threshold)
		require.Error(t, err)
		assert.True(t, shared.IsGuardrailViolation(err))
	})

	t.Run("stored price is rounded to the cent", func(t *testing.T) {
		priced, err := PriceOrderLine(money(t, "100"), money(t, "99.995"), shared.RoleCashier, threshold)
		require.NoError(t, err)
		assert.True(t, priced.UnitPrice.Amount().Equal(decimal.RequireFromString("100")))
	})
}
