package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

func TestCheckTransferSufficiency(t *testing.T) {
	tests := []struct {
		name     string
		stock    string
		quantity string
		wantErr  bool
	}{
		{"quantity below stock passes", "10", "5", false},
		{"quantity equal to stock passes", "10", "10", false},
		{"quantity above stock rejected", "10", "15", true},
		{"fractional excess rejected", "10", "10.0001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := createTestStockLevel(t, tt.stock)

			err := CheckTransferSufficiency(source, qty(tt.quantity))
			if tt.wantErr {
				require.Error(t, err)
				reason, ok := shared.GuardrailReasonOf(err)
				require.True(t, ok)
				assert.Equal(t, shared.GuardrailInsufficientStock, reason)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("non-positive quantity is a validation error", func(t *testing.T) {
		source := createTestStockLevel(t, "10")

		err := CheckTransferSufficiency(source, valueobject.ZeroQuantity())
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))

		err = CheckTransferSufficiency(source, qty("-5"))
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))
	})
}

func TestCheckAdjustment(t *testing.T) {
	tests := []struct {
		name         string
		stock        string
		delta        string
		isCorrection bool
		wantErr      bool
	}{
		{"inbound always passes", "0", "25", false, false},
		{"outbound within stock passes", "10", "-6", false, false},
		{"outbound to exactly zero passes", "10", "-10", false, false},
		{"outbound below zero rejected", "10", "-11", false, true},
		{"correction bypasses the guard", "10", "-11", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := createTestStockLevel(t, tt.stock)

			err := CheckAdjustment(level, qty(tt.delta), tt.isCorrection)
			if tt.wantErr {
				require.Error(t, err)
				reason, ok := shared.GuardrailReasonOf(err)
				require.True(t, ok)
				assert.Equal(t, shared.GuardrailNegativeStock, reason)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("zero delta is a validation error even as a correction", func(t *testing.T) {
		level := createTestStockLevel(t, "10")
		err := CheckAdjustment(level, valueobject.ZeroQuantity(), true)
		require.Error(t, err)
		assert.False(t, shared.IsGuardrailViolation(err))
	})
}
