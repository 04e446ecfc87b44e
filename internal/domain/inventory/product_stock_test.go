package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexerp/backend/internal/domain/shared"
)

func TestProductStock_Apply(t *testing.T) {
	t.Run("accumulates signed deltas", func(t *testing.T) {
		stock, err := NewProductStock(uuid.New())
		require.NoError(t, err)

		require.NoError(t, stock.Apply(qty("100")))
		require.NoError(t, stock.Apply(qty("-40")))

		assert.True(t, stock.GetQuantityValue().Equals(qty("60")))
	})

	t.Run("negative total is an invalid state, not a guardrail", func(t *testing.T) {
		stock, err := NewProductStock(uuid.New())
		require.NoError(t, err)
		require.NoError(t, stock.Apply(qty("5")))

		err = stock.Apply(qty("-6"))
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))
		assert.False(t, shared.IsGuardrailViolation(err))
		assert.True(t, stock.GetQuantityValue().Equals(qty("5")))
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewProductStock(uuid.Nil)
		assert.Error(t, err)
	})
}
