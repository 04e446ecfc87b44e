package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	require.NotNil(t, v)
}

func TestSetupValidatorDecimalFields(t *testing.T) {
	type payload struct {
		Amount decimal.Decimal `json:"amount" binding:"required"`
	}

	SetupValidator()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("nonzero amount passes", func(t *testing.T) {
		err := v.Struct(payload{Amount: decimal.NewFromInt(10)})
		assert.NoError(t, err)
	})

	t.Run("zero amount fails required", func(t *testing.T) {
		err := v.Struct(payload{Amount: decimal.Zero})
		assert.Error(t, err)
	})

	t.Run("field name uses json tag", func(t *testing.T) {
		err := v.Struct(payload{Amount: decimal.Zero})
		require.Error(t, err)
		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		require.Len(t, validationErrors, 1)
		assert.Equal(t, "amount", validationErrors[0].Field())
	})
}
