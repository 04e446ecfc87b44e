package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usd(t *testing.T, s string) Money {
	m, err := NewMoneyUSDFromString(s)
	require.NoError(t, err)
	return m
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money with currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(10), EUR)
		require.NoError(t, err)
		assert.Equal(t, EUR, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed amount string", func(t *testing.T) {
		_, err := NewMoneyUSDFromString("12.3.4")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add and subtract are exact", func(t *testing.T) {
		// 0.1 + 0.2 is the classic binary float trap; decimals stay exact.
		sum, err := usd(t, "0.1").Add(usd(t, "0.2"))
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.RequireFromString("0.3")))

		diff, err := sum.Subtract(usd(t, "0.3"))
		require.NoError(t, err)
		assert.True(t, diff.IsZero())
	})

	t.Run("currency mismatch is an error", func(t *testing.T) {
		eur, err := NewMoney(decimal.NewFromInt(10), EUR)
		require.NoError(t, err)

		_, err = usd(t, "10").Add(eur)
		assert.Error(t, err)
		_, err = usd(t, "10").Subtract(eur)
		assert.Error(t, err)
		_, err = usd(t, "10").LessThan(eur)
		assert.Error(t, err)
	})

	t.Run("multiply percent does not round", func(t *testing.T) {
		m := usd(t, "29.97").MultiplyPercent(decimal.NewFromInt(10))
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("2.997")))
	})
}

func TestMoney_RoundToMinorUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.004", "10.00"},
		{"10.005", "10.01"}, // half rounds up
		{"10.015", "10.02"},
		{"10.0049999", "10.00"},
		{"10", "10"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := usd(t, tt.in).RoundToMinorUnit()
			assert.True(t, got.Amount().Equal(decimal.RequireFromString(tt.want)),
				"round(%s) = %s, want %s", tt.in, got.Amount(), tt.want)
		})
	}
}

func TestMoney_ClampNonNegative(t *testing.T) {
	assert.True(t, usd(t, "-0.01").ClampNonNegative().IsZero())
	assert.True(t, usd(t, "0").ClampNonNegative().IsZero())
	assert.True(t, usd(t, "1.50").ClampNonNegative().Amount().Equal(decimal.RequireFromString("1.50")))
}

func TestMoney_JSON(t *testing.T) {
	t.Run("round trips amount and currency", func(t *testing.T) {
		data, err := json.Marshal(usd(t, "19.99"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"19.99","currency":"USD"}`, string(data))

		var m Money
		require.NoError(t, json.Unmarshal(data, &m))
		assert.True(t, m.Equals(usd(t, "19.99")))
	})

	t.Run("rejects malformed amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"oops","currency":"USD"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoney_SQL(t *testing.T) {
	t.Run("scans string and bytes", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.75"))
		assert.True(t, m.Amount().Equal(decimal.RequireFromString("42.75")))
		assert.Equal(t, DefaultCurrency, m.Currency())

		var m2 Money
		require.NoError(t, m2.Scan([]byte("0.01")))
		assert.True(t, m2.Amount().Equal(decimal.RequireFromString("0.01")))
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("value emits the amount", func(t *testing.T) {
		v, err := usd(t, "42.75").Value()
		require.NoError(t, err)
		assert.Equal(t, "42.75", v)
	})
}
