package valueobject

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity is a value object representing stock quantities and deltas.
// Deltas are signed: positive means inbound, negative means outbound.
// It is immutable - all operations return new Quantity instances.
type Quantity struct {
	value decimal.Decimal
}

// NewQuantity creates a new Quantity from a decimal value
func NewQuantity(value decimal.Decimal) Quantity {
	return Quantity{value: value}
}

// NewQuantityFromInt creates Quantity from an int64 value
func NewQuantityFromInt(value int64) Quantity {
	return Quantity{value: decimal.NewFromInt(value)}
}

// NewQuantityFromString creates Quantity from a string representation
func NewQuantityFromString(value string) (Quantity, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity string: %w", err)
	}
	return Quantity{value: d}, nil
}

// ZeroQuantity returns a zero quantity
func ZeroQuantity() Quantity {
	return Quantity{value: decimal.Zero}
}

// Value returns the decimal value
func (q Quantity) Decimal() decimal.Decimal {
	return q.value
}

// IsZero returns true if the quantity is zero
func (q Quantity) IsZero() bool {
	return q.value.IsZero()
}

// IsPositive returns true if the quantity is positive
func (q Quantity) IsPositive() bool {
	return q.value.IsPositive()
}

// IsNegative returns true if the quantity is negative
func (q Quantity) IsNegative() bool {
	return q.value.IsNegative()
}

// Add returns a new Quantity with the sum
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value.Add(other.value)}
}

// Subtract returns a new Quantity with the difference
func (q Quantity) Subtract(other Quantity) Quantity {
	return Quantity{value: q.value.Sub(other.value)}
}

// Negate returns a new Quantity with the sign reversed
func (q Quantity) Negate() Quantity {
	return Quantity{value: q.value.Neg()}
}

// Abs returns a new Quantity with the absolute value
func (q Quantity) Abs() Quantity {
	return Quantity{value: q.value.Abs()}
}

// LessThan returns true if this Quantity is less than the other
func (q Quantity) LessThan(other Quantity) bool {
	return q.value.LessThan(other.value)
}

// GreaterThan returns true if this Quantity is greater than the other
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.value.GreaterThan(other.value)
}

// Equals returns true if both quantities are equal
func (q Quantity) Equals(other Quantity) bool {
	return q.value.Equal(other.value)
}

// String returns a string representation of the Quantity
func (q Quantity) String() string {
	return q.value.String()
}

// MarshalJSON implements json.Marshaler
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	q.value = d
	return nil
}

// Value implements driver.Valuer for database storage
func (q Quantity) Value() (driver.Value, error) {
	return q.value.String(), nil
}

// Scan implements sql.Scanner for database retrieval
func (q *Quantity) Scan(value any) error {
	if value == nil {
		q.value = decimal.Zero
		return nil
	}

	var strVal string
	switch v := value.(type) {
	case string:
		strVal = v
	case []byte:
		strVal = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Quantity", value)
	}

	d, err := decimal.NewFromString(strVal)
	if err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	q.value = d
	return nil
}
