package pos

import (
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// Pricing guardrail thresholds. Fixed policy values; configuration may lower
// but never raise them.
var (
	// DefaultPriceDeviationPercent is the maximum allowed deviation of a
	// line unit price from the catalog price, in percent
	DefaultPriceDeviationPercent = decimal.NewFromInt(20)
	// DefaultDiscountCapPercent is the maximum discount percentage on an order
	DefaultDiscountCapPercent = decimal.NewFromInt(15)
)

// LinePrice is the outcome of pricing one order line
type LinePrice struct {
	UnitPrice       valueobject.Money `json:"unit_price"`
	OverrideApplied bool              `json:"override_applied"`
}

// CheckPriceDeviation rejects a requested unit price whose deviation from
// the catalog price exceeds the threshold, unless the acting role is
// override-authorized. Deviation is |requested - catalog| / catalog * 100.
func CheckPriceDeviation(catalogPrice, requestedPrice valueobject.Money, role shared.Role, threshold decimal.Decimal) error {
	if !catalogPrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Catalog price must be positive")
	}
	if requestedPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Requested unit price cannot be negative")
	}

	deviation := requestedPrice.Amount().
		Sub(catalogPrice.Amount()).
		Abs().
		Div(catalogPrice.Amount()).
		Mul(decimal.NewFromInt(100))

	if deviation.LessThanOrEqual(threshold) {
		return nil
	}
	if role.CanOverridePrice() {
		return nil
	}
	return shared.NewGuardrailError(
		shared.GuardrailPriceDeviation,
		"unit price %s deviates %s%% from catalog price %s, above the %s%% threshold",
		requestedPrice.Amount().StringFixed(2),
		deviation.StringFixed(2),
		catalogPrice.Amount().StringFixed(2),
		threshold.String(),
	)
}

// CheckDiscountCap rejects a discount percentage above the cap. The cap is
// absolute: no role may exceed it.
func CheckDiscountCap(discountPercent, cap decimal.Decimal) error {
	if discountPercent.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage cannot be negative")
	}
	if discountPercent.GreaterThan(cap) {
		return shared.NewGuardrailError(
			shared.GuardrailDiscountCap,
			"discount %s%% exceeds the %s%% cap",
			discountPercent.String(), cap.String(),
		)
	}
	return nil
}

// PriceOrderLine validates a requested unit price against the catalog price
// and returns the price to store together with whether an authorized
// override was consumed. A pure function: it never touches persistent state.
func PriceOrderLine(catalogPrice, requestedPrice valueobject.Money, role shared.Role, threshold decimal.Decimal) (LinePrice, error) {
	if err := CheckPriceDeviation(catalogPrice, requestedPrice, role, threshold); err != nil {
		return LinePrice{}, err
	}

	deviation := requestedPrice.Amount().
		Sub(catalogPrice.Amount()).
		Abs().
		Div(catalogPrice.Amount()).
		Mul(decimal.NewFromInt(100))

	return LinePrice{
		UnitPrice:       requestedPrice.RoundToMinorUnit(),
		OverrideApplied: deviation.GreaterThan(threshold),
	}, nil
}
