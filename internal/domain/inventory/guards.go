package inventory

import (
	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// Stock guardrails. Pure predicates evaluated against stock state read
// inside the active transaction, before any write in the same unit of work.

// CheckTransferSufficiency rejects an outbound transfer quantity that
// exceeds the stock at the source location. Transfers never create stock,
// so there is no correction escape hatch.
func CheckTransferSufficiency(source *StockLevel, quantity valueobject.Quantity) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if !source.CanFulfill(quantity) {
		return shared.NewGuardrailError(
			shared.GuardrailInsufficientStock,
			"transfer of %s exceeds stock %s at location %s",
			quantity.String(), source.Quantity.String(), source.LocationID,
		)
	}
	return nil
}

// CheckAdjustment rejects a negative adjustment that would take the location
// below zero, unless the caller explicitly flags the adjustment as a
// correction of a known miscount.
func CheckAdjustment(level *StockLevel, delta valueobject.Quantity, isCorrection bool) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if isCorrection {
		return nil
	}
	if level.GetQuantityValue().Add(delta).IsNegative() {
		return shared.NewGuardrailError(
			shared.GuardrailNegativeStock,
			"adjustment of %s would take stock %s at location %s below zero",
			delta.String(), level.Quantity.String(), level.LocationID,
		)
	}
	return nil
}
