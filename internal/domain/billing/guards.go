package billing

import (
	"github.com/nexerp/backend/internal/domain/shared"
	"github.com/nexerp/backend/internal/domain/shared/valueobject"
)

// Payment guardrails. Each is a pure predicate evaluated against invoice
// state read inside the active transaction, before any write in the same
// unit of work. The first violation aborts the whole unit.

// CheckInvoicePayable rejects payment application on invoices in a terminal
// or pre-issue state.
func CheckInvoicePayable(inv *Invoice) error {
	if inv.Status.CanApplyPayment() {
		return nil
	}
	return shared.NewGuardrailError(
		shared.GuardrailInvoiceNotPayable,
		"invoice %s in status %s cannot accept payments", inv.InvoiceNumber, inv.Status,
	)
}

// CheckOverpayment rejects a payment whose amount exceeds the current
// outstanding balance. The cent-level clamp on the stored balance handles
// rounding slack; this guard handles genuine overpayment. The two are kept
// separate on purpose.
func CheckOverpayment(inv *Invoice, amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(inv.BalanceAmount) {
		return shared.NewGuardrailError(
			shared.GuardrailOverpayment,
			"payment amount %s exceeds outstanding balance %s on invoice %s",
			amount.Amount().StringFixed(2), inv.BalanceAmount.StringFixed(2), inv.InvoiceNumber,
		)
	}
	return nil
}
