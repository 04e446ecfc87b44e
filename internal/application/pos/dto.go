package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nexerp/backend/internal/domain/pos"
)

// OrderLineRequest represents one line of a sale. RequestedUnitPrice may
// deviate from CatalogPrice within the deviation threshold, or beyond it for
// override-authorized roles.
type OrderLineRequest struct {
	ProductID          uuid.UUID       `json:"product_id" binding:"required"`
	LocationID         uuid.UUID       `json:"location_id" binding:"required"`
	Quantity           decimal.Decimal `json:"quantity" binding:"required"`
	CatalogPrice       decimal.Decimal `json:"catalog_price" binding:"required"`
	RequestedUnitPrice decimal.Decimal `json:"requested_unit_price" binding:"required"`
}

// CreateOrderRequest represents a complete sale checkout
type CreateOrderRequest struct {
	OrderNumber     string             `json:"order_number" binding:"required,max=50"`
	CustomerID      *uuid.UUID         `json:"customer_id"`
	WarehouseID     uuid.UUID          `json:"warehouse_id" binding:"required"`
	Lines           []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	TaxPercent      decimal.Decimal    `json:"tax_percent"`
}

// OrderLineResponse represents a priced line in API responses
type OrderLineResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	CatalogPrice    decimal.Decimal `json:"catalog_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	OverrideApplied bool            `json:"override_applied"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      *uuid.UUID          `json:"customer_id,omitempty"`
	Status          string              `json:"status"`
	Lines           []OrderLineResponse `json:"lines"`
	SubtotalAmount  decimal.Decimal     `json:"subtotal_amount"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TaxPercent      decimal.Decimal     `json:"tax_percent"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *pos.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			CatalogPrice:    line.CatalogPrice,
			UnitPrice:       line.UnitPrice,
			OverrideApplied: line.OverrideApplied,
			LineTotal:       line.LineTotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          string(o.Status),
		Lines:           lines,
		SubtotalAmount:  o.SubtotalAmount,
		DiscountPercent: o.DiscountPercent,
		DiscountAmount:  o.DiscountAmount,
		TaxPercent:      o.TaxPercent,
		TaxAmount:       o.TaxAmount,
		TotalAmount:     o.TotalAmount,
		CreatedAt:       o.CreatedAt,
	}
}
