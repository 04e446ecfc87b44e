package pos

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository is the persistence port for POS orders
type OrderRepository interface {
	// Create persists a new order with its lines
	Create(ctx context.Context, o *Order) error
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByNumber finds an order by its human-readable number
	FindByNumber(ctx context.Context, number string) (*Order, error)
	// Save updates an existing order
	Save(ctx context.Context, o *Order) error
}
