package order

import (
	"context"

	"storefront-backend/internal/domain"
)

type Repository interface {
	// Create inserts the order. Inserting an order whose checkout
	// session id is already recorded returns domain.ErrAlreadyExists;
	// callers treating redelivery as success should ignore it.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
}
