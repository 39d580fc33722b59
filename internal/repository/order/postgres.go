package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (
    id, user_id, customer_email, customer_name, amount_cents, currency, payment_status,
    delivery_method, shipping_address, personal_delivery_info, items, checkout_session_id
) VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id::text, created_at
`
	res := o
	err := r.pool.QueryRow(ctx, q,
		o.ID,
		o.UserID,
		nullIfEmpty(o.CustomerEmail),
		nullIfEmpty(o.CustomerName),
		o.AmountCents,
		o.Currency,
		o.PaymentStatus,
		string(o.DeliveryMethod),
		o.ShippingAddress,
		o.PersonalDeliveryInfo,
		o.Items,
		o.CheckoutSessionID,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("order repo: duplicate session_id=%s", o.CheckoutSessionID)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create session_id=%s error=%v", o.CheckoutSessionID, err)
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s session_id=%s amount_cents=%d", res.ID, res.CheckoutSessionID, res.AmountCents)
	return &res, nil
}

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	const q = `
SELECT id::text, user_id::text, COALESCE(customer_email, ''), COALESCE(customer_name, ''), amount_cents, currency,
       payment_status, delivery_method, shipping_address, personal_delivery_info, items, checkout_session_id, created_at
FROM orders
WHERE checkout_session_id = $1
LIMIT 1
`
	var o domain.Order
	var deliveryMethod string
	err := r.pool.QueryRow(ctx, q, sessionID).Scan(
		&o.ID,
		&o.UserID,
		&o.CustomerEmail,
		&o.CustomerName,
		&o.AmountCents,
		&o.Currency,
		&o.PaymentStatus,
		&deliveryMethod,
		&o.ShippingAddress,
		&o.PersonalDeliveryInfo,
		&o.Items,
		&o.CheckoutSessionID,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get session_id=%s error=%v", sessionID, err)
		return nil, err
	}
	o.DeliveryMethod = domain.DeliveryMethod(deliveryMethod)
	return &o, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
