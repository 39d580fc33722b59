package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Key         string
	SKU         string
	Name        string
	Description string
	Price       float64
	Currency    string
	Category    string
	Stock       int
}

// Apply inserts basic catalog data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Key:         "classic-tee",
			SKU:         "SKU-TEE-CLASSIC",
			Name:        "Classic T-Shirt",
			Description: "Soft cotton tee",
			Price:       19.99,
			Currency:    "USD",
			Category:    "apparel",
			Stock:       120,
		},
		{
			Key:         "store-mug",
			SKU:         "SKU-MUG-LOGO",
			Name:        "Logo Mug",
			Description: "Ceramic mug with storefront logo",
			Price:       12.99,
			Currency:    "USD",
			Category:    "accessories",
			Stock:       80,
		},
		{
			Key:         "canvas-tote",
			SKU:         "SKU-TOTE-CANVAS",
			Name:        "Canvas Tote",
			Description: "Heavy-duty canvas tote bag",
			Price:       24.50,
			Currency:    "USD",
			Category:    "accessories",
			Stock:       45,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, sku, name, description, price, currency, category, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (key) DO UPDATE
SET sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    currency = EXCLUDED.currency,
    category = EXCLUDED.category,
    stock = EXCLUDED.stock
`
	_, err := pool.Exec(ctx, q, p.Key, p.SKU, p.Name, p.Description, p.Price, p.Currency, p.Category, p.Stock)
	if err != nil {
		return err
	}
	return nil
}
