package importer

import (
	"context"
	"strings"
	"testing"

	"storefront-backend/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestJSONImporter_Run(t *testing.T) {
	catalog := `[
		{
			"id": "00000000-0000-0000-0000-000000000001",
			"key": "prod-1",
			"sku": "SKU-1",
			"name": "Prod One",
			"description": "Desc one",
			"price": 19.99,
			"currency": "eur",
			"category": "pots",
			"stock": 5,
			"images": ["https://example.com/img1.jpg", "https://example.com/img2.jpg"]
		},
		{
			"key": "prod-2",
			"sku": "SKU-2",
			"name": "Prod Two",
			"price": 2.00
		}
	]`

	repo := &stubProductRepo{}
	imp := NewJSONImporter(strings.NewReader(catalog), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	first := repo.items[0]
	if first.Key != "prod-1" || first.SKU != "SKU-1" || first.Price != 19.99 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.Currency != "EUR" {
		t.Fatalf("expected currency normalized to EUR, got %s", first.Currency)
	}
	if first.ID != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("expected id to be preserved, got %s", first.ID)
	}
	if len(first.Images) != 2 {
		t.Fatalf("expected 2 images on first product, got %d", len(first.Images))
	}

	second := repo.items[1]
	if second.ID != "" || second.Currency != "USD" {
		t.Fatalf("expected generated id and USD default, got %+v", second)
	}
}

func TestJSONImporter_RejectsInvalidEntry(t *testing.T) {
	catalog := `[{"key": "prod-1", "name": "Prod One", "price": 0}]`

	imp := NewJSONImporter(strings.NewReader(catalog), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected an error for a zero-price entry")
	}
}

func TestJSONImporter_RejectsNonArray(t *testing.T) {
	imp := NewJSONImporter(strings.NewReader(`{"key":"prod-1"}`), &stubProductRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected an error for a non-array document")
	}
}

func TestJSONImporter_StopsOnBadID(t *testing.T) {
	catalog := `[{"id": "short", "key": "prod-1", "name": "Prod One", "price": 1.00}]`

	repo := &stubProductRepo{}
	imp := NewJSONImporter(strings.NewReader(catalog), repo)
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected an error for a malformed id")
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no upserts, got %d", len(repo.items))
	}
}
