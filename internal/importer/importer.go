package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"storefront-backend/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// JSONImporter reads a catalog export (a JSON array of products) and
// inserts/updates each entry by key.
type JSONImporter struct {
	decoder     *json.Decoder
	productRepo ProductWriter
}

func NewJSONImporter(r io.Reader, repo ProductWriter) *JSONImporter {
	return &JSONImporter{
		decoder:     json.NewDecoder(r),
		productRepo: repo,
	}
}

type catalogEntry struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}

// Run streams the array entry by entry so large exports never load
// fully into memory.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	tok, err := i.decoder.Token()
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return 0, fmt.Errorf("read catalog: expected a JSON array, got %v", tok)
	}

	imported := 0
	for i.decoder.More() {
		var entry catalogEntry
		if err := i.decoder.Decode(&entry); err != nil {
			return imported, fmt.Errorf("decode entry %d: %w", imported, err)
		}
		if err := i.save(ctx, entry); err != nil {
			return imported, err
		}
		imported++
	}

	if _, err := i.decoder.Token(); err != nil {
		return imported, fmt.Errorf("read catalog: %w", err)
	}
	return imported, nil
}

func (i *JSONImporter) save(ctx context.Context, entry catalogEntry) error {
	if entry.Key == "" || entry.Name == "" || entry.Price <= 0 {
		return fmt.Errorf("invalid product entry (missing required fields) for key %q", entry.Key)
	}
	if entry.ID != "" && len(entry.ID) != 36 {
		return fmt.Errorf("invalid id for key %q: %s", entry.Key, entry.ID)
	}
	currency := strings.ToUpper(strings.TrimSpace(entry.Currency))
	if currency == "" {
		currency = "USD"
	}

	p := domain.Product{
		ID:          entry.ID,
		Key:         entry.Key,
		SKU:         entry.SKU,
		Name:        entry.Name,
		Description: entry.Description,
		Price:       entry.Price,
		Currency:    currency,
		Category:    entry.Category,
		Stock:       entry.Stock,
		Images:      entry.Images,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", entry.Key, err)
	}
	return nil
}
