package product

import (
	"context"
	"strings"

	"storefront-backend/internal/domain"
	productrepo "storefront-backend/internal/repository/product"
)

// Service exposes catalog reads. Writes happen only through the seed
// and importer commands.
type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category != "" {
		return s.repo.ListByCategory(ctx, category)
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}
