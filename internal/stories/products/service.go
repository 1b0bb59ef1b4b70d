package products

import (
	"context"

	"github.com/samber/lo"
)

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Product, error) {
	return s.storage.GetProduct(ctx, GetCriteria{ID: lo.ToPtr(id)})
}

// ListActive возвращает активные тарифы в том порядке, в котором их
// видит пользователь: номер тарифа в карусели — это индекс в этом списке.
func (s *Service) ListActive(ctx context.Context) ([]*Product, error) {
	return s.storage.ListProducts(ctx, ListCriteria{IsActive: lo.ToPtr(true)})
}

func (s *Service) ListAll(ctx context.Context) ([]*Product, error) {
	return s.storage.ListProducts(ctx, ListCriteria{})
}
