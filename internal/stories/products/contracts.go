package products

import "context"

type Storage interface {
	GetProduct(ctx context.Context, criteria GetCriteria) (*Product, error)
	ListProducts(ctx context.Context, criteria ListCriteria) ([]*Product, error)
}
