package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/products"
)

const productsTable = "products"

var productRowFields = fields(productRow{})

type productRow struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Description  sql.NullString `db:"description"`
	Price        int64          `db:"price"`
	ConfigType   string         `db:"config_type"`
	DurationDays int            `db:"duration_days"`
	IsActive     bool           `db:"is_active"`
}

func (p productRow) ToModel() *products.Product {
	product := &products.Product{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		ConfigType:   products.ConfigType(p.ConfigType),
		DurationDays: p.DurationDays,
		IsActive:     p.IsActive,
	}
	if p.Description.Valid {
		product.Description = &p.Description.String
	}
	return product
}

func (s *storageImpl) GetProduct(ctx context.Context, criteria products.GetCriteria) (*products.Product, error) {
	query := s.stmpBuilder().
		Select(productRowFields).
		From(productsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var p productRow
	err = row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ConfigType, &p.DurationDays, &p.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return p.ToModel(), nil
}

func (s *storageImpl) ListProducts(ctx context.Context, criteria products.ListCriteria) ([]*products.Product, error) {
	query := s.stmpBuilder().
		Select(productRowFields).
		From(productsTable).
		OrderBy("id ASC")

	if criteria.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *criteria.IsActive})
	}
	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.QueryContext: %w", err)
	}
	defer rows.Close()

	var result []*products.Product
	for rows.Next() {
		var p productRow
		err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ConfigType, &p.DurationDays, &p.IsActive)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result = append(result, p.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}
