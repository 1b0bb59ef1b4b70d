package storage

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/orders"
)

func (s *storageImpl) GetUsersCount(ctx context.Context) (int, error) {
	q, args, err := s.stmpBuilder().
		Select("COUNT(*)").
		From(usersTable).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var count int
	err = s.db.GetContext(ctx, &count, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return count, nil
}

func (s *storageImpl) GetOrdersCountByStatus(ctx context.Context) (map[orders.Status]int, error) {
	q, args, err := s.stmpBuilder().
		Select("status", "COUNT(*)").
		From(ordersTable).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.QueryContext: %w", err)
	}
	defer rows.Close()

	result := make(map[orders.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result[orders.Status(status)] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}

// GetRevenue — сумма по выполненным заказам, в копейках.
func (s *storageImpl) GetRevenue(ctx context.Context) (int64, error) {
	q, args, err := s.stmpBuilder().
		Select("COALESCE(SUM(amount), 0)").
		From(ordersTable).
		Where(sq.Eq{"status": string(orders.StatusCompleted)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var revenue int64
	err = s.db.GetContext(ctx, &revenue, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return revenue, nil
}

func (s *storageImpl) GetActiveConfigsCount(ctx context.Context) (int, error) {
	q, args, err := s.stmpBuilder().
		Select("COUNT(*)").
		From(vpnConfigsTable).
		Where(sq.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var count int
	err = s.db.GetContext(ctx, &count, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return count, nil
}

// GetCompletedWithoutConfigCount считает выполненные заказы без привязанной
// конфигурации: так всплывают упавшие выпуски.
func (s *storageImpl) GetCompletedWithoutConfigCount(ctx context.Context) (int, error) {
	q, args, err := s.stmpBuilder().
		Select("COUNT(*)").
		From(ordersTable).
		Where(sq.Eq{"status": string(orders.StatusCompleted)}).
		Where("config_id IS NULL").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	var count int
	err = s.db.GetContext(ctx, &count, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.GetContext: %w", err)
	}

	return count, nil
}
