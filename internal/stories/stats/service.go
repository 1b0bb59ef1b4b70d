// Package stats собирает сводку магазина для экрана /admin и HTTP API.
package stats

import (
	"context"

	"vpnstore-bot/internal/stories/orders"
)

type Summary struct {
	UsersCount     int
	OrdersByStatus map[orders.Status]int
	// Revenue — сумма выполненных заказов, в копейках.
	Revenue            int64
	ActiveConfigsCount int
	// CompletedWithoutConfig — выполненные заказы, у которых выпуск
	// конфигурации не удался; требуют ручного вмешательства.
	CompletedWithoutConfig int
}

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Collect(ctx context.Context) (*Summary, error) {
	usersCount, err := s.storage.GetUsersCount(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.storage.GetOrdersCountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.storage.GetRevenue(ctx)
	if err != nil {
		return nil, err
	}
	activeConfigs, err := s.storage.GetActiveConfigsCount(ctx)
	if err != nil {
		return nil, err
	}
	orphaned, err := s.storage.GetCompletedWithoutConfigCount(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		UsersCount:             usersCount,
		OrdersByStatus:         byStatus,
		Revenue:                revenue,
		ActiveConfigsCount:     activeConfigs,
		CompletedWithoutConfig: orphaned,
	}, nil
}
