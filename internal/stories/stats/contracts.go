package stats

import (
	"context"

	"vpnstore-bot/internal/stories/orders"
)

type Storage interface {
	GetUsersCount(ctx context.Context) (int, error)
	GetOrdersCountByStatus(ctx context.Context) (map[orders.Status]int, error)
	GetRevenue(ctx context.Context) (int64, error)
	GetActiveConfigsCount(ctx context.Context) (int, error)
	GetCompletedWithoutConfigCount(ctx context.Context) (int, error)
}
