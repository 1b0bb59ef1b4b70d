package webapi

import (
	"context"

	"vpnstore-bot/internal/stories/broadcast"
	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/stats"
)

type botClient interface {
	Restart(ctx context.Context, token string) error
	CheckToken(token string) (string, error)
}

type orderService interface {
	Complete(ctx context.Context, orderID int64, autoIssue bool) (*orders.CompletionResult, error)
	Reject(ctx context.Context, orderID int64) (*orders.Order, error)
	GetByID(ctx context.Context, id int64) (*orders.Order, error)
}

type broadcastService interface {
	Broadcast(ctx context.Context, text string, progress broadcast.ProgressFunc) (broadcast.Report, error)
	Notify(ctx context.Context, userID int64, text string) error
}

type statsService interface {
	Collect(ctx context.Context) (*stats.Summary, error)
}

type settingsService interface {
	BotToken(ctx context.Context) (string, error)
	AutoActivate(ctx context.Context) bool
}
