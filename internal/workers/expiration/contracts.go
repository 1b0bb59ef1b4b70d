package expiration

import (
	"context"

	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/stories/vpnconfigs"
)

type configService interface {
	ListExpired(ctx context.Context) ([]*vpnconfigs.Config, error)
	Deactivate(ctx context.Context, id int64) (*vpnconfigs.Config, error)
}

type userService interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

type sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

type localizer interface {
	Get(lang, key string, params map[string]interface{}) string
}
