package vpnconfigs

import (
	"context"

	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/users"
)

type Storage interface {
	CreateConfig(ctx context.Context, params CreateParams) (*Config, error)
	GetConfig(ctx context.Context, criteria GetCriteria) (*Config, error)
	ListConfigs(ctx context.Context, criteria ListCriteria) ([]*Config, error)
	SetConfigActive(ctx context.Context, id int64, active bool) (*Config, error)
}

type ProductProvider interface {
	GetByID(ctx context.Context, id int64) (*products.Product, error)
}

type UserProvider interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// SettingsProvider отдаёт адрес сервера, который подставляется в ссылки
// подключения.
type SettingsProvider interface {
	VPNServerAddress(ctx context.Context) string
}
