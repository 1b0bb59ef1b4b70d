package vpnconfigs

import (
	"time"

	"vpnstore-bot/internal/stories/products"
)

type Config struct {
	ID          int64
	UserID      int64
	Name        string
	ConfigType  products.ConfigType
	ConfigData  string // ссылка подключения целиком
	CreatedAt   time.Time
	ValidUntil  time.Time
	IsActive    bool
	XUIClientID string
}

// Expired сообщает, истёк ли срок действия на момент now.
func (c *Config) Expired(now time.Time) bool {
	return c.ValidUntil.Before(now)
}

type GetCriteria struct {
	ID *int64
}

type ListCriteria struct {
	UserID *int64
	// IsActive сужает выборку по флагу активности.
	IsActive *bool
	// ExpiredBefore выбирает конфигурации с valid_until раньше метки.
	ExpiredBefore *time.Time
}

type CreateParams struct {
	UserID      int64
	Name        string
	ConfigType  products.ConfigType
	ConfigData  string
	ValidUntil  time.Time
	XUIClientID string
}
