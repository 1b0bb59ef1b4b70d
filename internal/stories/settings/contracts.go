package settings

import "context"

type Storage interface {
	GetSetting(ctx context.Context, key string) (*Setting, error)
	UpsertSetting(ctx context.Context, key, value string) (*Setting, error)
	ListSettings(ctx context.Context) ([]*Setting, error)
}
