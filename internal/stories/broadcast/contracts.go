package broadcast

import (
	"context"

	"vpnstore-bot/internal/stories/users"
)

type UserLister interface {
	List(ctx context.Context, criteria users.ListCriteria) ([]*users.User, error)
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}
