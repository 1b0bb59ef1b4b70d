package users

import "context"

type Storage interface {
	CreateUser(ctx context.Context, params CreateParams) (*User, error)
	GetUser(ctx context.Context, criteria GetCriteria) (*User, error)
	ListUsers(ctx context.Context, criteria ListCriteria) ([]*User, error)
	SetUserBlocked(ctx context.Context, id int64, blocked bool) (*User, error)
}
