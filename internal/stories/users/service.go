package users

import (
	"context"

	"github.com/samber/lo"
)

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// GetOrCreateByTelegramID регистрирует пользователя при первом контакте.
// Повторный /start с тем же telegram_id новой записи не создаёт.
func (s *Service) GetOrCreateByTelegramID(ctx context.Context, telegramID, username, firstName, lastName string) (*User, error) {
	user, err := s.storage.GetUser(ctx, GetCriteria{TelegramID: &telegramID})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	params := CreateParams{
		TelegramID: &telegramID,
		Username:   username,
		FirstName:  firstName,
	}
	if username == "" {
		// У пользователя может не быть username — подставляем telegram_id,
		// как делает исходная регистрация.
		params.Username = telegramID
	}
	if lastName != "" {
		params.LastName = &lastName
	}

	return s.storage.CreateUser(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.storage.GetUser(ctx, GetCriteria{ID: lo.ToPtr(id)})
}

func (s *Service) GetByTelegramID(ctx context.Context, telegramID string) (*User, error) {
	return s.storage.GetUser(ctx, GetCriteria{TelegramID: &telegramID})
}

func (s *Service) List(ctx context.Context, criteria ListCriteria) ([]*User, error) {
	return s.storage.ListUsers(ctx, criteria)
}

func (s *Service) SetBlocked(ctx context.Context, id int64, blocked bool) (*User, error) {
	return s.storage.SetUserBlocked(ctx, id, blocked)
}
