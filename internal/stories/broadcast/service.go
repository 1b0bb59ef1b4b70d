// Package broadcast рассылает сообщение всем пользователям магазина.
// Отправка последовательная: лимит скорости держит клиент телеграма.
package broadcast

import (
	"context"
	"log/slog"
	"strconv"

	"vpnstore-bot/internal/stories/users"
)

// progressStep — каждые сколько получателей сообщать прогресс.
const progressStep = 5

// Report — итог рассылки; Sent+Failed всегда равно Total.
type Report struct {
	Total  int
	Sent   int
	Failed int
}

// ProgressFunc вызывается по ходу рассылки: после каждых progressStep
// получателей и после последнего.
type ProgressFunc func(report Report)

type Service struct {
	users  UserLister
	sender Sender
	logger *slog.Logger
}

func NewService(users UserLister, sender Sender, logger *slog.Logger) *Service {
	return &Service{users: users, sender: sender, logger: logger}
}

// Broadcast шлёт text каждому пользователю по очереди. Заблокированные
// пользователи и записи без telegram id считаются неудачной доставкой,
// как и ошибка отправки; рассылка при этом продолжается.
func (s *Service) Broadcast(ctx context.Context, text string, progress ProgressFunc) (Report, error) {
	recipients, err := s.users.List(ctx, users.ListCriteria{})
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(recipients)}
	for i, user := range recipients {
		if err := s.deliver(ctx, user, text); err != nil {
			report.Failed++
			s.logger.Warn("broadcast delivery failed", "user_id", user.ID, "error", err)
		} else {
			report.Sent++
		}

		if progress != nil && ((i+1)%progressStep == 0 || i == len(recipients)-1) {
			progress(report)
		}
	}

	return report, nil
}

// Notify — вариант рассылки на одного получателя, без прогресса.
// Политика доставки та же: блокировка и отсутствие telegram id —
// ошибка, а не тихий пропуск.
func (s *Service) Notify(ctx context.Context, userID int64, text string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errUnknownUser
	}
	return s.deliver(ctx, user, text)
}

func (s *Service) deliver(ctx context.Context, user *users.User, text string) error {
	if user.IsBlocked {
		return errBlockedUser
	}
	if user.TelegramID == nil {
		return errNoTelegramID
	}
	chatID, err := strconv.ParseInt(*user.TelegramID, 10, 64)
	if err != nil {
		return err
	}
	return s.sender.SendText(ctx, chatID, text)
}

type broadcastErr string

func (e broadcastErr) Error() string { return string(e) }

const (
	errBlockedUser  broadcastErr = "user is blocked"
	errNoTelegramID broadcastErr = "user has no telegram id"
	errUnknownUser  broadcastErr = "user not found"
)
