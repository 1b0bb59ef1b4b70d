package telegram

import (
	"context"
	"log/slog"

	"vpnstore-bot/internal/stories/settings"
)

type adminIDsProvider interface {
	AdminIDs(ctx context.Context) (settings.AdminIDs, error)
}

// AdminChecker проверяет является ли пользователь админом. Список
// читается из настроек на каждый вызов: правка telegram_admin_ids
// действует сразу, без перезапуска.
type AdminChecker struct {
	settings adminIDsProvider
	logger   *slog.Logger
}

func NewAdminChecker(settings adminIDsProvider, logger *slog.Logger) *AdminChecker {
	return &AdminChecker{settings: settings, logger: logger}
}

// IsAdmin проверяет является ли пользователь с данным Telegram ID админом
func (a *AdminChecker) IsAdmin(telegramID int64) bool {
	ids, err := a.settings.AdminIDs(context.Background())
	if err != nil {
		a.logger.Warn("read admin ids failed", "error", err)
		return false
	}
	return ids.Contains(telegramID)
}
