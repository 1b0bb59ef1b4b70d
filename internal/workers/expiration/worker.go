package expiration

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/robfig/cron/v3"
)

const lang = "ru"

// Worker деактивирует конфигурации с истёкшим сроком и предупреждает
// владельцев.
type Worker struct {
	configs configService
	users   userService
	sender  sender
	l10n    localizer
	logger  *slog.Logger
	cron    *cron.Cron
}

func NewWorker(configs configService, users userService, sender sender, l10n localizer, logger *slog.Logger) *Worker {
	return &Worker{
		configs: configs,
		users:   users,
		sender:  sender,
		l10n:    l10n,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "expiration"
}

// Start starts the expiration worker
func (w *Worker) Start() error {
	// Runs daily at 00:10
	_, err := w.cron.AddFunc("10 0 * * *", func() {
		ctx := context.Background()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Expiration worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiration worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.cron.Stop()
}

func (w *Worker) run(ctx context.Context) error {
	expired, err := w.configs.ListExpired(ctx)
	if err != nil {
		return fmt.Errorf("list expired configs: %w", err)
	}

	w.logger.Info("Found expired configs", "count", len(expired))

	for _, config := range expired {
		if _, err := w.configs.Deactivate(ctx, config.ID); err != nil {
			w.logger.Error("Failed to deactivate config",
				"config_id", config.ID,
				"error", err)
			continue
		}

		w.logger.Info("Config deactivated",
			"config_id", config.ID,
			"user_id", config.UserID)

		w.notifyOwner(ctx, config.UserID, config.Name)
	}

	return nil
}

// notifyOwner предупреждает владельца об истечении. Ошибка доставки
// не мешает деактивации остальных конфигураций.
func (w *Worker) notifyOwner(ctx context.Context, userID int64, configName string) {
	user, err := w.users.GetByID(ctx, userID)
	if err != nil {
		w.logger.Warn("get config owner failed", "user_id", userID, "error", err)
		return
	}
	if user == nil || user.TelegramID == nil {
		return
	}

	chatID, err := strconv.ParseInt(*user.TelegramID, 10, 64)
	if err != nil {
		w.logger.Warn("parse telegram id failed", "user_id", userID, "error", err)
		return
	}

	text := w.l10n.Get(lang, "configs.expired", map[string]interface{}{"name": configName})
	if err := w.sender.SendText(ctx, chatID, text); err != nil {
		w.logger.Warn("notify config owner failed", "user_id", userID, "error", err)
	}
}
