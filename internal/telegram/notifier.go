package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/stories/vpnconfigs"
)

type notifierBotApi interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type notifierUserService interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

type notifierConfigService interface {
	GetByID(ctx context.Context, id int64) (*vpnconfigs.Config, error)
}

type notifierSettingsService interface {
	Value(ctx context.Context, key string) (string, error)
}

type notifierLocalizer interface {
	Get(lang, key string, params map[string]interface{}) string
}

// Notifier доставляет покупателю итог проверки заказа. Отдельная
// реализация нужна, чтобы слой заказов не знал про telegram.
type Notifier struct {
	bot      notifierBotApi
	users    notifierUserService
	configs  notifierConfigService
	settings notifierSettingsService
	l10n     notifierLocalizer
	logger   *slog.Logger
}

func NewNotifier(
	bot notifierBotApi,
	usersService notifierUserService,
	configs notifierConfigService,
	settingsService notifierSettingsService,
	l10n notifierLocalizer,
	logger *slog.Logger,
) *Notifier {
	return &Notifier{
		bot:      bot,
		users:    usersService,
		configs:  configs,
		settings: settingsService,
		l10n:     l10n,
		logger:   logger,
	}
}

func (n *Notifier) NotifyOrderStatus(ctx context.Context, order *orders.Order, event orders.Event) error {
	user, err := n.users.GetByID(ctx, order.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.TelegramID == nil {
		// Пользователь создан через HTTP API и в telegram не заходил.
		n.logger.Info("skip order notification, user has no telegram id", "order_id", order.ID)
		return nil
	}

	chatID, err := strconv.ParseInt(*user.TelegramID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse telegram id %q: %w", *user.TelegramID, err)
	}

	text, err := n.buildText(ctx, order, event)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if event == orders.EventAdminConfirmed && order.ConfigID != nil {
		msg.ParseMode = "Markdown"
	}
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func (n *Notifier) buildText(ctx context.Context, order *orders.Order, event orders.Event) (string, error) {
	switch event {
	case orders.EventUserCancelled:
		return n.l10n.Get(lang, "orders.cancelled", map[string]interface{}{
			"order_id": order.ID,
		}), nil

	case orders.EventAdminRejected:
		support, err := n.settings.Value(ctx, settings.KeySupportContact)
		if err != nil {
			return "", fmt.Errorf("read support contact: %w", err)
		}
		return n.l10n.Get(lang, "orders.rejected", map[string]interface{}{
			"order_id": order.ID,
			"support":  support,
		}), nil

	case orders.EventAdminConfirmed:
		completedMessage, err := n.settings.Value(ctx, settings.KeyOrderCompleted)
		if err != nil {
			return "", fmt.Errorf("read completed message: %w", err)
		}

		if order.ConfigID == nil {
			return n.l10n.Get(lang, "orders.completed_no_config", map[string]interface{}{
				"completed_message": completedMessage,
			}), nil
		}

		config, err := n.configs.GetByID(ctx, *order.ConfigID)
		if err != nil {
			return "", fmt.Errorf("get config: %w", err)
		}
		return n.l10n.Get(lang, "orders.completed", map[string]interface{}{
			"completed_message": completedMessage,
			"config_name":       config.Name,
			"config_data":       config.ConfigData,
			"valid_until":       config.ValidUntil.Format("02.01.2006"),
		}), nil
	}

	return "", fmt.Errorf("no notification for event %q", event)
}
