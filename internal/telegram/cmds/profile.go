package cmds

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/stories/vpnconfigs"
)

type ProfileCommand struct {
	bot     botApi
	orders  ProfileOrdersService
	configs ProfileConfigsService
	l10n    localizer
}

type ProfileOrdersService interface {
	ListByUser(ctx context.Context, userID int64) ([]*orders.Order, error)
}

type ProfileConfigsService interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]*vpnconfigs.Config, error)
}

func NewProfileCommand(bot botApi, orders ProfileOrdersService, configs ProfileConfigsService, l10n localizer) *ProfileCommand {
	return &ProfileCommand{bot: bot, orders: orders, configs: configs, l10n: l10n}
}

func (c *ProfileCommand) Execute(ctx context.Context, user *users.User, chatID int64) error {
	userOrders, err := c.orders.ListByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}
	configs, err := c.configs.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("list configs: %w", err)
	}

	text := c.l10n.Get(lang, "profile.info", map[string]interface{}{
		"name":       user.FullName(),
		"username":   user.Username,
		"registered": user.RegistrationDate.Format("02.01.2006"),
		"orders":     len(userOrders),
		"configs":    len(configs),
	})

	_, err = c.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
