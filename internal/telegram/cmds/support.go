package cmds

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/settings"
)

type SupportCommand struct {
	bot      botApi
	settings SupportSettingsService
}

type SupportSettingsService interface {
	Value(ctx context.Context, key string) (string, error)
}

func NewSupportCommand(bot botApi, settings SupportSettingsService) *SupportCommand {
	return &SupportCommand{bot: bot, settings: settings}
}

func (c *SupportCommand) Execute(ctx context.Context, chatID int64) error {
	contact, err := c.settings.Value(ctx, settings.KeySupportContact)
	if err != nil {
		return fmt.Errorf("get support contact: %w", err)
	}

	_, err = c.bot.Send(tgbotapi.NewMessage(chatID, "Поддержка: "+contact))
	return err
}
