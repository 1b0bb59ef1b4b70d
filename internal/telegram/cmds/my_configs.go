package cmds

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/vpnconfigs"
)

type MyConfigsCommand struct {
	bot     botApi
	configs MyConfigsService
	l10n    localizer
}

type MyConfigsService interface {
	ListActiveByUser(ctx context.Context, userID int64) ([]*vpnconfigs.Config, error)
}

func NewMyConfigsCommand(bot botApi, configs MyConfigsService, l10n localizer) *MyConfigsCommand {
	return &MyConfigsCommand{bot: bot, configs: configs, l10n: l10n}
}

func (c *MyConfigsCommand) Execute(ctx context.Context, userID, chatID int64) error {
	configs, err := c.configs.ListActiveByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list configs: %w", err)
	}

	if len(configs) == 0 {
		_, err = c.bot.Send(tgbotapi.NewMessage(chatID, c.l10n.Get(lang, "configs.empty", nil)))
		return err
	}

	var b strings.Builder
	for i, config := range configs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c.l10n.Get(lang, "configs.item", map[string]interface{}{
			"name":        config.Name,
			"config_data": config.ConfigData,
			"valid_until": config.ValidUntil.Format("02.01.2006"),
		}))
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	_, err = c.bot.Send(msg)
	return err
}
