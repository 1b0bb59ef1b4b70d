package cmds

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/stats"
	"vpnstore-bot/internal/telegram/messages"
)

type StatsCommand struct {
	bot   botApi
	stats StatsService
	l10n  localizer
}

type StatsService interface {
	Collect(ctx context.Context) (*stats.Summary, error)
}

func NewStatsCommand(bot botApi, statsService StatsService, l10n localizer) *StatsCommand {
	return &StatsCommand{bot: bot, stats: statsService, l10n: l10n}
}

func (c *StatsCommand) Execute(ctx context.Context, chatID int64) error {
	text, err := c.render(ctx)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = c.keyboard()
	_, err = c.bot.Send(msg)
	return err
}

// Refresh перерисовывает ранее отправленную сводку по кнопке «Обновить».
func (c *StatsCommand) Refresh(ctx context.Context, chatID int64, messageID int) error {
	text, err := c.render(ctx)
	if err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	keyboard := c.keyboard()
	edit.ReplyMarkup = &keyboard
	_, err = c.bot.Send(edit)
	return err
}

func (c *StatsCommand) render(ctx context.Context) (string, error) {
	summary, err := c.stats.Collect(ctx)
	if err != nil {
		return "", fmt.Errorf("collect stats: %w", err)
	}

	return c.l10n.Get(lang, "stats.summary", map[string]interface{}{
		"users":     summary.UsersCount,
		"pending":   summary.OrdersByStatus[orders.StatusPending],
		"awaiting":  summary.OrdersByStatus[orders.StatusAwaitingConfirmation],
		"completed": summary.OrdersByStatus[orders.StatusCompleted],
		"cancelled": summary.OrdersByStatus[orders.StatusCancelled],
		"revenue":   fmt.Sprintf("%.2f", float64(summary.Revenue)/100),
		"configs":   summary.ActiveConfigsCount,
		"orphaned":  summary.CompletedWithoutConfig,
	}), nil
}

func (c *StatsCommand) keyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonStatsRenew, CallbackStatsRefresh),
		),
	)
}
