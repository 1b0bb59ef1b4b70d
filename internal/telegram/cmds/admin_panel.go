package cmds

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/telegram/messages"
)

// Callback-кнопки админской панели.
const (
	CallbackSettingsOpen   = "ast_open"
	CallbackUsersOpen      = "ausr_open"
	CallbackBroadcastStart = "abc_start"
	CallbackStatsRefresh   = "stats_refresh"
)

type AdminPanelCommand struct {
	bot botApi
}

func NewAdminPanelCommand(bot botApi) *AdminPanelCommand {
	return &AdminPanelCommand{bot: bot}
}

func (c *AdminPanelCommand) Execute(chatID int64) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonSettings, CallbackSettingsOpen),
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonUsers, CallbackUsersOpen),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonBroadcast, CallbackBroadcastStart),
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonStats, CallbackStatsRefresh),
		),
	)

	msg := tgbotapi.NewMessage(chatID, "Панель администратора")
	msg.ReplyMarkup = keyboard
	_, err := c.bot.Send(msg)
	return err
}
