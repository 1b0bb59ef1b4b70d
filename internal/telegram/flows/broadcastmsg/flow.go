package broadcastmsg

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/broadcast"
	"vpnstore-bot/internal/telegram/messages"
	"vpnstore-bot/internal/telegram/states"
)

const lang = "ru"

type Handler struct {
	bot              botApi
	stateManager     stateManager
	broadcastService broadcastService
	l10n             localizer
	logger           *slog.Logger
}

func NewHandler(bot botApi, sm stateManager, bs broadcastService, l10n localizer, logger *slog.Logger) *Handler {
	return &Handler{
		bot:              bot,
		stateManager:     sm,
		broadcastService: bs,
		l10n:             l10n,
		logger:           logger,
	}
}

// Start запрашивает текст рассылки.
func (h *Handler) Start(chatID int64) error {
	h.stateManager.SetState(chatID, states.AdminBroadcastWaitMessage, nil)
	return h.sendText(chatID, h.l10n.Get(lang, "broadcast.prompt", nil))
}

// Handle обрабатывает текущее состояние
func (h *Handler) Handle(update *tgbotapi.Update, state states.State) error {
	switch state {
	case states.AdminBroadcastWaitMessage:
		return h.handleMessage(update)
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

// handleMessage запускает рассылку, редактируя одно сообщение прогресса
// по ходу доставки.
func (h *Handler) handleMessage(update *tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if text == "" {
		return h.sendText(chatID, messages.FlowUseButtons)
	}

	h.stateManager.Clear(chatID)

	progressMsg, err := h.bot.Send(tgbotapi.NewMessage(chatID, h.l10n.Get(lang, "broadcast.progress", map[string]interface{}{
		"sent":   0,
		"failed": 0,
		"total":  "?",
	})))
	if err != nil {
		return err
	}

	report, err := h.broadcastService.Broadcast(context.Background(), text, func(r broadcast.Report) {
		edit := tgbotapi.NewEditMessageText(chatID, progressMsg.MessageID, h.l10n.Get(lang, "broadcast.progress", map[string]interface{}{
			"sent":   r.Sent,
			"failed": r.Failed,
			"total":  r.Total,
		}))
		if _, err := h.bot.Send(edit); err != nil {
			h.logger.Warn("broadcast progress edit failed", "error", err)
		}
	})
	if err != nil {
		h.logger.Error("broadcast failed", "error", err)
		return h.sendText(chatID, messages.Error)
	}

	final := tgbotapi.NewEditMessageText(chatID, progressMsg.MessageID, h.l10n.Get(lang, "broadcast.done", map[string]interface{}{
		"sent":   report.Sent,
		"failed": report.Failed,
		"total":  report.Total,
	}))
	_, err = h.bot.Send(final)
	return err
}

func (h *Handler) sendText(chatID int64, text string) error {
	_, err := h.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}
