package adminusers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/messages"
	"vpnstore-bot/internal/telegram/states"
)

const (
	CallbackPagePrefix    = "ausr_pg_"
	CallbackBlockPrefix   = "ausr_blk_"
	CallbackMessagePrefix = "ausr_msg_"
)

const (
	lang     = "ru"
	pageSize = 5
)

type Handler struct {
	bot          botApi
	stateManager stateManager
	userService  userService
	l10n         localizer
	logger       *slog.Logger
}

func NewHandler(bot botApi, sm stateManager, us userService, l10n localizer, logger *slog.Logger) *Handler {
	return &Handler{
		bot:          bot,
		stateManager: sm,
		userService:  us,
		l10n:         l10n,
		logger:       logger,
	}
}

// ShowUsers показывает страницу пользователей с кнопками блокировки и
// личного сообщения.
func (h *Handler) ShowUsers(ctx context.Context, chatID int64, offset int) error {
	// Запрашиваем на одного больше, чтобы знать, есть ли следующая
	// страница.
	page, err := h.userService.List(ctx, users.ListCriteria{Limit: pageSize + 1, Offset: offset})
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	hasNext := len(page) > pageSize
	if hasNext {
		page = page[:pageSize]
	}

	var b strings.Builder
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, user := range page {
		blocked := ""
		if user.IsBlocked {
			blocked = " [заблокирован]"
		}
		b.WriteString(h.l10n.Get(lang, "admin_users.item", map[string]interface{}{
			"id":       offset + i + 1,
			"name":     user.FullName(),
			"username": user.Username,
			"blocked":  blocked,
		}))
		b.WriteString("\n")

		blockLabel := messages.ButtonBlock
		if user.IsBlocked {
			blockLabel = messages.ButtonUnblock
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", blockLabel, user.DisplayName()),
				CallbackBlockPrefix+strconv.FormatInt(user.ID, 10),
			),
			tgbotapi.NewInlineKeyboardButtonData(
				messages.ButtonMessage,
				CallbackMessagePrefix+strconv.FormatInt(user.ID, 10),
			),
		))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if offset > 0 {
		prev := offset - pageSize
		if prev < 0 {
			prev = 0
		}
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(messages.ButtonPrevPage, CallbackPagePrefix+strconv.Itoa(prev)))
	}
	if hasNext {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData(messages.ButtonNextPage, CallbackPagePrefix+strconv.Itoa(offset+pageSize)))
	}
	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}

	if b.Len() == 0 {
		b.WriteString("Пользователей пока нет.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	_, err = h.bot.Send(msg)
	return err
}

// HandleCallback обрабатывает кнопки списка пользователей.
func (h *Handler) HandleCallback(update *tgbotapi.Update) error {
	ctx := context.Background()
	data := update.CallbackQuery.Data
	chatID := update.CallbackQuery.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, CallbackPagePrefix):
		offset, err := strconv.Atoi(strings.TrimPrefix(data, CallbackPagePrefix))
		if err != nil {
			return h.answer(update, messages.Error)
		}
		if err := h.answer(update, ""); err != nil {
			return err
		}
		return h.ShowUsers(ctx, chatID, offset)

	case strings.HasPrefix(data, CallbackBlockPrefix):
		userID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackBlockPrefix), 10, 64)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		return h.toggleBlocked(ctx, update, userID)

	case strings.HasPrefix(data, CallbackMessagePrefix):
		userID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackMessagePrefix), 10, 64)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		return h.startMessage(ctx, update, chatID, userID)
	}

	return nil
}

func (h *Handler) toggleBlocked(ctx context.Context, update *tgbotapi.Update, userID int64) error {
	user, err := h.userService.GetByID(ctx, userID)
	if err != nil || user == nil {
		return h.answer(update, messages.Error)
	}

	updated, err := h.userService.SetBlocked(ctx, userID, !user.IsBlocked)
	if err != nil {
		h.logger.Error("toggle block failed", "user_id", userID, "error", err)
		return h.answer(update, messages.Error)
	}

	ack := "Разблокирован"
	if updated.IsBlocked {
		ack = "Заблокирован"
	}
	return h.answer(update, ack)
}

func (h *Handler) startMessage(ctx context.Context, update *tgbotapi.Update, chatID, userID int64) error {
	user, err := h.userService.GetByID(ctx, userID)
	if err != nil || user == nil {
		return h.answer(update, messages.Error)
	}
	if user.TelegramID == nil {
		return h.answer(update, "У пользователя нет telegram id")
	}
	targetChatID, err := strconv.ParseInt(*user.TelegramID, 10, 64)
	if err != nil {
		return h.answer(update, messages.Error)
	}

	if err := h.answer(update, ""); err != nil {
		return err
	}

	h.stateManager.SetState(chatID, states.AdminMessageUserWaitMessage, &flows.MessageUserFlowData{
		TargetUserID: user.ID,
		TargetChatID: targetChatID,
		TargetName:   user.DisplayName(),
	})

	return h.sendText(chatID, h.l10n.Get(lang, "admin_users.message_prompt", map[string]interface{}{
		"name": user.DisplayName(),
	}))
}

// Handle обрабатывает текущее состояние
func (h *Handler) Handle(update *tgbotapi.Update, state states.State) error {
	switch state {
	case states.AdminMessageUserWaitMessage:
		return h.handleMessage(update)
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

func (h *Handler) handleMessage(update *tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID

	flowData, err := h.stateManager.GetMessageUserData(chatID)
	if err != nil {
		h.stateManager.Clear(chatID)
		return h.sendText(chatID, messages.Error)
	}

	h.stateManager.Clear(chatID)

	if _, err := h.bot.Send(tgbotapi.NewMessage(flowData.TargetChatID, update.Message.Text)); err != nil {
		h.logger.Warn("message user failed", "user_id", flowData.TargetUserID, "error", err)
		return h.sendText(chatID, h.l10n.Get(lang, "admin_users.message_failed", map[string]interface{}{
			"error": err.Error(),
		}))
	}

	return h.sendText(chatID, h.l10n.Get(lang, "admin_users.message_sent", nil))
}

func (h *Handler) sendText(chatID int64, text string) error {
	_, err := h.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (h *Handler) answer(update *tgbotapi.Update, text string) error {
	callback := tgbotapi.NewCallback(update.CallbackQuery.ID, text)
	_, err := h.bot.Request(callback)
	return err
}
