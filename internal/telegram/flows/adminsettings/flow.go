package adminsettings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/messages"
	"vpnstore-bot/internal/telegram/states"
)

const CallbackKeyPrefix = "ast_key_"

const lang = "ru"

// editableKeys — какие настройки и в каком порядке видит админ.
var editableKeys = []string{
	settings.KeyWelcomeMessage,
	settings.KeyHelpMessage,
	settings.KeyPaymentInfo,
	settings.KeyPaymentConfirmation,
	settings.KeyOrderCompleted,
	settings.KeySupportContact,
	settings.KeyTelegramAdminIDs,
	settings.KeyTelegramBotToken,
	settings.KeyTelegramBotLink,
	settings.KeyAutoActivateConfigs,
	settings.KeyVPNServerAddress,
}

type Handler struct {
	bot             botApi
	stateManager    stateManager
	settingsService settingsService
	l10n            localizer
	logger          *slog.Logger
}

func NewHandler(bot botApi, sm stateManager, ss settingsService, l10n localizer, logger *slog.Logger) *Handler {
	return &Handler{
		bot:             bot,
		stateManager:    sm,
		settingsService: ss,
		l10n:            l10n,
		logger:          logger,
	}
}

// ShowKeys показывает список настроек кнопками.
func (h *Handler) ShowKeys(chatID int64) error {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, key := range editableKeys {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(key, CallbackKeyPrefix+key),
		))
	}

	msg := tgbotapi.NewMessage(chatID, h.l10n.Get(lang, "settings.list", nil))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := h.bot.Send(msg)
	return err
}

// HandleKeyCallback открывает правку выбранного ключа: показывает
// текущее значение и ждёт новое.
func (h *Handler) HandleKeyCallback(update *tgbotapi.Update) error {
	ctx := context.Background()
	key := strings.TrimPrefix(update.CallbackQuery.Data, CallbackKeyPrefix)
	chatID := update.CallbackQuery.Message.Chat.ID

	if !isEditable(key) {
		return h.answer(update, messages.Error)
	}
	if err := h.answer(update, ""); err != nil {
		return err
	}

	value, err := h.settingsService.Value(ctx, key)
	if err != nil {
		return fmt.Errorf("get setting %s: %w", key, err)
	}
	if key == settings.KeyTelegramBotToken && value != "" {
		value = maskToken(value)
	}
	if value == "" {
		value = "(не задано)"
	}

	h.stateManager.SetState(chatID, states.AdminSettingWaitValue, &flows.SettingEditFlowData{Key: key})

	return h.sendText(chatID, h.l10n.Get(lang, "settings.prompt", map[string]interface{}{
		"key":   key,
		"value": value,
	}))
}

// Handle обрабатывает текущее состояние
func (h *Handler) Handle(update *tgbotapi.Update, state states.State) error {
	ctx := context.Background()

	switch state {
	case states.AdminSettingWaitValue:
		return h.handleValue(ctx, update)
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

func (h *Handler) handleValue(ctx context.Context, update *tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID

	flowData, err := h.stateManager.GetSettingEditData(chatID)
	if err != nil {
		h.stateManager.Clear(chatID)
		return h.sendText(chatID, messages.Error)
	}

	value := strings.TrimSpace(update.Message.Text)

	if flowData.Key == settings.KeyTelegramAdminIDs {
		ids, err := settings.ParseAdminIDs(value)
		if err != nil {
			// Состояние не сбрасываем: админ может прислать
			// исправленный список следующим сообщением.
			return h.sendText(chatID, h.l10n.Get(lang, "settings.invalid_admin_ids", nil))
		}
		// Редактор дописывается сам, чтобы не выписать себя из админов.
		editorID := update.Message.From.ID
		appended, err := h.settingsService.SetAdminIDs(ctx, ids, editorID)
		if err != nil {
			h.logger.Error("save admin ids failed", "error", err)
			return h.sendText(chatID, messages.Error)
		}
		if appended {
			notice := h.l10n.Get(lang, "settings.admin_self_appended", map[string]interface{}{
				"id": editorID,
			})
			if err := h.sendText(chatID, notice); err != nil {
				return err
			}
		}
	} else {
		if err := h.settingsService.Set(ctx, flowData.Key, value); err != nil {
			h.logger.Error("save setting failed", "key", flowData.Key, "error", err)
			return h.sendText(chatID, messages.Error)
		}
	}

	h.stateManager.Clear(chatID)
	return h.sendText(chatID, h.l10n.Get(lang, "settings.saved", map[string]interface{}{"key": flowData.Key}))
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

func isEditable(key string) bool {
	for _, known := range editableKeys {
		if known == key {
			return true
		}
	}
	return false
}

// maskToken прячет середину токена: в чате не должно светиться целиком.
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
