package telegram

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/telegram/cmds"
	"vpnstore-bot/internal/telegram/flows/adminsettings"
	"vpnstore-bot/internal/telegram/flows/adminusers"
	"vpnstore-bot/internal/telegram/flows/broadcastmsg"
	"vpnstore-bot/internal/telegram/flows/buyorder"
	"vpnstore-bot/internal/telegram/messages"
	"vpnstore-bot/internal/telegram/states"
)

const lang = "ru"

// bareNumber — ответ номером тарифа на ранее показанную карусель.
var bareNumber = regexp.MustCompile(`^[1-9]\d*$`)

type Router struct {
	bot          routerBotApi
	stateManager routerStateManager
	userService  routerUserService
	settings     routerSettingsService
	adminChecker adminChecker
	logger       *slog.Logger

	// Handlers
	buyOrderHandler  *buyorder.Handler
	settingsHandler  *adminsettings.Handler
	usersHandler     *adminusers.Handler
	broadcastHandler *broadcastmsg.Handler

	myConfigsCommand  *cmds.MyConfigsCommand
	profileCommand    *cmds.ProfileCommand
	supportCommand    *cmds.SupportCommand
	adminPanelCommand *cmds.AdminPanelCommand
	statsCommand      *cmds.StatsCommand
}

type routerBotApi interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type routerStateManager interface {
	GetState(chatID int64) states.State
	Clear(chatID int64)
}

type routerUserService interface {
	GetOrCreateByTelegramID(ctx context.Context, telegramID, username, firstName, lastName string) (*users.User, error)
}

type routerSettingsService interface {
	Value(ctx context.Context, key string) (string, error)
}

type adminChecker interface {
	IsAdmin(telegramID int64) bool
}

func NewRouter(
	bot routerBotApi,
	stateManager routerStateManager,
	userService routerUserService,
	settingsService routerSettingsService,
	checker adminChecker,
	buyOrderHandler *buyorder.Handler,
	settingsHandler *adminsettings.Handler,
	usersHandler *adminusers.Handler,
	broadcastHandler *broadcastmsg.Handler,
	myConfigsCommand *cmds.MyConfigsCommand,
	profileCommand *cmds.ProfileCommand,
	supportCommand *cmds.SupportCommand,
	adminPanelCommand *cmds.AdminPanelCommand,
	statsCommand *cmds.StatsCommand,
	logger *slog.Logger,
) *Router {
	return &Router{
		bot:               bot,
		stateManager:      stateManager,
		userService:       userService,
		settings:          settingsService,
		adminChecker:      checker,
		logger:            logger,
		buyOrderHandler:   buyOrderHandler,
		settingsHandler:   settingsHandler,
		usersHandler:      usersHandler,
		broadcastHandler:  broadcastHandler,
		myConfigsCommand:  myConfigsCommand,
		profileCommand:    profileCommand,
		supportCommand:    supportCommand,
		adminPanelCommand: adminPanelCommand,
		statsCommand:      statsCommand,
	}
}

func (r *Router) Route(update *tgbotapi.Update) error {
	ctx := context.Background()

	telegramID := extractUserID(update)
	if telegramID == 0 {
		return nil // Некорректный update
	}
	chatID := extractChatID(update)
	updatesTotal.WithLabelValues(updateKind(update)).Inc()

	user, err := r.userService.GetOrCreateByTelegramID(
		ctx,
		strconv.FormatInt(telegramID, 10),
		extractUsername(update),
		extractFirstName(update),
		extractLastName(update),
	)
	if err != nil {
		routeErrorsTotal.Inc()
		_ = r.sendText(chatID, messages.Error)
		return err
	}

	// Заблокированный пользователь не получает ничего, кроме отказа.
	if user.IsBlocked {
		if update.CallbackQuery != nil {
			return r.answer(update, messages.Blocked)
		}
		return r.sendText(chatID, messages.Blocked)
	}

	// ПРИОРИТЕТ: команды отменяют любой диалог
	if update.Message != nil && update.Message.IsCommand() {
		r.stateManager.Clear(chatID)
		return r.trackErr(r.handleCommand(ctx, update, user))
	}

	if update.CallbackQuery != nil {
		return r.trackErr(r.handleCallback(ctx, update, user))
	}

	// Продолжение активного диалога по состоянию чата
	state := r.stateManager.GetState(chatID)
	switch {
	case strings.HasPrefix(string(state), "ubo_"):
		return r.trackErr(r.buyOrderHandler.Handle(update, state))
	case strings.HasPrefix(string(state), "ast_"):
		return r.trackErr(r.settingsHandler.Handle(update, state))
	case strings.HasPrefix(string(state), "abc_"):
		return r.trackErr(r.broadcastHandler.Handle(update, state))
	case strings.HasPrefix(string(state), "amu_"):
		return r.trackErr(r.usersHandler.Handle(update, state))
	}

	// Голый номер без диалога — выбор тарифа из старой карусели
	if update.Message != nil && bareNumber.MatchString(strings.TrimSpace(update.Message.Text)) {
		return r.trackErr(r.buyOrderHandler.HandleNumeric(ctx, user.ID, extractUserID(update), chatID, update.Message.Text))
	}

	return r.sendHelp(ctx, chatID)
}

func (r *Router) handleCommand(ctx context.Context, update *tgbotapi.Update, user *users.User) error {
	chatID := update.Message.Chat.ID

	switch update.Message.Command() {
	case "start":
		return r.sendWelcome(ctx, chatID)
	case "products":
		return r.buyOrderHandler.ShowProducts(ctx, user.ID, chatID)
	case "my_configs":
		return r.myConfigsCommand.Execute(ctx, user.ID, chatID)
	case "profile":
		return r.profileCommand.Execute(ctx, user, chatID)
	case "support":
		return r.supportCommand.Execute(ctx, chatID)
	case "admin":
		if !r.isAdmin(update) {
			return r.sendText(chatID, messages.AccessDenied)
		}
		return r.adminPanelCommand.Execute(chatID)
	case "broadcast":
		if !r.isAdmin(update) {
			return r.sendText(chatID, messages.AccessDenied)
		}
		return r.broadcastHandler.Start(chatID)
	case "stats":
		if !r.isAdmin(update) {
			return r.sendText(chatID, messages.AccessDenied)
		}
		return r.statsCommand.Execute(ctx, chatID)
	default:
		return r.sendHelp(ctx, chatID)
	}
}

func (r *Router) handleCallback(ctx context.Context, update *tgbotapi.Update, user *users.User) error {
	data := update.CallbackQuery.Data
	chatID := extractChatID(update)

	switch {
	case strings.HasPrefix(data, buyorder.CallbackBuyPrefix),
		strings.HasPrefix(data, buyorder.CallbackPaidPrefix),
		strings.HasPrefix(data, buyorder.CallbackCancelPrefix):
		return r.buyOrderHandler.HandleCallback(update, user.ID)

	case strings.HasPrefix(data, buyorder.CallbackConfirmPrefix),
		strings.HasPrefix(data, buyorder.CallbackRejectPrefix):
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		return r.buyOrderHandler.HandleAdminCallback(update)

	case data == cmds.CallbackSettingsOpen:
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		if err := r.answer(update, ""); err != nil {
			return err
		}
		return r.settingsHandler.ShowKeys(chatID)

	case strings.HasPrefix(data, adminsettings.CallbackKeyPrefix):
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		return r.settingsHandler.HandleKeyCallback(update)

	case data == cmds.CallbackUsersOpen:
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		if err := r.answer(update, ""); err != nil {
			return err
		}
		return r.usersHandler.ShowUsers(ctx, chatID, 0)

	case strings.HasPrefix(data, "ausr_"):
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		return r.usersHandler.HandleCallback(update)

	case data == cmds.CallbackBroadcastStart:
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		if err := r.answer(update, ""); err != nil {
			return err
		}
		return r.broadcastHandler.Start(chatID)

	case data == cmds.CallbackStatsRefresh:
		if !r.isAdmin(update) {
			return r.answer(update, messages.AccessDenied)
		}
		if err := r.answer(update, "✅ Обновлено"); err != nil {
			return err
		}
		return r.statsCommand.Refresh(ctx, chatID, update.CallbackQuery.Message.MessageID)
	}

	return r.answer(update, "")
}

func (r *Router) sendWelcome(ctx context.Context, chatID int64) error {
	text, err := r.settings.Value(ctx, settings.KeyWelcomeMessage)
	if err != nil {
		r.logger.Warn("read welcome message failed", "error", err)
		text = settings.Defaults[settings.KeyWelcomeMessage]
	}
	return r.sendText(chatID, text)
}

func (r *Router) sendHelp(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return nil
	}
	text, err := r.settings.Value(ctx, settings.KeyHelpMessage)
	if err != nil {
		r.logger.Warn("read help message failed", "error", err)
		text = settings.Defaults[settings.KeyHelpMessage]
	}
	return r.sendText(chatID, text)
}

func (r *Router) isAdmin(update *tgbotapi.Update) bool {
	return r.adminChecker.IsAdmin(extractUserID(update))
}

func (r *Router) sendText(chatID int64, text string) error {
	if chatID == 0 {
		return nil
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (r *Router) answer(update *tgbotapi.Update, text string) error {
	callback := tgbotapi.NewCallback(update.CallbackQuery.ID, text)
	_, err := r.bot.Request(callback)
	return err
}

func (r *Router) trackErr(err error) error {
	if err != nil {
		routeErrorsTotal.Inc()
	}
	return err
}

func updateKind(update *tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return "callback"
	case update.Message != nil && update.Message.IsCommand():
		return "command"
	case update.Message != nil:
		return "message"
	default:
		return "other"
	}
}

func extractUserID(update *tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.From.ID
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.ID
	}
	return 0
}

func extractChatID(update *tgbotapi.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message != nil {
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func extractUsername(update *tgbotapi.Update) string {
	if update.Message != nil {
		return update.Message.From.UserName
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.UserName
	}
	return ""
}

func extractFirstName(update *tgbotapi.Update) string {
	if update.Message != nil {
		return update.Message.From.FirstName
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.FirstName
	}
	return ""
}

func extractLastName(update *tgbotapi.Update) string {
	if update.Message != nil {
		return update.Message.From.LastName
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From.LastName
	}
	return ""
}
