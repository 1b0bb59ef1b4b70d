package environment

import (
	"context"
	"log/slog"

	"vpnstore-bot/internal/config"
	"vpnstore-bot/internal/localization"
	"vpnstore-bot/internal/storage"
	"vpnstore-bot/internal/stories/broadcast"
	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/stories/stats"
	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/stories/vpnconfigs"
	"vpnstore-bot/internal/telegram"
	"vpnstore-bot/internal/telegram/cmds"
	"vpnstore-bot/internal/telegram/flows/adminsettings"
	"vpnstore-bot/internal/telegram/flows/adminusers"
	"vpnstore-bot/internal/telegram/flows/broadcastmsg"
	"vpnstore-bot/internal/telegram/flows/buyorder"
	"vpnstore-bot/internal/telegram/states"
	"vpnstore-bot/internal/webapi"
	"vpnstore-bot/internal/workers"
	"vpnstore-bot/internal/workers/expiration"
	"vpnstore-bot/internal/workers/statecleanup"

	"github.com/pkg/errors"
)

type Services struct {
	TelegramRouter *telegram.Router
	StateManager   *states.Manager
	Settings       *settings.Service
	WebAPI         *webapi.Server
	Workers        *workers.Manager
}

func newServices(_ context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	if clients.TelegramBot == nil {
		return nil, errors.New("telegram bot не инициализирован")
	}

	storageImpl := storage.New(clients.SQLiteDB)

	l10n, err := localization.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "localization")
	}

	// Сервисы предметной области
	userService := users.NewService(storageImpl)
	productService := products.NewService(storageImpl)
	settingsService := settings.NewService(storageImpl, logger)
	configService := vpnconfigs.NewService(storageImpl, productService, userService, settingsService)
	statsService := stats.NewService(storageImpl)
	broadcastService := broadcast.NewService(userService, clients.TelegramBot, logger)

	notifier := telegram.NewNotifier(
		clients.TelegramBot,
		userService,
		configService,
		settingsService,
		l10n,
		logger,
	)
	orderService := orders.NewService(storageImpl, configService, notifier, logger)

	stateManager := states.NewManager(states.DefaultTTL)
	s.StateManager = stateManager
	s.Settings = settingsService

	adminChecker := telegram.NewAdminChecker(settingsService, logger)

	buyOrderHandler := buyorder.NewHandler(
		clients.TelegramBot,
		stateManager,
		productService,
		orderService,
		settingsService,
		l10n,
		logger,
	)
	settingsHandler := adminsettings.NewHandler(clients.TelegramBot, stateManager, settingsService, l10n, logger)
	usersHandler := adminusers.NewHandler(clients.TelegramBot, stateManager, userService, l10n, logger)
	broadcastHandler := broadcastmsg.NewHandler(clients.TelegramBot, stateManager, broadcastService, l10n, logger)

	myConfigsCommand := cmds.NewMyConfigsCommand(clients.TelegramBot, configService, l10n)
	profileCommand := cmds.NewProfileCommand(clients.TelegramBot, orderService, configService, l10n)
	supportCommand := cmds.NewSupportCommand(clients.TelegramBot, settingsService)
	adminPanelCommand := cmds.NewAdminPanelCommand(clients.TelegramBot)
	statsCommand := cmds.NewStatsCommand(clients.TelegramBot, statsService, l10n)

	s.TelegramRouter = telegram.NewRouter(
		clients.TelegramBot,
		stateManager,
		userService,
		settingsService,
		adminChecker,
		buyOrderHandler,
		settingsHandler,
		usersHandler,
		broadcastHandler,
		myConfigsCommand,
		profileCommand,
		supportCommand,
		adminPanelCommand,
		statsCommand,
		logger,
	)

	s.WebAPI = webapi.NewServer(
		clients.TelegramBot,
		orderService,
		broadcastService,
		statsService,
		settingsService,
		cfg.Telegram.BotToken,
		logger.WithGroup("webapi"),
	)

	s.Workers = workers.NewManager(
		logger,
		expiration.NewWorker(configService, userService, clients.TelegramBot, l10n, logger.WithGroup("expiration")),
		statecleanup.NewWorker(stateManager, logger.WithGroup("statecleanup")),
	)

	return &s, nil
}
