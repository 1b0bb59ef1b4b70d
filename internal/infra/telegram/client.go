package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Client оборачивает Bot API лимитером скорости и перезапускаемым
// long polling: токен можно сменить через настройки без рестарта
// процесса.
type Client struct {
	logger  *slog.Logger
	limiter *rate.Limiter

	mu      sync.RWMutex
	api     *tgbotapi.BotAPI
	updates chan tgbotapi.Update
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewClient(logger *slog.Logger) *Client {
	return &Client{
		logger: logger,
		// Rate limiting - 30 сообщений в секунду
		limiter: rate.NewLimiter(30, 1),
		updates: make(chan tgbotapi.Update),
	}
}

// Start подключается к Bot API с данным токеном и начинает получение
// обновлений (long polling). Обновления переливаются во внутренний
// канал, который переживает перезапуск.
func (c *Client) Start(ctx context.Context, token string) error {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return fmt.Errorf("создание telegram бота: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api != nil {
		return fmt.Errorf("бот уже запущен")
	}

	c.api = bot
	c.ctx, c.cancel = context.WithCancel(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	source := bot.GetUpdatesChan(u)

	go c.pump(c.ctx, source)

	c.logger.Info("telegram bot started", "username", bot.Self.UserName)
	return nil
}

// pump переливает обновления из канала библиотеки во внутренний канал,
// пока не остановят polling.
func (c *Client) pump(ctx context.Context, source tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-source:
			if !ok {
				return
			}
			select {
			case c.updates <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Stop останавливает получение обновлений. Внутренний канал остаётся
// открытым: цикл роутера переживает перезапуск бота.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.api == nil {
		return
	}

	c.cancel()
	c.api.StopReceivingUpdates()
	c.api = nil
	c.logger.Info("telegram bot stopped")
}

// Restart перезапускает polling с новым токеном.
func (c *Client) Restart(ctx context.Context, token string) error {
	c.Stop()
	return c.Start(ctx, token)
}

// CheckToken проверяет токен запросом getMe, не трогая текущий polling.
func (c *Client) CheckToken(token string) (string, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return "", fmt.Errorf("проверка токена: %w", err)
	}
	return bot.Self.UserName, nil
}

// GetUpdates возвращает канал с обновлениями
func (c *Client) GetUpdates() <-chan tgbotapi.Update {
	return c.updates
}

func (c *Client) wait() (*tgbotapi.BotAPI, context.Context, error) {
	c.mu.RLock()
	api, ctx := c.api, c.ctx
	c.mu.RUnlock()

	if api == nil {
		return nil, nil, fmt.Errorf("бот не запущен")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiting: %w", err)
	}
	return api, ctx, nil
}

// SendMessage отправляет текст с rate limiting.
func (c *Client) SendMessage(chatID int64, text string) error {
	_, err := c.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendText — то же, что SendMessage, но с контекстом вызова; форма
// используется рассылкой.
func (c *Client) SendText(_ context.Context, chatID int64, text string) error {
	return c.SendMessage(chatID, text)
}

// Send отправляет любое сообщение с rate limiting (для интерфейса botApi)
func (c *Client) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	api, _, err := c.wait()
	if err != nil {
		return tgbotapi.Message{}, err
	}

	message, err := api.Send(chattable)
	if err != nil {
		c.logger.Error("ошибка отправки", slog.Any("error", err))
		return tgbotapi.Message{}, fmt.Errorf("отправка: %w", err)
	}

	return message, nil
}

// Request отправляет запрос к API (для интерфейса botApi)
func (c *Client) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	api, _, err := c.wait()
	if err != nil {
		return nil, err
	}

	resp, err := api.Request(chattable)
	if err != nil {
		c.logger.Error("ошибка запроса к API", slog.Any("error", err))
		return nil, fmt.Errorf("запрос к API: %w", err)
	}

	return resp, nil
}
