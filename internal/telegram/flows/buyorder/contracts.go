package buyorder

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/states"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	stateManager interface {
		Clear(chatID int64)
		GetBuyOrderData(chatID int64) (*flows.BuyOrderFlowData, error)
		SetState(chatID int64, state states.State, data any)
	}

	productService interface {
		GetByID(ctx context.Context, id int64) (*products.Product, error)
		ListActive(ctx context.Context) ([]*products.Product, error)
	}

	orderService interface {
		Create(ctx context.Context, userID, productID, amount int64) (*orders.Order, error)
		CreateFree(ctx context.Context, userID, productID int64) (*orders.CompletionResult, error)
		MarkPaid(ctx context.Context, orderID int64) (*orders.Order, error)
		Cancel(ctx context.Context, orderID int64) (*orders.Order, error)
		Reject(ctx context.Context, orderID int64) (*orders.Order, error)
		Complete(ctx context.Context, orderID int64, autoIssue bool) (*orders.CompletionResult, error)
		GetByID(ctx context.Context, id int64) (*orders.Order, error)
	}

	settingsService interface {
		Value(ctx context.Context, key string) (string, error)
		AdminIDs(ctx context.Context) (settings.AdminIDs, error)
		AutoActivate(ctx context.Context) bool
	}

	localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
