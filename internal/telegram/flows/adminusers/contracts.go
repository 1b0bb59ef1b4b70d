package adminusers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/users"
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
		GetMessageUserData(chatID int64) (*flows.MessageUserFlowData, error)
		SetState(chatID int64, state states.State, data any)
	}

	userService interface {
		GetByID(ctx context.Context, id int64) (*users.User, error)
		List(ctx context.Context, criteria users.ListCriteria) ([]*users.User, error)
		SetBlocked(ctx context.Context, id int64, blocked bool) (*users.User, error)
	}

	localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
