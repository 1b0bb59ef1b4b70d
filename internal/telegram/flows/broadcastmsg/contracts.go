package broadcastmsg

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/broadcast"
	"vpnstore-bot/internal/telegram/states"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	stateManager interface {
		Clear(chatID int64)
		SetState(chatID int64, state states.State, data any)
	}

	broadcastService interface {
		Broadcast(ctx context.Context, text string, progress broadcast.ProgressFunc) (broadcast.Report, error)
	}

	localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
