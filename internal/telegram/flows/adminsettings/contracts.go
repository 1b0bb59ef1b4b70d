package adminsettings

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

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
		GetSettingEditData(chatID int64) (*flows.SettingEditFlowData, error)
		SetState(chatID int64, state states.State, data any)
	}

	settingsService interface {
		Value(ctx context.Context, key string) (string, error)
		Set(ctx context.Context, key, value string) error
		SetAdminIDs(ctx context.Context, ids settings.AdminIDs, editorID int64) (appended bool, err error)
	}

	localizer interface {
		Get(lang, key string, params map[string]interface{}) string
	}
)
