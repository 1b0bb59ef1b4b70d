package settings

import (
	"context"
	"log/slog"
)

type Service struct {
	storage Storage
	logger  *slog.Logger
}

func NewService(storage Storage, logger *slog.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Value читает настройку; для отсутствующего ключа отдаёт значение по
// умолчанию (пустую строку, если и его нет).
func (s *Service) Value(ctx context.Context, key string) (string, error) {
	setting, err := s.storage.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return Defaults[key], nil
	}
	return setting.Value, nil
}

func (s *Service) Set(ctx context.Context, key, value string) error {
	_, err := s.storage.UpsertSetting(ctx, key, value)
	return err
}

// All возвращает сохранённые настройки, дополненные значениями по
// умолчанию для незаполненных ключей.
func (s *Service) All(ctx context.Context) (map[string]string, error) {
	stored, err := s.storage.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(Defaults)+len(stored))
	for key, value := range Defaults {
		out[key] = value
	}
	for _, setting := range stored {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// BotToken — токен бота из настроек; пустая строка, если не задан
// (тогда используется токен из окружения).
func (s *Service) BotToken(ctx context.Context) (string, error) {
	return s.Value(ctx, KeyTelegramBotToken)
}

func (s *Service) AdminIDs(ctx context.Context) (AdminIDs, error) {
	value, err := s.Value(ctx, KeyTelegramAdminIDs)
	if err != nil {
		return nil, err
	}
	return ParseAdminIDs(value)
}

// SetAdminIDs записывает список, гарантируя присутствие id редактора.
// Возвращает true, если редактор был дописан: вызывающая сторона
// обязана сообщить ему об этом.
func (s *Service) SetAdminIDs(ctx context.Context, ids AdminIDs, editorID int64) (bool, error) {
	appended := !ids.Contains(editorID)
	return appended, s.Set(ctx, KeyTelegramAdminIDs, ids.EnsureContains(editorID).String())
}

// AutoActivate — выпускать ли конфигурацию сразу при подтверждении
// оплаты. Любое значение кроме "true" выключает автовыпуск.
func (s *Service) AutoActivate(ctx context.Context) bool {
	value, err := s.Value(ctx, KeyAutoActivateConfigs)
	if err != nil {
		s.logger.Warn("read auto_activate_configs failed", "error", err)
		return true
	}
	return value == "true"
}

// VPNServerAddress — адрес сервера для ссылок подключения.
func (s *Service) VPNServerAddress(ctx context.Context) string {
	value, err := s.Value(ctx, KeyVPNServerAddress)
	if err != nil {
		s.logger.Warn("read vpn_server_address failed", "error", err)
		return Defaults[KeyVPNServerAddress]
	}
	return value
}
