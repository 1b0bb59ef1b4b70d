package telegram

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"vpnstore-bot/internal/stories/settings"
)

type adminIDsMock struct {
	ids settings.AdminIDs
	err error
}

func (m *adminIDsMock) AdminIDs(context.Context) (settings.AdminIDs, error) {
	return m.ids, m.err
}

func TestIsAdminRereadsSettings(t *testing.T) {
	provider := &adminIDsMock{ids: settings.AdminIDs{100, 200}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker := NewAdminChecker(provider, logger)

	if !checker.IsAdmin(200) {
		t.Error("listed id must be admin")
	}
	if checker.IsAdmin(300) {
		t.Error("unlisted id must not be admin")
	}

	// Список правится в настройках: следующий вызов видит новое значение.
	provider.ids = settings.AdminIDs{100}
	if checker.IsAdmin(200) {
		t.Error("removed id must lose access without a restart")
	}
}

func TestIsAdminFailsClosed(t *testing.T) {
	provider := &adminIDsMock{err: context.DeadlineExceeded}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	checker := NewAdminChecker(provider, logger)

	if checker.IsAdmin(100) {
		t.Error("settings read error must deny access")
	}
}
