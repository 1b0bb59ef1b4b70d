package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

type storageMock struct {
	values map[string]string
}

func newStorageMock() *storageMock {
	return &storageMock{values: make(map[string]string)}
}

func (m *storageMock) GetSetting(_ context.Context, key string) (*Setting, error) {
	value, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return &Setting{Key: key, Value: value}, nil
}

func (m *storageMock) UpsertSetting(_ context.Context, key, value string) (*Setting, error) {
	m.values[key] = value
	return &Setting{Key: key, Value: value}, nil
}

func (m *storageMock) ListSettings(context.Context) ([]*Setting, error) {
	var out []*Setting
	for key, value := range m.values {
		out = append(out, &Setting{Key: key, Value: value})
	}
	return out, nil
}

func testService() (*Service, *storageMock) {
	storage := newStorageMock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(storage, logger), storage
}

func TestValueFallsBackToDefault(t *testing.T) {
	svc, _ := testService()

	value, err := svc.Value(context.Background(), KeyVPNServerAddress)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != Defaults[KeyVPNServerAddress] {
		t.Errorf("value = %q, want default", value)
	}
}

func TestValuePrefersStored(t *testing.T) {
	svc, storage := testService()
	storage.values[KeyVPNServerAddress] = "10.0.0.1"

	value, err := svc.Value(context.Background(), KeyVPNServerAddress)
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "10.0.0.1" {
		t.Errorf("value = %q, want stored value", value)
	}
}

func TestSetAdminIDsKeepsEditor(t *testing.T) {
	svc, storage := testService()

	appended, err := svc.SetAdminIDs(context.Background(), AdminIDs{123}, 456)
	if err != nil {
		t.Fatalf("set admin ids: %v", err)
	}
	if !appended {
		t.Error("appended = false, editor was missing from the list")
	}
	if storage.values[KeyTelegramAdminIDs] != "123,456" {
		t.Errorf("stored = %q, editor id must survive the edit", storage.values[KeyTelegramAdminIDs])
	}
}

func TestSetAdminIDsEditorAlreadyListed(t *testing.T) {
	svc, storage := testService()

	appended, err := svc.SetAdminIDs(context.Background(), AdminIDs{123, 456}, 456)
	if err != nil {
		t.Fatalf("set admin ids: %v", err)
	}
	if appended {
		t.Error("appended = true, editor was already in the list")
	}
	if storage.values[KeyTelegramAdminIDs] != "123,456" {
		t.Errorf("stored = %q", storage.values[KeyTelegramAdminIDs])
	}
}

func TestAutoActivate(t *testing.T) {
	svc, storage := testService()

	if !svc.AutoActivate(context.Background()) {
		t.Error("auto activate must default to true")
	}
	storage.values[KeyAutoActivateConfigs] = "false"
	if svc.AutoActivate(context.Background()) {
		t.Error("stored false must disable auto activate")
	}
}

func TestAllMergesDefaults(t *testing.T) {
	svc, storage := testService()
	storage.values[KeySupportContact] = "@vpn_admin"

	all, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all[KeySupportContact] != "@vpn_admin" {
		t.Errorf("support contact = %q, want stored override", all[KeySupportContact])
	}
	if all[KeyPaymentInfo] != Defaults[KeyPaymentInfo] {
		t.Errorf("payment info = %q, want default", all[KeyPaymentInfo])
	}
}
