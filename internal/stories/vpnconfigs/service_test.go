package vpnconfigs

import (
	"context"
	"strings"
	"testing"
	"time"

	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/users"
)

type storageMock struct {
	configs map[int64]*Config
	nextID  int64
}

func newStorageMock() *storageMock {
	return &storageMock{configs: make(map[int64]*Config), nextID: 1}
}

func (m *storageMock) CreateConfig(_ context.Context, params CreateParams) (*Config, error) {
	config := &Config{
		ID:          m.nextID,
		UserID:      params.UserID,
		Name:        params.Name,
		ConfigType:  params.ConfigType,
		ConfigData:  params.ConfigData,
		CreatedAt:   time.Now(),
		ValidUntil:  params.ValidUntil,
		IsActive:    true,
		XUIClientID: params.XUIClientID,
	}
	m.configs[config.ID] = config
	m.nextID++
	return config, nil
}

func (m *storageMock) GetConfig(_ context.Context, criteria GetCriteria) (*Config, error) {
	if criteria.ID == nil {
		return nil, nil
	}
	return m.configs[*criteria.ID], nil
}

func (m *storageMock) ListConfigs(_ context.Context, criteria ListCriteria) ([]*Config, error) {
	var out []*Config
	for _, config := range m.configs {
		if criteria.UserID != nil && config.UserID != *criteria.UserID {
			continue
		}
		if criteria.IsActive != nil && config.IsActive != *criteria.IsActive {
			continue
		}
		if criteria.ExpiredBefore != nil && !config.ValidUntil.Before(*criteria.ExpiredBefore) {
			continue
		}
		out = append(out, config)
	}
	return out, nil
}

func (m *storageMock) SetConfigActive(_ context.Context, id int64, active bool) (*Config, error) {
	config := m.configs[id]
	config.IsActive = active
	return config, nil
}

type productProviderMock struct {
	product *products.Product
}

func (m *productProviderMock) GetByID(context.Context, int64) (*products.Product, error) {
	return m.product, nil
}

type userProviderMock struct {
	user *users.User
}

func (m *userProviderMock) GetByID(context.Context, int64) (*users.User, error) {
	return m.user, nil
}

type settingsProviderMock struct{ address string }

func (m *settingsProviderMock) VPNServerAddress(context.Context) string { return m.address }

func TestIssueForOrder(t *testing.T) {
	storage := newStorageMock()
	svc := NewService(
		storage,
		&productProviderMock{product: &products.Product{
			ID:           2,
			Name:         "Месяц",
			ConfigType:   products.ConfigTypeVless,
			DurationDays: 30,
		}},
		&userProviderMock{user: &users.User{ID: 1, Username: "ivan"}},
		&settingsProviderMock{address: "10.0.0.1"},
	)
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	id, err := svc.IssueForOrder(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	config := storage.configs[id]
	if config == nil {
		t.Fatal("config was not persisted")
	}
	if config.Name != "Месяц (VLESS)" {
		t.Errorf("name = %q, want product name with protocol", config.Name)
	}
	if !strings.HasPrefix(config.ConfigData, "vless://") {
		t.Errorf("config data = %q, want vless link", config.ConfigData)
	}
	if !strings.Contains(config.ConfigData, "@10.0.0.1:443") {
		t.Errorf("config data misses server address: %s", config.ConfigData)
	}
	if want := issuedAt.AddDate(0, 0, 30); !config.ValidUntil.Equal(want) {
		t.Errorf("valid_until = %s, want %s", config.ValidUntil, want)
	}
	if config.XUIClientID == "" {
		t.Error("client id must be stored")
	}
	if !config.IsActive {
		t.Error("issued config must be active")
	}
}

func TestIssueForOrderUnknownProduct(t *testing.T) {
	svc := NewService(
		newStorageMock(),
		&productProviderMock{},
		&userProviderMock{user: &users.User{ID: 1}},
		&settingsProviderMock{address: "10.0.0.1"},
	)
	if _, err := svc.IssueForOrder(context.Background(), 1, 99); err == nil {
		t.Fatal("issue for a missing product must fail")
	}
}

func TestListExpired(t *testing.T) {
	storage := newStorageMock()
	svc := NewService(storage, &productProviderMock{}, &userProviderMock{}, &settingsProviderMock{})
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, _ = storage.CreateConfig(context.Background(), CreateParams{UserID: 1, ValidUntil: now.AddDate(0, 0, -1)})
	fresh, _ := storage.CreateConfig(context.Background(), CreateParams{UserID: 1, ValidUntil: now.AddDate(0, 0, 1)})
	inactive, _ := storage.CreateConfig(context.Background(), CreateParams{UserID: 1, ValidUntil: now.AddDate(0, 0, -5)})
	_, _ = storage.SetConfigActive(context.Background(), inactive.ID, false)

	expired, err := svc.ListExpired(context.Background())
	if err != nil {
		t.Fatalf("list expired: %v", err)
	}
	if len(expired) != 1 {
		t.Fatalf("expired = %d configs, want 1", len(expired))
	}
	if expired[0].ID == fresh.ID {
		t.Error("fresh config must not be reported as expired")
	}
}

func TestListActiveByUser(t *testing.T) {
	storage := newStorageMock()
	svc := NewService(storage, &productProviderMock{}, &userProviderMock{}, &settingsProviderMock{})

	mine, _ := storage.CreateConfig(context.Background(), CreateParams{UserID: 1, ValidUntil: time.Now().AddDate(0, 0, 30)})
	_, _ = storage.CreateConfig(context.Background(), CreateParams{UserID: 2, ValidUntil: time.Now().AddDate(0, 0, 30)})

	configs, err := svc.ListActiveByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(configs) != 1 || configs[0].ID != mine.ID {
		t.Errorf("got %d configs, want only user 1's config", len(configs))
	}
}
