package vpnconfigs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"vpnstore-bot/internal/vpnlink"
)

type Service struct {
	storage  Storage
	products ProductProvider
	users    UserProvider
	settings SettingsProvider
	now      func() time.Time
}

func NewService(storage Storage, products ProductProvider, users UserProvider, settings SettingsProvider) *Service {
	return &Service{
		storage:  storage,
		products: products,
		users:    users,
		settings: settings,
		now:      time.Now,
	}
}

// IssueForOrder выпускает конфигурацию под оплаченный заказ: собирает
// ссылку подключения по протоколу тарифа и сохраняет её со сроком
// действия, отсчитанным от текущего момента.
func (s *Service) IssueForOrder(ctx context.Context, userID, productID int64) (int64, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, fmt.Errorf("product %d not found", productID)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, fmt.Errorf("user %d not found", userID)
	}

	name := fmt.Sprintf("%s (%s)", product.Name, strings.ToUpper(string(product.ConfigType)))
	server := s.settings.VPNServerAddress(ctx)

	configData, clientID, err := vpnlink.Generate(product.ConfigType, name, server)
	if err != nil {
		return 0, err
	}

	config, err := s.storage.CreateConfig(ctx, CreateParams{
		UserID:      userID,
		Name:        name,
		ConfigType:  product.ConfigType,
		ConfigData:  configData,
		ValidUntil:  s.now().AddDate(0, 0, product.DurationDays),
		XUIClientID: clientID,
	})
	if err != nil {
		return 0, err
	}
	return config.ID, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Config, error) {
	return s.storage.GetConfig(ctx, GetCriteria{ID: lo.ToPtr(id)})
}

// ListActiveByUser — конфигурации для экрана «Мои конфигурации».
func (s *Service) ListActiveByUser(ctx context.Context, userID int64) ([]*Config, error) {
	return s.storage.ListConfigs(ctx, ListCriteria{
		UserID:   lo.ToPtr(userID),
		IsActive: lo.ToPtr(true),
	})
}

// ListExpired возвращает активные конфигурации с истёкшим сроком.
func (s *Service) ListExpired(ctx context.Context) ([]*Config, error) {
	return s.storage.ListConfigs(ctx, ListCriteria{
		IsActive:      lo.ToPtr(true),
		ExpiredBefore: lo.ToPtr(s.now()),
	})
}

func (s *Service) Deactivate(ctx context.Context, id int64) (*Config, error) {
	return s.storage.SetConfigActive(ctx, id, false)
}
