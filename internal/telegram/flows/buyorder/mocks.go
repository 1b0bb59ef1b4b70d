package buyorder

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/states"
)

// MockBotApi - мок Telegram Bot API
type MockBotApi struct {
	SentMessages []tgbotapi.Chattable
	Callbacks    []tgbotapi.CallbackConfig
}

func (m *MockBotApi) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.SentMessages = append(m.SentMessages, c)
	return tgbotapi.Message{MessageID: len(m.SentMessages)}, nil
}

func (m *MockBotApi) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if callback, ok := c.(tgbotapi.CallbackConfig); ok {
		m.Callbacks = append(m.Callbacks, callback)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// MockStateManager - мок менеджера состояний
type MockStateManager struct {
	States map[int64]states.State
	Data   map[int64]any
}

func NewMockStateManager() *MockStateManager {
	return &MockStateManager{
		States: make(map[int64]states.State),
		Data:   make(map[int64]any),
	}
}

func (m *MockStateManager) SetState(chatID int64, state states.State, data any) {
	m.States[chatID] = state
	if data != nil {
		m.Data[chatID] = data
	}
}

func (m *MockStateManager) Clear(chatID int64) {
	delete(m.States, chatID)
	delete(m.Data, chatID)
}

func (m *MockStateManager) GetBuyOrderData(chatID int64) (*flows.BuyOrderFlowData, error) {
	data, exists := m.Data[chatID]
	if !exists {
		return nil, fmt.Errorf("no data for chat %d", chatID)
	}
	flowData, ok := data.(*flows.BuyOrderFlowData)
	if !ok {
		return nil, fmt.Errorf("invalid data type for chat %d", chatID)
	}
	return flowData, nil
}

// MockProductService - мок сервиса тарифов
type MockProductService struct {
	Products []*products.Product
}

func (m *MockProductService) GetByID(_ context.Context, id int64) (*products.Product, error) {
	for _, p := range m.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *MockProductService) ListActive(context.Context) ([]*products.Product, error) {
	var active []*products.Product
	for _, p := range m.Products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// MockOrderService - мок сервиса заказов, гоняет заказы через ту же
// машину состояний, что и настоящий.
type MockOrderService struct {
	Orders      map[int64]*orders.Order
	NextID      int64
	IssueErr    error
	IssuedCount int
}

func NewMockOrderService() *MockOrderService {
	return &MockOrderService{Orders: make(map[int64]*orders.Order), NextID: 1}
}

func (m *MockOrderService) Create(_ context.Context, userID, productID, amount int64) (*orders.Order, error) {
	order := &orders.Order{
		ID:        m.NextID,
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
		Status:    orders.StatusPending,
		CreatedAt: time.Now(),
	}
	m.Orders[order.ID] = order
	m.NextID++
	return order, nil
}

func (m *MockOrderService) CreateFree(ctx context.Context, userID, productID int64) (*orders.CompletionResult, error) {
	order, _ := m.Create(ctx, userID, productID, 0)
	if _, err := m.MarkPaid(ctx, order.ID); err != nil {
		return nil, err
	}
	return m.Complete(ctx, order.ID, true)
}

func (m *MockOrderService) MarkPaid(_ context.Context, orderID int64) (*orders.Order, error) {
	order, exists := m.Orders[orderID]
	if !exists {
		return nil, orders.ErrNotFound
	}
	next, _, err := orders.Transition(order.Status, orders.EventUserPaid)
	if err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}

func (m *MockOrderService) Cancel(_ context.Context, orderID int64) (*orders.Order, error) {
	return m.applyCancel(orderID, orders.EventUserCancelled)
}

func (m *MockOrderService) Reject(_ context.Context, orderID int64) (*orders.Order, error) {
	return m.applyCancel(orderID, orders.EventAdminRejected)
}

func (m *MockOrderService) applyCancel(orderID int64, event orders.Event) (*orders.Order, error) {
	order, exists := m.Orders[orderID]
	if !exists {
		return nil, orders.ErrNotFound
	}
	next, _, err := orders.Transition(order.Status, event)
	if err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}

func (m *MockOrderService) Complete(_ context.Context, orderID int64, autoIssue bool) (*orders.CompletionResult, error) {
	order, exists := m.Orders[orderID]
	if !exists {
		return nil, orders.ErrNotFound
	}
	next, effects, err := orders.Transition(order.Status, orders.EventAdminConfirmed)
	if err != nil {
		return nil, err
	}
	if next == orders.StatusCompleted && order.Status == orders.StatusCompleted {
		return &orders.CompletionResult{Order: order, AlreadyCompleted: true}, nil
	}

	result := &orders.CompletionResult{Order: order}
	for _, effect := range effects {
		if effect == orders.EffectIssueConfig && autoIssue {
			if m.IssueErr != nil {
				result.IssueErr = m.IssueErr
				continue
			}
			m.IssuedCount++
			configID := int64(100 + m.IssuedCount)
			order.ConfigID = &configID
			result.ConfigID = &configID
		}
	}

	order.Status = next
	now := time.Now()
	order.PaidAt = &now
	return result, nil
}

func (m *MockOrderService) GetByID(_ context.Context, id int64) (*orders.Order, error) {
	order, exists := m.Orders[id]
	if !exists {
		return nil, orders.ErrNotFound
	}
	return order, nil
}

// MockSettingsService - мок настроек
type MockSettingsService struct {
	Values map[string]string
	Admins settings.AdminIDs
	Auto   bool
}

func (m *MockSettingsService) Value(_ context.Context, key string) (string, error) {
	if value, ok := m.Values[key]; ok {
		return value, nil
	}
	return settings.Defaults[key], nil
}

func (m *MockSettingsService) AdminIDs(context.Context) (settings.AdminIDs, error) {
	return m.Admins, nil
}

func (m *MockSettingsService) AutoActivate(context.Context) bool {
	return m.Auto
}
