package states

import (
	"fmt"
	"sync"
	"time"

	"vpnstore-bot/internal/telegram/flows"
)

// DefaultTTL — сколько живёт незавершённый диалог. Просроченное
// состояние читается как StateNone, дальше сообщение идёт обычным
// маршрутом.
const DefaultTTL = 30 * time.Minute

type entry struct {
	state    State
	data     any
	deadline time.Time
}

// Manager управляет состояниями диалогов в памяти. Ключ — chat id:
// в личном чате это совпадает с telegram id пользователя.
type Manager struct {
	mu      sync.RWMutex
	entries map[int64]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		entries: make(map[int64]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetState получает текущее состояние диалога; просроченное состояние
// удаляется и читается как StateNone.
func (m *Manager) GetState(chatID int64) State {
	m.mu.RLock()
	e, exists := m.entries[chatID]
	m.mu.RUnlock()

	if !exists {
		return StateNone
	}
	if m.now().After(e.deadline) {
		m.Clear(chatID)
		return StateNone
	}
	return e.state
}

// SetState устанавливает состояние диалога и продлевает срок жизни.
// Если data == nil, прежние данные сохраняются.
func (m *Manager) SetState(chatID int64, state State, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.entries[chatID]
	e := &entry{state: state, deadline: m.now().Add(m.ttl)}
	if data != nil {
		e.data = data
	} else if prev != nil {
		e.data = prev.data
	}
	m.entries[chatID] = e
}

// Clear очищает состояние диалога
func (m *Manager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, chatID)
}

// CleanupExpired удаляет просроченные диалоги и возвращает их число.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for chatID, e := range m.entries {
		if now.After(e.deadline) {
			delete(m.entries, chatID)
			removed++
		}
	}
	return removed
}

func (m *Manager) data(chatID int64) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.entries[chatID]
	if !exists {
		return nil, fmt.Errorf("no data for chat %d", chatID)
	}
	if m.now().After(e.deadline) {
		return nil, fmt.Errorf("state expired for chat %d", chatID)
	}
	return e.data, nil
}

// GetBuyOrderData получает данные флоу покупки
func (m *Manager) GetBuyOrderData(chatID int64) (*flows.BuyOrderFlowData, error) {
	data, err := m.data(chatID)
	if err != nil {
		return nil, err
	}

	flowData, ok := data.(*flows.BuyOrderFlowData)
	if !ok {
		return nil, fmt.Errorf("invalid data type for chat %d", chatID)
	}

	return flowData, nil
}

// GetSettingEditData получает данные флоу правки настройки
func (m *Manager) GetSettingEditData(chatID int64) (*flows.SettingEditFlowData, error) {
	data, err := m.data(chatID)
	if err != nil {
		return nil, err
	}

	flowData, ok := data.(*flows.SettingEditFlowData)
	if !ok {
		return nil, fmt.Errorf("invalid data type for chat %d", chatID)
	}

	return flowData, nil
}

// GetMessageUserData получает данные флоу сообщения пользователю
func (m *Manager) GetMessageUserData(chatID int64) (*flows.MessageUserFlowData, error) {
	data, err := m.data(chatID)
	if err != nil {
		return nil, err
	}

	flowData, ok := data.(*flows.MessageUserFlowData)
	if !ok {
		return nil, fmt.Errorf("invalid data type for chat %d", chatID)
	}

	return flowData, nil
}
