package adminusers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/localization"
	"vpnstore-bot/internal/stories/users"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/states"
)

const adminChatID = int64(900)

type mockBot struct {
	sent      []tgbotapi.Chattable
	callbacks []tgbotapi.CallbackConfig
}

func (m *mockBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	return tgbotapi.Message{MessageID: len(m.sent)}, nil
}

func (m *mockBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if callback, ok := c.(tgbotapi.CallbackConfig); ok {
		m.callbacks = append(m.callbacks, callback)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type mockStateManager struct {
	states map[int64]states.State
	data   map[int64]any
}

func newMockStateManager() *mockStateManager {
	return &mockStateManager{states: make(map[int64]states.State), data: make(map[int64]any)}
}

func (m *mockStateManager) SetState(chatID int64, state states.State, data any) {
	m.states[chatID] = state
	if data != nil {
		m.data[chatID] = data
	}
}

func (m *mockStateManager) Clear(chatID int64) {
	delete(m.states, chatID)
	delete(m.data, chatID)
}

func (m *mockStateManager) GetMessageUserData(chatID int64) (*flows.MessageUserFlowData, error) {
	data, exists := m.data[chatID]
	if !exists {
		return nil, fmt.Errorf("no data for chat %d", chatID)
	}
	flowData, ok := data.(*flows.MessageUserFlowData)
	if !ok {
		return nil, fmt.Errorf("invalid data type for chat %d", chatID)
	}
	return flowData, nil
}

type mockUserService struct {
	users map[int64]*users.User
}

func newMockUserService(count int) *mockUserService {
	m := &mockUserService{users: make(map[int64]*users.User)}
	for i := 1; i <= count; i++ {
		id := int64(i)
		tgID := strconv.FormatInt(1000+id, 10)
		m.users[id] = &users.User{
			ID:               id,
			TelegramID:       &tgID,
			Username:         fmt.Sprintf("user%d", i),
			FirstName:        fmt.Sprintf("Имя%d", i),
			RegistrationDate: time.Now(),
		}
	}
	return m
}

func (m *mockUserService) GetByID(_ context.Context, id int64) (*users.User, error) {
	return m.users[id], nil
}

func (m *mockUserService) List(_ context.Context, criteria users.ListCriteria) ([]*users.User, error) {
	var all []*users.User
	for i := int64(1); i <= int64(len(m.users)); i++ {
		all = append(all, m.users[i])
	}
	if criteria.Offset >= len(all) {
		return nil, nil
	}
	all = all[criteria.Offset:]
	if criteria.Limit > 0 && len(all) > criteria.Limit {
		all = all[:criteria.Limit]
	}
	return all, nil
}

func (m *mockUserService) SetBlocked(_ context.Context, id int64, blocked bool) (*users.User, error) {
	m.users[id].IsBlocked = blocked
	return m.users[id], nil
}

func newHandler(t *testing.T, userCount int) (*Handler, *mockBot, *mockStateManager, *mockUserService) {
	t.Helper()
	l10n, err := localization.NewService()
	if err != nil {
		t.Fatalf("localization: %v", err)
	}
	bot := &mockBot{}
	sm := newMockStateManager()
	us := newMockUserService(userCount)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(bot, sm, us, l10n, logger), bot, sm, us
}

func callbackUpdate(data string) *tgbotapi.Update {
	return &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			Data:    data,
			From:    &tgbotapi.User{ID: adminChatID},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: adminChatID}},
		},
	}
}

func lastMessage(t *testing.T, bot *mockBot) tgbotapi.MessageConfig {
	t.Helper()
	for i := len(bot.sent) - 1; i >= 0; i-- {
		if msg, ok := bot.sent[i].(tgbotapi.MessageConfig); ok {
			return msg
		}
	}
	t.Fatal("no messages sent")
	return tgbotapi.MessageConfig{}
}

func TestShowUsersFirstPage(t *testing.T) {
	h, bot, _, _ := newHandler(t, 7)

	if err := h.ShowUsers(context.Background(), adminChatID, 0); err != nil {
		t.Fatalf("show users: %v", err)
	}

	msg := lastMessage(t, bot)
	if !strings.Contains(msg.Text, "user1") || !strings.Contains(msg.Text, "user5") {
		t.Errorf("first page misses users: %s", msg.Text)
	}
	if strings.Contains(msg.Text, "user6") {
		t.Errorf("first page must hold %d users: %s", pageSize, msg.Text)
	}

	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatal("page must carry a keyboard")
	}
	nav := keyboard.InlineKeyboard[len(keyboard.InlineKeyboard)-1]
	if len(nav) != 1 || *nav[0].CallbackData != CallbackPagePrefix+"5" {
		t.Errorf("nav = %+v, want next page button only", nav)
	}
}

func TestShowUsersSecondPage(t *testing.T) {
	h, bot, _, _ := newHandler(t, 7)

	if err := h.ShowUsers(context.Background(), adminChatID, 5); err != nil {
		t.Fatalf("show users: %v", err)
	}

	msg := lastMessage(t, bot)
	if !strings.Contains(msg.Text, "user6") || !strings.Contains(msg.Text, "user7") {
		t.Errorf("second page misses users: %s", msg.Text)
	}

	keyboard := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	nav := keyboard.InlineKeyboard[len(keyboard.InlineKeyboard)-1]
	if len(nav) != 1 || *nav[0].CallbackData != CallbackPagePrefix+"0" {
		t.Errorf("nav = %+v, want prev page button only", nav)
	}
}

func TestToggleBlocked(t *testing.T) {
	h, _, _, us := newHandler(t, 2)

	if err := h.HandleCallback(callbackUpdate(CallbackBlockPrefix + "1")); err != nil {
		t.Fatalf("block callback: %v", err)
	}
	if !us.users[1].IsBlocked {
		t.Error("user must be blocked")
	}

	if err := h.HandleCallback(callbackUpdate(CallbackBlockPrefix + "1")); err != nil {
		t.Fatalf("unblock callback: %v", err)
	}
	if us.users[1].IsBlocked {
		t.Error("second toggle must unblock")
	}
}

func TestMessageUserFlow(t *testing.T) {
	h, bot, sm, _ := newHandler(t, 2)

	if err := h.HandleCallback(callbackUpdate(CallbackMessagePrefix + "2")); err != nil {
		t.Fatalf("message callback: %v", err)
	}
	if sm.states[adminChatID] != states.AdminMessageUserWaitMessage {
		t.Fatalf("state = %s, want amu_wt_message", sm.states[adminChatID])
	}

	update := &tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: adminChatID},
			From: &tgbotapi.User{ID: adminChatID},
			Text: "Ваш заказ готов",
		},
	}
	if err := h.Handle(update, states.AdminMessageUserWaitMessage); err != nil {
		t.Fatalf("handle message: %v", err)
	}

	// Пользователь 2 живёт в чате 1002.
	var delivered bool
	for _, c := range bot.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == 1002 && msg.Text == "Ваш заказ готов" {
			delivered = true
		}
	}
	if !delivered {
		t.Error("message must reach the user's chat")
	}
	if _, exists := sm.states[adminChatID]; exists {
		t.Error("delivery must clear the dialog state")
	}
}
