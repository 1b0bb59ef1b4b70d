package buyorder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/localization"
	"vpnstore-bot/internal/stories/orders"
	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/states"
)

const (
	testUserID    = int64(1)
	testChatID    = int64(100)
	adminChatID   = int64(900)
	testProductID = int64(10)
)

type fixture struct {
	handler  *Handler
	bot      *MockBotApi
	sm       *MockStateManager
	orders   *MockOrderService
	settings *MockSettingsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	l10n, err := localization.NewService()
	if err != nil {
		t.Fatalf("localization: %v", err)
	}

	bot := &MockBotApi{}
	sm := NewMockStateManager()
	orderService := NewMockOrderService()
	settingsService := &MockSettingsService{
		Admins: settings.AdminIDs{adminChatID},
		Auto:   true,
	}
	productService := &MockProductService{Products: []*products.Product{
		{ID: testProductID, Name: "Месяц", Price: 19900, ConfigType: products.ConfigTypeVless, DurationDays: 30, IsActive: true},
		{ID: 11, Name: "Год", Price: 99900, ConfigType: products.ConfigTypeVmess, DurationDays: 365, IsActive: true},
	}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		handler:  NewHandler(bot, sm, productService, orderService, settingsService, l10n, logger),
		bot:      bot,
		sm:       sm,
		orders:   orderService,
		settings: settingsService,
	}
}

func messageUpdate(text string) *tgbotapi.Update {
	return &tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 42,
			Chat:      &tgbotapi.Chat{ID: testChatID},
			From:      &tgbotapi.User{ID: testChatID, UserName: "ivan"},
			Text:      text,
		},
	}
}

func photoUpdate() *tgbotapi.Update {
	u := messageUpdate("")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "proof"}}
	return u
}

func callbackUpdate(data string, chatID int64) *tgbotapi.Update {
	return &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			Data: data,
			From: &tgbotapi.User{ID: chatID},
			Message: &tgbotapi.Message{
				MessageID: 43,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
		},
	}
}

func sentTexts(bot *MockBotApi) []string {
	var texts []string
	for _, c := range bot.SentMessages {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func TestShowProductsSetsSelectionState(t *testing.T) {
	f := newFixture(t)

	if err := f.handler.ShowProducts(context.Background(), testUserID, testChatID); err != nil {
		t.Fatalf("show products: %v", err)
	}

	if f.sm.States[testChatID] != states.UserBuyOrderWaitProduct {
		t.Errorf("state = %s, want ubo_wt_product", f.sm.States[testChatID])
	}
	texts := sentTexts(f.bot)
	if len(texts) != 1 {
		t.Fatalf("sent %d messages, want 1", len(texts))
	}
	if !strings.Contains(texts[0], "Месяц") || !strings.Contains(texts[0], "Год") {
		t.Errorf("carousel misses products: %s", texts[0])
	}
	if !strings.Contains(texts[0], "1.") || !strings.Contains(texts[0], "2.") {
		t.Errorf("carousel must number products: %s", texts[0])
	}
}

func TestBuyCallbackCreatesPendingOrder(t *testing.T) {
	f := newFixture(t)

	err := f.handler.HandleCallback(callbackUpdate("buy_10", testChatID), testUserID)
	if err != nil {
		t.Fatalf("buy callback: %v", err)
	}

	order := f.orders.Orders[1]
	if order == nil {
		t.Fatal("order was not created")
	}
	if order.Status != orders.StatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.Amount != 19900 {
		t.Errorf("amount = %d, want price snapshot 19900", order.Amount)
	}

	texts := sentTexts(f.bot)
	if len(texts) != 1 {
		t.Fatalf("sent %d messages, want payment instructions", len(texts))
	}
	if !strings.Contains(texts[0], settings.Defaults[settings.KeyPaymentInfo]) {
		t.Errorf("message misses payment info: %s", texts[0])
	}
}

func TestNumericSelectionCreatesOrder(t *testing.T) {
	f := newFixture(t)

	// Второй тариф из карусели.
	if err := f.handler.HandleNumeric(context.Background(), testUserID, testChatID, testChatID, "2"); err != nil {
		t.Fatalf("numeric selection: %v", err)
	}

	order := f.orders.Orders[1]
	if order == nil {
		t.Fatal("order was not created")
	}
	if order.ProductID != 11 {
		t.Errorf("product id = %d, want 11", order.ProductID)
	}
}

func TestNumericSelectionOutOfRange(t *testing.T) {
	f := newFixture(t)

	if err := f.handler.HandleNumeric(context.Background(), testUserID, testChatID, testChatID, "9"); err != nil {
		t.Fatalf("numeric selection: %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Error("out of range number must not create an order")
	}
	texts := sentTexts(f.bot)
	if len(texts) != 1 || !strings.Contains(texts[0], "номер") {
		t.Errorf("want invalid number message, got %v", texts)
	}
}

func TestPaidCallbackMovesToProofState(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)

	err := f.handler.HandleCallback(callbackUpdate("ord_paid_1", testChatID), testUserID)
	if err != nil {
		t.Fatalf("paid callback: %v", err)
	}

	if f.orders.Orders[1].Status != orders.StatusAwaitingConfirmation {
		t.Errorf("status = %s, want awaiting_confirmation", f.orders.Orders[1].Status)
	}
	if f.sm.States[testChatID] != states.UserBuyOrderWaitProof {
		t.Errorf("state = %s, want ubo_wt_proof", f.sm.States[testChatID])
	}
}

func TestCancelCallback(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)

	err := f.handler.HandleCallback(callbackUpdate("ord_cancel_1", testChatID), testUserID)
	if err != nil {
		t.Fatalf("cancel callback: %v", err)
	}

	if f.orders.Orders[1].Status != orders.StatusCancelled {
		t.Errorf("status = %s, want cancelled", f.orders.Orders[1].Status)
	}
}

func TestProofForwardedToAdmins(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)
	_, _ = f.orders.MarkPaid(context.Background(), 1)
	f.sm.SetState(testChatID, states.UserBuyOrderWaitProof, &flows.BuyOrderFlowData{UserID: testUserID, OrderID: 1})

	if err := f.handler.Handle(photoUpdate(), states.UserBuyOrderWaitProof); err != nil {
		t.Fatalf("proof: %v", err)
	}

	var forwards int
	var adminTexts []string
	for _, c := range f.bot.SentMessages {
		switch msg := c.(type) {
		case tgbotapi.ForwardConfig:
			forwards++
			if msg.ChatID != adminChatID {
				t.Errorf("forwarded to chat %d, want admin %d", msg.ChatID, adminChatID)
			}
		case tgbotapi.MessageConfig:
			if msg.ChatID == adminChatID {
				adminTexts = append(adminTexts, msg.Text)
			}
		}
	}
	if forwards != 1 {
		t.Errorf("forwards = %d, want 1", forwards)
	}
	if len(adminTexts) != 1 || !strings.Contains(adminTexts[0], "Заказ №1") {
		t.Errorf("admin review = %v, want order summary", adminTexts)
	}
	if _, exists := f.sm.States[testChatID]; exists {
		t.Error("proof must clear the dialog state")
	}
}

func TestProofRequiresAttachment(t *testing.T) {
	f := newFixture(t)
	f.sm.SetState(testChatID, states.UserBuyOrderWaitProof, &flows.BuyOrderFlowData{UserID: testUserID, OrderID: 1})

	if err := f.handler.Handle(messageUpdate("оплатил вчера"), states.UserBuyOrderWaitProof); err != nil {
		t.Fatalf("proof: %v", err)
	}

	if f.sm.States[testChatID] != states.UserBuyOrderWaitProof {
		t.Error("text without attachment must keep waiting for proof")
	}
}

func TestAdminConfirmIssuesConfig(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)
	_, _ = f.orders.MarkPaid(context.Background(), 1)

	err := f.handler.HandleAdminCallback(callbackUpdate("adm_confirm_1", adminChatID))
	if err != nil {
		t.Fatalf("confirm callback: %v", err)
	}

	if f.orders.Orders[1].Status != orders.StatusCompleted {
		t.Errorf("status = %s, want completed", f.orders.Orders[1].Status)
	}
	if f.orders.IssuedCount != 1 {
		t.Errorf("issued = %d, want 1", f.orders.IssuedCount)
	}
	texts := sentTexts(f.bot)
	if len(texts) != 1 || !strings.Contains(texts[0], "подтверждён") {
		t.Errorf("admin ack = %v, want confirmation", texts)
	}
}

func TestAdminConfirmIssueFailureAlertsAdmin(t *testing.T) {
	f := newFixture(t)
	f.orders.IssueErr = errors.New("generator down")
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)
	_, _ = f.orders.MarkPaid(context.Background(), 1)

	err := f.handler.HandleAdminCallback(callbackUpdate("adm_confirm_1", adminChatID))
	if err != nil {
		t.Fatalf("confirm callback: %v", err)
	}

	if f.orders.Orders[1].Status != orders.StatusCompleted {
		t.Errorf("status = %s, order must complete even when issue fails", f.orders.Orders[1].Status)
	}
	texts := sentTexts(f.bot)
	if len(texts) != 1 || !strings.Contains(texts[0], "вручную") {
		t.Errorf("admin ack = %v, want manual issue warning", texts)
	}
}

func TestAdminReject(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)
	_, _ = f.orders.MarkPaid(context.Background(), 1)

	err := f.handler.HandleAdminCallback(callbackUpdate("adm_reject_1", adminChatID))
	if err != nil {
		t.Fatalf("reject callback: %v", err)
	}

	if f.orders.Orders[1].Status != orders.StatusCancelled {
		t.Errorf("status = %s, want cancelled", f.orders.Orders[1].Status)
	}
}

func TestFreeProductCompletesImmediately(t *testing.T) {
	f := newFixture(t)
	free := &products.Product{ID: 12, Name: "Пробный", Price: 0, ConfigType: products.ConfigTypeTrojan, DurationDays: 7, IsActive: true}
	f.handler.productService.(*MockProductService).Products = append(
		f.handler.productService.(*MockProductService).Products, free,
	)

	err := f.handler.HandleCallback(callbackUpdate("buy_12", adminChatID), testUserID)
	if err != nil {
		t.Fatalf("buy callback: %v", err)
	}

	order := f.orders.Orders[1]
	if order == nil || order.Status != orders.StatusCompleted {
		t.Fatalf("order = %+v, want completed", order)
	}
	if order.Amount != 0 {
		t.Errorf("amount = %d, want 0", order.Amount)
	}
	if f.orders.IssuedCount != 1 {
		t.Errorf("issued = %d, want 1", f.orders.IssuedCount)
	}
}

func TestFreeProductDeniedForNonAdmin(t *testing.T) {
	f := newFixture(t)
	free := &products.Product{ID: 12, Name: "Пробный", Price: 0, ConfigType: products.ConfigTypeTrojan, DurationDays: 7, IsActive: true}
	f.handler.productService.(*MockProductService).Products = append(
		f.handler.productService.(*MockProductService).Products, free,
	)

	err := f.handler.HandleCallback(callbackUpdate("buy_12", testChatID), testUserID)
	if err != nil {
		t.Fatalf("buy callback: %v", err)
	}

	if len(f.orders.Orders) != 0 {
		t.Fatalf("orders = %v, want none for non-admin", f.orders.Orders)
	}
	last := f.bot.SentMessages[len(f.bot.SentMessages)-1]
	if msg, ok := last.(tgbotapi.MessageConfig); !ok || !strings.Contains(msg.Text, "Нет прав") {
		t.Errorf("last message = %+v, want access denied", last)
	}
}

func TestFreeProductGateChecksSender(t *testing.T) {
	f := newFixture(t)
	free := &products.Product{ID: 12, Name: "Пробный", Price: 0, ConfigType: products.ConfigTypeTrojan, DurationDays: 7, IsActive: true}
	f.handler.productService.(*MockProductService).Products = append(
		f.handler.productService.(*MockProductService).Products, free,
	)

	// Кнопку нажал не-админ в чате админа: решает id отправителя.
	update := callbackUpdate("buy_12", adminChatID)
	update.CallbackQuery.From.ID = testChatID

	if err := f.handler.HandleCallback(update, testUserID); err != nil {
		t.Fatalf("buy callback: %v", err)
	}
	if len(f.orders.Orders) != 0 {
		t.Fatalf("orders = %v, want none", f.orders.Orders)
	}
}

func TestConfirmPendingOrderFails(t *testing.T) {
	f := newFixture(t)
	_, _ = f.orders.Create(context.Background(), testUserID, testProductID, 19900)

	// Оплата ещё не отмечена — подтверждать нечего.
	err := f.handler.HandleAdminCallback(callbackUpdate("adm_confirm_1", adminChatID))
	if err != nil {
		t.Fatalf("confirm callback: %v", err)
	}
	if f.orders.Orders[1].Status != orders.StatusPending {
		t.Errorf("status = %s, must stay pending", f.orders.Orders[1].Status)
	}
}
