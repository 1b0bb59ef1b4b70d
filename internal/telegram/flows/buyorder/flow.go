package buyorder

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/settings"
	"vpnstore-bot/internal/telegram/flows"
	"vpnstore-bot/internal/telegram/messages"
	"vpnstore-bot/internal/telegram/states"
)

// Префиксы callback-кнопок конвейера заказа.
const (
	CallbackBuyPrefix     = "buy_"
	CallbackPaidPrefix    = "ord_paid_"
	CallbackCancelPrefix  = "ord_cancel_"
	CallbackConfirmPrefix = "adm_confirm_"
	CallbackRejectPrefix  = "adm_reject_"
)

const lang = "ru"

type Handler struct {
	bot             botApi
	stateManager    stateManager
	productService  productService
	orderService    orderService
	settingsService settingsService
	l10n            localizer
	logger          *slog.Logger
}

func NewHandler(
	bot botApi,
	sm stateManager,
	ps productService,
	os orderService,
	ss settingsService,
	l10n localizer,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		stateManager:    sm,
		productService:  ps,
		orderService:    os,
		settingsService: ss,
		l10n:            l10n,
		logger:          logger,
	}
}

// ShowProducts показывает карусель тарифов: нумерованный список плюс
// кнопки покупки. Выбрать можно кнопкой или номером в ответ.
func (h *Handler) ShowProducts(ctx context.Context, userID, chatID int64) error {
	active, err := h.productService.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("get products: %w", err)
	}

	if len(active) == 0 {
		h.stateManager.Clear(chatID)
		_, err = h.bot.Send(tgbotapi.NewMessage(chatID, h.l10n.Get(lang, "products.no_active", nil)))
		return err
	}

	var b strings.Builder
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, product := range active {
		b.WriteString(h.l10n.Get(lang, "products.item", map[string]interface{}{
			"number": i + 1,
			"name":   product.Name,
			"price":  formatAmount(product.Price),
			"type":   strings.ToUpper(string(product.ConfigType)),
			"days":   product.DurationDays,
		}))
		b.WriteString("\n\n")

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %d. %s", messages.ButtonBuy, i+1, product.Name),
				CallbackBuyPrefix+strconv.FormatInt(product.ID, 10),
			),
		))
	}
	b.WriteString(h.l10n.Get(lang, "products.choose", nil))

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err = h.bot.Send(msg); err != nil {
		return err
	}

	h.stateManager.SetState(chatID, states.UserBuyOrderWaitProduct, &flows.BuyOrderFlowData{UserID: userID})
	return nil
}

// Handle обрабатывает текущее состояние
func (h *Handler) Handle(update *tgbotapi.Update, state states.State) error {
	ctx := context.Background()

	switch state {
	case states.UserBuyOrderWaitProduct:
		return h.handleProductMessage(ctx, update)
	case states.UserBuyOrderWaitProof:
		return h.handleProof(ctx, update)
	default:
		return fmt.Errorf("unknown state: %s", state)
	}
}

// HandleNumeric обрабатывает голый номер тарифа без активного диалога:
// пользователь мог ответить числом на давно показанную карусель.
func (h *Handler) HandleNumeric(ctx context.Context, userID, callerID, chatID int64, text string) error {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return h.selectNumber(ctx, userID, callerID, chatID, number)
}

func (h *Handler) handleProductMessage(ctx context.Context, update *tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID

	flowData, err := h.stateManager.GetBuyOrderData(chatID)
	if err != nil {
		h.stateManager.Clear(chatID)
		return h.sendText(chatID, messages.Error)
	}

	number, err := strconv.Atoi(strings.TrimSpace(update.Message.Text))
	if err != nil {
		return h.sendText(chatID, h.l10n.Get(lang, "products.invalid_number", nil))
	}

	return h.selectNumber(ctx, flowData.UserID, update.Message.From.ID, chatID, number)
}

func (h *Handler) selectNumber(ctx context.Context, userID, callerID, chatID int64, number int) error {
	active, err := h.productService.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("get products: %w", err)
	}

	if number < 1 || number > len(active) {
		return h.sendText(chatID, h.l10n.Get(lang, "products.invalid_number", nil))
	}

	return h.startOrder(ctx, userID, callerID, chatID, active[number-1])
}

// HandleCallback обрабатывает пользовательские кнопки конвейера:
// покупка, «Я оплатил», отмена. Работает независимо от состояния.
func (h *Handler) HandleCallback(update *tgbotapi.Update, userID int64) error {
	ctx := context.Background()
	data := update.CallbackQuery.Data
	chatID := update.CallbackQuery.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, CallbackBuyPrefix):
		productID, err := parseID(data, CallbackBuyPrefix)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		product, err := h.productService.GetByID(ctx, productID)
		if err != nil || product == nil || !product.IsActive {
			return h.answer(update, h.l10n.Get(lang, "products.no_active", nil))
		}
		if err := h.answer(update, ""); err != nil {
			return err
		}
		return h.startOrder(ctx, userID, update.CallbackQuery.From.ID, chatID, product)

	case strings.HasPrefix(data, CallbackPaidPrefix):
		orderID, err := parseID(data, CallbackPaidPrefix)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		return h.handlePaid(ctx, update, userID, chatID, orderID)

	case strings.HasPrefix(data, CallbackCancelPrefix):
		orderID, err := parseID(data, CallbackCancelPrefix)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		if _, err := h.orderService.Cancel(ctx, orderID); err != nil {
			h.logger.Warn("cancel order failed", "order_id", orderID, "error", err)
			return h.answer(update, messages.Error)
		}
		h.stateManager.Clear(chatID)
		return h.answer(update, messages.Cancel)
	}

	return nil
}

func (h *Handler) startOrder(ctx context.Context, userID, callerID, chatID int64, product *products.Product) error {
	// Бесплатный тариф — служебная выдача для проверки сервера,
	// доступен только админам. Права проверяются по id отправителя,
	// а не чата. Заказ проходит конвейер целиком: уведомление с
	// конфигурацией пришлёт сервис заказов.
	if product.Price == 0 {
		ids, err := h.settingsService.AdminIDs(ctx)
		if err != nil || !ids.Contains(callerID) {
			h.stateManager.Clear(chatID)
			return h.sendText(chatID, messages.AccessDenied)
		}

		result, err := h.orderService.CreateFree(ctx, userID, product.ID)
		if err != nil {
			h.logger.Error("create free order failed", "user_id", userID, "error", err)
			return h.sendText(chatID, messages.Error)
		}
		if result.IssueErr != nil {
			h.alertAdmins(ctx, h.l10n.Get(lang, "orders.admin_issue_failed", map[string]interface{}{
				"order_id": result.Order.ID,
				"error":    result.IssueErr.Error(),
			}))
		}
		h.stateManager.Clear(chatID)
		return nil
	}

	order, err := h.orderService.Create(ctx, userID, product.ID, product.Price)
	if err != nil {
		h.logger.Error("create order failed", "user_id", userID, "error", err)
		return h.sendText(chatID, messages.Error)
	}

	paymentInfo, err := h.settingsService.Value(ctx, settings.KeyPaymentInfo)
	if err != nil {
		return fmt.Errorf("get payment info: %w", err)
	}

	text := h.l10n.Get(lang, "orders.created", map[string]interface{}{
		"order_id":     order.ID,
		"product":      product.Name,
		"amount":       formatAmount(order.Amount),
		"payment_info": paymentInfo,
	})

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonPaid, CallbackPaidPrefix+strconv.FormatInt(order.ID, 10)),
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonCancel, CallbackCancelPrefix+strconv.FormatInt(order.ID, 10)),
		),
	)
	if _, err = h.bot.Send(msg); err != nil {
		return err
	}

	h.stateManager.Clear(chatID)
	return nil
}

func (h *Handler) handlePaid(ctx context.Context, update *tgbotapi.Update, userID, chatID, orderID int64) error {
	order, err := h.orderService.MarkPaid(ctx, orderID)
	if err != nil {
		h.logger.Warn("mark paid failed", "order_id", orderID, "error", err)
		return h.answer(update, messages.Error)
	}

	if err := h.answer(update, ""); err != nil {
		return err
	}

	h.stateManager.SetState(chatID, states.UserBuyOrderWaitProof, &flows.BuyOrderFlowData{
		UserID:  userID,
		OrderID: order.ID,
	})

	return h.sendText(chatID, h.l10n.Get(lang, "orders.awaiting_proof", nil))
}

// handleProof принимает скриншот чека и уходит с ним к админам.
func (h *Handler) handleProof(ctx context.Context, update *tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	chatID := update.Message.Chat.ID

	if len(update.Message.Photo) == 0 && update.Message.Document == nil {
		return h.sendText(chatID, messages.FlowProofNotFile)
	}

	flowData, err := h.stateManager.GetBuyOrderData(chatID)
	if err != nil {
		h.stateManager.Clear(chatID)
		return h.sendText(chatID, messages.Error)
	}

	order, err := h.orderService.GetByID(ctx, flowData.OrderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	product, err := h.productService.GetByID(ctx, order.ProductID)
	if err != nil || product == nil {
		return fmt.Errorf("get product %d: %w", order.ProductID, err)
	}

	review := h.l10n.Get(lang, "orders.admin_review", map[string]interface{}{
		"order_id": order.ID,
		"product":  product.Name,
		"amount":   formatAmount(order.Amount),
		"user":     displayName(update.Message.From),
	})
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonConfirm, CallbackConfirmPrefix+strconv.FormatInt(order.ID, 10)),
			tgbotapi.NewInlineKeyboardButtonData(messages.ButtonReject, CallbackRejectPrefix+strconv.FormatInt(order.ID, 10)),
		),
	)

	adminIDs, err := h.settingsService.AdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("get admin ids: %w", err)
	}
	for _, adminID := range adminIDs {
		if _, err := h.bot.Send(tgbotapi.NewForward(adminID, chatID, update.Message.MessageID)); err != nil {
			h.logger.Warn("forward proof failed", "admin_id", adminID, "error", err)
			continue
		}
		msg := tgbotapi.NewMessage(adminID, review)
		msg.ReplyMarkup = keyboard
		if _, err := h.bot.Send(msg); err != nil {
			h.logger.Warn("send review failed", "admin_id", adminID, "error", err)
		}
	}

	h.stateManager.Clear(chatID)

	confirmation, err := h.settingsService.Value(ctx, settings.KeyPaymentConfirmation)
	if err != nil {
		return fmt.Errorf("get confirmation message: %w", err)
	}
	return h.sendText(chatID, confirmation)
}

// HandleAdminCallback обрабатывает кнопки подтверждения и отклонения
// оплаты. Права админа проверяет роутер.
func (h *Handler) HandleAdminCallback(update *tgbotapi.Update) error {
	ctx := context.Background()
	data := update.CallbackQuery.Data
	adminChatID := update.CallbackQuery.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, CallbackConfirmPrefix):
		orderID, err := parseID(data, CallbackConfirmPrefix)
		if err != nil {
			return h.answer(update, messages.Error)
		}

		result, err := h.orderService.Complete(ctx, orderID, h.settingsService.AutoActivate(ctx))
		if err != nil {
			h.logger.Warn("complete order failed", "order_id", orderID, "error", err)
			return h.answer(update, messages.Error)
		}
		if err := h.answer(update, ""); err != nil {
			return err
		}
		if result.AlreadyCompleted {
			return h.sendText(adminChatID, h.l10n.Get(lang, "orders.admin_confirmed", map[string]interface{}{"order_id": orderID}))
		}
		if result.IssueErr != nil {
			return h.sendText(adminChatID, h.l10n.Get(lang, "orders.admin_issue_failed", map[string]interface{}{
				"order_id": orderID,
				"error":    result.IssueErr.Error(),
			}))
		}
		return h.sendText(adminChatID, h.l10n.Get(lang, "orders.admin_confirmed", map[string]interface{}{"order_id": orderID}))

	case strings.HasPrefix(data, CallbackRejectPrefix):
		orderID, err := parseID(data, CallbackRejectPrefix)
		if err != nil {
			return h.answer(update, messages.Error)
		}
		if _, err := h.orderService.Reject(ctx, orderID); err != nil {
			h.logger.Warn("reject order failed", "order_id", orderID, "error", err)
			return h.answer(update, messages.Error)
		}
		if err := h.answer(update, ""); err != nil {
			return err
		}
		return h.sendText(adminChatID, h.l10n.Get(lang, "orders.admin_rejected", map[string]interface{}{"order_id": orderID}))
	}

	return nil
}

func (h *Handler) alertAdmins(ctx context.Context, text string) {
	adminIDs, err := h.settingsService.AdminIDs(ctx)
	if err != nil {
		h.logger.Warn("get admin ids failed", "error", err)
		return
	}
	for _, adminID := range adminIDs {
		if _, err := h.bot.Send(tgbotapi.NewMessage(adminID, text)); err != nil {
			h.logger.Warn("alert admin failed", "admin_id", adminID, "error", err)
		}
	}
}

func (h *Handler) sendText(chatID int64, text string) error {
	_, err := h.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (h *Handler) answer(update *tgbotapi.Update, text string) error {
	callback := tgbotapi.NewCallback(update.CallbackQuery.ID, text)
	_, err := h.bot.Request(callback)
	return err
}

func parseID(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
}

func displayName(from *tgbotapi.User) string {
	if from == nil {
		return "?"
	}
	if from.UserName != "" {
		return "@" + from.UserName
	}
	return strings.TrimSpace(from.FirstName + " " + from.LastName)
}

func formatAmount(kopecks int64) string {
	return fmt.Sprintf("%.2f", float64(kopecks)/100)
}
