package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

var ErrNotFound = errors.New("order not found")

type Service struct {
	storage  Storage
	issuer   ConfigIssuer
	notifier Notifier
	logger   *slog.Logger
}

func NewService(storage Storage, issuer ConfigIssuer, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		issuer:   issuer,
		notifier: notifier,
		logger:   logger,
	}
}

// Create заводит заказ в статусе pending. Сумма — снимок цены тарифа на
// момент создания: последующие правки тарифа заказ не трогают.
func (s *Service) Create(ctx context.Context, userID, productID, amount int64) (*Order, error) {
	return s.storage.CreateOrder(ctx, CreateParams{
		UserID:    userID,
		ProductID: productID,
		Amount:    amount,
		Status:    StatusPending,
	})
}

// CreateFree проводит бесплатный тариф через весь конвейер сразу:
// pending -> awaiting_confirmation -> completed с выпуском конфигурации.
func (s *Service) CreateFree(ctx context.Context, userID, productID int64) (*CompletionResult, error) {
	order, err := s.Create(ctx, userID, productID, 0)
	if err != nil {
		return nil, err
	}
	if _, err := s.MarkPaid(ctx, order.ID); err != nil {
		return nil, err
	}
	return s.Complete(ctx, order.ID, true)
}

// MarkPaid переводит заказ в awaiting_confirmation по кнопке «Я оплатил».
func (s *Service) MarkPaid(ctx context.Context, orderID int64) (*Order, error) {
	order, _, err := s.apply(ctx, orderID, EventUserPaid)
	return order, err
}

// Cancel — отмена заказа самим пользователем.
func (s *Service) Cancel(ctx context.Context, orderID int64) (*Order, error) {
	order, effects, err := s.apply(ctx, orderID, EventUserCancelled)
	if err != nil {
		return nil, err
	}
	s.runNotify(ctx, order, effects, EventUserCancelled)
	return order, nil
}

// Reject — отклонение оплаты админом; конвейер тот же, что и у отмены.
func (s *Service) Reject(ctx context.Context, orderID int64) (*Order, error) {
	order, effects, err := s.apply(ctx, orderID, EventAdminRejected)
	if err != nil {
		return nil, err
	}
	s.runNotify(ctx, order, effects, EventAdminRejected)
	return order, nil
}

// Complete подтверждает оплату. Единственная точка перевода заказа в
// completed: и бот, и HTTP API идут через неё. Выпуск конфигурации
// выполняется до записи статуса; если выпуск упал, заказ всё равно
// становится completed, а ошибка возвращается в CompletionResult.IssueErr
// и видна в статистике как «completed без конфигурации».
func (s *Service) Complete(ctx context.Context, orderID int64, autoIssue bool) (*CompletionResult, error) {
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, effects, err := Transition(order.Status, EventAdminConfirmed)
	if err != nil {
		return nil, err
	}
	if next == StatusCompleted && order.Status == StatusCompleted {
		return &CompletionResult{Order: order, ConfigID: order.ConfigID, AlreadyCompleted: true}, nil
	}

	var configID *int64
	var issueErr error
	if autoIssue && hasEffect(effects, EffectIssueConfig) {
		id, err := s.issuer.IssueForOrder(ctx, order.UserID, order.ProductID)
		if err != nil {
			issueErr = err
			s.logger.Error("config issue failed", "order_id", order.ID, "error", err)
		} else {
			configID = lo.ToPtr(id)
		}
	}

	updated, err := s.storage.CompleteOrder(ctx, order.ID, time.Now(), configID)
	if err != nil {
		return nil, err
	}

	s.runNotify(ctx, updated, effects, EventAdminConfirmed)

	return &CompletionResult{Order: updated, ConfigID: configID, IssueErr: issueErr}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	return s.get(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]*Order, error) {
	return s.storage.ListOrders(ctx, ListCriteria{UserID: lo.ToPtr(userID)})
}

func (s *Service) List(ctx context.Context, criteria ListCriteria) ([]*Order, error) {
	return s.storage.ListOrders(ctx, criteria)
}

func (s *Service) get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.storage.GetOrder(ctx, GetCriteria{ID: lo.ToPtr(id)})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *Service) apply(ctx context.Context, orderID int64, event Event) (*Order, []Effect, error) {
	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	next, effects, err := Transition(order.Status, event)
	if err != nil {
		return nil, nil, err
	}
	if next == order.Status {
		return order, nil, nil
	}

	updated, err := s.storage.SetOrderStatus(ctx, order.ID, next)
	if err != nil {
		return nil, nil, err
	}
	return updated, effects, nil
}

func (s *Service) runNotify(ctx context.Context, order *Order, effects []Effect, event Event) {
	if s.notifier == nil || !hasEffect(effects, EffectNotifyUser) {
		return
	}
	if err := s.notifier.NotifyOrderStatus(ctx, order, event); err != nil {
		s.logger.Warn("order status notification failed", "order_id", order.ID, "error", err)
	}
}

func hasEffect(effects []Effect, e Effect) bool {
	for _, effect := range effects {
		if effect == e {
			return true
		}
	}
	return false
}
