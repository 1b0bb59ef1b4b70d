package orders

import (
	"context"
	"time"
)

type Storage interface {
	CreateOrder(ctx context.Context, params CreateParams) (*Order, error)
	GetOrder(ctx context.Context, criteria GetCriteria) (*Order, error)
	ListOrders(ctx context.Context, criteria ListCriteria) ([]*Order, error)
	SetOrderStatus(ctx context.Context, id int64, status Status) (*Order, error)
	// CompleteOrder атомарно записывает completed, paid_at и ссылку на
	// конфигурацию одной транзакцией.
	CompleteOrder(ctx context.Context, id int64, paidAt time.Time, configID *int64) (*Order, error)
}

// ConfigIssuer выпускает конфигурацию под выполняемый заказ и возвращает
// её идентификатор.
type ConfigIssuer interface {
	IssueForOrder(ctx context.Context, userID, productID int64) (int64, error)
}

// Notifier доставляет пользователю уведомление о смене статуса заказа.
// Событие передаётся, чтобы отмена и отклонение формулировались
// по-разному. Ошибка доставки заказ не откатывает.
type Notifier interface {
	NotifyOrderStatus(ctx context.Context, order *Order, event Event) error
}
