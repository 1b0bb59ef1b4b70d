package orders

import "time"

type Status string

const (
	StatusPending              Status = "pending"
	StatusAwaitingConfirmation Status = "awaiting_confirmation"
	StatusCompleted            Status = "completed"
	StatusCancelled            Status = "cancelled"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Event — действие пользователя или админа, двигающее заказ по конвейеру.
type Event string

const (
	EventUserPaid       Event = "user_paid"       // кнопка «Я оплатил»
	EventUserCancelled  Event = "user_cancelled"  // кнопка «Отменить заказ»
	EventAdminConfirmed Event = "admin_confirmed" // подтверждение оплаты админом
	EventAdminRejected  Event = "admin_rejected"  // отклонение оплаты админом
)

// Effect — намерение побочного эффекта, которое возвращает чистая
// функция перехода. Исполняет эффекты сервис, не машина состояний.
type Effect string

const (
	EffectIssueConfig Effect = "issue_config"
	EffectNotifyUser  Effect = "notify_user"
)

type Order struct {
	ID        int64
	UserID    int64
	ProductID int64
	Amount    int64 // копейки, снимок цены на момент создания
	Status    Status
	CreatedAt time.Time
	PaidAt    *time.Time
	ConfigID  *int64
}

type GetCriteria struct {
	ID *int64
}

type ListCriteria struct {
	UserID *int64
	Status *Status
	Limit  int
	Offset int
}

type CreateParams struct {
	UserID    int64
	ProductID int64
	Amount    int64
	Status    Status
}

// CompletionResult описывает итог перевода заказа в completed.
type CompletionResult struct {
	Order *Order
	// ConfigID указывает на выпущенную конфигурацию; nil, если выпуск
	// пропущен или не удался.
	ConfigID *int64
	// AlreadyCompleted — повторное подтверждение; ничего не менялось.
	AlreadyCompleted bool
	// IssueErr — выпуск не удался (нет продукта/пользователя и т.п.).
	// Статус заказа при этом всё равно записан как completed.
	IssueErr error
}
