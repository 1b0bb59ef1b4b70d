package orders

import "fmt"

// ErrInvalidTransition возвращается, когда событие не определено для
// текущего статуса заказа.
type ErrInvalidTransition struct {
	From  Status
	Event Event
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid order transition: %s + %s", e.From, e.Event)
}

// Transition — чистая функция конвейера заказа:
//
//	pending -> awaiting_confirmation -> completed
//	pending|awaiting_confirmation -> cancelled
//
// Из терминальных статусов переходов нет; повторное подтверждение уже
// выполненного заказа — no-op без эффектов (идемпотентность выпуска).
func Transition(from Status, event Event) (Status, []Effect, error) {
	switch from {
	case StatusPending:
		switch event {
		case EventUserPaid:
			return StatusAwaitingConfirmation, nil, nil
		case EventUserCancelled, EventAdminRejected:
			return StatusCancelled, []Effect{EffectNotifyUser}, nil
		}

	case StatusAwaitingConfirmation:
		switch event {
		case EventAdminConfirmed:
			return StatusCompleted, []Effect{EffectIssueConfig, EffectNotifyUser}, nil
		case EventUserCancelled, EventAdminRejected:
			return StatusCancelled, []Effect{EffectNotifyUser}, nil
		}

	case StatusCompleted:
		if event == EventAdminConfirmed {
			// Идемпотентность: вторая конфигурация не выпускается.
			return StatusCompleted, nil, nil
		}

	case StatusCancelled:
		// терминальный
	}

	return from, nil, ErrInvalidTransition{From: from, Event: event}
}
