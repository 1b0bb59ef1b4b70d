package messages

// Общие
const (
	Error        = "❌ Ошибка. Пожалуйста, попробуйте позже."
	Cancel       = "Отменено"
	AccessDenied = "❌ Нет прав"
	Blocked      = "Вы заблокированы и не можете пользоваться ботом."
)

// Кнопки
const (
	ButtonBuy        = "🛒 Купить"
	ButtonPaid       = "✅ Я оплатил"
	ButtonCancel     = "❌ Отменить заказ"
	ButtonConfirm    = "✅ Подтвердить"
	ButtonReject     = "❌ Отклонить"
	ButtonBlock      = "🚫 Заблокировать"
	ButtonUnblock    = "✅ Разблокировать"
	ButtonMessage    = "✉️ Написать"
	ButtonNextPage   = "▶️ Дальше"
	ButtonPrevPage   = "◀️ Назад"
	ButtonSettings   = "⚙️ Настройки"
	ButtonUsers      = "👥 Пользователи"
	ButtonBroadcast  = "📣 Рассылка"
	ButtonStats      = "📊 Статистика"
	ButtonStatsRenew = "🔄 Обновить"
)

// Flow messages
const (
	FlowUseButtons   = "Используйте кнопки для выбора"
	FlowProofNotFile = "Нужен скриншот или файл с чеком. Пришлите подтверждение оплаты."
)
