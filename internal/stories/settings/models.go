package settings

// Ключи магазина настроек. Хранятся в таблице settings как key/value;
// отсутствующий ключ читается со значением по умолчанию.
const (
	KeyTelegramBotToken    = "telegram_bot_token"
	KeyTelegramAdminIDs    = "telegram_admin_ids"
	KeyTelegramBotLink     = "telegram_bot_link"
	KeyWelcomeMessage      = "welcome_message"
	KeyHelpMessage         = "help_message"
	KeyOrderCompleted      = "order_completed_message"
	KeyPaymentConfirmation = "payment_confirmation_message"
	KeyPaymentInfo         = "payment_info"
	KeySupportContact      = "support_contact"
	KeyAutoActivateConfigs = "auto_activate_configs"
	KeyVPNServerAddress    = "vpn_server_address"
)

// Defaults — значения ключей, пока админ их не переопределил.
var Defaults = map[string]string{
	KeyWelcomeMessage:      "Добро пожаловать! Здесь можно купить VPN-конфигурацию. Команда /products покажет тарифы.",
	KeyHelpMessage:         "Команды: /products — тарифы, /my_configs — ваши конфигурации, /profile — профиль, /support — поддержка.",
	KeyOrderCompleted:      "Оплата подтверждена! Ваша конфигурация готова.",
	KeyPaymentConfirmation: "Мы получили подтверждение оплаты. Админ проверит его и активирует заказ.",
	KeyPaymentInfo:         "Переведите сумму заказа на карту и пришлите скриншот чека.",
	KeySupportContact:      "@support",
	KeyAutoActivateConfigs: "true",
	KeyVPNServerAddress:    "123.123.123.123",
}

type Setting struct {
	ID    int64
	Key   string
	Value string
}
