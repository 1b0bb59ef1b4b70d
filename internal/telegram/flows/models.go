package flows

// BuyOrderFlowData - data for buy order
type BuyOrderFlowData struct {
	UserID      int64 // Внутренний ID пользователя
	OrderID     int64
	ProductID   int64
	ProductName string
	Amount      int64 // копейки
}

// SettingEditFlowData - data for setting edit
type SettingEditFlowData struct {
	Key string
}

// MessageUserFlowData - data for admin messaging a user
type MessageUserFlowData struct {
	TargetUserID int64
	TargetChatID int64
	TargetName   string
}
