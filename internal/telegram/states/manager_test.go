package states

import (
	"testing"
	"time"

	"vpnstore-bot/internal/telegram/flows"
)

func TestManagerSetGetClear(t *testing.T) {
	m := NewManager(DefaultTTL)

	if got := m.GetState(1); got != StateNone {
		t.Fatalf("empty manager state = %s, want none", got)
	}

	m.SetState(1, UserBuyOrderWaitProof, &flows.BuyOrderFlowData{OrderID: 7})
	if got := m.GetState(1); got != UserBuyOrderWaitProof {
		t.Errorf("state = %s, want ubo_wt_proof", got)
	}

	data, err := m.GetBuyOrderData(1)
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if data.OrderID != 7 {
		t.Errorf("order id = %d, want 7", data.OrderID)
	}

	m.Clear(1)
	if got := m.GetState(1); got != StateNone {
		t.Errorf("state after clear = %s, want none", got)
	}
}

func TestManagerKeepsDataOnNil(t *testing.T) {
	m := NewManager(DefaultTTL)
	m.SetState(1, UserBuyOrderWaitProduct, &flows.BuyOrderFlowData{ProductID: 3})

	// Смена состояния без данных не теряет данные флоу.
	m.SetState(1, UserBuyOrderWaitProof, nil)

	data, err := m.GetBuyOrderData(1)
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if data.ProductID != 3 {
		t.Errorf("product id = %d, want 3", data.ProductID)
	}
}

func TestManagerWrongDataType(t *testing.T) {
	m := NewManager(DefaultTTL)
	m.SetState(1, AdminSettingWaitValue, &flows.SettingEditFlowData{Key: "payment_info"})

	if _, err := m.GetBuyOrderData(1); err == nil {
		t.Error("reading setting data as buy order data must fail")
	}
	data, err := m.GetSettingEditData(1)
	if err != nil {
		t.Fatalf("get data: %v", err)
	}
	if data.Key != "payment_info" {
		t.Errorf("key = %s, want payment_info", data.Key)
	}
}

func TestManagerTTL(t *testing.T) {
	m := NewManager(time.Minute)
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.SetState(1, UserBuyOrderWaitProof, &flows.BuyOrderFlowData{OrderID: 7})

	current = current.Add(30 * time.Second)
	if got := m.GetState(1); got != UserBuyOrderWaitProof {
		t.Errorf("state before deadline = %s, want ubo_wt_proof", got)
	}

	current = current.Add(2 * time.Minute)
	if got := m.GetState(1); got != StateNone {
		t.Errorf("state after deadline = %s, want none", got)
	}
	if _, err := m.GetBuyOrderData(1); err == nil {
		t.Error("expired data must not be readable")
	}
}

func TestManagerSetStateProlongsTTL(t *testing.T) {
	m := NewManager(time.Minute)
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.SetState(1, UserBuyOrderWaitProduct, &flows.BuyOrderFlowData{})
	current = current.Add(45 * time.Second)
	m.SetState(1, UserBuyOrderWaitProof, nil)

	// Прошло больше минуты с первой установки, но меньше с последней.
	current = current.Add(45 * time.Second)
	if got := m.GetState(1); got != UserBuyOrderWaitProof {
		t.Errorf("state = %s, each SetState must extend the deadline", got)
	}
}

func TestManagerCleanupExpired(t *testing.T) {
	m := NewManager(time.Minute)
	current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.SetState(1, UserBuyOrderWaitProof, nil)
	m.SetState(2, AdminBroadcastWaitMessage, nil)
	current = current.Add(30 * time.Second)
	m.SetState(3, AdminSettingWaitValue, nil)

	current = current.Add(45 * time.Second)
	if removed := m.CleanupExpired(); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if got := m.GetState(3); got != AdminSettingWaitValue {
		t.Errorf("live state = %s, cleanup must not touch it", got)
	}
}
