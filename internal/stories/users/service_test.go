package users

import (
	"context"
	"testing"
)

type storageMock struct {
	users   []*User
	creates int
}

func (m *storageMock) CreateUser(_ context.Context, params CreateParams) (*User, error) {
	m.creates++
	user := &User{
		ID:         int64(len(m.users) + 1),
		TelegramID: params.TelegramID,
		Username:   params.Username,
		FirstName:  params.FirstName,
		LastName:   params.LastName,
	}
	m.users = append(m.users, user)
	return user, nil
}

func (m *storageMock) GetUser(_ context.Context, criteria GetCriteria) (*User, error) {
	for _, user := range m.users {
		if criteria.ID != nil && user.ID == *criteria.ID {
			return user, nil
		}
		if criteria.TelegramID != nil && user.TelegramID != nil && *user.TelegramID == *criteria.TelegramID {
			return user, nil
		}
	}
	return nil, nil
}

func (m *storageMock) ListUsers(context.Context, ListCriteria) ([]*User, error) {
	return m.users, nil
}

func (m *storageMock) SetUserBlocked(_ context.Context, id int64, blocked bool) (*User, error) {
	for _, user := range m.users {
		if user.ID == id {
			user.IsBlocked = blocked
			return user, nil
		}
	}
	return nil, nil
}

func TestGetOrCreateRegistersOnce(t *testing.T) {
	storage := &storageMock{}
	svc := NewService(storage)

	first, err := svc.GetOrCreateByTelegramID(context.Background(), "42", "vasya", "Вася", "Пупкин")
	if err != nil {
		t.Fatalf("first contact: %v", err)
	}
	second, err := svc.GetOrCreateByTelegramID(context.Background(), "42", "vasya", "Вася", "Пупкин")
	if err != nil {
		t.Fatalf("repeat contact: %v", err)
	}

	if storage.creates != 1 {
		t.Errorf("creates = %d, repeat contact must reuse the row", storage.creates)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if second.LastName == nil || *second.LastName != "Пупкин" {
		t.Error("last name must be stored")
	}
}

func TestGetOrCreateWithoutUsername(t *testing.T) {
	storage := &storageMock{}
	svc := NewService(storage)

	user, err := svc.GetOrCreateByTelegramID(context.Background(), "42", "", "Вася", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if user.Username != "42" {
		t.Errorf("username = %q, want telegram id fallback", user.Username)
	}
	if user.LastName != nil {
		t.Error("empty last name must stay nil")
	}
}

func TestSetBlocked(t *testing.T) {
	storage := &storageMock{}
	svc := NewService(storage)

	user, err := svc.GetOrCreateByTelegramID(context.Background(), "42", "vasya", "Вася", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	blocked, err := svc.SetBlocked(context.Background(), user.ID, true)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if !blocked.IsBlocked {
		t.Error("user must be blocked")
	}
}
