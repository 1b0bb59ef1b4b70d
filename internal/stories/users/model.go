package users

import "time"

type User struct {
	ID               int64
	TelegramID       *string // внешний идентификатор чата; уникален, если задан
	Username         string
	FirstName        string
	LastName         *string
	IsBlocked        bool
	RegistrationDate time.Time
}

// DisplayName возвращает имя для подписи конфигурации и сообщений админу.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

// FullName возвращает "Имя Фамилия" без хвостового пробела.
func (u *User) FullName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}

type GetCriteria struct {
	ID         *int64
	TelegramID *string
}

type ListCriteria struct {
	Limit  int
	Offset int
}

type CreateParams struct {
	TelegramID *string
	Username   string
	FirstName  string
	LastName   *string
}
