package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/users"
)

const usersTable = "users"

var userRowFields = fields(userRow{})

type userRow struct {
	ID               int64          `db:"id"`
	TelegramID       sql.NullString `db:"telegram_id"`
	Username         string         `db:"username"`
	FirstName        string         `db:"first_name"`
	LastName         sql.NullString `db:"last_name"`
	IsBlocked        bool           `db:"is_blocked"`
	RegistrationDate time.Time      `db:"registration_date"`
}

func (u userRow) ToModel() *users.User {
	user := &users.User{
		ID:               u.ID,
		Username:         u.Username,
		FirstName:        u.FirstName,
		IsBlocked:        u.IsBlocked,
		RegistrationDate: u.RegistrationDate,
	}
	if u.TelegramID.Valid {
		user.TelegramID = &u.TelegramID.String
	}
	if u.LastName.Valid {
		user.LastName = &u.LastName.String
	}
	return user
}

func (s *storageImpl) CreateUser(ctx context.Context, params users.CreateParams) (*users.User, error) {
	values := map[string]interface{}{
		"telegram_id":       params.TelegramID,
		"username":          params.Username,
		"first_name":        params.FirstName,
		"last_name":         params.LastName,
		"is_blocked":        false,
		"registration_date": s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(usersTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId: %w", err)
	}

	return s.GetUser(ctx, users.GetCriteria{ID: &id})
}

func (s *storageImpl) GetUser(ctx context.Context, criteria users.GetCriteria) (*users.User, error) {
	query := s.stmpBuilder().
		Select(userRowFields).
		From(usersTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}
	if criteria.TelegramID != nil {
		query = query.Where(sq.Eq{"telegram_id": *criteria.TelegramID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var u userRow
	err = row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.IsBlocked, &u.RegistrationDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return u.ToModel(), nil
}

func (s *storageImpl) ListUsers(ctx context.Context, criteria users.ListCriteria) ([]*users.User, error) {
	query := s.stmpBuilder().
		Select(userRowFields).
		From(usersTable).
		OrderBy("registration_date DESC")

	if criteria.Limit > 0 {
		query = query.Limit(uint64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		query = query.Offset(uint64(criteria.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.QueryContext: %w", err)
	}
	defer rows.Close()

	var result []*users.User
	for rows.Next() {
		var u userRow
		err = rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.IsBlocked, &u.RegistrationDate)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result = append(result, u.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}

func (s *storageImpl) SetUserBlocked(ctx context.Context, id int64, blocked bool) (*users.User, error) {
	q, args, err := s.stmpBuilder().
		Update(usersTable).
		Set("is_blocked", blocked).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetUser(ctx, users.GetCriteria{ID: &id})
}
