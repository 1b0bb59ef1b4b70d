package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/settings"
)

const settingsTable = "settings"

var settingRowFields = fields(settingRow{})

type settingRow struct {
	ID    int64          `db:"id"`
	Key   string         `db:"key"`
	Value sql.NullString `db:"value"`
}

func (r settingRow) ToModel() *settings.Setting {
	return &settings.Setting{
		ID:    r.ID,
		Key:   r.Key,
		Value: r.Value.String,
	}
}

func (s *storageImpl) GetSetting(ctx context.Context, key string) (*settings.Setting, error) {
	q, args, err := s.stmpBuilder().
		Select(settingRowFields).
		From(settingsTable).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var r settingRow
	err = row.Scan(&r.ID, &r.Key, &r.Value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return r.ToModel(), nil
}

func (s *storageImpl) UpsertSetting(ctx context.Context, key, value string) (*settings.Setting, error) {
	q, args, err := s.stmpBuilder().
		Insert(settingsTable).
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetSetting(ctx, key)
}

func (s *storageImpl) ListSettings(ctx context.Context) ([]*settings.Setting, error) {
	q, args, err := s.stmpBuilder().
		Select(settingRowFields).
		From(settingsTable).
		OrderBy("key ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("db.QueryContext: %w", err)
	}
	defer rows.Close()

	var result []*settings.Setting
	for rows.Next() {
		var r settingRow
		if err = rows.Scan(&r.ID, &r.Key, &r.Value); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result = append(result, r.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}
