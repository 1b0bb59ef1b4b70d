package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/products"
	"vpnstore-bot/internal/stories/vpnconfigs"
)

const vpnConfigsTable = "vpn_configs"

var vpnConfigRowFields = fields(vpnConfigRow{})

type vpnConfigRow struct {
	ID          int64          `db:"id"`
	UserID      int64          `db:"user_id"`
	Name        string         `db:"name"`
	ConfigType  string         `db:"config_type"`
	ConfigData  string         `db:"config_data"`
	CreatedAt   time.Time      `db:"created_at"`
	ValidUntil  time.Time      `db:"valid_until"`
	IsActive    bool           `db:"is_active"`
	XUIClientID sql.NullString `db:"x_ui_client_id"`
}

func (c vpnConfigRow) ToModel() *vpnconfigs.Config {
	return &vpnconfigs.Config{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		ConfigType:  products.ConfigType(c.ConfigType),
		ConfigData:  c.ConfigData,
		CreatedAt:   c.CreatedAt,
		ValidUntil:  c.ValidUntil,
		IsActive:    c.IsActive,
		XUIClientID: c.XUIClientID.String,
	}
}

func (s *storageImpl) CreateConfig(ctx context.Context, params vpnconfigs.CreateParams) (*vpnconfigs.Config, error) {
	values := map[string]interface{}{
		"user_id":        params.UserID,
		"name":           params.Name,
		"config_type":    string(params.ConfigType),
		"config_data":    params.ConfigData,
		"created_at":     s.now(),
		"valid_until":    params.ValidUntil.UTC(),
		"is_active":      true,
		"x_ui_client_id": params.XUIClientID,
	}

	q, args, err := s.stmpBuilder().
		Insert(vpnConfigsTable).
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

	return s.GetConfig(ctx, vpnconfigs.GetCriteria{ID: &id})
}

func (s *storageImpl) GetConfig(ctx context.Context, criteria vpnconfigs.GetCriteria) (*vpnconfigs.Config, error) {
	query := s.stmpBuilder().
		Select(vpnConfigRowFields).
		From(vpnConfigsTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var c vpnConfigRow
	err = row.Scan(&c.ID, &c.UserID, &c.Name, &c.ConfigType, &c.ConfigData, &c.CreatedAt, &c.ValidUntil, &c.IsActive, &c.XUIClientID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return c.ToModel(), nil
}

func (s *storageImpl) ListConfigs(ctx context.Context, criteria vpnconfigs.ListCriteria) ([]*vpnconfigs.Config, error) {
	query := s.stmpBuilder().
		Select(vpnConfigRowFields).
		From(vpnConfigsTable).
		OrderBy("created_at DESC")

	if criteria.UserID != nil {
		query = query.Where(sq.Eq{"user_id": *criteria.UserID})
	}
	if criteria.IsActive != nil {
		query = query.Where(sq.Eq{"is_active": *criteria.IsActive})
	}
	if criteria.ExpiredBefore != nil {
		query = query.Where(sq.Lt{"valid_until": criteria.ExpiredBefore.UTC()})
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

	var result []*vpnconfigs.Config
	for rows.Next() {
		var c vpnConfigRow
		err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.ConfigType, &c.ConfigData, &c.CreatedAt, &c.ValidUntil, &c.IsActive, &c.XUIClientID)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result = append(result, c.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}

func (s *storageImpl) SetConfigActive(ctx context.Context, id int64, active bool) (*vpnconfigs.Config, error) {
	q, args, err := s.stmpBuilder().
		Update(vpnConfigsTable).
		Set("is_active", active).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetConfig(ctx, vpnconfigs.GetCriteria{ID: &id})
}
