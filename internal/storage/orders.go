package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"vpnstore-bot/internal/stories/orders"
)

const ordersTable = "orders"

var orderRowFields = fields(orderRow{})

type orderRow struct {
	ID        int64         `db:"id"`
	UserID    int64         `db:"user_id"`
	ProductID int64         `db:"product_id"`
	Amount    int64         `db:"amount"`
	Status    string        `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	PaidAt    sql.NullTime  `db:"paid_at"`
	ConfigID  sql.NullInt64 `db:"config_id"`
}

func (o orderRow) ToModel() *orders.Order {
	order := &orders.Order{
		ID:        o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Amount:    o.Amount,
		Status:    orders.Status(o.Status),
		CreatedAt: o.CreatedAt,
	}
	if o.PaidAt.Valid {
		order.PaidAt = &o.PaidAt.Time
	}
	if o.ConfigID.Valid {
		order.ConfigID = &o.ConfigID.Int64
	}
	return order
}

func (s *storageImpl) CreateOrder(ctx context.Context, params orders.CreateParams) (*orders.Order, error) {
	values := map[string]interface{}{
		"user_id":    params.UserID,
		"product_id": params.ProductID,
		"amount":     params.Amount,
		"status":     string(params.Status),
		"created_at": s.now(),
	}

	q, args, err := s.stmpBuilder().
		Insert(ordersTable).
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

	return s.GetOrder(ctx, orders.GetCriteria{ID: &id})
}

func (s *storageImpl) GetOrder(ctx context.Context, criteria orders.GetCriteria) (*orders.Order, error) {
	query := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable).
		Limit(1)

	if criteria.ID != nil {
		query = query.Where(sq.Eq{"id": *criteria.ID})
	}

	q, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, q, args...)

	var o orderRow
	err = row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Amount, &o.Status, &o.CreatedAt, &o.PaidAt, &o.ConfigID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return o.ToModel(), nil
}

func (s *storageImpl) ListOrders(ctx context.Context, criteria orders.ListCriteria) ([]*orders.Order, error) {
	query := s.stmpBuilder().
		Select(orderRowFields).
		From(ordersTable).
		OrderBy("created_at DESC")

	if criteria.UserID != nil {
		query = query.Where(sq.Eq{"user_id": *criteria.UserID})
	}
	if criteria.Status != nil {
		query = query.Where(sq.Eq{"status": string(*criteria.Status)})
	}
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

	var result []*orders.Order
	for rows.Next() {
		var o orderRow
		err = rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Amount, &o.Status, &o.CreatedAt, &o.PaidAt, &o.ConfigID)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		result = append(result, o.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return result, nil
}

func (s *storageImpl) SetOrderStatus(ctx context.Context, id int64, status orders.Status) (*orders.Order, error) {
	q, args, err := s.stmpBuilder().
		Update(ordersTable).
		Set("status", string(status)).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetOrder(ctx, orders.GetCriteria{ID: &id})
}

// CompleteOrder записывает статус completed, paid_at и ссылку на
// конфигурацию одной транзакцией, чтобы не оставить заказ наполовину
// проведённым.
func (s *storageImpl) CompleteOrder(ctx context.Context, id int64, paidAt time.Time, configID *int64) (*orders.Order, error) {
	q, args, err := s.stmpBuilder().
		Update(ordersTable).
		Set("status", string(orders.StatusCompleted)).
		Set("paid_at", paidAt.UTC()).
		Set("config_id", configID).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return fmt.Errorf("tx.ExecContext: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("result.RowsAffected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("order %d not found", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, orders.GetCriteria{ID: &id})
}
