package sqlite3

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema создаётся идемпотентно при каждом старте.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id TEXT UNIQUE,
		username TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT,
		is_blocked INTEGER NOT NULL DEFAULT 0,
		registration_date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		price INTEGER NOT NULL,
		config_type TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		amount INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		paid_at TIMESTAMP,
		config_id INTEGER REFERENCES vpn_configs(id)
	)`,
	`CREATE TABLE IF NOT EXISTS vpn_configs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL,
		config_type TEXT NOT NULL,
		config_data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		valid_until TIMESTAMP NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		x_ui_client_id TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT NOT NULL UNIQUE,
		value TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_vpn_configs_user_id ON vpn_configs(user_id)`,
}

func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}
