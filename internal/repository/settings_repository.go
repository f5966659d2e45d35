package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fee-tracker-console/internal/models"
)

// SettingsRepository persists console settings in the console_settings table.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches a single setting by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT key, value, updated_at FROM console_settings WHERE key = $1`
	var entry models.SettingEntry
	if err := r.db.GetContext(ctx, &entry, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set inserts or updates a setting.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	const query = `INSERT INTO console_settings (key, value, updated_at)
VALUES (:key, :value, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	entry := models.SettingEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// EnsureSchema creates the settings table when it does not exist yet.
func (r *SettingsRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS console_settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure console_settings: %w", err)
	}
	return nil
}
