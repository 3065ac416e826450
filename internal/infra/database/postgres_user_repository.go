package database

import (
	"context"
	"database/sql"
	"fmt"

	"routine_bot/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrUserNotFound is returned when no user with the given Telegram ID exists.
var ErrUserNotFound = fmt.Errorf("user not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Upsert creates the user on first contact and refreshes chat id and first
// name on later contacts. The notifications flag is only set on creation so
// an explicit opt-out survives repeated /start.
func (r *PostgresUserRepository) Upsert(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (telegram_id, chat_id, first_name, notifications_enabled)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (telegram_id) DO UPDATE
               SET chat_id = EXCLUDED.chat_id, first_name = EXCLUDED.first_name, updated_at = NOW()
               RETURNING notifications_enabled, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, u.TelegramID, u.ChatID, u.FirstName, u.NotificationsEnabled).
		Scan(&u.NotificationsEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query := `SELECT telegram_id, chat_id, first_name, notifications_enabled, created_at, updated_at
               FROM users WHERE telegram_id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, telegramID).
		Scan(&u.TelegramID, &u.ChatID, &u.FirstName, &u.NotificationsEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Telegram ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) SetNotificationsEnabled(ctx context.Context, telegramID int64, enabled bool) error {
	query := `UPDATE users SET notifications_enabled = $1, updated_at = NOW() WHERE telegram_id = $2`
	res, err := r.db.ExecContext(ctx, query, enabled, telegramID)
	if err != nil {
		return fmt.Errorf("error updating notifications flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking notifications flag update: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListEnabled(ctx context.Context) ([]*user.User, error) {
	query := `SELECT telegram_id, chat_id, first_name, notifications_enabled, created_at, updated_at
               FROM users WHERE notifications_enabled = TRUE ORDER BY telegram_id`
	return r.list(ctx, query)
}

func (r *PostgresUserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	query := `SELECT telegram_id, chat_id, first_name, notifications_enabled, created_at, updated_at
               FROM users ORDER BY telegram_id`
	return r.list(ctx, query)
}

func (r *PostgresUserRepository) list(ctx context.Context, query string) ([]*user.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.TelegramID, &u.ChatID, &u.FirstName, &u.NotificationsEnabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
