package user

import (
	"context"
)

// Repository defines the operations for the user registry.
type Repository interface {
	// Upsert creates the user on first contact and updates ChatID/FirstName
	// on subsequent contacts. Idempotent.
	Upsert(ctx context.Context, u *User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	// SetNotificationsEnabled toggles the reminder flag. Returns the
	// implementing package's not-found error for unknown users.
	SetNotificationsEnabled(ctx context.Context, telegramID int64, enabled bool) error
	// ListEnabled returns the users with notifications on, the input of the
	// scheduler's reconciliation pass.
	ListEnabled(ctx context.Context) ([]*User, error)
	ListAll(ctx context.Context) ([]*User, error)
}
