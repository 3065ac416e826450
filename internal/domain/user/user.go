package user

import (
	"time"
)

// User represents a person tracked by the bot. TelegramID is the opaque
// identifier supplied by the transport; ChatID is where reminders are sent.
type User struct {
	TelegramID           int64
	ChatID               int64
	FirstName            string
	NotificationsEnabled bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
