package activity

import (
	"database/sql"
	"time"
)

// Instance is a concrete, datable, completable occurrence of a template rule.
// Created once per (user, date, rule match); only the completion operation
// mutates it afterwards.
type Instance struct {
	ID             int64
	UserID         int64
	Date           time.Time // calendar day, midnight in the anchor timezone
	Category       Category
	Name           string
	ScheduledTime  TimeOfDay
	Completed      bool
	CompletionTime sql.NullTime
	Notes          string
	CreatedAt      time.Time
}
