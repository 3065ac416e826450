package activity

import (
	"context"
	"time"
)

// Repository defines the operations for persisting and retrieving activity
// instances and their completion state.
type Repository interface {
	// BulkInsert stores all instances in one transaction and assigns their
	// IDs. Either every instance is persisted or none are.
	BulkInsert(ctx context.Context, instances []*Instance) error
	// Complete marks the instance done and records the completion time.
	// Returns ErrActivityNotFound (from the implementing package) when no
	// instance with that id belongs to the user. Repeat calls are no-ops.
	Complete(ctx context.Context, id int64, userID int64, at time.Time) error
	// ListForDate returns the user's instances for one calendar day, ordered
	// by scheduled time.
	ListForDate(ctx context.Context, userID int64, date time.Time) ([]*Instance, error)
	// ListForDateRange returns the user's instances with date in [start, end],
	// both inclusive.
	ListForDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*Instance, error)
}
