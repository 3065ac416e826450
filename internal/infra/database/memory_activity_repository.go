package database

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"routine_bot/internal/domain/activity"
)

// MemoryActivityRepository is a mutex-guarded in-memory implementation of
// activity.Repository, used by tests and local development. It mirrors the
// Postgres repository's semantics: transactional bulk insert, first
// completion wins, listings ordered by scheduled time then insertion order.
type MemoryActivityRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*activity.Instance
}

func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		nextID: 1,
		rows:   make(map[int64]*activity.Instance),
	}
}

func (r *MemoryActivityRepository) BulkInsert(_ context.Context, instances []*activity.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, inst := range instances {
		inst.ID = r.nextID
		inst.CreatedAt = now
		r.nextID++
		stored := *inst
		r.rows[inst.ID] = &stored
	}
	return nil
}

func (r *MemoryActivityRepository) Complete(_ context.Context, id int64, userID int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.rows[id]
	if !ok || inst.UserID != userID {
		return ErrActivityNotFound
	}
	if inst.Completed {
		return nil
	}
	inst.Completed = true
	inst.CompletionTime = sql.NullTime{Time: at, Valid: true}
	return nil
}

func (r *MemoryActivityRepository) ListForDate(_ context.Context, userID int64, date time.Time) ([]*activity.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(userID, date, date), nil
}

func (r *MemoryActivityRepository) ListForDateRange(_ context.Context, userID int64, start, end time.Time) ([]*activity.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(userID, start, end), nil
}

func (r *MemoryActivityRepository) collect(userID int64, start, end time.Time) []*activity.Instance {
	out := make([]*activity.Instance, 0)
	for _, inst := range r.rows {
		if inst.UserID != userID {
			continue
		}
		if inst.Date.Before(start) || inst.Date.After(end) {
			continue
		}
		cp := *inst
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].ScheduledTime != out[j].ScheduledTime {
			return out[i].ScheduledTime.Before(out[j].ScheduledTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
