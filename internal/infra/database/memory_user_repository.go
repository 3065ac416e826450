package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"routine_bot/internal/domain/user"
)

// MemoryUserRepository is an in-memory user.Repository for tests and local
// development.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]*user.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]*user.User)}
}

func (r *MemoryUserRepository) Upsert(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.users[u.TelegramID]; ok {
		existing.ChatID = u.ChatID
		existing.FirstName = u.FirstName
		existing.UpdatedAt = now
		*u = *existing
		return nil
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := *u
	r.users[u.TelegramID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByTelegramID(_ context.Context, telegramID int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepository) SetNotificationsEnabled(_ context.Context, telegramID int64, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[telegramID]
	if !ok {
		return ErrUserNotFound
	}
	u.NotificationsEnabled = enabled
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepository) ListEnabled(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(u *user.User) bool { return u.NotificationsEnabled }), nil
}

func (r *MemoryUserRepository) ListAll(_ context.Context) ([]*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.collect(func(*user.User) bool { return true }), nil
}

func (r *MemoryUserRepository) collect(keep func(*user.User) bool) []*user.User {
	out := make([]*user.User, 0)
	for _, u := range r.users {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out
}
