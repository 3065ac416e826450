package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"routine_bot/internal/domain/activity"
	"routine_bot/internal/domain/reminder"
	"routine_bot/internal/domain/user"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Dispatcher resolves a reminder payload and delivers it. A returned error is
// logged; the job stays scheduled for its next occurrence.
type Dispatcher interface {
	Dispatch(ctx context.Context, u *user.User, kind reminder.Kind) error
}

const dispatchTimeout = 1 * time.Minute

// ReminderScheduler owns the set of recurring reminder jobs, one per
// (kind, user). Reconcile replaces the whole set atomically with respect to
// the firing clock: a fresh cron engine is built cold with every job, the old
// engine is stopped and drained, and only then does the new engine start. No
// job ever fires against a half-built set.
type ReminderScheduler struct {
	mu         sync.Mutex
	engine     *cron.Cron
	jobs       map[reminder.JobKey]cron.EntryID
	plan       []reminder.Definition
	dispatcher Dispatcher
	loc        *time.Location
	logger     *logrus.Entry
}

func NewReminderScheduler(
	plan []reminder.Definition,
	dispatcher Dispatcher,
	loc *time.Location,
	logger *logrus.Entry,
) *ReminderScheduler {
	return &ReminderScheduler{
		engine:     cron.New(cron.WithLocation(loc)),
		jobs:       make(map[reminder.JobKey]cron.EntryID),
		plan:       plan,
		dispatcher: dispatcher,
		loc:        loc,
		logger:     logger,
	}
}

// Start activates the firing clock. Safe to call before the first Reconcile;
// the job set is empty until then.
func (s *ReminderScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Start()
	s.logger.Info("Reminder scheduler started")
}

// Reconcile cancels every scheduled job and recreates one job per enabled
// user and reminder definition. Call it whenever the user population or a
// notification flag changes.
func (s *ReminderScheduler) Reconcile(users []*user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cron.New(cron.WithLocation(s.loc))
	nextJobs := make(map[reminder.JobKey]cron.EntryID)

	scheduled := 0
	for _, u := range users {
		if !u.NotificationsEnabled {
			continue
		}
		target := *u // job payloads keep their own copy of the user
		for _, def := range s.plan {
			key := reminder.JobKey{Kind: def.Kind, UserID: u.TelegramID}
			kind := def.Kind
			entryID, err := next.AddFunc(cronSpec(def), func() {
				s.fire(&target, kind)
			})
			if err != nil {
				return fmt.Errorf("failed to schedule %s for user %d: %w", def.Kind, u.TelegramID, err)
			}
			nextJobs[key] = entryID
			scheduled++
		}
	}

	// Swap under the lock: drain the old clock, then start the new one.
	stopCtx := s.engine.Stop()
	<-stopCtx.Done()
	next.Start()
	s.engine = next
	s.jobs = nextJobs

	s.logger.WithFields(logrus.Fields{
		"users": len(users),
		"jobs":  scheduled,
	}).Info("Reminder jobs reconciled")
	return nil
}

// fire runs in the cron entry's own goroutine; a failing or slow dispatch for
// one job never delays others firing at the same instant.
func (s *ReminderScheduler) fire(u *user.User, kind reminder.Kind) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Dispatch(ctx, u, kind); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": u.TelegramID,
			"kind":    kind,
		}).Error("Reminder dispatch failed; job remains scheduled")
	}
}

// JobKeys returns a snapshot of the scheduled job set, sorted for stable
// comparison.
func (s *ReminderScheduler) JobKeys() []reminder.JobKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]reminder.JobKey, 0, len(s.jobs))
	for k := range s.jobs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].UserID != keys[j].UserID {
			return keys[i].UserID < keys[j].UserID
		}
		return keys[i].Kind < keys[j].Kind
	})
	return keys
}

func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.engine.Stop()
	<-ctx.Done() // Wait for running jobs to finish
	s.logger.Info("Reminder scheduler gracefully stopped")
}

// cronSpec renders a definition as a standard five-field cron expression in
// the scheduler's location, e.g. "30 6 * * 1,2,3,4,5".
func cronSpec(def reminder.Definition) string {
	dayField := "*"
	if def.Days != activity.EveryDay {
		days := def.Days.List()
		parts := make([]string, len(days))
		for i, d := range days {
			parts[i] = fmt.Sprintf("%d", int(d))
		}
		dayField = strings.Join(parts, ",")
	}
	return fmt.Sprintf("%d %d * * %s", def.At.Minute, def.At.Hour, dayField)
}
