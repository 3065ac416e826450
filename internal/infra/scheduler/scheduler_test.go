package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"routine_bot/internal/domain/activity"
	"routine_bot/internal/domain/reminder"
	"routine_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedDispatch struct {
	userID int64
	kind   reminder.Kind
}

type fakeDispatcher struct {
	mu    sync.Mutex
	err   error
	calls []recordedDispatch
}

func (d *fakeDispatcher) Dispatch(_ context.Context, u *user.User, kind reminder.Kind) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, recordedDispatch{userID: u.TelegramID, kind: kind})
	return d.err
}

func (d *fakeDispatcher) recorded() []recordedDispatch {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]recordedDispatch, len(d.calls))
	copy(out, d.calls)
	return out
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func enabledUser(id int64) *user.User {
	return &user.User{TelegramID: id, ChatID: id, NotificationsEnabled: true}
}

func newScheduler(d Dispatcher) *ReminderScheduler {
	plan := reminder.DefaultPlan(activity.DefaultTemplate())
	return NewReminderScheduler(plan, d, time.UTC, testLogger())
}

func TestCronSpec(t *testing.T) {
	tests := []struct {
		name string
		def  reminder.Definition
		want string
	}{
		{
			name: "single day",
			def: reminder.Definition{
				Days: activity.Days(time.Friday),
				At:   activity.MustTimeOfDay("09:00"),
			},
			want: "0 9 * * 5",
		},
		{
			name: "school days",
			def: reminder.Definition{
				Days: activity.Days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
				At:   activity.MustTimeOfDay("06:30"),
			},
			want: "30 6 * * 1,2,3,4,5",
		},
		{
			name: "every day",
			def: reminder.Definition{
				Days: activity.EveryDay,
				At:   activity.MustTimeOfDay("15:00"),
			},
			want: "0 15 * * *",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cronSpec(tt.def))
		})
	}
}

func TestReconcileSchedulesOneJobPerUserAndKind(t *testing.T) {
	s := newScheduler(&fakeDispatcher{})
	defer s.Stop()
	s.Start()

	require.NoError(t, s.Reconcile([]*user.User{enabledUser(1), enabledUser(2)}))

	keys := s.JobKeys()
	assert.Len(t, keys, 2*len(s.plan))
	assert.Contains(t, keys, reminder.JobKey{Kind: reminder.KindSchool, UserID: 1})
	assert.Contains(t, keys, reminder.JobKey{Kind: reminder.KindWeeklyReport, UserID: 2})
	assert.Contains(t, keys, reminder.JobKey{Kind: reminder.KindTaekwondoForms, UserID: 1})
}

func TestReconcileSkipsDisabledUsers(t *testing.T) {
	s := newScheduler(&fakeDispatcher{})
	defer s.Stop()
	s.Start()

	disabled := enabledUser(2)
	disabled.NotificationsEnabled = false
	require.NoError(t, s.Reconcile([]*user.User{enabledUser(1), disabled}))

	for _, key := range s.JobKeys() {
		assert.Equal(t, int64(1), key.UserID)
	}
	assert.Len(t, s.JobKeys(), len(s.plan))
}

func TestReconcileWithNoUsersClearsJobs(t *testing.T) {
	s := newScheduler(&fakeDispatcher{})
	defer s.Stop()
	s.Start()

	require.NoError(t, s.Reconcile([]*user.User{enabledUser(1)}))
	require.NotEmpty(t, s.JobKeys())

	require.NoError(t, s.Reconcile(nil))
	assert.Empty(t, s.JobKeys())
}

func TestReconcileIsIdempotent(t *testing.T) {
	s := newScheduler(&fakeDispatcher{})
	defer s.Stop()
	s.Start()

	users := []*user.User{enabledUser(1), enabledUser(2)}
	require.NoError(t, s.Reconcile(users))
	first := s.JobKeys()

	require.NoError(t, s.Reconcile(users))
	assert.Equal(t, first, s.JobKeys())
}

func TestFireDeliversToDispatcher(t *testing.T) {
	d := &fakeDispatcher{}
	s := newScheduler(d)

	target := enabledUser(7)
	s.fire(target, reminder.KindCoding)

	calls := d.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(7), calls[0].userID)
	assert.Equal(t, reminder.KindCoding, calls[0].kind)
}

func TestFireFailureLeavesJobsScheduled(t *testing.T) {
	d := &fakeDispatcher{err: errors.New("telegram unreachable")}
	s := newScheduler(d)
	defer s.Stop()
	s.Start()

	require.NoError(t, s.Reconcile([]*user.User{enabledUser(1)}))
	before := s.JobKeys()

	s.fire(enabledUser(1), reminder.KindSchool)

	assert.Equal(t, before, s.JobKeys())
	assert.Len(t, d.recorded(), 1)
}
