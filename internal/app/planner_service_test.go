package app

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"routine_bot/internal/domain/activity"
	idb "routine_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newPlanner(t *testing.T, tmpl activity.Template, repo activity.Repository) *PlannerService {
	t.Helper()
	planner, err := NewPlannerService(tmpl, repo, time.UTC, testLogger())
	require.NoError(t, err)
	return planner
}

// Tuesday and Saturday in June 2025.
var (
	tuesday  = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 6, 7, 12, 0, 0, 0, time.UTC)
)

const userID = int64(100)

func TestGenerateSchoolDay(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)

	instances, err := planner.Generate(context.Background(), userID, tuesday)
	require.NoError(t, err)
	require.NotEmpty(t, instances)

	// Output is sorted non-decreasing by scheduled time.
	for i := 1; i < len(instances); i++ {
		assert.False(t, instances[i].ScheduledTime.Before(instances[i-1].ScheduledTime),
			"instance %d fires before its predecessor", i)
	}

	byCategory := make(map[activity.Category][]*activity.Instance)
	var order []activity.Category
	for _, inst := range instances {
		byCategory[inst.Category] = append(byCategory[inst.Category], inst)
		order = append(order, inst.Category)
	}

	// School at 07:30 comes before coding, which takes the after-school slot.
	require.Len(t, byCategory[activity.CategorySchool], 1)
	assert.Equal(t, "07:30", byCategory[activity.CategorySchool][0].ScheduledTime.String())
	require.Len(t, byCategory[activity.CategoryCoding], 1)
	assert.Equal(t, "15:00", byCategory[activity.CategoryCoding][0].ScheduledTime.String())

	schoolIdx, codingIdx := -1, -1
	for i, cat := range order {
		if cat == activity.CategorySchool && schoolIdx == -1 {
			schoolIdx = i
		}
		if cat == activity.CategoryCoding && codingIdx == -1 {
			codingIdx = i
		}
	}
	assert.Less(t, schoolIdx, codingIdx)

	// No taekwondo session on Tuesday; study appears on school days.
	assert.Empty(t, byCategory[activity.CategoryTaekwondo])
	assert.Len(t, byCategory[activity.CategoryStudy], 1)
	assert.Len(t, byCategory[activity.CategorySkincare], 3)

	// Every instance is persisted with an id.
	for _, inst := range instances {
		assert.NotZero(t, inst.ID)
	}
}

func TestGenerateNonSchoolDay(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)

	instances, err := planner.Generate(context.Background(), userID, saturday)
	require.NoError(t, err)

	byCategory := make(map[activity.Category][]*activity.Instance)
	for _, inst := range instances {
		byCategory[inst.Category] = append(byCategory[inst.Category], inst)
	}

	assert.Empty(t, byCategory[activity.CategorySchool])
	assert.Empty(t, byCategory[activity.CategoryStudy])

	// Coding falls back to the morning slot on non-school days.
	require.Len(t, byCategory[activity.CategoryCoding], 1)
	assert.Equal(t, "10:00", byCategory[activity.CategoryCoding][0].ScheduledTime.String())

	// Saturday is the sparring day.
	require.Len(t, byCategory[activity.CategoryTaekwondo], 1)
	assert.Equal(t, "15:45", byCategory[activity.CategoryTaekwondo][0].ScheduledTime.String())
}

func TestGenerateTiesKeepDeclarationOrder(t *testing.T) {
	tmpl := activity.Template{
		Rules: []activity.TemplateRule{
			{Category: activity.CategoryStudy, Days: activity.EveryDay,
				Start: activity.At(activity.MustTimeOfDay("09:00")), Name: "first"},
			{Category: activity.CategoryCoding, Days: activity.EveryDay,
				Start: activity.At(activity.MustTimeOfDay("09:00")), Name: "second"},
			{Category: activity.CategoryLeisure, Days: activity.EveryDay,
				Start: activity.At(activity.MustTimeOfDay("08:00")), Name: "earliest"},
		},
	}
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, tmpl, repo)

	instances, err := planner.Generate(context.Background(), userID, tuesday)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	assert.Equal(t, "earliest", instances[0].Name)
	assert.Equal(t, "first", instances[1].Name)
	assert.Equal(t, "second", instances[2].Name)
}

func TestGenerateIsIdempotentPerDay(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)
	ctx := context.Background()

	first, err := planner.Generate(ctx, userID, tuesday)
	require.NoError(t, err)
	second, err := planner.Generate(ctx, userID, tuesday)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	// A different user gets an independent day.
	other, err := planner.Generate(ctx, userID+1, tuesday)
	require.NoError(t, err)
	assert.Len(t, other, len(first))
}

type failingActivityRepo struct {
	activity.Repository
}

func (r *failingActivityRepo) BulkInsert(context.Context, []*activity.Instance) error {
	return fmt.Errorf("repository unavailable")
}

func TestGenerateAbortsOnRepositoryFailure(t *testing.T) {
	repo := &failingActivityRepo{Repository: idb.NewMemoryActivityRepository()}
	planner := newPlanner(t, activity.DefaultTemplate(), repo)

	instances, err := planner.Generate(context.Background(), userID, tuesday)
	require.Error(t, err)
	assert.Nil(t, instances)
}

func TestCompleteIsIdempotent(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)
	ctx := context.Background()

	instances, err := planner.Generate(ctx, userID, tuesday)
	require.NoError(t, err)
	target := instances[0]

	require.NoError(t, planner.Complete(ctx, target.ID, userID))

	day := activity.DateOnly(tuesday, time.UTC)
	afterFirst, err := repo.ListForDate(ctx, userID, day)
	require.NoError(t, err)
	require.True(t, afterFirst[0].Completed)
	firstStamp := afterFirst[0].CompletionTime

	// Second completion is a state-wise no-op, not an error.
	require.NoError(t, planner.Complete(ctx, target.ID, userID))
	afterSecond, err := repo.ListForDate(ctx, userID, day)
	require.NoError(t, err)
	assert.Equal(t, firstStamp, afterSecond[0].CompletionTime)
}

func TestCompleteForeignInstanceFails(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)
	ctx := context.Background()

	instances, err := planner.Generate(ctx, userID, tuesday)
	require.NoError(t, err)
	target := instances[0]

	err = planner.Complete(ctx, target.ID, userID+1)
	assert.ErrorIs(t, err, idb.ErrActivityNotFound)

	// State unchanged.
	day := activity.DateOnly(tuesday, time.UTC)
	after, err := repo.ListForDate(ctx, userID, day)
	require.NoError(t, err)
	assert.False(t, after[0].Completed)
}

func TestCompleteUnknownIDFails(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	planner := newPlanner(t, activity.DefaultTemplate(), repo)

	err := planner.Complete(context.Background(), 9999, userID)
	assert.ErrorIs(t, err, idb.ErrActivityNotFound)
}
