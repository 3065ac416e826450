package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"routine_bot/internal/domain/activity"
	idb "routine_bot/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInstances(t *testing.T, repo activity.Repository, cat activity.Category, day time.Time, completed, total int) {
	t.Helper()
	instances := make([]*activity.Instance, 0, total)
	for i := 0; i < total; i++ {
		inst := &activity.Instance{
			UserID:        userID,
			Date:          day.AddDate(0, 0, i%7),
			Category:      cat,
			Name:          string(cat),
			ScheduledTime: activity.MustTimeOfDay("09:00"),
			Completed:     i < completed,
		}
		instances = append(instances, inst)
	}
	require.NoError(t, repo.BulkInsert(context.Background(), instances))
}

func TestSummarizeCompletionRatios(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedInstances(t, repo, activity.CategorySchool, monday, 5, 5)
	seedInstances(t, repo, activity.CategoryCoding, monday, 0, 3)

	progress, err := svc.Summarize(context.Background(), userID, monday.AddDate(0, 0, 2))
	require.NoError(t, err)

	require.Contains(t, progress.Categories, activity.CategorySchool)
	school := progress.Categories[activity.CategorySchool]
	assert.Equal(t, 5, school.Completed)
	assert.Equal(t, 5, school.Total)
	assert.Equal(t, 100.0, school.Percentage)

	require.Contains(t, progress.Categories, activity.CategoryCoding)
	coding := progress.Categories[activity.CategoryCoding]
	assert.Equal(t, 0, coding.Completed)
	assert.Equal(t, 3, coding.Total)
	assert.Equal(t, 0.0, coding.Percentage)

	for _, cp := range progress.Categories {
		assert.LessOrEqual(t, cp.Completed, cp.Total)
		assert.GreaterOrEqual(t, cp.Percentage, 0.0)
		assert.LessOrEqual(t, cp.Percentage, 100.0)
	}
}

func TestSummarizeOmitsEmptyCategories(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedInstances(t, repo, activity.CategorySchool, monday, 1, 2)

	progress, err := svc.Summarize(context.Background(), userID, monday)
	require.NoError(t, err)

	assert.Contains(t, progress.Categories, activity.CategorySchool)
	assert.NotContains(t, progress.Categories, activity.CategoryLeisure)
	assert.Len(t, progress.Categories, 1)
}

func TestSummarizeIgnoresInstancesOutsideWindow(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	// Previous Sunday and next Monday sit just outside the window.
	seedInstances(t, repo, activity.CategorySchool, monday.AddDate(0, 0, -1), 1, 1)
	seedInstances(t, repo, activity.CategorySchool, monday.AddDate(0, 0, 7), 1, 1)
	seedInstances(t, repo, activity.CategorySchool, monday, 1, 1)

	progress, err := svc.Summarize(context.Background(), userID, monday)
	require.NoError(t, err)

	school := progress.Categories[activity.CategorySchool]
	assert.Equal(t, 1, school.Total)
}

func TestSummarizeEmptyWeek(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	progress, err := svc.Summarize(context.Background(), userID, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, progress.Categories)

	completed, total := progress.Overall()
	assert.Zero(t, completed)
	assert.Zero(t, total)
}

func TestRenderWeeklyReport(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	seedInstances(t, repo, activity.CategorySchool, monday, 5, 5)
	seedInstances(t, repo, activity.CategoryCoding, monday, 0, 3)

	text, err := svc.RenderWeeklyReport(context.Background(), userID, monday)
	require.NoError(t, err)

	assert.Contains(t, text, "School")
	assert.Contains(t, text, "100.0%")
	assert.Contains(t, text, "0.0%")
	assert.Contains(t, text, "5 of 5")
	assert.Contains(t, text, "0 of 3")
	assert.Contains(t, text, "2025/06/02")
	assert.Contains(t, text, "2025/06/08")
}

func TestRenderNextWeekPlan(t *testing.T) {
	repo := idb.NewMemoryActivityRepository()
	svc := NewReportService(activity.DefaultTemplate(), repo, time.UTC, testLogger())

	// Week containing Wednesday 2025-06-04; next week starts 2025-06-09.
	text := svc.RenderNextWeekPlan(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, text, "2025/06/09")
	assert.Contains(t, text, "2025/06/15")
	assert.NotContains(t, text, "2025/06/08")
	// One header per day of the week.
	assert.Equal(t, 7, strings.Count(text, "*:"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", progressBar(0))
	assert.Equal(t, "▓▓▓▓▓░░░░░", progressBar(50))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", progressBar(100))
}
