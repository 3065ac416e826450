package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"routine_bot/internal/domain/activity"

	"github.com/sirupsen/logrus"
)

// PlannerService expands the weekly template into concrete per-day activity
// instances and handles completion marking.
type PlannerService struct {
	template     activity.Template
	activityRepo activity.Repository
	loc          *time.Location
	logger       *logrus.Entry
}

// NewPlannerService builds the planner. The template is validated once here;
// a template that double-books a (category, weekday, time) slot is a
// programming error.
func NewPlannerService(
	tmpl activity.Template,
	repo activity.Repository,
	loc *time.Location,
	logger *logrus.Entry,
) (*PlannerService, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid activity template: %w", err)
	}
	return &PlannerService{
		template:     tmpl,
		activityRepo: repo,
		loc:          loc,
		logger:       logger,
	}, nil
}

// Generate returns the user's activity instances for the given calendar day,
// creating them from the template on first call. Repeat calls for the same
// (user, day) return the already persisted rows, so a day is generated at
// most once.
func (s *PlannerService) Generate(ctx context.Context, userID int64, date time.Time) ([]*activity.Instance, error) {
	day := activity.DateOnly(date, s.loc)

	existing, err := s.activityRepo.ListForDate(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing activities for %s: %w", day.Format("2006-01-02"), err)
	}
	if len(existing) > 0 {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"date":    day.Format("2006-01-02"),
			"count":   len(existing),
		}).Debug("Schedule already generated, returning existing instances")
		return existing, nil
	}

	weekday := day.Weekday()
	instances := make([]*activity.Instance, 0, len(s.template.Rules))
	for _, rule := range s.template.Rules {
		if !rule.Matches(weekday) {
			continue
		}
		instances = append(instances, &activity.Instance{
			UserID:        userID,
			Date:          day,
			Category:      rule.Category,
			Name:          rule.Name,
			ScheduledTime: rule.Start.For(weekday),
			Notes:         rule.Description,
		})
	}

	// Stable sort: ties keep template declaration order.
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].ScheduledTime.Before(instances[j].ScheduledTime)
	})

	if err := s.activityRepo.BulkInsert(ctx, instances); err != nil {
		return nil, fmt.Errorf("failed to persist generated schedule for %s: %w", day.Format("2006-01-02"), err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"date":    day.Format("2006-01-02"),
		"count":   len(instances),
	}).Info("Daily schedule generated")
	return instances, nil
}

// GenerateToday is Generate for the current day in the anchor timezone.
func (s *PlannerService) GenerateToday(ctx context.Context, userID int64) ([]*activity.Instance, error) {
	return s.Generate(ctx, userID, time.Now().In(s.loc))
}

// Complete marks the instance done, stamping the current time. The repository
// reports ErrActivityNotFound for ids that do not exist or belong to another
// user; repeat completions are no-ops.
func (s *PlannerService) Complete(ctx context.Context, id int64, userID int64) error {
	if err := s.activityRepo.Complete(ctx, id, userID, time.Now().In(s.loc)); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"activity_id": id,
	}).Info("Activity marked completed")
	return nil
}
