package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"routine_bot/internal/domain/activity"
	"routine_bot/internal/domain/report"

	"github.com/sirupsen/logrus"
)

// ReportService computes the weekly completion summary and renders the
// user-facing report and next-week preview.
type ReportService struct {
	template     activity.Template
	activityRepo activity.Repository
	loc          *time.Location
	logger       *logrus.Entry
}

func NewReportService(
	tmpl activity.Template,
	repo activity.Repository,
	loc *time.Location,
	logger *logrus.Entry,
) *ReportService {
	return &ReportService{
		template:     tmpl,
		activityRepo: repo,
		loc:          loc,
		logger:       logger,
	}
}

// Summarize computes per-category completed/total counts over the
// Monday-anchored week containing reference. Categories with no instances in
// the window do not appear in the result.
func (s *ReportService) Summarize(ctx context.Context, userID int64, reference time.Time) (*report.WeeklyProgress, error) {
	start, end := report.WeekWindow(reference, s.loc)

	instances, err := s.activityRepo.ListForDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for week %s: %w", start.Format("2006-01-02"), err)
	}

	progress := &report.WeeklyProgress{
		UserID:     userID,
		WeekStart:  start,
		WeekEnd:    end,
		Categories: make(map[activity.Category]report.CategoryProgress),
	}
	for _, inst := range instances {
		cp := progress.Categories[inst.Category]
		cp.Total++
		if inst.Completed {
			cp.Completed++
		}
		progress.Categories[inst.Category] = cp
	}
	for cat, cp := range progress.Categories {
		if cp.Total > 0 {
			cp.Percentage = float64(cp.Completed) / float64(cp.Total) * 100
		}
		progress.Categories[cat] = cp
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"week_start": start.Format("2006-01-02"),
		"categories": len(progress.Categories),
	}).Debug("Weekly progress summarized")
	return progress, nil
}

// RenderWeeklyReport builds the text of the weekly progress report.
func (s *ReportService) RenderWeeklyReport(ctx context.Context, userID int64, reference time.Time) (string, error) {
	progress, err := s.Summarize(ctx, userID, reference)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📊 *Weekly progress report*\n\n")
	b.WriteString(fmt.Sprintf("📅 %s — %s\n\n",
		progress.WeekStart.Format("2006/01/02"), progress.WeekEnd.Format("2006/01/02")))

	// Render in the template's category order so the report is stable.
	for _, cat := range s.categoryOrder() {
		cp, ok := progress.Categories[cat]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("%s *%s*:\n", cat.Emoji(), cat.Label()))
		b.WriteString(fmt.Sprintf("   %d of %d activities\n", cp.Completed, cp.Total))
		b.WriteString(fmt.Sprintf("   %s %.1f%%\n\n", progressBar(cp.Percentage), cp.Percentage))
	}

	completed, total := progress.Overall()
	overall := 0.0
	if total > 0 {
		overall = float64(completed) / float64(total) * 100
	}
	b.WriteString(fmt.Sprintf("🎯 *Total:* %d of %d activities\n", completed, total))
	b.WriteString(fmt.Sprintf("📈 *Overall:* %.1f%%\n\n", overall))
	b.WriteString("💬 " + Motivate())
	return b.String(), nil
}

// RenderNextWeekPlan previews the template expansion for the week after the
// one containing reference. Nothing is persisted; future days are only
// generated when they become "today".
func (s *ReportService) RenderNextWeekPlan(reference time.Time) string {
	_, end := report.WeekWindow(reference, s.loc)
	nextMonday := end.AddDate(0, 0, 1)

	var b strings.Builder
	b.WriteString("📅 *Plan for next week*\n\n")
	for i := 0; i < 7; i++ {
		day := nextMonday.AddDate(0, 0, i)
		weekday := day.Weekday()
		b.WriteString(fmt.Sprintf("*%s (%s)*:\n", weekday, day.Format("2006/01/02")))
		for _, rule := range s.template.Rules {
			if !rule.Matches(weekday) {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s at %s (%s)\n", rule.Name, rule.Start.For(weekday), rule.Duration))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ReportService) categoryOrder() []activity.Category {
	seen := make(map[activity.Category]bool)
	order := make([]activity.Category, 0, len(s.template.Rules))
	for _, rule := range s.template.Rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			order = append(order, rule.Category)
		}
	}
	return order
}

const progressBarLength = 10

func progressBar(percentage float64) string {
	filled := int(percentage / 100 * progressBarLength)
	if filled > progressBarLength {
		filled = progressBarLength
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressBarLength-filled)
}
