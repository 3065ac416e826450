package reminder

import (
	"time"

	"routine_bot/internal/domain/activity"
)

// Kind identifies one reminder stream. Each kind maps to exactly one
// recurring job per user.
type Kind string

const (
	KindSchool            Kind = "SCHOOL"
	KindTaekwondoFitness  Kind = "TAEKWONDO_FITNESS"
	KindTaekwondoForms    Kind = "TAEKWONDO_FORMS"
	KindTaekwondoSparring Kind = "TAEKWONDO_SPARRING"
	KindCoding            Kind = "CODING"
	KindHomeWorkout       Kind = "HOME_WORKOUT"
	KindSkincareNight     Kind = "SKINCARE_NIGHT"
	KindWeeklyReport      Kind = "WEEKLY_REPORT"
)

// Category returns the activity category a reminder kind belongs to.
// KindWeeklyReport has no category; it announces the aggregation, not an
// activity.
func (k Kind) Category() (activity.Category, bool) {
	switch k {
	case KindSchool:
		return activity.CategorySchool, true
	case KindTaekwondoFitness, KindTaekwondoForms, KindTaekwondoSparring:
		return activity.CategoryTaekwondo, true
	case KindCoding:
		return activity.CategoryCoding, true
	case KindHomeWorkout:
		return activity.CategoryHomeWorkout, true
	case KindSkincareNight:
		return activity.CategorySkincare, true
	default:
		return "", false
	}
}

// Definition is one recurring reminder: a weekday set and a local fire time.
// Fire times are wall-clock values resolved against the anchor timezone by
// the scheduler, never absolute timestamps.
type Definition struct {
	Kind Kind
	Days activity.WeekdaySet
	At   activity.TimeOfDay
}

// JobKey uniquely identifies a scheduled job: one per (kind, user).
type JobKey struct {
	Kind   Kind
	UserID int64
}

// Lead offsets applied when deriving fire times from the template.
const (
	schoolLeadMinutes   = 60 // wake-up call an hour before classes
	sessionLeadMinutes  = 30 // gear-up call before each taekwondo session
	skincareLeadMinutes = 15 // nudge before the night routine
)

// WeeklyReportAt is when the weekly report is pushed, at the end of the
// Monday-anchored week.
var WeeklyReportAt = Definition{
	Kind: KindWeeklyReport,
	Days: activity.Days(time.Sunday),
	At:   activity.MustTimeOfDay("20:00"),
}

// DefaultPlan derives the reminder definitions from the weekly template:
// session reminders fire a fixed offset before the session start on its
// specific weekdays, daily habit reminders fire at the habit's school-day
// time every day.
func DefaultPlan(t activity.Template) []Definition {
	plan := make([]Definition, 0, 8)

	for _, rule := range t.Rules {
		switch rule.Category {
		case activity.CategorySchool:
			plan = append(plan, Definition{
				Kind: KindSchool,
				Days: rule.Days,
				At:   rule.Start.Default.AddMinutes(-schoolLeadMinutes),
			})
		case activity.CategoryTaekwondo:
			plan = append(plan, Definition{
				Kind: taekwondoKind(rule.Variant),
				Days: rule.Days,
				At:   rule.Start.Default.AddMinutes(-sessionLeadMinutes),
			})
		case activity.CategoryCoding:
			plan = append(plan, Definition{
				Kind: KindCoding,
				Days: activity.EveryDay,
				At:   rule.Start.OnDays, // the after-school slot
			})
		case activity.CategoryHomeWorkout:
			plan = append(plan, Definition{
				Kind: KindHomeWorkout,
				Days: activity.EveryDay,
				At:   rule.Start.OnDays, // the session-day slot
			})
		case activity.CategorySkincare:
			if rule.Period == activity.SkincareNight {
				plan = append(plan, Definition{
					Kind: KindSkincareNight,
					Days: rule.Days,
					At:   rule.Start.Default.AddMinutes(-skincareLeadMinutes),
				})
			}
		}
	}

	plan = append(plan, WeeklyReportAt)
	return plan
}

func taekwondoKind(v activity.TaekwondoVariant) Kind {
	switch v {
	case activity.TaekwondoForms:
		return KindTaekwondoForms
	case activity.TaekwondoSparring:
		return KindTaekwondoSparring
	default:
		return KindTaekwondoFitness
	}
}
