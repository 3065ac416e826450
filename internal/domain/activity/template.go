package activity

import (
	"fmt"
	"time"
)

// TimeChoice selects a rule's start time for a given weekday. Rules whose
// timing depends on whether the day is a school day (coding after school,
// workout after sessions) carry the conditional here so the generator stays
// a plain rule evaluator.
type TimeChoice struct {
	Default TimeOfDay
	// OnDays overrides Default on the weekdays in OnDaysSet.
	OnDays    TimeOfDay
	OnDaysSet WeekdaySet
}

// At is a fixed, unconditional start time.
func At(t TimeOfDay) TimeChoice {
	return TimeChoice{Default: t}
}

// For resolves the start time for the given weekday.
func (tc TimeChoice) For(day time.Weekday) TimeOfDay {
	if tc.OnDaysSet.Contains(day) {
		return tc.OnDays
	}
	return tc.Default
}

// TemplateRule is one declarative recurring obligation: a weekday predicate
// plus the parameters of the instance it produces.
type TemplateRule struct {
	Category    Category
	Variant     TaekwondoVariant // set only for CategoryTaekwondo
	Period      SkincarePeriod   // set only for CategorySkincare
	Days        WeekdaySet
	Start       TimeChoice
	Duration    string
	Name        string
	Description string
}

// Matches reports whether the rule produces an instance on the given weekday.
// Pure function of the weekday.
func (r TemplateRule) Matches(day time.Weekday) bool {
	return r.Days.Contains(day)
}

// Template is the immutable weekly activity template. It is built once and
// injected into the planner; nothing mutates it after construction.
type Template struct {
	// SchoolDays anchors the school-day conditionals of dependent rules.
	SchoolDays WeekdaySet
	Rules      []TemplateRule
}

// Validate rejects templates where two rules of the same category claim the
// same (weekday, start time) pair, which would double-book the generator.
func (t Template) Validate() error {
	type slot struct {
		cat   Category
		day   time.Weekday
		start TimeOfDay
	}
	seen := make(map[slot]int)
	for i, r := range t.Rules {
		for _, day := range r.Days.List() {
			s := slot{cat: r.Category, day: day, start: r.Start.For(day)}
			if prev, ok := seen[s]; ok {
				return fmt.Errorf("template rules %d and %d both schedule %s on %s at %s",
					prev, i, r.Category, day, s.start)
			}
			seen[s] = i
		}
	}
	return nil
}

// DefaultTemplate returns the built-in weekly plan: school on weekdays,
// three taekwondo sessions, and the daily habits.
func DefaultTemplate() Template {
	schoolDays := Days(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
	sessionDays := Days(time.Wednesday, time.Friday, time.Saturday)

	return Template{
		SchoolDays: schoolDays,
		Rules: []TemplateRule{
			{
				Category:    CategorySchool,
				Days:        schoolDays,
				Start:       At(MustTimeOfDay("07:30")),
				Duration:    "6.5h",
				Name:        "⏰ School",
				Description: "Classes from 07:30 to 14:00",
			},
			{
				Category:    CategoryTaekwondo,
				Variant:     TaekwondoFitness,
				Days:        Days(time.Wednesday),
				Start:       At(MustTimeOfDay("15:30")),
				Duration:    "2h",
				Name:        "🥋 Taekwondo — fitness",
				Description: "Session from 15:30 to 17:30",
			},
			{
				Category:    CategoryTaekwondo,
				Variant:     TaekwondoForms,
				Days:        Days(time.Friday),
				Start:       At(MustTimeOfDay("09:30")),
				Duration:    "2h",
				Name:        "🥋 Taekwondo — forms",
				Description: "Session from 09:30 to 11:30",
			},
			{
				Category:    CategoryTaekwondo,
				Variant:     TaekwondoSparring,
				Days:        Days(time.Saturday),
				Start:       At(MustTimeOfDay("15:45")),
				Duration:    "2h15m",
				Name:        "🥋 Taekwondo — sparring",
				Description: "Session from 15:45 to 18:00",
			},
			{
				Category: CategoryCoding,
				Days:     EveryDay,
				Start: TimeChoice{
					Default:   MustTimeOfDay("10:00"),
					OnDays:    MustTimeOfDay("15:00"),
					OnDaysSet: schoolDays,
				},
				Duration:    "1h+",
				Name:        "💻 Coding",
				Description: "Daily programming practice",
			},
			{
				Category: CategoryHomeWorkout,
				Days:     EveryDay,
				Start: TimeChoice{
					Default:   MustTimeOfDay("16:00"),
					OnDays:    MustTimeOfDay("18:00"),
					OnDaysSet: sessionDays,
				},
				Duration:    "45m",
				Name:        "🏋️ Home workout",
				Description: "Stretching, cardio, plank, squats, push-ups",
			},
			{
				Category:    CategorySkincare,
				Period:      SkincareMorning,
				Days:        EveryDay,
				Start:       At(MustTimeOfDay("07:00")),
				Duration:    "10m",
				Name:        "🧴 Skincare — morning",
				Description: "Cleanse, moisturizer, sunscreen",
			},
			{
				Category:    CategorySkincare,
				Period:      SkincareEvening,
				Days:        EveryDay,
				Start:       At(MustTimeOfDay("18:30")),
				Duration:    "10m",
				Name:        "🧴 Skincare — evening",
				Description: "Cleanser, toner, serum",
			},
			{
				Category:    CategorySkincare,
				Period:      SkincareNight,
				Days:        EveryDay,
				Start:       At(MustTimeOfDay("22:00")),
				Duration:    "10m",
				Name:        "🧴 Skincare — night",
				Description: "Moisturizer, eye cream",
			},
			{
				Category:    CategoryLeisure,
				Days:        EveryDay,
				Start:       At(MustTimeOfDay("20:00")),
				Duration:    "1h+",
				Name:        "🎮 Leisure / free time",
				Description: "Rest and favorite activities",
			},
			{
				Category:    CategoryStudy,
				Days:        schoolDays,
				Start:       At(MustTimeOfDay("17:00")),
				Duration:    "2h",
				Name:        "📚 Study and homework",
				Description: "Review lessons and do homework",
			},
		},
	}
}
