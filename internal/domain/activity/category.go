package activity

// Category identifies the kind of recurring obligation an activity belongs to.
type Category string

const (
	CategorySchool      Category = "SCHOOL"
	CategoryTaekwondo   Category = "TAEKWONDO"
	CategoryCoding      Category = "CODING"
	CategoryHomeWorkout Category = "HOME_WORKOUT"
	CategorySkincare    Category = "SKINCARE"
	CategoryLeisure     Category = "LEISURE"
	CategoryStudy       Category = "STUDY"
)

// TaekwondoVariant distinguishes the three weekly taekwondo sessions.
type TaekwondoVariant string

const (
	TaekwondoFitness  TaekwondoVariant = "FITNESS"
	TaekwondoForms    TaekwondoVariant = "FORMS"
	TaekwondoSparring TaekwondoVariant = "SPARRING"
)

// SkincarePeriod distinguishes the three daily skincare routines.
type SkincarePeriod string

const (
	SkincareMorning SkincarePeriod = "MORNING"
	SkincareEvening SkincarePeriod = "EVENING"
	SkincareNight   SkincarePeriod = "NIGHT"
)

// categoryInfo is the closed per-category lookup table. Adding a category is
// a data change here, not a control-flow change elsewhere.
type categoryInfo struct {
	label string
	emoji string
}

var categories = map[Category]categoryInfo{
	CategorySchool:      {label: "School", emoji: "⏰"},
	CategoryTaekwondo:   {label: "Taekwondo", emoji: "🥋"},
	CategoryCoding:      {label: "Coding", emoji: "💻"},
	CategoryHomeWorkout: {label: "Home workout", emoji: "🏋️"},
	CategorySkincare:    {label: "Skincare", emoji: "🧴"},
	CategoryLeisure:     {label: "Leisure", emoji: "🎮"},
	CategoryStudy:       {label: "Study", emoji: "📚"},
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if info, ok := categories[c]; ok {
		return info.label
	}
	return string(c)
}

// Emoji returns the emoji used when rendering this category in messages.
func (c Category) Emoji() string {
	if info, ok := categories[c]; ok {
		return info.emoji
	}
	return "✅"
}
