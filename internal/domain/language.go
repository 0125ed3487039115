package domain

import "strings"

// Language is a BCP-47-ish two-letter language code supported by the site.
type Language string

const (
	LangEnglish Language = "en"
	LangSpanish Language = "es"
)

// DefaultLanguage is used when no preference is stored or the stored value
// is not supported. It is also the fallback for unresolved translation keys.
const DefaultLanguage = LangEnglish

// SupportedLanguages lists every language the site ships bundles for.
var SupportedLanguages = []Language{LangEnglish, LangSpanish}

// ParseLanguage normalizes a raw language code. Unsupported or empty input
// yields DefaultLanguage and ok=false.
func ParseLanguage(raw string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range SupportedLanguages {
		if l == s {
			return l, true
		}
	}
	return DefaultLanguage, false
}

// GradeID identifies one grade section of the site. Grade IDs double as
// translation section names and manifest file names (data/<grade>.json,
// lang/<lang>/<grade>.json).
type GradeID string

const (
	GradePreK GradeID = "prek"
	GradeK    GradeID = "kindergarten"
	Grade1    GradeID = "grade1"
	Grade2    GradeID = "grade2"
	Grade3    GradeID = "grade3"
	Grade4    GradeID = "grade4"
	Grade5    GradeID = "grade5"
)

// Grades lists all grade sections in display order.
var Grades = []GradeID{GradePreK, GradeK, Grade1, Grade2, Grade3, Grade4, Grade5}

// ParseGrade validates a raw grade identifier.
func ParseGrade(raw string) (GradeID, bool) {
	g := GradeID(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Grades {
		if g == known {
			return g, true
		}
	}
	return "", false
}
