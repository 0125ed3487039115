package domain

import "time"

// ActivityProgress is the per-activity slice of a profile's progress blob.
type ActivityProgress struct {
	Completed  bool      `json:"completed"`
	BestScore  int       `json:"bestScore"`
	Plays      int       `json:"plays"`
	LastPlayed time.Time `json:"lastPlayed"`
}

// Progress maps grade → activity → progress. It is stored as one JSON blob
// per profile and mutated only through explicit save calls.
type Progress map[GradeID]map[string]ActivityProgress

// Settings is a profile's flat settings blob.
type Settings struct {
	SoundEnabled      bool   `json:"soundEnabled"`
	AnimationsEnabled bool   `json:"animationsEnabled"`
	Theme             string `json:"theme"`
}

// DefaultSettings are applied when a profile has no stored settings.
func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:      true,
		AnimationsEnabled: true,
		Theme:             "meadow",
	}
}

// Stats is a profile's global running totals across all activities.
// UpdateStats-style writes accumulate into it rather than replacing it.
type Stats struct {
	TotalPlays    int   `json:"totalPlays"`
	TotalSeconds  int64 `json:"totalSeconds"`
	TotalCorrect  int   `json:"totalCorrect"`
	TotalAnswered int   `json:"totalAnswered"`
}

// Add accumulates a delta into the running totals.
func (s *Stats) Add(delta Stats) {
	s.TotalPlays += delta.TotalPlays
	s.TotalSeconds += delta.TotalSeconds
	s.TotalCorrect += delta.TotalCorrect
	s.TotalAnswered += delta.TotalAnswered
}

// ExportEnvelope is the single-document export/import format. Any blob may be
// nil on import; missing blobs are skipped, present ones applied independently.
type ExportEnvelope struct {
	Progress   Progress  `json:"progress,omitempty"`
	Settings   *Settings `json:"settings,omitempty"`
	Stats      *Stats    `json:"stats,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
}
