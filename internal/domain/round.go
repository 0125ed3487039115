package domain

// Phase is the lifecycle phase of an activity round session.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseRoundActive   Phase = "round_active"
	PhaseRoundAnswered Phase = "round_answered"
	PhaseComplete      Phase = "complete"
)

// RoundState is a point-in-time snapshot of a session's counters.
// Round is 1-indexed and never exceeds TotalRounds.
type RoundState struct {
	Phase          Phase `json:"phase"`
	Round          int   `json:"round"`
	TotalRounds    int   `json:"totalRounds"`
	CorrectCount   int   `json:"correctCount"`
	IncorrectCount int   `json:"incorrectCount"`
	Answered       bool  `json:"answered"`
}

// CellState is the rendered state of one progress-indicator cell.
type CellState string

const (
	CellCompleted CellState = "completed"
	CellCurrent   CellState = "current"
	CellUpcoming  CellState = "upcoming"
)

// Tier is a completion performance band. Boundaries: 80% of rounds correct
// for the top tier, 60% for the mid tier, everything below is the low tier.
type Tier string

const (
	TierTop Tier = "perfect"
	TierMid Tier = "good"
	TierLow Tier = "practice"
)

// TierFor picks the band for a finished session.
func TierFor(correct, totalRounds int) Tier {
	if totalRounds <= 0 {
		return TierLow
	}
	percent := float64(correct) / float64(totalRounds)
	switch {
	case percent >= 0.8:
		return TierTop
	case percent >= 0.6:
		return TierMid
	default:
		return TierLow
	}
}

// CompletionSummary is what the completion modal shows.
type CompletionSummary struct {
	Tier         Tier   `json:"tier"`
	Icon         string `json:"icon"`
	Message      string `json:"message"`
	CorrectCount int    `json:"correctCount"`
	TotalRounds  int    `json:"totalRounds"`
}
