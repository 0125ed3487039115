package engine

import (
	"fmt"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// tierIcons and genericMessages are the fixed per-tier defaults. The low
// tier stays encouraging: scores are never framed as failure.
var tierIcons = map[domain.Tier]string{
	domain.TierTop: "🌟",
	domain.TierMid: "🎉",
	domain.TierLow: "🌱",
}

var genericMessages = map[domain.Tier]string{
	domain.TierTop: "Amazing! You're a math star!",
	domain.TierMid: "Great job! You're getting really good at this!",
	domain.TierLow: "Nice practicing! Every try makes you stronger!",
}

// TranslateFunc resolves a translation key; ok=false means untranslated.
type TranslateFunc func(key string) (string, bool)

// Summary builds the completion modal content for the engine's current
// counters. The message is looked up at
// section.activities.<activityID>.<tier> and falls back to a fixed generic
// sentence per tier. translate may be nil.
func (e *Engine) Summary(translate TranslateFunc) domain.CompletionSummary {
	state := e.State()
	tier := domain.TierFor(state.CorrectCount, state.TotalRounds)

	message := genericMessages[tier]
	if translate != nil {
		key := fmt.Sprintf("section.activities.%s.%s", e.cfg.ActivityID, tier)
		if s, ok := translate(key); ok {
			message = s
		}
	}

	return domain.CompletionSummary{
		Tier:         tier,
		Icon:         tierIcons[tier],
		Message:      message,
		CorrectCount: state.CorrectCount,
		TotalRounds:  state.TotalRounds,
	}
}
