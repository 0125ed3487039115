package engine

import "time"

// ShowFeedback sets the feedback banner. A positive duration schedules an
// automatic hide; zero leaves hiding to the caller. Overlapping calls
// overwrite each other — last call wins, earlier hide timers go stale.
func (e *Engine) ShowFeedback(message string, isError bool, duration time.Duration) {
	e.mu.Lock()
	e.feedbackEpoch++
	epoch := e.feedbackEpoch
	e.feedback = Feedback{Message: message, IsError: isError, Visible: true}
	e.mu.Unlock()

	if duration > 0 {
		e.after(duration, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.feedbackEpoch != epoch {
				return
			}
			e.feedback.Visible = false
		})
	}
}

// HideFeedback hides the banner immediately and invalidates pending hides.
func (e *Engine) HideFeedback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.feedbackEpoch++
	e.feedback.Visible = false
}

// Feedback returns the current banner state.
func (e *Engine) Feedback() Feedback {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback
}
