// Package engine implements the round-by-round bookkeeping shared by every
// mini-game: round counters, the progress indicator, transient feedback, and
// the completion summary. Question generation belongs to the hosting game,
// not the engine.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/meadowmath/meadowmath-backend/internal/domain"
)

// DefaultTotalRounds is used when a session is created without an explicit
// round count.
const DefaultTotalRounds = 5

// DefaultAdvanceDelay is the pause between an answer and the automatic start
// of the next round.
const DefaultAdvanceDelay = 1500 * time.Millisecond

// Game is the per-activity hook contract. StartRound is called whenever a
// round becomes active. The optional interfaces below extend it.
type Game interface {
	StartRound(round int)
}

// Resetter is implemented by games that need to clear state on replay.
type Resetter interface {
	OnReset()
}

// Config configures one engine instance. Zero fields take documented
// defaults; a negative value is a validation error.
type Config struct {
	Grade        domain.GradeID
	ActivityID   string
	TotalRounds  int           // default DefaultTotalRounds
	AdvanceDelay time.Duration // default DefaultAdvanceDelay
	AutoAdvance  bool          // schedule the next round automatically after an answer
}

func (c *Config) setDefaults() error {
	if c.TotalRounds == 0 {
		c.TotalRounds = DefaultTotalRounds
	}
	if c.TotalRounds < 0 {
		return domain.NewValidationError("totalRounds", "must be positive")
	}
	if c.AdvanceDelay == 0 {
		c.AdvanceDelay = DefaultAdvanceDelay
	}
	if c.AdvanceDelay < 0 {
		return domain.NewValidationError("advanceDelay", "must not be negative")
	}
	if c.ActivityID == "" {
		return domain.NewValidationError("activityId", "must not be empty")
	}
	return nil
}

// Feedback is the transient feedback banner state.
type Feedback struct {
	Message string `json:"message"`
	IsError bool   `json:"isError"`
	Visible bool   `json:"visible"`
}

// Engine is the round state machine. All methods are safe for concurrent
// use. Deferred work (auto-advance, feedback hide) is epoch-guarded: a
// Reset or manual Advance that lands before a pending timer fires makes the
// timer a no-op instead of advancing a freshly reset game.
type Engine struct {
	cfg  Config
	game Game

	mu             sync.Mutex
	phase          domain.Phase
	round          int
	correctCount   int
	incorrectCount int
	answered       bool
	epoch          uint64
	feedback       Feedback
	feedbackEpoch  uint64

	// after is time.AfterFunc unless a test swaps it.
	after func(d time.Duration, fn func())
}

// New creates an engine in the Idle phase. game may be nil.
func New(cfg Config, game Game) (*Engine, error) {
	if err := cfg.setDefaults(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{
		cfg:   cfg,
		game:  game,
		phase: domain.PhaseIdle,
		after: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}, nil
}

// Start begins the first round. It is a no-op unless the engine is Idle.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseIdle {
		return
	}
	e.beginLocked()
}

// Reset returns the engine to a fresh first round from any phase, clearing
// all counters. Pending timers from the previous run become stale and
// no-op.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginLocked()
	if r, ok := e.game.(Resetter); ok {
		r.OnReset()
	}
}

func (e *Engine) beginLocked() {
	e.epoch++
	e.round = 1
	e.correctCount = 0
	e.incorrectCount = 0
	e.answered = false
	e.phase = domain.PhaseRoundActive
	e.feedback = Feedback{}
	if e.game != nil {
		e.game.StartRound(e.round)
	}
}

// Answer records the result of the current round. It returns true when the
// answer was counted; false when the engine is not in an active round or
// the round was already answered (the double-report guard lives here, not
// in the games).
func (e *Engine) Answer(correct bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != domain.PhaseRoundActive || e.answered {
		return false
	}

	e.answered = true
	if correct {
		e.correctCount++
	} else {
		e.incorrectCount++
	}
	e.phase = domain.PhaseRoundAnswered

	if e.cfg.AutoAdvance {
		epoch := e.epoch
		e.after(e.cfg.AdvanceDelay, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.epoch != epoch {
				return // stale: the game was reset or advanced manually
			}
			e.advanceLocked()
		})
	}
	return true
}

// Advance moves from an answered round to the next one, or to Complete when
// the configured total is exhausted. It is a no-op in any other phase.
func (e *Engine) Advance() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != domain.PhaseRoundAnswered {
		return
	}
	e.epoch++ // invalidate a pending auto-advance
	e.advanceLocked()
}

func (e *Engine) advanceLocked() {
	if e.phase != domain.PhaseRoundAnswered {
		return
	}
	if e.round >= e.cfg.TotalRounds {
		e.phase = domain.PhaseComplete
		return
	}
	e.round++
	e.answered = false
	e.phase = domain.PhaseRoundActive
	if e.game != nil {
		e.game.StartRound(e.round)
	}
}

// State returns a snapshot of the counters.
func (e *Engine) State() domain.RoundState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.RoundState{
		Phase:          e.phase,
		Round:          e.round,
		TotalRounds:    e.cfg.TotalRounds,
		CorrectCount:   e.correctCount,
		IncorrectCount: e.incorrectCount,
		Answered:       e.answered,
	}
}

// Indicator returns exactly TotalRounds cells. A cell is completed when its
// round is behind the current one (or is the current, answered round),
// current when it is the active unanswered round, and upcoming otherwise.
func (e *Engine) Indicator() []domain.CellState {
	e.mu.Lock()
	defer e.mu.Unlock()

	cells := make([]domain.CellState, e.cfg.TotalRounds)
	for i := range cells {
		round := i + 1
		switch {
		case round < e.round || (round == e.round && e.answered):
			cells[i] = domain.CellCompleted
		case round == e.round:
			cells[i] = domain.CellCurrent
		default:
			cells[i] = domain.CellUpcoming
		}
	}
	return cells
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }
