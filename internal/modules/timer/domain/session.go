package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "pomocoin/internal/platform/errors"
)

type Mode string

const (
	ModeFocus      Mode = "Focus"
	ModeShortBreak Mode = "Short Break"
	ModeLongBreak  Mode = "Long Break"
)

// LongBreakEvery is the focus-cycle cadence for long breaks.
const LongBreakEvery = 4

// ParseMode accepts the stored names plus short CLI spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "focus", "f":
		return ModeFocus, nil
	case "short break", "short-break", "short", "s":
		return ModeShortBreak, nil
	case "long break", "long-break", "long", "l":
		return ModeLongBreak, nil
	default:
		return "", fmt.Errorf("unknown timer mode %q: %w", s, apperrors.ErrInvalidInput)
	}
}

// Settings are the configured session lengths and the focus award.
type Settings struct {
	Focus      time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	FocusAward int
}

func DefaultSettings() Settings {
	return Settings{
		Focus:      1500 * time.Second,
		ShortBreak: 300 * time.Second,
		LongBreak:  1200 * time.Second,
		FocusAward: 1,
	}
}

func (s Settings) Duration(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreak
	case ModeLongBreak:
		return s.LongBreak
	default:
		return s.Focus
	}
}

// Session is the persisted timer state. A running session carries EndTime;
// a paused one carries Remaining.
type Session struct {
	Mode      Mode
	Running   bool
	EndTime   time.Time
	Remaining time.Duration
	Cycles    int
}

// NewSession is the initial state: paused focus with a full duration.
func NewSession(settings Settings) Session {
	return Session{Mode: ModeFocus, Remaining: settings.Duration(ModeFocus)}
}

// RemainingAt derives the whole seconds left from the clock, rounding up.
func (s Session) RemainingAt(now time.Time) int {
	if !s.Running {
		return seconds(s.Remaining)
	}
	return seconds(s.EndTime.Sub(now))
}

// Expired reports a running session whose end has passed.
func (s Session) Expired(now time.Time) bool {
	return s.Running && s.RemainingAt(now) == 0
}

func (s Session) Start(now time.Time) (Session, error) {
	if s.Running {
		return s, fmt.Errorf("timer already running: %w", apperrors.ErrInvalidState)
	}
	next := s
	next.Running = true
	next.EndTime = now.Add(time.Duration(seconds(s.Remaining)) * time.Second)
	next.Remaining = 0
	return next, nil
}

func (s Session) Pause(now time.Time) (Session, error) {
	if !s.Running {
		return s, fmt.Errorf("timer is not running: %w", apperrors.ErrInvalidState)
	}
	next := s
	next.Running = false
	next.Remaining = time.Duration(s.RemainingAt(now)) * time.Second
	next.EndTime = time.Time{}
	return next, nil
}

// Reset stops the timer and loads a full session of mode. Cycles are kept.
func (s Session) Reset(mode Mode, settings Settings) Session {
	return Session{Mode: mode, Remaining: settings.Duration(mode), Cycles: s.Cycles}
}

// Completion is the outcome of finishing the current session.
type Completion struct {
	Finished Mode
	Next     Mode
	Award    int
	Cycles   int
}

// Complete finishes the current session. A focus session counts a cycle and
// earns the award; every LongBreakEvery-th cycle routes to a long break.
// Breaks always lead back to focus.
func (s Session) Complete(settings Settings) (Session, Completion) {
	c := Completion{Finished: s.Mode, Next: ModeFocus, Cycles: s.Cycles}
	if s.Mode == ModeFocus {
		c.Cycles++
		c.Award = settings.FocusAward
		c.Next = ModeShortBreak
		if c.Cycles%LongBreakEvery == 0 {
			c.Next = ModeLongBreak
		}
	}
	next := Session{Cycles: c.Cycles}.Reset(c.Next, settings)
	return next, c
}

// Normalize repairs state read from storage so exactly one of EndTime
// (running) or Remaining (paused) is meaningful.
func (s Session) Normalize(settings Settings) Session {
	switch s.Mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
	default:
		s.Mode = ModeFocus
	}
	if s.Cycles < 0 {
		s.Cycles = 0
	}
	if s.Running && s.EndTime.IsZero() {
		s.Running = false
		s.Remaining = settings.Duration(s.Mode)
	}
	if s.Running {
		s.Remaining = 0
		return s
	}
	s.EndTime = time.Time{}
	if s.Remaining < 0 || s.Remaining > settings.Duration(s.Mode) {
		s.Remaining = settings.Duration(s.Mode)
	}
	return s
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
