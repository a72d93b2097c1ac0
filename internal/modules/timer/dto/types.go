package dto

import "time"

type ResetInput struct {
	Mode string
}

// StateOutput is a render-ready snapshot of the timer.
type StateOutput struct {
	Mode             string
	Running          bool
	RemainingSeconds int
	DurationSeconds  int
	Cycles           int
	CycleDots        int
	Progress         float64
	EndsAt           time.Time
	Completed        *CompletionOutput
	Warning          string
}

// CompletionOutput is set on the poll that finished a session.
type CompletionOutput struct {
	Finished string
	Next     string
	Award    int
	Cycles   int
	Balance  int
}
