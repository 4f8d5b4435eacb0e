package domain

import (
	"time"
)

type AuctionState int

const (
	StatePending AuctionState = iota
	StateActive
	StateClosed
)

func (s AuctionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// EvaluateState derives the window state from the clock. The three
// predicates partition every instant:
//
//	now < start            -> pending
//	start <= now < end     -> active
//	now >= end             -> closed
//
// Pure function; callers must re-evaluate before accepting a bid rather
// than trusting a previously computed state.
func EvaluateState(now, start, end time.Time) AuctionState {
	if now.Before(start) {
		return StatePending
	}
	if now.Before(end) {
		return StateActive
	}
	return StateClosed
}

// TimeRemaining is meaningful only while the state is active.
func TimeRemaining(now, end time.Time) time.Duration {
	return end.Sub(now)
}

// Countdown is the display decomposition of the remaining time.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// DecomposeCountdown splits a duration into days/hours/minutes/seconds.
// Negative durations clamp to zero.
func DecomposeCountdown(d time.Duration) Countdown {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return Countdown{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
