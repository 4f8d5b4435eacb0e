package domain

import (
	"testing"
	"time"
)

func TestEvaluateState(t *testing.T) {
	start := time.Date(2025, 7, 14, 21, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 15, 21, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want AuctionState
	}{
		{"before start", time.Date(2025, 7, 14, 20, 0, 0, 0, time.UTC), StatePending},
		{"during window", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), StateActive},
		{"after end", time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC), StateClosed},
		{"exactly at start", start, StateActive},
		{"exactly at end", end, StateClosed},
		{"instant before end", end.Add(-time.Nanosecond), StateActive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluateState(tc.now, start, end); got != tc.want {
				t.Errorf("EvaluateState(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestEvaluateStatePartitionsTime(t *testing.T) {
	start := time.Date(2025, 7, 14, 21, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	// Sweep across the window; every instant must map to exactly one state
	// and the sequence must be monotone pending -> active -> closed.
	prev := StatePending
	for now := start.Add(-2 * time.Hour); now.Before(end.Add(2 * time.Hour)); now = now.Add(13 * time.Minute) {
		got := EvaluateState(now, start, end)
		if got < prev {
			t.Fatalf("state went backwards at %v: %v after %v", now, got, prev)
		}
		prev = got
	}
	if prev != StateClosed {
		t.Fatalf("sweep ended in %v, want closed", prev)
	}
}

func TestDecomposeCountdown(t *testing.T) {
	d := 2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second
	got := DecomposeCountdown(d)
	want := Countdown{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}
	if got != want {
		t.Errorf("DecomposeCountdown(%v) = %+v, want %+v", d, got, want)
	}
}

func TestDecomposeCountdownClampsNegative(t *testing.T) {
	got := DecomposeCountdown(-time.Minute)
	if got != (Countdown{}) {
		t.Errorf("negative duration should decompose to zero, got %+v", got)
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2025, 7, 15, 20, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 15, 21, 0, 0, 0, time.UTC)
	if got := TimeRemaining(now, end); got != time.Hour {
		t.Errorf("TimeRemaining = %v, want 1h", got)
	}
}
