package game

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{1234 * time.Millisecond, "00:01:23"},
		{61*time.Second + 500*time.Millisecond, "01:01:50"},
		{-time.Second, "00:00:00"},
	}
	for _, tc := range tests {
		if got := FormatClock(tc.d); got != tc.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestRound_CountdownCarriesOverflow(t *testing.T) {
	r := NewRound(RoundConfig{Countdown: time.Second})
	if r.Phase() != PhaseCountdown {
		t.Fatalf("expected countdown, got %s", r.Phase())
	}
	if dt := r.Advance(600 * time.Millisecond); dt != 0 {
		t.Fatalf("no game time during countdown, got %v", dt)
	}
	if r.Clock() != "00:00:40" {
		t.Fatalf("countdown clock = %s", r.Clock())
	}
	dt := r.Advance(600 * time.Millisecond)
	if r.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %s", r.Phase())
	}
	if dt != 200*time.Millisecond || r.Elapsed() != 200*time.Millisecond {
		t.Fatalf("overflow should carry: dt=%v elapsed=%v", dt, r.Elapsed())
	}
}

func TestRound_ZeroCountdownStartsRunning(t *testing.T) {
	r := NewRound(RoundConfig{})
	if r.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %s", r.Phase())
	}
}

func TestRound_PauseFreezesClock(t *testing.T) {
	r := NewRound(RoundConfig{})
	r.Advance(time.Second)
	if !r.TogglePause() {
		t.Fatal("expected paused")
	}
	if dt := r.Advance(time.Second); dt != 0 || r.Elapsed() != time.Second {
		t.Fatalf("paused round advanced: dt=%v elapsed=%v", dt, r.Elapsed())
	}
	r.TogglePause()
	r.Advance(time.Second)
	if r.Elapsed() != 2*time.Second {
		t.Fatalf("elapsed = %v, want 2s", r.Elapsed())
	}
}

func TestRound_EndOnlyWhileRunning(t *testing.T) {
	r := NewRound(RoundConfig{Countdown: time.Second})
	if r.End() {
		t.Fatal("a round in countdown cannot end")
	}
	r.Advance(2 * time.Second)
	if !r.End() {
		t.Fatal("a running round should end")
	}
	if r.End() {
		t.Fatal("a round ends only once")
	}
	elapsed := r.Elapsed()
	r.Advance(time.Second)
	if r.Elapsed() != elapsed {
		t.Fatal("clock kept running after the round ended")
	}
	if r.TogglePause() {
		t.Fatal("pause has no effect once over")
	}

	r.Start()
	if r.Phase() != PhaseCountdown || r.Elapsed() != 0 || r.Paused() {
		t.Fatal("Start should reset the round")
	}
}
