package backoff

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	s := Fixed(50 * time.Millisecond)
	for attempt := 0; attempt < 5; attempt++ {
		if got := s.Delay(attempt); got != 50*time.Millisecond {
			t.Errorf("attempt %d: got %v, want 50ms", attempt, got)
		}
	}

	if got := Fixed(-time.Second).Delay(0); got != 0 {
		t.Errorf("negative fixed delay should clamp to 0, got %v", got)
	}
}

func TestExponential(t *testing.T) {
	s := Exponential(100*time.Millisecond, 1*time.Second)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1 * time.Second}, // capped
		{10, 1 * time.Second},
	}
	for _, tc := range cases {
		if got := s.Delay(tc.attempt); got != tc.want {
			t.Errorf("attempt %d: got %v, want %v", tc.attempt, got, tc.want)
		}
	}

	if got := s.Delay(-1); got != 0 {
		t.Errorf("negative attempt should yield 0, got %v", got)
	}
}

func TestExponential_NoOverflow(t *testing.T) {
	s := Exponential(time.Hour, 24*time.Hour)
	for attempt := 0; attempt < 128; attempt++ {
		got := s.Delay(attempt)
		if got < 0 || got > 24*time.Hour {
			t.Fatalf("attempt %d: delay %v out of range", attempt, got)
		}
	}
}

func TestJittered_StaysWithinBounds(t *testing.T) {
	initial := 100 * time.Millisecond
	max := 2 * time.Second
	s := Jittered(initial, max, 0.2)

	for attempt := 0; attempt < 6; attempt++ {
		base := Exponential(initial, max).Delay(attempt)
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)
		if hi > max {
			hi = max
		}

		for i := 0; i < 50; i++ {
			got := s.Delay(attempt)
			if got < lo || got > hi {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, got, lo, hi)
			}
		}
	}
}

func TestJittered_FactorClamped(t *testing.T) {
	// A factor above 1 clamps to 1, so delays never go negative.
	s := Jittered(10*time.Millisecond, time.Second, 5)
	for i := 0; i < 100; i++ {
		if got := s.Delay(0); got < 0 {
			t.Fatalf("negative delay %v", got)
		}
	}
}
