package testsupport

import (
	"testing"
	"time"
)

func TestManualScheduler_FiresInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewManualScheduler(start)

	var fired []string
	s.AfterFunc(3*time.Second, func() { fired = append(fired, "c") })
	s.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	stopped := s.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	if !stopped.Stop() {
		t.Fatalf("expected pending timer to stop")
	}

	s.Advance(1500 * time.Millisecond)
	if len(fired) != 1 || fired[0] != "a" {
		t.Fatalf("unexpected fired after 1.5s: %v", fired)
	}
	s.Advance(2 * time.Second)
	if len(fired) != 2 || fired[1] != "c" {
		t.Fatalf("unexpected fired after 3.5s: %v", fired)
	}
	if got := s.Now(); !got.Equal(start.Add(3500 * time.Millisecond)) {
		t.Fatalf("unexpected clock %v", got)
	}
}

func TestManualScheduler_After(t *testing.T) {
	s := NewManualScheduler(time.Unix(0, 0))
	ch := s.After(time.Second)
	select {
	case <-ch:
		t.Fatalf("fired early")
	default:
	}
	s.Advance(time.Second)
	select {
	case <-ch:
	default:
		t.Fatalf("expected After channel to fire")
	}
}
