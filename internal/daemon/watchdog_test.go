package daemon

import (
	"testing"
	"time"
)

func TestWatchdogFiresWithGeneration(t *testing.T) {
	fired := make(chan uint64, 1)
	w := NewWatchdog(func(gen uint64) { fired <- gen })

	w.Arm(7, 10*time.Millisecond)
	select {
	case gen := <-fired:
		if gen != 7 {
			t.Fatalf("fired generation = %d, want 7", gen)
		}
	case <-time.After(time.Second):
		t.Fatal("watchdog never fired")
	}
}

func TestWatchdogDisarmStopsTimer(t *testing.T) {
	fired := make(chan uint64, 1)
	w := NewWatchdog(func(gen uint64) { fired <- gen })

	w.Arm(1, 20*time.Millisecond)
	w.Disarm()
	select {
	case gen := <-fired:
		t.Fatalf("disarmed watchdog fired with generation %d", gen)
	case <-time.After(60 * time.Millisecond):
	}
	// Disarm with no pending timer is fine.
	w.Disarm()
}

func TestWatchdogRearmReplacesTimer(t *testing.T) {
	fired := make(chan uint64, 2)
	w := NewWatchdog(func(gen uint64) { fired <- gen })

	w.Arm(1, time.Hour)
	w.Arm(2, 10*time.Millisecond)
	select {
	case gen := <-fired:
		if gen != 2 {
			t.Fatalf("fired generation = %d, want 2", gen)
		}
	case <-time.After(time.Second):
		t.Fatal("rearmed watchdog never fired")
	}
	select {
	case gen := <-fired:
		t.Fatalf("replaced timer fired with generation %d", gen)
	case <-time.After(50 * time.Millisecond):
	}
}
