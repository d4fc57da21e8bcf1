package control

import (
	"os"
	"testing"

	"golang.org/x/sys/unix"

	"scribe/internal/logging"
)

func TestQueuePushAndDrain(t *testing.T) {
	q := NewQueue(4, logging.NewNop())
	if !q.Push(Command{Kind: Toggle, Source: "test"}) {
		t.Fatal("push onto empty queue failed")
	}
	if !q.Push(Command{Kind: Cancel, Source: "test"}) {
		t.Fatal("second push failed")
	}

	cmd := <-q.Commands()
	if cmd.Kind != Toggle {
		t.Fatalf("expected toggle first, got %s", cmd.Kind)
	}
	cmd = <-q.Commands()
	if cmd.Kind != Cancel {
		t.Fatalf("expected cancel second, got %s", cmd.Kind)
	}
}

func TestQueueFullDropsCommand(t *testing.T) {
	q := NewQueue(1, logging.NewNop())
	if !q.Push(Command{Kind: Toggle}) {
		t.Fatal("first push should succeed")
	}
	if q.Push(Command{Kind: Toggle}) {
		t.Fatal("push onto full queue should be dropped")
	}
	// The queued command survives the drop.
	cmd := <-q.Commands()
	if cmd.Kind != Toggle {
		t.Fatalf("unexpected command %s", cmd.Kind)
	}
}

func TestQueueCloseRejectsPush(t *testing.T) {
	q := NewQueue(4, logging.NewNop())
	q.Close()
	q.Close() // idempotent
	if q.Push(Command{Kind: Shutdown}) {
		t.Fatal("push after close should fail")
	}
	if _, open := <-q.Commands(); open {
		t.Fatal("commands channel should be closed")
	}
}

func TestDecodeSignal(t *testing.T) {
	cases := []struct {
		sig  os.Signal
		kind Kind
		ok   bool
	}{
		{unix.SIGUSR1, Toggle, true},
		{unix.SIGUSR2, Cancel, true},
		{unix.SIGINT, Shutdown, true},
		{unix.SIGTERM, Shutdown, true},
		{unix.SIGHUP, 0, false},
	}
	for _, tc := range cases {
		kind, ok := DecodeSignal(tc.sig)
		if ok != tc.ok {
			t.Fatalf("%s: decoded=%v want %v", tc.sig, ok, tc.ok)
		}
		if ok && kind != tc.kind {
			t.Fatalf("%s: kind=%s want %s", tc.sig, kind, tc.kind)
		}
	}
}
