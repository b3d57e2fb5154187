// Package internal contains integration tests that verify the packages
// work together correctly. These tests ensure the engine, framer, event
// router, and archive sinks cooperate the way a live session exercises
// them.
package internal

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fonny-io/fonny/internal/archive"
	"github.com/fonny-io/fonny/internal/event"
	"github.com/fonny-io/fonny/internal/logging"
	"github.com/fonny-io/fonny/internal/repl"
)

// loopTransport echoes every sent command back into the engine as
// device output, simulating a board that repeats its input.
type loopTransport struct {
	mu        sync.Mutex
	engine    *repl.Engine
	connected bool
}

func (t *loopTransport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	return nil
}

func (t *loopTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	return nil
}

func (t *loopTransport) Send(text string) error {
	echo := strings.TrimRight(text, "\n") + " ok\n"
	for _, r := range echo {
		t.engine.HandleChar(r)
	}
	return nil
}

func (t *loopTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// TestSessionRoundTrip drives a full session: connect, send a command,
// observe the echoed response, disconnect. Both the in-memory and the
// SQLite sinks must record the same event sequence.
func TestSessionRoundTrip(t *testing.T) {
	engine := repl.New(logging.NopLogger())
	transport := &loopTransport{engine: engine}
	engine.SetTransport(transport)

	mem := archive.NewMemory()
	engine.AddSink(mem)

	dbPath := filepath.Join(t.TempDir(), "events.db")
	db, err := archive.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	defer db.Close()
	engine.AddSink(db)

	if !engine.Start() {
		t.Fatal("Start() should succeed with a working transport")
	}
	if err := engine.SendCommand("2 2 + ."); err != nil {
		t.Fatalf("SendCommand() error: %v", err)
	}
	engine.Stop()

	wantKinds := []event.Kind{
		event.KindConnectionOpened,
		event.KindUserCommand,
		event.KindSystemResponse,
		event.KindConnectionClosed,
	}

	got := mem.Events()
	if len(got) != len(wantKinds) {
		t.Fatalf("Recorded %d events, want %d: %v", len(got), len(wantKinds), got)
	}
	for i, want := range wantKinds {
		if got[i].Kind != want {
			t.Errorf("Event %d kind = %s, want %s", i, got[i].Kind, want)
		}
	}

	if got[1].Command() != "2 2 + .\n" {
		t.Errorf("Recorded command = %q, want the normalized wire text", got[1].Command())
	}
	if got[2].Response() != "2 2 + . ok" {
		t.Errorf("Recorded response = %q, want the framed echo line", got[2].Response())
	}

	stored, err := db.AllEvents()
	if err != nil {
		t.Fatalf("AllEvents() error: %v", err)
	}
	if len(stored) != len(wantKinds) {
		t.Fatalf("Archive holds %d events, want %d", len(stored), len(wantKinds))
	}
	for i, want := range wantKinds {
		if stored[i].Kind != want {
			t.Errorf("Archive event %d kind = %s, want %s", i, stored[i].Kind, want)
		}
	}
}

// TestPassthroughDelivery verifies raw characters reach the display
// channel while framed lines reach the sinks.
func TestPassthroughDelivery(t *testing.T) {
	engine := repl.New(logging.NopLogger())
	mem := archive.NewMemory()
	engine.AddSink(mem)

	for _, r := range "ok\n" {
		engine.HandleChar(r)
	}

	var chars []rune
	deadline := time.After(time.Second)
	for len(chars) < 3 {
		select {
		case r := <-engine.Chars():
			chars = append(chars, r)
		case <-deadline:
			t.Fatalf("Timed out waiting for passthrough, got %q", string(chars))
		}
	}
	if string(chars) != "ok\n" {
		t.Errorf("Passthrough = %q, want %q", string(chars), "ok\n")
	}

	events := mem.Events()
	if len(events) != 1 || events[0].Kind != event.KindSystemResponse {
		t.Fatalf("Expected one framed response event, got %v", events)
	}
	if events[0].Response() != "ok" {
		t.Errorf("Response = %q, want %q", events[0].Response(), "ok")
	}
}
