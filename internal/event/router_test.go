package event

import (
	"errors"
	"sync"
	"testing"
)

// recordingSink collects every event it receives.
type recordingSink struct {
	events []Event
}

func (s *recordingSink) Record(e Event) error {
	s.events = append(s.events, e)
	return nil
}

// failingSink fails on the configured kinds.
type failingSink struct {
	failOn map[Kind]bool
	calls  int
}

func (s *failingSink) Record(e Event) error {
	s.calls++
	if s.failOn == nil || s.failOn[e.Kind] {
		return errors.New("sink exploded")
	}
	return nil
}

func TestRouter_DispatchInOrder(t *testing.T) {
	router := NewRouter()

	var order []string
	router.Add(SinkFunc(func(e Event) error {
		order = append(order, "first")
		return nil
	}))
	router.Add(SinkFunc(func(e Event) error {
		order = append(order, "second")
		return nil
	}))

	if err := router.Dispatch(NewConnectionOpened()); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected delivery in registration order, got %v", order)
	}
}

func TestRouter_Remove(t *testing.T) {
	router := NewRouter()

	kept := &recordingSink{}
	dropped := &recordingSink{}
	router.Add(kept)
	id := router.Add(dropped)

	if !router.Remove(id) {
		t.Error("Remove should return true for a registered sink")
	}

	if err := router.Dispatch(NewSystemResponse("ok")); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if len(kept.events) != 1 {
		t.Errorf("Remaining sink should receive the event, got %d", len(kept.events))
	}
	if len(dropped.events) != 0 {
		t.Errorf("Removed sink should not receive events, got %d", len(dropped.events))
	}
}

func TestRouter_RemoveUnknownIsNoOp(t *testing.T) {
	router := NewRouter()
	if router.Remove("sink-999") {
		t.Error("Remove of an unknown id should return false")
	}
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	router := NewRouter()

	sink := &recordingSink{}
	router.Add(sink)
	router.Add(sink)

	if err := router.Dispatch(NewSystemResponse("twice")); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}

	if len(sink.events) != 2 {
		t.Errorf("Twice-registered sink should be notified twice, got %d", len(sink.events))
	}
}

func TestRouter_SinkFailureIsolated(t *testing.T) {
	router := NewRouter()

	bad := &failingSink{failOn: map[Kind]bool{KindSystemResponse: true}}
	good := &recordingSink{}
	router.Add(bad)
	router.Add(good)

	if err := router.Dispatch(NewSystemResponse("line")); err != nil {
		t.Fatalf("Dispatch of an ordinary event should not return an error, got %v", err)
	}

	// The well-behaved sink gets the original event plus the SystemError
	// describing the bad sink's failure.
	if len(good.events) != 2 {
		t.Fatalf("Expected 2 events at the good sink, got %d", len(good.events))
	}
	if good.events[0].Kind != KindSystemResponse {
		t.Errorf("First event should be the response, got %s", good.events[0].Kind)
	}
	if good.events[1].Kind != KindSystemError {
		t.Errorf("Second event should be the redispatched error, got %s", good.events[1].Kind)
	}
}

func TestRouter_AlwaysFailingSinkDoesNotLoop(t *testing.T) {
	router := NewRouter()

	bad := &failingSink{} // fails on every kind, including SystemError
	good := &recordingSink{}
	router.Add(bad)
	router.Add(good)

	err := router.Dispatch(NewSystemResponse("line"))
	if err == nil {
		t.Fatal("Failure while recording the redispatched SystemError should surface to the caller")
	}

	// Original event + one SystemError redispatch; no further recursion.
	if bad.calls != 2 {
		t.Errorf("Expected exactly 2 calls to the failing sink, got %d", bad.calls)
	}
}

func TestRouter_SystemErrorFailurePropagates(t *testing.T) {
	router := NewRouter()
	router.Add(&failingSink{failOn: map[Kind]bool{KindSystemError: true}})

	if err := router.Dispatch(NewSystemError("boom")); err == nil {
		t.Error("Dispatch of a SystemError to a failing sink should return the failure")
	}
}

func TestRouter_PanickingSink(t *testing.T) {
	router := NewRouter()

	router.Add(SinkFunc(func(e Event) error {
		if e.Kind == KindSystemResponse {
			panic("sink panic")
		}
		return nil
	}))
	good := &recordingSink{}
	router.Add(good)

	if err := router.Dispatch(NewSystemResponse("line")); err != nil {
		t.Fatalf("Dispatch should absorb the panic, got %v", err)
	}

	if len(good.events) != 2 {
		t.Errorf("Good sink should see the response and the converted panic, got %d", len(good.events))
	}
}

func TestRouter_ConcurrentDispatch(t *testing.T) {
	router := NewRouter()

	var mu sync.Mutex
	calls := 0
	router.Add(SinkFunc(func(e Event) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	}))

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			_ = router.Dispatch(NewSystemResponse("line"))
		})
	}
	wg.Wait()

	if calls != 100 {
		t.Errorf("Expected 100 calls, got %d", calls)
	}
}

func TestRouter_ConcurrentAddRemove(t *testing.T) {
	router := NewRouter()

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			id := router.Add(&recordingSink{})
			router.Remove(id)
		})
	}
	wg.Wait()

	if router.Len() != 0 {
		t.Errorf("Expected 0 sinks after concurrent add/remove, got %d", router.Len())
	}
}
