package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, timeout time.Duration, probes int) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(threshold, timeout, probes)
	now := time.Date(2017, 8, 11, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAndRecoversThroughProbe(t *testing.T) {
	t.Parallel()

	b, now := newTestBreaker(2, 5*time.Second, 1)
	var transitions []string
	b.OnStateChange(func(from, to CircuitState) {
		transitions = append(transitions, string(from)+"->"+string(to))
	})

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker rejected call: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after one failure = %s, want closed", state)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state after threshold = %s, want open", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker returned %v, want ErrCircuitOpen", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe rejected after timeout: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe returned %v, want ErrCircuitOpen", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("state after successful probe = %s, want closed", state)
	}

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestCircuitBreaker_DoSkipsUncountableErrors(t *testing.T) {
	t.Parallel()

	b, _ := newTestBreaker(1, time.Minute, 1)
	notFound := errors.New("not found")
	countable := func(err error) bool { return !errors.Is(err, notFound) }

	if err := b.Do(func() error { return notFound }, countable); !errors.Is(err, notFound) {
		t.Fatalf("Do returned %v, want notFound", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("uncountable error tripped breaker: %s", state)
	}

	if err := b.Do(func() error { return errors.New("503") }, countable); err == nil {
		t.Fatalf("Do swallowed the failure")
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("state = %s, want open", state)
	}

	called := false
	if err := b.Do(func() error { called = true; return nil }, countable); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Do on open breaker returned %v", err)
	}
	if called {
		t.Fatalf("fn ran while breaker was open")
	}
}

func TestCircuitBreakerConfig_Build(t *testing.T) {
	t.Parallel()

	if b := (CircuitBreakerConfig{}).Build(); b != nil {
		t.Fatalf("disabled config built a breaker")
	}

	b := CircuitBreakerConfig{Enabled: true}.Build()
	if b == nil {
		t.Fatalf("enabled config returned nil breaker")
	}
	defaults := DefaultCircuitBreakerConfig()
	if b.failureThreshold != defaults.FailureThreshold || b.openTimeout != defaults.OpenTimeout {
		t.Fatalf("zero config not normalized: %+v", b)
	}
}
