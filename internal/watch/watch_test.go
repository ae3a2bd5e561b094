package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNew verifies that creating a new Watcher succeeds.
func TestNew(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if w.IsRunning() {
		t.Error("Newly created watcher should not be running")
	}
}

// TestStartStop verifies that the watcher can start and stop cleanly.
func TestStartStop(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")

	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !w.IsRunning() {
		t.Error("Watcher should be running after Start()")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if w.IsRunning() {
		t.Error("Watcher should not be running after Stop()")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Second Stop() should be a no-op, got %v", err)
	}

	if _, ok := <-w.Events(); ok {
		t.Error("Events channel should be closed after Stop()")
	}
}

type failingCloser struct {
	closeErr error
	inner    interface{ Close() error }
}

func (c failingCloser) Close() error {
	_ = c.inner.Close()
	return c.closeErr
}

// TestStopClosesChannelsOnCloseError verifies that a failed close still ends
// the event loop and closes both channels.
func TestStopClosesChannelsOnCloseError(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")

	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	closeErr := errors.New("close failed")
	w.closer = failingCloser{closeErr: closeErr, inner: w.watcher}

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.Stop() }()

	select {
	case err := <-done:
		if !errors.Is(err, closeErr) {
			t.Errorf("Stop() = %v, want wrapped %v", err, closeErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}

	for range w.Events() {
	}
	if _, ok := <-w.Errors(); ok {
		t.Error("Errors channel should be closed after Stop()")
	}
	if w.IsRunning() {
		t.Error("Watcher should not be running after Stop()")
	}
}

// TestStartAlreadyRunning verifies that starting a running watcher fails.
func TestStartAlreadyRunning(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")

	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		t.Fatalf("First Start() failed: %v", err)
	}
	if err := w.Start(plan); err == nil {
		t.Error("Second Start() should fail when watcher is already running")
	}
}

// TestStartMissingDirectory verifies that the directory must exist.
func TestStartMissingDirectory(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(filepath.Join(t.TempDir(), "nope", "plan.toml")); err == nil {
		t.Error("Start() should fail for a missing directory")
	}
}

// TestFileCreated verifies that creating the watched file triggers an event.
func TestFileCreated(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")

	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := os.WriteFile(plan, []byte("rounds = 5\n"), 0o644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Op != OpCreate {
			t.Errorf("Expected OpCreate, got %v", event.Op)
		}
		if filepath.Base(event.Path) != "plan.toml" {
			t.Errorf("Expected plan.toml, got %s", filepath.Base(event.Path))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for create event")
	}
}

// TestFileModified verifies that modifying the watched file triggers an event.
func TestFileModified(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(plan, []byte("rounds = 5\n"), 0o644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Give watcher time to stabilize
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(plan, []byte("rounds = 50\n"), 0o644); err != nil {
		t.Fatalf("Failed to update plan: %v", err)
	}

	select {
	case event := <-w.Events():
		if event.Op != OpModify {
			t.Errorf("Expected OpModify, got %v", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for modify event")
	}
}

// TestOtherFilesIgnored verifies that siblings of the watched file are ignored.
func TestOtherFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.toml")

	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write sibling: %v", err)
	}

	select {
	case event := <-w.Events():
		t.Errorf("Unexpected event for sibling file: %+v", event)
	case <-time.After(300 * time.Millisecond):
		// Expected: no event
	}
}

// TestDebounceCoalescesBursts verifies that rapid writes produce one event.
func TestDebounceCoalescesBursts(t *testing.T) {
	plan := filepath.Join(t.TempDir(), "plan.toml")
	if err := os.WriteFile(plan, []byte("rounds = 1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	w, err := New(WithDebounce(200 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	// Make rapid changes (faster than debounce interval)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(plan, []byte("rounds = 2\n"), 0o644); err != nil {
			t.Fatalf("Failed to update plan: %v", err)
		}
	}

	select {
	case event := <-w.Events():
		if event.Op != OpModify {
			t.Errorf("Expected OpModify, got %v", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for debounced event")
	}

	select {
	case event := <-w.Events():
		t.Errorf("Expected a single event for the burst, got another: %+v", event)
	case <-time.After(400 * time.Millisecond):
		// Expected: burst already reported
	}
}

func TestEventOpString(t *testing.T) {
	tests := map[EventOp]string{
		OpCreate:    "create",
		OpModify:    "modify",
		OpRemove:    "remove",
		EventOp(99): "unknown",
	}
	for op, want := range tests {
		if got := op.String(); got != want {
			t.Errorf("EventOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}
