package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formulas.json")
	if err := os.WriteFile(path, []byte(`{"f": "1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(quiet())
	w, err := NewWatcher(r, path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchErr := make(chan error, 1)
	go func() { watchErr <- w.Watch(ctx) }()

	if !waitFor(t, 5*time.Second, func() bool {
		v, err := r.Evaluate("f", nil)
		return err == nil && v == 1
	}) {
		t.Fatal("initial load never happened")
	}

	if err := os.WriteFile(path, []byte(`{"f": "2", "g": "3"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if !waitFor(t, 5*time.Second, func() bool {
		v, err := r.Evaluate("g", nil)
		return err == nil && v == 3
	}) {
		t.Fatal("reload never happened")
	}
	if v, err := r.Evaluate("f", nil); err != nil || v != 2 {
		t.Errorf("f not updated: got %g, %v", v, err)
	}

	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-watchErr:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after Stop")
	}
}

func TestWatcherBadReloadKeepsOldFormulas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formulas.json")
	if err := os.WriteFile(path, []byte(`{"f": "41 + 1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(quiet())
	w, err := NewWatcher(r, path, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() { defer close(done); _ = w.Watch(ctx) }()
	defer func() { _ = w.Stop(); <-done }()

	if !waitFor(t, 5*time.Second, func() bool { return r.Len() == 1 }) {
		t.Fatal("initial load never happened")
	}

	// A file that no longer parses must not wipe the registry.
	if err := os.WriteFile(path, []byte(`{"f": "1 +`), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if v, err := r.Evaluate("f", nil); err != nil || v != 42 {
		t.Errorf("formula lost after bad reload: got %g, %v", v, err)
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formulas.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	r := New(quiet())
	w, err := NewWatcher(r, path, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	// Stopping a watcher that never ran is a no-op.
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
}
