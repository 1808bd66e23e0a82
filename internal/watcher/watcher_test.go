package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForRebuild(t *testing.T, ch <-chan struct{}, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherTriggersRebuildOnDataFile(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 1)
	w := NewWatcher(dir, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "records.json"), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}
	if !waitForRebuild(t, rebuilt, 3*time.Second) {
		t.Fatal("rebuild not triggered by .json write")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 1)
	w := NewWatcher(dir, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	}, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if waitForRebuild(t, rebuilt, 300*time.Millisecond) {
		t.Fatal("rebuild triggered by non-data file")
	}
}

func TestWatcherDebounceCoalesces(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 16)
	w := NewWatcher(dir, func() {
		rebuilt <- struct{}{}
	}, WithDebounce(150*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "records.json")
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !waitForRebuild(t, rebuilt, 3*time.Second) {
		t.Fatal("no rebuild after burst")
	}
	// The burst fits inside one debounce window.
	if waitForRebuild(t, rebuilt, 300*time.Millisecond) {
		t.Error("burst produced more than one rebuild")
	}
}

func TestWatcherCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "dataset")
	w := NewWatcher(root, func() {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if _, err := os.Stat(root); err != nil {
		t.Errorf("root not created: %v", err)
	}
}

func TestWatcherStopDuringEvents(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, func() {}, WithDebounce(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	writing := make(chan struct{})
	go func() {
		defer close(writing)
		for i := 0; i < 20; i++ {
			_ = os.WriteFile(filepath.Join(dir, "records.json"), []byte("[]"), 0644)
			time.Sleep(time.Millisecond)
		}
	}()

	// Shut down while events are still arriving; the event loop must wind
	// down without touching freed watcher state.
	time.Sleep(5 * time.Millisecond)
	w.Stop()
	<-writing
	w.Stop()
}

func TestWatcherStopIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), func() {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"records.json", true},
		{"records.XLSX", true},
		{"notes.txt", false},
		{"records.json.bak", false},
	}
	for _, tt := range tests {
		if got := matchExtension(tt.path); got != tt.want {
			t.Errorf("matchExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
