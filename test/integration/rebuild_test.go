// Package integration exercises the watcher-driven rebuild path against a
// live dataset directory.
package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/feedback"
	"github.com/campushq/askuni/internal/loader"
	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/retrieval"
	"github.com/campushq/askuni/internal/watcher"
)

func writeCollection(t *testing.T, path string, records []*models.Record) {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherRebuildsOrchestrator(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, filepath.Join(dir, "general.json"), []*models.Record{
		{
			Question: "Where is the registrar office?",
			Answer:   "The registrar office is on the second floor of Building C.",
		},
	})

	logger := zap.NewNop()
	ledger := feedback.Open(filepath.Join(t.TempDir(), "feedback.db"), logger)
	defer ledger.Close()

	load := func() ([]models.Collection, []*models.InstructionPair, error) {
		collections, err := loader.LoadCollections(dir, logger)
		return collections, nil, err
	}
	orch, err := retrieval.New(load, nil, ledger, 3, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer orch.Close()

	rebuilt := make(chan struct{}, 1)
	w := watcher.NewWatcher(dir, func() {
		if err := orch.Rebuild(); err == nil {
			select {
			case rebuilt <- struct{}{}:
			default:
			}
		}
	}, watcher.WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if got := orch.CorpusSize(); got != 1 {
		t.Fatalf("initial corpus size = %d, want 1", got)
	}

	writeCollection(t, filepath.Join(dir, "hostel.json"), []*models.Record{
		{
			Question: "How much is the hostel rent per month?",
			Answer:   "Hostel rent is 3500 BDT per month including utilities.",
		},
	})

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not trigger a rebuild")
	}

	if got := orch.CorpusSize(); got != 2 {
		t.Fatalf("corpus size after rebuild = %d, want 2", got)
	}
	result := orch.Retrieve(context.Background(), "How much is the hostel rent per month?")
	if result.Answer != "Hostel rent is 3500 BDT per month including utilities." {
		t.Errorf("answer after rebuild = %q", result.Answer)
	}
}
