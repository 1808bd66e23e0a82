// Package feedback maintains the durable accepted/rejected answer logs and
// the blocklist predicate derived from them.
package feedback

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/internal/resolver"
	"github.com/campushq/askuni/internal/textproc"
)

// blockThreshold is the word-overlap similarity above which a candidate
// answer is considered too similar to a rejected one.
const blockThreshold = 0.70

// rejectedAnswer caches the word set of one rejected answer for the
// blocklist scan.
type rejectedAnswer struct {
	answer string
	words  map[string]bool
}

// snapshot is the immutable in-memory view of the ledger. Readers load it
// atomically and never block on writers; a reader racing an append may see
// the previous snapshot, which is acceptable.
type snapshot struct {
	entries  []models.FeedbackEntry
	rejected []rejectedAnswer
	// patterns maps a category to the most recent accepted answer in it,
	// used only as an advisory hint for the generation fallback.
	patterns map[string]string
	stats    models.LearningStats
}

// Ledger is the durable feedback store. Appends go through SQLite
// (single-writer, mutex-serialized); all predicates read the atomic
// in-memory snapshot.
type Ledger struct {
	db     *sql.DB
	logger *zap.Logger

	mu   sync.Mutex // serializes Record
	snap atomic.Pointer[snapshot]
}

// Open opens (or creates) the ledger database at path and loads all entries.
// A corrupt or unreadable ledger is never fatal: the error is logged and the
// ledger starts empty, persisting again as soon as the store recovers.
func Open(path string, logger *zap.Logger) *Ledger {
	l := &Ledger{logger: logger}
	l.snap.Store(emptySnapshot())

	db, err := openDB(path)
	if err != nil {
		logger.Warn("feedback ledger unavailable, starting empty", zap.String("path", path), zap.Error(err))
		return l
	}
	l.db = db

	entries, err := l.loadAll()
	if err != nil {
		logger.Warn("feedback ledger unreadable, starting empty", zap.String("path", path), zap.Error(err))
		return l
	}
	snap := emptySnapshot()
	for _, e := range entries {
		applyEntry(snap, e)
	}
	l.snap.Store(snap)
	logger.Info("feedback ledger loaded",
		zap.Int("total", snap.stats.Total),
		zap.Int("accepted", snap.stats.Accepted),
		zap.Int("rejected", snap.stats.Rejected))
	return l
}

func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Two append-only logs; the UNIQUE constraints make duplicate
	// submissions of an identical triple no-ops.
	schema := `
	CREATE TABLE IF NOT EXISTS accepted_answers (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(question, answer)
	);
	CREATE TABLE IF NOT EXISTS rejected_answers (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(question, answer)
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize ledger schema: %w", err)
	}
	return db, nil
}

func (l *Ledger) loadAll() ([]models.FeedbackEntry, error) {
	var entries []models.FeedbackEntry
	for _, table := range []struct {
		name    string
		verdict models.Verdict
	}{
		{"accepted_answers", models.VerdictAccepted},
		{"rejected_answers", models.VerdictRejected},
	} {
		rows, err := l.db.Query(
			"SELECT id, question, answer, created_at FROM " + table.name + " ORDER BY created_at")
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", table.name, err)
		}
		for rows.Next() {
			e := models.FeedbackEntry{Verdict: table.verdict}
			if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Timestamp); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("scan %s: %w", table.name, err)
			}
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("iterate %s: %w", table.name, err)
		}
		_ = rows.Close()
	}
	return entries, nil
}

// Record appends a judgment and returns the updated stats. Submitting the
// identical (question, answer, verdict) triple again changes nothing.
// Rejection is monotonic: entries are never deleted or reversed.
func (l *Ledger) Record(question, answer string, verdict models.Verdict) models.LearningStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.snap.Load()
	for _, e := range cur.entries {
		if e.Question == question && e.Answer == answer && e.Verdict == verdict {
			return cur.stats
		}
	}

	entry := models.FeedbackEntry{
		ID:        uuid.NewString(),
		Question:  question,
		Answer:    answer,
		Verdict:   verdict,
		Timestamp: time.Now().UTC(),
	}

	if l.db != nil {
		table := "accepted_answers"
		if verdict == models.VerdictRejected {
			table = "rejected_answers"
		}
		_, err := l.db.Exec(
			"INSERT OR IGNORE INTO "+table+" (id, question, answer, created_at) VALUES (?, ?, ?, ?)",
			entry.ID, entry.Question, entry.Answer, entry.Timestamp)
		if err != nil {
			l.logger.Error("feedback append failed, keeping entry in memory", zap.Error(err))
		}
	}

	next := cloneSnapshot(cur)
	applyEntry(next, entry)
	l.snap.Store(next)
	return next.stats
}

// IsBlocked reports whether the candidate answer is too similar to any
// rejected answer (word overlap over the larger word set above 0.70).
func (l *Ledger) IsBlocked(answer string) bool {
	words := wordSet(answer)
	if len(words) == 0 {
		return false
	}
	for _, r := range l.snap.Load().rejected {
		if textproc.OverlapMax(words, r.words) > blockThreshold {
			return true
		}
	}
	return false
}

// MatchingPattern returns the learned response snippet for a category, if
// at least one accepted entry exists in it. Advisory only; it never affects
// ranking.
func (l *Ledger) MatchingPattern(category string) (string, bool) {
	pattern, ok := l.snap.Load().patterns[category]
	return pattern, ok
}

// Stats returns the current ledger counters.
func (l *Ledger) Stats() models.LearningStats {
	return l.snap.Load().stats
}

// Close closes the underlying database, if any.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func emptySnapshot() *snapshot {
	return &snapshot{patterns: make(map[string]string)}
}

func cloneSnapshot(s *snapshot) *snapshot {
	next := &snapshot{
		entries:  append([]models.FeedbackEntry(nil), s.entries...),
		rejected: append([]rejectedAnswer(nil), s.rejected...),
		patterns: make(map[string]string, len(s.patterns)),
		stats:    s.stats,
	}
	for k, v := range s.patterns {
		next.patterns[k] = v
	}
	return next
}

func applyEntry(s *snapshot, e models.FeedbackEntry) {
	s.entries = append(s.entries, e)
	s.stats.Total++
	switch e.Verdict {
	case models.VerdictAccepted:
		s.stats.Accepted++
		category := resolver.Resolve(textproc.Normalize(e.Question)).PrimaryCategory()
		s.patterns[category] = e.Answer
	case models.VerdictRejected:
		s.stats.Rejected++
		if words := wordSet(e.Answer); len(words) > 0 {
			s.rejected = append(s.rejected, rejectedAnswer{answer: e.Answer, words: words})
		}
	}
}

// wordSet is the raw lowercased word set of a text. The blocklist compares
// surface words, not normalized tokens, so rewordings that keep most of the
// same words still block.
func wordSet(text string) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
