package ledger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ozdeals/dealpress/app/deal"
)

// Entry records one published deal by fingerprint.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	PostedAt    int64  `json:"timestampMillis"`
}

// Ledger is the persisted publish history used to suppress duplicate posts
// within the TTL window. One pipeline run owns one ledger value; nothing else
// mutates it.
type Ledger struct {
	Posted []Entry `json:"posted"`

	now func() time.Time
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{now: time.Now}
}

// Load reads the ledger file. Any read or parse error yields an empty
// ledger; a missing or corrupt file is never fatal.
func Load(path string) *Ledger {
	l := New()

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("Ledger not loaded, starting empty", "path", path, "error", err)
		return l
	}
	if err := json.Unmarshal(data, l); err != nil {
		slog.Warn("Ledger file corrupt, starting empty", "path", path, "error", err)
		l.Posted = nil
		return l
	}
	return l
}

// Prune drops entries older than ttlDays relative to now.
func (l *Ledger) Prune(ttlDays int) {
	cutoff := l.now().UnixMilli() - int64(ttlDays)*24*int64(time.Hour/time.Millisecond)

	kept := l.Posted[:0]
	for _, e := range l.Posted {
		if e.PostedAt >= cutoff {
			kept = append(kept, e)
		}
	}
	l.Posted = kept
}

// Contains reports whether the deal's fingerprint has been published within
// the retained window.
func (l *Ledger) Contains(d deal.Deal) bool {
	key := Fingerprint(d)
	for _, e := range l.Posted {
		if e.Fingerprint == key {
			return true
		}
	}
	return false
}

// Remember appends an entry for a just-published deal with the current
// timestamp. Callers must not call it twice for the same deal in one run.
func (l *Ledger) Remember(d deal.Deal) {
	l.Posted = append(l.Posted, Entry{
		Fingerprint: Fingerprint(d),
		PostedAt:    l.now().UnixMilli(),
	})
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	return len(l.Posted)
}

// Save rewrites the full ledger atomically: the JSON is written to a
// temporary file in the target directory and renamed over the old one, so a
// crash never leaves a partially written file readable as valid state.
func (l *Ledger) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".posted-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
