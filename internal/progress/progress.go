// Package progress persists per-word learning progress as JSON.
package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/verte-zerg/wordcram/internal/model"
)

// WeakProficiency is the highest proficiency that still sends a word into
// another round.
const WeakProficiency = 3

// Store maps terms to their learning records plus cached counters.
type Store struct {
	Entries       map[string]model.Word `json:"words_map"`
	WordsCount    int                   `json:"words_count"`
	FinishedCount int                   `json:"finished_words_count"`
}

// PersistenceError reports a failed save. It is fatal for a session.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save progress to %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// New returns an empty store.
func New() *Store {
	return &Store{Entries: map[string]model.Word{}}
}

// Load reads a store from path. Any read or parse failure yields an empty
// store; the returned error only explains why, callers may log it.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(), err
	}
	var st Store
	if err := json.Unmarshal(data, &st); err != nil {
		return New(), fmt.Errorf("failed to decode progress: %w", err)
	}
	if st.Entries == nil {
		st.Entries = map[string]model.Word{}
	}
	st.recount()
	return &st, nil
}

// Save writes the full store to path, creating the parent directory.
func Save(st *Store, path string) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmpFile, err := os.CreateTemp(dir, "progress-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// Merge overwrites the store entries with the working set and recomputes
// both counters. Merging the same working set twice is a no-op.
func (s *Store) Merge(working map[string]model.Word) *Store {
	if s.Entries == nil {
		s.Entries = map[string]model.Word{}
	}
	for term, word := range working {
		s.Entries[term] = word
	}
	s.recount()
	return s
}

func (s *Store) recount() {
	s.WordsCount = len(s.Entries)
	finished := 0
	for _, word := range s.Entries {
		if word.Finished() {
			finished++
		}
	}
	s.FinishedCount = finished
}

// Terms returns all stored terms sorted.
func (s *Store) Terms() []string {
	return SortedTerms(s.Entries)
}

// Select picks at most count entries with proficiency below maxProficiency.
// Eligible terms are taken in sorted order so the result is reproducible.
func Select(s *Store, count, maxProficiency int) map[string]model.Word {
	selected := map[string]model.Word{}
	if s == nil || count <= 0 {
		return selected
	}
	for _, term := range s.Terms() {
		if len(selected) >= count {
			break
		}
		word := s.Entries[term]
		if word.Proficiency < maxProficiency {
			selected[term] = word
		}
	}
	return selected
}

// Weak returns the words of a finished round that must be repeated.
func Weak(working map[string]model.Word) map[string]model.Word {
	weak := map[string]model.Word{}
	for term, word := range working {
		if word.Proficiency <= WeakProficiency {
			weak[term] = word
		}
	}
	return weak
}

// SortedTerms returns the keys of words in ascending order.
func SortedTerms(words map[string]model.Word) []string {
	terms := make([]string, 0, len(words))
	for term := range words {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// Clone copies a working set.
func Clone(words map[string]model.Word) map[string]model.Word {
	out := make(map[string]model.Word, len(words))
	for term, word := range words {
		out[term] = word
	}
	return out
}
