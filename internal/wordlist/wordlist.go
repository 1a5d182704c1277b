// Package wordlist loads term:translation word lists from files.
package wordlist

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/wordcram/internal/model"
)

// Separator splits a term from its translation in text word lists.
const Separator = ":"

// Pair is one parsed word list entry.
type Pair struct {
	Term        string
	Translation string
}

// ParseLine parses "term : translation". Empty segments are ignored; the
// line is valid only when exactly two segments remain.
func ParseLine(line string) (Pair, bool) {
	var parts []string
	for _, part := range strings.Split(line, Separator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) != 2 {
		return Pair{}, false
	}
	return Pair{Term: parts[0], Translation: parts[1]}, true
}

// ParseLines builds a fresh working set from raw lines, dropping malformed
// ones. Later duplicates replace earlier ones.
func ParseLines(lines []string) map[string]model.Word {
	pairs := make([]Pair, 0, len(lines))
	for _, line := range lines {
		if pair, ok := ParseLine(line); ok {
			pairs = append(pairs, pair)
		}
	}
	return FromPairs(pairs)
}

// FromPairs converts pairs into unrated words.
func FromPairs(pairs []Pair) map[string]model.Word {
	words := make(map[string]model.Word, len(pairs))
	for _, pair := range pairs {
		words[pair.Term] = model.Word{Translation: pair.Translation}
	}
	return words
}

// LoadPairs reads pairs from path. The format follows the extension:
// .csv and .xlsx use the first two columns, anything else is a text list.
func LoadPairs(path string) ([]Pair, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	default:
		return loadText(path)
	}
}

// LoadWords reads a word list into a working set. On failure it returns an
// empty set together with the error so callers can fall back to stored
// progress.
func LoadWords(path string) (map[string]model.Word, error) {
	pairs, err := LoadPairs(path)
	if err != nil {
		return map[string]model.Word{}, err
	}
	return FromPairs(pairs), nil
}

func loadText(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var pairs []Pair
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if pair, ok := ParseLine(line); ok {
			pairs = append(pairs, pair)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}
