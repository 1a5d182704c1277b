package stats

import (
	"sort"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
)

// WordRow is one stored word as shown in word tables.
type WordRow struct {
	Term string
	model.Word
}

// LowestWords returns the n unfinished words with the lowest proficiency,
// ties broken by term. A non-positive n returns all of them.
func LowestWords(st *progress.Store, n int) []WordRow {
	if st == nil {
		return nil
	}
	rows := make([]WordRow, 0, len(st.Entries))
	for term, word := range st.Entries {
		if word.Finished() {
			continue
		}
		rows = append(rows, WordRow{Term: term, Word: word})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Proficiency == rows[j].Proficiency {
			return rows[i].Term < rows[j].Term
		}
		return rows[i].Proficiency < rows[j].Proficiency
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
