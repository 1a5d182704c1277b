package stats

import (
	"context"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
	"github.com/verte-zerg/wordcram/internal/store"
)

const defaultTop = 10

// Report contains precomputed data for stats rendering.
type Report struct {
	WordsCount    int
	FinishedCount int
	WeakCount     int
	Buckets       []Bucket
	Lowest        []WordRow

	// History is false when no review history database was available.
	History  bool
	Sessions []model.SessionAggregate
	Levels   []model.LevelCount
	Hardest  []model.TermAggregate
}

// BuildReport loads and prepares data for stats rendering. history may be nil.
func BuildReport(ctx context.Context, st *progress.Store, history *store.Store, cfg model.StatsConfig) (Report, error) {
	if st == nil {
		st = progress.New()
	}
	top := cfg.Top
	if top <= 0 {
		top = defaultTop
	}
	report := Report{
		WordsCount:    st.WordsCount,
		FinishedCount: st.FinishedCount,
		WeakCount:     len(progress.Weak(st.Entries)),
		Buckets:       ProficiencyBuckets(st.Entries),
		Lowest:        LowestWords(st, top),
	}
	if history == nil {
		return report, nil
	}

	sessions, err := history.ListSessions(ctx, cfg.Limit)
	if err != nil {
		return Report{}, err
	}
	levels, err := history.LevelCounts(ctx)
	if err != nil {
		return Report{}, err
	}
	hardest, err := history.HardestTerms(ctx, top)
	if err != nil {
		return Report{}, err
	}
	report.History = true
	report.Sessions = sessions
	report.Levels = levels
	report.Hardest = hardest
	return report, nil
}

// TotalReviews sums the reviews of the loaded sessions.
func (r Report) TotalReviews() int {
	total := 0
	for _, s := range r.Sessions {
		total += s.Reviews
	}
	return total
}
