package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
)

type countingSaver struct {
	calls int
	err   error
}

func (s *countingSaver) save(_ *progress.Store) error {
	s.calls++
	return s.err
}

type memoryRecorder struct {
	reviews []model.Review
}

func (r *memoryRecorder) RecordReview(review model.Review) {
	r.reviews = append(r.reviews, review)
}

func newTestEngine(t *testing.T, st *progress.Store, words map[string]model.Word, saver *countingSaver) *Engine {
	t.Helper()
	e := New(st, words, Options{Count: 20, MaxProficiency: 50, Seed: 1}, saver.save, nil)
	require.NoError(t, e.Start())
	return e
}

func rate(t *testing.T, e *Engine, level model.Level) {
	t.Helper()
	require.Equal(t, PhasePresenting, e.Phase())
	e.Reveal()
	require.Equal(t, PhaseRevealed, e.Phase())
	for e.Cursor().Selected != level {
		e.CycleRating()
	}
	require.NoError(t, e.Confirm())
}

func TestRateHardScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "learning_data.json")
	st := progress.New()
	e := New(st, map[string]model.Word{"dog": {Translation: "狗"}}, Options{Count: 20, MaxProficiency: 50}, func(s *progress.Store) error {
		return progress.Save(s, path)
	}, nil)
	require.NoError(t, e.Start())
	assert.Equal(t, "dog", e.Cursor().Term)

	require.NoError(t, e.Handle(Action{Kind: ActionSubmit}))
	require.NoError(t, e.Handle(Action{Kind: ActionClear}))
	require.NoError(t, e.Handle(Action{Kind: ActionClear}))
	assert.Equal(t, model.Hard, e.Cursor().Selected)
	require.NoError(t, e.Handle(Action{Kind: ActionSubmit}))

	// Hard leaves dog weak, so a second round starts with it.
	assert.False(t, e.Done())
	assert.Equal(t, 2, e.Round())

	loaded, err := progress.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Entries["dog"].Proficiency)
	assert.Equal(t, model.Hard, loaded.Entries["dog"].LastLevel)
	assert.Equal(t, 1, loaded.WordsCount)
	assert.Equal(t, 0, loaded.FinishedCount)
}

func TestRepeatAlwaysResetsAcrossSessions(t *testing.T) {
	for _, start := range []int{-10, 0, 3, 49, 250} {
		st := progress.New().Merge(map[string]model.Word{"word": {Translation: "слово", Proficiency: start}})
		for i := 0; i < 3; i++ {
			saver := &countingSaver{}
			e := New(st, nil, Options{Count: 20, MaxProficiency: 1000, Seed: 1}, saver.save, nil)
			require.NoError(t, e.Start())
			rate(t, e, model.Repeat)
			require.NoError(t, e.Quit())
			assert.Equal(t, -3, st.Entries["word"].Proficiency)
			assert.Equal(t, model.Repeat, st.Entries["word"].LastLevel)
		}
	}
}

func TestEmptyWorkingSetEndsImmediately(t *testing.T) {
	saver := &countingSaver{}
	e := newTestEngine(t, progress.New(), nil, saver)
	assert.True(t, e.Done())
	assert.Equal(t, PhaseDone, e.Phase())
	assert.Equal(t, 1, saver.calls)
	assert.NoError(t, e.Handle(Action{Kind: ActionSubmit}))
	assert.NoError(t, e.Quit())
	assert.Equal(t, 1, saver.calls)
}

func TestWeakWordsRepeatUntilStrong(t *testing.T) {
	saver := &countingSaver{}
	st := progress.New()
	e := newTestEngine(t, st, map[string]model.Word{
		"apple":  {Translation: "яблоко"},
		"banana": {Translation: "банан"},
	}, saver)

	assert.Equal(t, "apple", e.Cursor().Term)
	rate(t, e, model.Simple)
	assert.Equal(t, "banana", e.Cursor().Term)
	rate(t, e, model.Normal)

	require.False(t, e.Done())
	assert.Equal(t, 2, e.Round())
	assert.Equal(t, 1, e.WorkingSize())
	assert.Equal(t, "banana", e.Cursor().Term)
	assert.Equal(t, model.Unselected, e.Cursor().Selected)
	assert.Equal(t, 3, e.Cursor().Word.Proficiency)

	rate(t, e, model.Hard)
	assert.True(t, e.Done())
	assert.Equal(t, 2, saver.calls)
	assert.Equal(t, 5, st.Entries["apple"].Proficiency)
	assert.Equal(t, 4, st.Entries["banana"].Proficiency)
	assert.Equal(t, 3, e.Reviews())
}

func TestSessionTerminatesWhenRatingsImprove(t *testing.T) {
	words := map[string]model.Word{}
	for _, term := range []string{"a", "b", "c", "d"} {
		words[term] = model.Word{Translation: term, Proficiency: -20}
	}
	saver := &countingSaver{}
	e := newTestEngine(t, progress.New(), words, saver)
	for steps := 0; !e.Done(); steps++ {
		require.Less(t, steps, 100, "session did not terminate")
		rate(t, e, model.Hard)
	}
	assert.Equal(t, 24, e.Round())
}

func TestConfirmRequiresRating(t *testing.T) {
	saver := &countingSaver{}
	e := newTestEngine(t, progress.New(), map[string]model.Word{"cat": {Translation: "猫"}}, saver)
	e.Reveal()
	require.NoError(t, e.Confirm())
	assert.Equal(t, PhaseRevealed, e.Phase())
	assert.Equal(t, "cat", e.Cursor().Term)
	assert.Equal(t, 0, saver.calls)
}

func TestConfirmIgnoredWhilePresenting(t *testing.T) {
	saver := &countingSaver{}
	e := newTestEngine(t, progress.New(), map[string]model.Word{"cat": {Translation: "猫"}}, saver)
	e.CycleRating()
	require.NoError(t, e.Confirm())
	assert.Equal(t, PhasePresenting, e.Phase())
	assert.Equal(t, model.Unselected, e.Cursor().Selected)
}

func TestRatingCycleSkipsUnselected(t *testing.T) {
	e := newTestEngine(t, progress.New(), map[string]model.Word{"cat": {Translation: "猫"}}, &countingSaver{})
	e.Reveal()
	var seen []model.Level
	for i := 0; i < 6; i++ {
		e.CycleRating()
		seen = append(seen, e.Cursor().Selected)
	}
	assert.Equal(t, []model.Level{model.Repeat, model.Hard, model.Normal, model.Simple, model.Repeat, model.Hard}, seen)
}

func TestTypedInputIsBoundedAndCleared(t *testing.T) {
	e := newTestEngine(t, progress.New(), map[string]model.Word{"猫咪": {Translation: "kitty"}}, &countingSaver{})
	for _, r := range "猫咪x" {
		require.NoError(t, e.Handle(Action{Kind: ActionType, Char: r}))
	}
	assert.Equal(t, []rune("猫咪"), e.Cursor().Typed)

	e.Backspace()
	assert.Equal(t, []rune("猫"), e.Cursor().Typed)

	require.NoError(t, e.Handle(Action{Kind: ActionClear}))
	assert.Empty(t, e.Cursor().Typed)

	e.TypeChar('猫')
	e.Reveal()
	assert.Empty(t, e.Cursor().Typed)
	e.TypeChar('x')
	assert.Empty(t, e.Cursor().Typed, "typing is ignored once revealed")
	e.Backspace()
	assert.Empty(t, e.Cursor().Typed)
}

func TestQuitMergesRatedWords(t *testing.T) {
	saver := &countingSaver{}
	st := progress.New().Merge(map[string]model.Word{"old": {Translation: "старый", Proficiency: 80}})
	e := newTestEngine(t, st, map[string]model.Word{
		"one": {Translation: "один"},
		"two": {Translation: "два"},
	}, saver)

	rate(t, e, model.Simple)
	e.Reveal()
	e.CycleRating()
	require.NoError(t, e.Handle(Action{Kind: ActionQuit}))

	assert.True(t, e.Done())
	assert.Equal(t, 1, saver.calls)
	assert.Equal(t, 5, st.Entries["one"].Proficiency)
	assert.Equal(t, model.Word{Translation: "два"}, st.Entries["two"])
	assert.Equal(t, 80, st.Entries["old"].Proficiency)
	assert.Equal(t, 3, st.WordsCount)
}

func TestSaveFailureEndsSession(t *testing.T) {
	saver := &countingSaver{err: errors.New("disk full")}
	e := newTestEngine(t, progress.New(), map[string]model.Word{"cat": {Translation: "猫"}}, saver)
	e.Reveal()
	e.CycleRating()
	err := e.Confirm()
	require.Error(t, err)
	assert.True(t, e.Done())
}

func TestFallsBackToSelector(t *testing.T) {
	st := progress.New().Merge(map[string]model.Word{
		"a": {Proficiency: 10},
		"b": {Proficiency: 60},
		"c": {Proficiency: 20},
		"d": {Proficiency: 30},
	})
	e := New(st, nil, Options{Count: 2, MaxProficiency: 50, Seed: 1}, nil, nil)
	require.NoError(t, e.Start())
	assert.False(t, e.FromWordList())
	assert.Equal(t, 2, e.WorkingSize())
	assert.Equal(t, "a", e.Cursor().Term)
	assert.Equal(t, 1, e.Remaining())
}

func TestRecorderReceivesReviews(t *testing.T) {
	rec := &memoryRecorder{}
	e := New(progress.New(), map[string]model.Word{"cat": {Translation: "猫", Proficiency: 2}}, Options{Seed: 1}, nil, rec)
	require.NoError(t, e.Start())
	rate(t, e, model.Simple)

	require.Len(t, rec.reviews, 1)
	got := rec.reviews[0]
	assert.Equal(t, "cat", got.Term)
	assert.Equal(t, model.Simple, got.Level)
	assert.Equal(t, 2, got.ProficiencyFrom)
	assert.Equal(t, 7, got.ProficiencyTo)
	assert.Equal(t, 1, got.Round)
	assert.False(t, got.ReviewedAt.IsZero())
}
