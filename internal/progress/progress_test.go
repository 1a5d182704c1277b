package progress

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordcram/internal/model"
)

func TestMergeRecomputesCounters(t *testing.T) {
	st := New()
	st.Merge(map[string]model.Word{
		"dog": {Translation: "狗", Proficiency: 1, LastLevel: model.Hard},
		"cat": {Translation: "猫", Proficiency: 120, LastLevel: model.Simple},
	})
	assert.Equal(t, 2, st.WordsCount)
	assert.Equal(t, 1, st.FinishedCount)

	st.Merge(map[string]model.Word{"dog": {Translation: "狗", Proficiency: 100, LastLevel: model.Simple}})
	assert.Equal(t, 2, st.WordsCount)
	assert.Equal(t, 2, st.FinishedCount)
	assert.Equal(t, 100, st.Entries["dog"].Proficiency)
}

func TestMergeIsIdempotent(t *testing.T) {
	base := map[string]model.Word{
		"a": {Translation: "1", Proficiency: 10},
		"b": {Translation: "2", Proficiency: 200},
	}
	working := map[string]model.Word{
		"b": {Translation: "2", Proficiency: -3, LastLevel: model.Repeat},
		"c": {Translation: "3", Proficiency: 5, LastLevel: model.Simple},
	}

	once := New().Merge(Clone(base)).Merge(working)
	twice := New().Merge(Clone(base)).Merge(working).Merge(working)
	assert.Equal(t, once, twice)
	assert.Equal(t, 3, twice.WordsCount)
	assert.Equal(t, 0, twice.FinishedCount)
}

func TestSelectBoundsAndEligibility(t *testing.T) {
	st := New().Merge(map[string]model.Word{
		"delta":   {Proficiency: 10},
		"alpha":   {Proficiency: 60},
		"charlie": {Proficiency: 49},
		"bravo":   {Proficiency: -3},
		"echo":    {Proficiency: 50},
	})

	got := Select(st, 2, 50)
	require.Len(t, got, 2)
	assert.Contains(t, got, "bravo")
	assert.Contains(t, got, "charlie")

	all := Select(st, 20, 50)
	assert.Len(t, all, 3)
	for _, word := range all {
		assert.Less(t, word.Proficiency, 50)
	}
	assert.Len(t, st.Entries, 5, "select must not mutate the store")
}

func TestSelectEmpty(t *testing.T) {
	assert.Empty(t, Select(New(), 20, 50))
	st := New().Merge(map[string]model.Word{"done": {Proficiency: 100}})
	assert.Empty(t, Select(st, 20, 50))
	assert.Empty(t, Select(st, 0, 1000))
}

func TestWeakUsesInclusiveThreshold(t *testing.T) {
	weak := Weak(map[string]model.Word{
		"three": {Proficiency: 3},
		"four":  {Proficiency: 4},
		"neg":   {Proficiency: -3},
	})
	assert.Equal(t, []string{"neg", "three"}, SortedTerms(weak))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "learning_data.json")
	st := New().Merge(map[string]model.Word{
		"cat": {Translation: "猫", Proficiency: 101, LastLevel: model.Normal},
	})
	require.NoError(t, Save(st, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
}

func TestLoadRecoversFromMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	st, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
	assert.Empty(t, st.Entries)
	assert.Equal(t, 0, st.WordsCount)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))
	st, err = Load(corrupt)
	assert.Error(t, err)
	require.NotNil(t, st.Entries)
	assert.Empty(t, st.Entries)
}

func TestLoadAcceptsLegacyTranslationKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	legacy := `{"words_map":{"dog":{"proficiency":7,"chinese":"狗","last_level":"Hard"}},"words_count":1,"finished_words_count":0}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	st, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.Word{Translation: "狗", Proficiency: 7, LastLevel: model.Hard}, st.Entries["dog"])
}

func TestSaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := Save(New(), filepath.Join(blocker, "learning_data.json"))
	require.Error(t, err)
	var perr *PersistenceError
	assert.True(t, errors.As(err, &perr))
}
