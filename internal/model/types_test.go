package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelWeights(t *testing.T) {
	assert.Equal(t, -3, Repeat.Weight())
	assert.Equal(t, 1, Hard.Weight())
	assert.Equal(t, 3, Normal.Weight())
	assert.Equal(t, 5, Simple.Weight())
	assert.Equal(t, 0, Unselected.Weight())
	assert.Equal(t, 0, Level(9).Weight())
}

func TestLevelNextNeverReturnsUnselected(t *testing.T) {
	assert.Equal(t, Repeat, Unselected.Next())
	assert.Equal(t, Hard, Repeat.Next())
	assert.Equal(t, Normal, Hard.Next())
	assert.Equal(t, Simple, Normal.Next())
	assert.Equal(t, Repeat, Simple.Next())
}

func TestLevelStrings(t *testing.T) {
	assert.Equal(t, "Hard", Hard.String())
	assert.Equal(t, "Level(7)", Level(7).String())
	assert.Equal(t, "Not Selected", Unselected.Label())
	assert.Equal(t, "Simple", Simple.Label())
}

func TestWordJSON(t *testing.T) {
	data, err := json.Marshal(Word{Translation: "猫", Proficiency: -3, LastLevel: Repeat})
	require.NoError(t, err)
	assert.JSONEq(t, `{"translation":"猫","proficiency":-3,"last_level":"Repeat"}`, string(data))

	var w Word
	require.Error(t, json.Unmarshal([]byte(`{"translation":"a","last_level":"Impossible"}`), &w))

	require.NoError(t, json.Unmarshal([]byte(`{"translation":"a"}`), &w))
	assert.Equal(t, Word{Translation: "a"}, w)
}
