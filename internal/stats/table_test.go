package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Term", "Proficiency", "Level"}
	rows := [][]string{
		{"dog", "1", "Hard"},
		{"elephant", "-3", "Repeat"},
	}

	lines := formatTable(headers, rows, map[int]bool{1: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Term      Proficiency  Level", lines[0])
	assert.Equal(t, "dog                 1  Hard", lines[1])
	assert.Equal(t, "elephant           -3  Repeat", lines[2])
}

func TestFormatTableUsesDisplayWidth(t *testing.T) {
	lines := formatTable([]string{"Term", "N"}, [][]string{{"猫咪", "1"}, {"cat", "2"}}, nil)
	require.Len(t, lines, 3)
	assert.Equal(t, "Term  N", lines[0])
	assert.Equal(t, "猫咪  1", lines[1])
	assert.Equal(t, "cat   2", lines[2])
}

func TestFormatTableEmpty(t *testing.T) {
	assert.Nil(t, formatTable(nil, nil, nil))
}
