package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
)

func TestLowestWords(t *testing.T) {
	st := progress.New().Merge(map[string]model.Word{
		"b":    {Proficiency: 10},
		"a":    {Proficiency: 10},
		"c":    {Proficiency: -3, LastLevel: model.Repeat},
		"done": {Proficiency: 150},
	})

	rows := LowestWords(st, 2)
	assert.Equal(t, []WordRow{
		{Term: "c", Word: model.Word{Proficiency: -3, LastLevel: model.Repeat}},
		{Term: "a", Word: model.Word{Proficiency: 10}},
	}, rows)

	assert.Len(t, LowestWords(st, 0), 3)
	assert.Nil(t, LowestWords(nil, 5))
}
