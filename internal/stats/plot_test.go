package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Reviews", []Series{
		{Name: "Reviews", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "Rounds", Values: []float64{1, 1, 2, 3, 4}},
	}, 12, 4, false)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Reviews: min=1.0 max=3.0")
	assert.Contains(t, out, "Rounds: min=1.0 max=4.0")
	assert.Contains(t, out, "Legend:")
	assert.NotContains(t, out, colorReset)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title, two ranges, four chart rows, legend
	assert.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[3], "   max │ "))
	assert.True(t, strings.HasPrefix(lines[6], "   min │ "))
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PlotSeries(&buf, "Empty", []Series{{Name: "none"}}, 20, 4, false))
	assert.Empty(t, buf.String())
}

func TestPlotWidthFor(t *testing.T) {
	assert.Equal(t, 80-axisWidth-3, PlotWidthFor(80))
	assert.Equal(t, minPlotWidth, PlotWidthFor(0))
	assert.Equal(t, minPlotWidth, PlotWidthFor(5))
}

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, resample([]float64{1}, 3))
	assert.Equal(t, []float64{1.5, 3.5}, resample([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{0, 5, 10}, resample([]float64{0, 10}, 3))
}
