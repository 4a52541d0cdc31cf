package plot

import (
	"errors"
	"io"
	"math"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/plotsummary/internal/summary"
)

func TestMain(m *testing.M) {
	// Keep rendered output free of escape sequences.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func testSeries() []summary.Series {
	return []summary.Series{
		{Name: "Alpha", Scores: []float64{0, 2, 5, 9}},
		{Name: "Bravo", Scores: []float64{1, 1, 3, 4}},
		{Name: "Charlie", Scores: []float64{0, 3, 3, 7}},
	}
}

func TestNewGrid(t *testing.T) {
	t.Run("rows follow series order", func(t *testing.T) {
		grid, err := NewGrid(testSeries())
		require.NoError(t, err)

		assert.Equal(t, 3, grid.Participants())
		assert.Equal(t, 4, grid.Rounds())
		assert.Equal(t, []float64{1, 1, 3, 4}, grid[1])
	})

	t.Run("grid does not alias the series", func(t *testing.T) {
		series := testSeries()
		grid, err := NewGrid(series)
		require.NoError(t, err)

		grid[0][0] = 100
		assert.Equal(t, 0.0, series[0].Scores[0])
	})

	t.Run("no series", func(t *testing.T) {
		_, err := NewGrid(nil)
		assert.ErrorIs(t, err, ErrNoSeries)
	})

	t.Run("no rounds", func(t *testing.T) {
		_, err := NewGrid([]summary.Series{{Name: "A"}, {Name: "B"}})
		assert.ErrorIs(t, err, ErrNoRounds)
	})

	t.Run("ragged series", func(t *testing.T) {
		_, err := NewGrid([]summary.Series{
			{Name: "A", Scores: []float64{1, 2}},
			{Name: "B", Scores: []float64{1}},
		})
		assert.ErrorIs(t, err, ErrRaggedSeries)
		assert.Contains(t, err.Error(), `"B"`)
	})
}

func TestGridTranspose(t *testing.T) {
	grid, err := NewGrid(testSeries())
	require.NoError(t, err)

	rounds := grid.Transpose()
	require.Len(t, rounds, 4)
	assert.Equal(t, []float64{0, 1, 0}, rounds[0])
	assert.Equal(t, []float64{9, 4, 7}, rounds[3])
	assert.Equal(t, []float64{9, 4, 7}, grid.Final())
	assert.Equal(t, grid, rounds.Transpose())
}

func TestGridBounds(t *testing.T) {
	tests := []struct {
		name   string
		grid   Grid
		lo, hi float64
	}{
		{"spread", Grid{{0, 2, 5}, {-1, 3, 4}}, -1, 5},
		{"flat", Grid{{3, 3}, {3, 3}}, 2, 4},
		{"empty", Grid{}, -1, 1},
		{"ignores nan and inf", Grid{{math.NaN(), 1, math.Inf(1)}, {2, math.Inf(-1), 4}}, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.grid.Bounds()
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestPlotNames(t *testing.T) {
	p := Plot{Series: testSeries()}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, p.Names())
}

func TestRecorder(t *testing.T) {
	var sink Sink = &Recorder{}
	require.NoError(t, sink.Render(Plot{Title: "one"}))
	require.NoError(t, sink.Render(Plot{Title: "two"}))

	rec := sink.(*Recorder)
	require.Len(t, rec.Plots, 2)
	assert.Equal(t, "two", rec.Plots[1].Title)

	boom := errors.New("boom")
	failing := &Recorder{Err: boom}
	assert.ErrorIs(t, failing.Render(Plot{}), boom)
	assert.Len(t, failing.Plots, 1)
}
