// Package plot draws tournament score series as a line chart and shows it.
package plot

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/plotsummary/internal/summary"
)

var (
	// ErrNoSeries is returned when there is nothing to plot.
	ErrNoSeries = errors.New("no participant series to plot")

	// ErrNoRounds is returned when participants have no score columns.
	ErrNoRounds = errors.New("participant series have no rounds")

	// ErrRaggedSeries is returned when participants have different round counts.
	ErrRaggedSeries = errors.New("participant series differ in length")
)

// Plot is what a Sink renders: one line per series, in order.
type Plot struct {
	Title  string
	Series []summary.Series
}

// Names returns the legend labels in series order.
func (p Plot) Names() []string {
	names := make([]string, len(p.Series))
	for i, s := range p.Series {
		names[i] = s.Name
	}
	return names
}

// Sink renders a plot. The terminal sink blocks until the user closes the view.
type Sink interface {
	Render(p Plot) error
}

// Recorder is a Sink that keeps every plot it is given.
type Recorder struct {
	Plots []Plot
	Err   error
}

// Render records p and returns the configured error.
func (r *Recorder) Render(p Plot) error {
	r.Plots = append(r.Plots, p)
	return r.Err
}

// Grid is a participants × rounds score matrix.
type Grid [][]float64

// NewGrid builds a rectangular grid from series, row i being series i.
func NewGrid(series []summary.Series) (Grid, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	rounds := len(series[0].Scores)
	if rounds == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRounds, series[0].Name)
	}

	grid := make(Grid, len(series))
	for i, s := range series {
		if len(s.Scores) != rounds {
			return nil, fmt.Errorf("%w: %q has %d rounds, %q has %d",
				ErrRaggedSeries, s.Name, len(s.Scores), series[0].Name, rounds)
		}
		row := make([]float64, rounds)
		copy(row, s.Scores)
		grid[i] = row
	}
	return grid, nil
}

// Participants returns the number of rows.
func (g Grid) Participants() int {
	return len(g)
}

// Rounds returns the number of columns.
func (g Grid) Rounds() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Transpose returns the rounds × participants view of the grid.
func (g Grid) Transpose() Grid {
	out := make(Grid, g.Rounds())
	for round := range out {
		out[round] = make([]float64, len(g))
		for participant := range g {
			out[round][participant] = g[participant][round]
		}
	}
	return out
}

// Final returns every participant's score after the last round.
func (g Grid) Final() []float64 {
	rounds := g.Transpose()
	if len(rounds) == 0 {
		return nil
	}
	return rounds[len(rounds)-1]
}

// Bounds returns the smallest and largest finite scores. A flat or empty
// grid is widened by one on either side so the range is never zero.
func (g Grid) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 1) {
		return -1, 1
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	return lo, hi
}
