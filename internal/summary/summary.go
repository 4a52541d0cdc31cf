// Package summary reads a tournament summary.csv and extracts the per-round
// score block of each participant.
//
// The file has an upper section this package ignores, then a single empty
// row, then one row per participant: name, score_1, score_2, ... The number
// of participant rows is derived from the position of the empty row (one
// less than its index). The rows themselves are taken from the end of the
// file, not from just after the separator.
package summary

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// FileName is the summary file expected inside a tournament directory.
const FileName = "summary.csv"

var (
	// ErrSeparatorNotFound is returned when the file has no empty row.
	ErrSeparatorNotFound = errors.New("separator row not found")

	// ErrMissingName is returned when a participant row has no cells at all,
	// which happens when the score block reaches back to the separator.
	ErrMissingName = errors.New("participant row has no name")
)

// ScoreError reports a participant row that could not be converted.
type ScoreError struct {
	Row    int // zero-based row index in the file
	Column int // zero-based column index in the row
	Value  string
	Err    error
}

func (e *ScoreError) Error() string {
	if e.Column == 0 {
		return fmt.Sprintf("row %d: %v", e.Row+1, e.Err)
	}
	return fmt.Sprintf("row %d, column %d: invalid score %q: %v", e.Row+1, e.Column+1, e.Value, e.Err)
}

func (e *ScoreError) Unwrap() error {
	return e.Err
}

// Series is one participant and their score after each round.
type Series struct {
	Name   string
	Scores []float64
}

// Summary is a parsed summary file.
type Summary struct {
	Rows        Rows
	Separator   int // index of the first empty row
	VesselCount int // Separator - 1
	Series      []Series
}

// Names returns participant names in file order.
func (s *Summary) Names() []string {
	return lo.Map(s.Series, func(series Series, _ int) string {
		return series.Name
	})
}

// Scores returns participant score sequences in file order.
func (s *Summary) Scores() [][]float64 {
	return lo.Map(s.Series, func(series Series, _ int) []float64 {
		return series.Scores
	})
}

// Load reads and parses the summary file in dir.
func Load(dir string) (*Summary, error) {
	path := filepath.Join(dir, FileName)

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open summary: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s, err := Parse(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse extracts the participant score block from rows.
func Parse(rows Rows) (*Summary, error) {
	_, separator, found := lo.FindIndexOf(rows, func(row Row) bool {
		return len(row) == 0
	})
	if !found {
		return nil, ErrSeparatorNotFound
	}

	count := separator - 1
	s := &Summary{
		Rows:        rows,
		Separator:   separator,
		VesselCount: count,
	}
	if count <= 0 {
		return s, nil
	}

	s.Series = make([]Series, 0, count)
	for i := len(rows) - count; i < len(rows); i++ {
		series, err := parseSeries(i, rows[i])
		if err != nil {
			return nil, err
		}
		s.Series = append(s.Series, series)
	}
	return s, nil
}

func parseSeries(index int, row Row) (Series, error) {
	if len(row) == 0 {
		return Series{}, &ScoreError{Row: index, Err: ErrMissingName}
	}

	scores := make([]float64, 0, len(row)-1)
	for col := 1; col < len(row); col++ {
		value, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return Series{}, &ScoreError{Row: index, Column: col, Value: row[col], Err: err}
		}
		scores = append(scores, value)
	}

	return Series{Name: row[0], Scores: scores}, nil
}
