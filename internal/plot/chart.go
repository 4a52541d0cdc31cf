package plot

import (
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/log"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Canvas geometry: an 8x5 inch figure at 200 dpi.
const (
	CanvasWidth  = 1600
	CanvasHeight = 1000
	CanvasDPI    = 200
	LineWidth    = 5.0

	canvasPadding = 20
)

// Palette is the series colour cycle, shared by the chart and the legend.
var Palette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// SeriesColor returns the palette colour of the i-th series.
func SeriesColor(i int) string {
	return Palette[i%len(Palette)]
}

// Chart builds the line chart for grid, one series per participant with the
// round index on the x axis. Axes, title and legend are left to the caller;
// only the plotting canvas is drawn. Series with hidden[i] set are not drawn
// but still count towards the axis ranges, so toggling does not rescale.
//
// Non-finite scores leave a gap: a participant's line is split into one
// go-chart series per run of finite points, and isolated points are not
// drawn. A participant with nothing drawable gets a single hidden series.
func Chart(names []string, grid Grid, hidden []bool, logger *log.Logger) chart.Chart {
	rounds := grid.Rounds()
	xs := make([]float64, rounds)
	for i := range xs {
		xs[i] = float64(i)
	}
	xMax := float64(rounds - 1)
	if rounds == 1 {
		// go-chart needs two x values; repeat the single round.
		xs = []float64{0, 1}
		xMax = 1
	}

	series := make([]chart.Series, 0, len(grid))
	for i, row := range grid {
		ys := row
		if rounds == 1 {
			ys = []float64{row[0], row[0]}
		}
		style := chart.Style{
			StrokeColor: drawing.ColorFromHex(SeriesColor(i)),
			StrokeWidth: LineWidth,
		}
		if i < len(hidden) && hidden[i] {
			style.Hidden = true
		}

		runs := finiteRuns(ys)
		if len(runs) != 1 || runs[0] != [2]int{0, len(ys)} {
			logger.Debug("Series has non-finite scores", "series", names[i], "segments", len(runs))
		}
		if len(runs) == 0 {
			style.Hidden = true
			series = append(series, chart.ContinuousSeries{Name: names[i], Style: style})
			continue
		}
		for _, run := range runs {
			series = append(series, chart.ContinuousSeries{
				Name:    names[i],
				XValues: xs[run[0]:run[1]],
				YValues: ys[run[0]:run[1]],
				Style:   style,
			})
		}
	}

	yMin, yMax := grid.Bounds()
	padding := chart.Box{Top: canvasPadding, Left: canvasPadding, Right: canvasPadding, Bottom: canvasPadding}

	return chart.Chart{
		Width:  CanvasWidth,
		Height: CanvasHeight,
		DPI:    CanvasDPI,
		Background: chart.Style{
			Padding:   padding,
			FillColor: drawing.ColorWhite,
		},
		Canvas: chart.Style{
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: series,
		Log:    chartLogger{logger},
	}
}

// RenderImage draws the chart to an in-memory image.
func RenderImage(c chart.Chart) (image.Image, error) {
	var w chart.ImageWriter
	if err := c.Render(chart.PNG, &w); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return w.Image()
}

// finiteRuns returns the [start, end) bounds of every run of at least two
// consecutive finite values in ys.
func finiteRuns(ys []float64) [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i <= len(ys); i++ {
		finite := i < len(ys) && !math.IsNaN(ys[i]) && !math.IsInf(ys[i], 0)
		switch {
		case finite && start < 0:
			start = i
		case !finite && start >= 0:
			if i-start >= 2 {
				runs = append(runs, [2]int{start, i})
			}
			start = -1
		}
	}
	return runs
}

// chartLogger routes go-chart's internal logging to the application logger.
type chartLogger struct {
	logger *log.Logger
}

func (l chartLogger) Info(args ...interface{}) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l chartLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l chartLogger) Debug(args ...interface{}) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l chartLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l chartLogger) Err(err error) {
	l.logger.Error("chart error", "error", err)
}

func (l chartLogger) FatalErr(err error) {
	l.logger.Error("chart fatal error", "error", err)
}

func (l chartLogger) Error(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l chartLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}
