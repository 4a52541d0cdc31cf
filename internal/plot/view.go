package plot

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrWindowTooSmall is returned when a frame cannot fit the chart.
var ErrWindowTooSmall = errors.New("window too small")

const (
	minChartCols  = 10
	minChartRows  = 4
	maxLegendName = 24
)

type keyMap struct {
	Toggle key.Binding
	Legend key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Legend, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "toggle series"),
	),
	Legend: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "legend"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "close"),
	),
}

// Model is the Bubble Tea model showing one chart until the user closes it.
type Model struct {
	plot   Plot
	grid   Grid
	final  []float64
	hidden []bool
	legend bool

	keys   keyMap
	help   help.Model
	logger *log.Logger

	// Rendered chart; nil while nothing is drawable.
	image image.Image

	// Raster cache for the current chart size
	cells     Cells
	cellsCols int
	cellsRows int

	width    int
	height   int
	static   bool // single frame, no key help
	quitting bool
	err      error
}

// NewModel renders the chart for p and returns a view model for it.
func NewModel(p Plot, logger *log.Logger) (*Model, error) {
	grid, err := NewGrid(p.Series)
	if err != nil {
		return nil, err
	}

	m := &Model{
		plot:   p,
		grid:   grid,
		final:  grid.Final(),
		hidden: make([]bool, len(grid)),
		legend: true,
		keys:   defaultKeys,
		help:   help.New(),
		logger: logger.WithPrefix("view"),
	}
	if err := m.redraw(); err != nil {
		return nil, err
	}
	return m, nil
}

// Err returns the error that closed the view, if any.
func (m *Model) Err() error {
	return m.err
}

// Hidden reports whether series i is currently toggled off.
func (m *Model) Hidden(i int) bool {
	return i >= 0 && i < len(m.hidden) && m.hidden[i]
}

// Resize sets the terminal dimensions the view lays itself out in.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Init initializes the view
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.logger.Debug("Updating dimensions", "width", msg.Width, "height", msg.Height)
		m.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Legend):
			m.legend = !m.legend

		case key.Matches(msg, m.keys.Toggle):
			idx := int(msg.String()[0] - '1')
			if idx >= len(m.hidden) {
				break
			}
			m.hidden[idx] = !m.hidden[idx]
			m.logger.Debug("Toggled series", "series", m.plot.Series[idx].Name, "hidden", m.hidden[idx])
			if err := m.redraw(); err != nil {
				m.err = err
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// redraw re-renders the chart image after a visibility change. The image is
// nil when nothing is left to draw.
func (m *Model) redraw() error {
	m.cells = nil
	c := Chart(m.plot.Names(), m.grid, m.hidden, m.logger)
	if !lo.ContainsBy(c.Series, func(s chart.Series) bool { return !s.GetStyle().Hidden }) {
		m.image = nil
		return nil
	}

	img, err := RenderImage(c)
	if err != nil {
		return err
	}
	m.image = img
	return nil
}

// View renders the chart view
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return ErrorStyle.Render(m.err.Error())
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	frame, err := m.Frame()
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}
	return frame
}

// Frame lays out one full frame at the current size. It fails with
// ErrWindowTooSmall when the chart area would drop below its minimum.
func (m *Model) Frame() (string, error) {
	var sections []string
	if m.plot.Title != "" {
		sections = append(sections, TitleStyle.Render(m.plot.Title))
	}

	footer := 2 // x axis and help line
	if m.static {
		footer = 1
	}
	chartRows := m.height - len(sections) - footer

	yMin, yMax := m.grid.Bounds()
	top, bottom := formatScore(yMax), formatScore(yMin)
	labelWidth := max(lipgloss.Width(top), lipgloss.Width(bottom))

	legend := ""
	legendWidth := 0
	if m.legend && chartRows >= minChartRows {
		legend = m.renderLegend(chartRows)
		legendWidth = lipgloss.Width(legend) + 1
	}

	chartCols := m.width - labelWidth - 1 - legendWidth
	if chartCols < minChartCols || chartRows < minChartRows {
		return "", fmt.Errorf("%w (%dx%d)", ErrWindowTooSmall, m.width, m.height)
	}

	yAxis := m.renderYAxis(top, bottom, labelWidth, chartRows)
	plotArea := m.renderChart(chartCols, chartRows)
	row := lipgloss.JoinHorizontal(lipgloss.Top, yAxis, " ", plotArea)
	if legend != "" {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, " ", legend)
	}
	sections = append(sections, row)
	sections = append(sections, strings.Repeat(" ", labelWidth+1)+m.renderXAxis(chartCols))
	if !m.static {
		sections = append(sections, m.help.View(m.keys))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...), nil
}

func (m *Model) renderChart(cols, rows int) string {
	if m.image == nil {
		blank := strings.Repeat(" ", cols)
		lines := make([]string, rows)
		for i := range lines {
			lines[i] = blank
		}
		msg := "all series hidden"
		if lo.Contains(m.hidden, false) {
			msg = "no finite scores to draw"
		}
		lines[rows/2] = lipgloss.PlaceHorizontal(cols, lipgloss.Center, InfoStyle.Render(msg))
		return strings.Join(lines, "\n")
	}

	if m.cells == nil || m.cellsCols != cols || m.cellsRows != rows {
		m.cells = Raster(m.image, cols, rows)
		m.cellsCols, m.cellsRows = cols, rows
	}
	return m.cells.String()
}

func (m *Model) renderYAxis(top, bottom string, width, rows int) string {
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = strings.Repeat(" ", width)
	}
	lines[0] = AxisStyle.Render(fmt.Sprintf("%*s", width, top))
	lines[rows-1] = AxisStyle.Render(fmt.Sprintf("%*s", width, bottom))
	return strings.Join(lines, "\n")
}

func (m *Model) renderXAxis(cols int) string {
	first := "0"
	last := fmt.Sprintf("%d", m.grid.Rounds()-1)
	if m.grid.Rounds() == 1 {
		last = ""
	}

	label := "round"
	gap := cols - len(first) - len(last)
	if gap < len(label)+2 {
		return AxisStyle.Render(first + strings.Repeat(" ", max(gap, 0)) + last)
	}
	left := (gap - len(label)) / 2
	right := gap - len(label) - left
	return AxisStyle.Render(first + strings.Repeat(" ", left) + label + strings.Repeat(" ", right) + last)
}

// renderLegend draws the legend box in at most height lines. Entries that do
// not fit are summarised in a final "+N more" line.
func (m *Model) renderLegend(height int) string {
	entries := len(m.plot.Series)
	room := height - 2 // border
	shown := entries
	if entries > room {
		shown = max(room-1, 0)
	}

	lines := make([]string, 0, shown+1)
	for i, s := range m.plot.Series[:shown] {
		hotkey := " "
		if i < 9 {
			hotkey = fmt.Sprintf("%d", i+1)
		}

		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(SeriesColor(i))).Render("━━")
		name := truncate(s.Name, maxLegendName)
		score := LegendScoreStyle.Render(formatScore(m.final[i]))
		if m.hidden[i] {
			swatch = "  "
			name = HiddenStyle.Render(name)
			score = InfoStyle.Render(formatScore(m.final[i]))
		} else {
			name = LegendNameStyle.Render(name)
		}

		lines = append(lines, fmt.Sprintf("%s %s %s %s", InfoStyle.Render(hotkey), swatch, name, score))
	}
	if shown < entries {
		lines = append(lines, InfoStyle.Render(fmt.Sprintf("+%d more", entries-shown)))
	}
	return legendBorderStyle.Render(strings.Join(lines, "\n"))
}

func formatScore(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
