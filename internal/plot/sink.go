package plot

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Default static frame size, used when there is no interactive terminal.
const (
	StaticWidth  = 80
	StaticHeight = 24
)

// TerminalSink shows plots in the terminal. In interactive mode Render
// blocks until the user closes the view; in static mode it prints a single
// frame of Width x Height (default StaticWidth x StaticHeight) and returns.
type TerminalSink struct {
	Logger *log.Logger
	Input  io.Reader
	Output io.Writer
	Static bool
	Width  int
	Height int
}

// NewTerminalSink creates a sink on stdin/stdout, falling back to static
// output when stdout is not a terminal.
func NewTerminalSink(logger *log.Logger) *TerminalSink {
	return &TerminalSink{
		Logger: logger.WithPrefix("sink"),
		Input:  os.Stdin,
		Output: os.Stdout,
		Static: !isTerminal(os.Stdout),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render draws p and shows it.
func (s *TerminalSink) Render(p Plot) error {
	model, err := NewModel(p, s.Logger)
	if err != nil {
		return err
	}

	if s.Static {
		width, height := s.Width, s.Height
		if width <= 0 {
			width = StaticWidth
		}
		if height <= 0 {
			height = StaticHeight
		}
		s.Logger.Debug("Printing static frame", "width", width, "height", height)
		model.static = true
		model.Resize(width, height)
		frame, err := model.Frame()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(s.Output, frame)
		return err
	}

	s.Logger.Debug("Opening chart view", "series", len(p.Series))
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(s.Input),
		tea.WithOutput(s.Output),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chart view: %w", err)
	}
	return model.Err()
}
