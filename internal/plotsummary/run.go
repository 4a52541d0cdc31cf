// Package plotsummary ties the resolver, parser and renderer into one run.
package plotsummary

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/plotsummary/internal/plot"
	"github.com/lox/plotsummary/internal/summary"
)

// Config is the parsed command line of a single run.
type Config struct {
	// Tournament is an explicit tournament directory; empty means latest.
	Tournament string
	Title      string
}

// DirResolver finds the tournament directory to read.
type DirResolver interface {
	Resolve(explicit string) (string, error)
}

// Deps are the collaborators of Run.
type Deps struct {
	Resolver DirResolver
	Sink     plot.Sink
	Logger   *log.Logger
}

// Run resolves the tournament directory, loads its summary and renders it.
func Run(cfg Config, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	dir, err := deps.Resolver.Resolve(cfg.Tournament)
	if err != nil {
		return fmt.Errorf("resolve tournament: %w", err)
	}
	logger.Debug("Resolved tournament", "dir", dir)

	s, err := summary.Load(dir)
	if err != nil {
		return fmt.Errorf("load summary: %w", err)
	}
	logger.Debug("Loaded summary", "rows", len(s.Rows), "separator", s.Separator, "participants", len(s.Series))

	if err := deps.Sink.Render(plot.Plot{Title: cfg.Title, Series: s.Series}); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
