package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/plotsummary/internal/plot"
	"github.com/lox/plotsummary/internal/plotsummary"
	"github.com/lox/plotsummary/internal/tournament"
)

// version is set by ldflags during build
var version = "1.2"

type CLI struct {
	Version    kong.VersionFlag `help:"Show the script version, then exit."`
	Tournament string           `arg:"" optional:"" help:"The tournament to plot (default: latest Logs/Tournament* directory)."`
	Title      string           `short:"t" help:"A title."`
	Static     bool             `help:"Print a single frame instead of the interactive view."`
	Debug      bool             `help:"Enable debug logging"`
}

// deps are the process-level collaborators of a run, swapped out in tests.
type deps struct {
	stderr  io.Writer
	logsDir func() (string, error)
	newSink func(logger *log.Logger, static bool) plot.Sink
}

func defaultDeps() *deps {
	return &deps{
		stderr:  os.Stderr,
		logsDir: tournament.DefaultLogsDir,
		newSink: func(logger *log.Logger, static bool) plot.Sink {
			sink := plot.NewTerminalSink(logger)
			sink.Static = sink.Static || static
			return sink
		},
	}
}

// Config converts the parsed command line into a run configuration.
func (c *CLI) Config() plotsummary.Config {
	return plotsummary.Config{
		Tournament: c.Tournament,
		Title:      c.Title,
	}
}

func (c *CLI) Run(d *deps) error {
	logger := SetupLogger(d.stderr, c.Debug)

	logsDir, err := d.logsDir()
	if err != nil {
		logger.Warn("Cannot locate logs directory", "error", err)
		logsDir = ""
	}

	return plotsummary.Run(c.Config(), plotsummary.Deps{
		Resolver: tournament.NewResolver(logsDir, logger),
		Sink:     d.newSink(logger, c.Static),
		Logger:   logger,
	})
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	return kong.New(cli, append([]kong.Option{
		kong.Name("plot-summary"),
		kong.Description("Plot the scores of a tournament as they accumulated per round"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": "Version: " + version,
		},
	}, options...)...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	err = ctx.Run(defaultDeps())
	ctx.FatalIfErrorf(err)
}
