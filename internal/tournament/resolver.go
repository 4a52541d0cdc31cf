// Package tournament locates the tournament directory whose summary gets plotted.
package tournament

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

const (
	// DefaultPrefix is the name prefix of tournament directories under the logs root.
	DefaultPrefix = "Tournament"

	// LogsDirName is the logs root, expected next to the plot-summary binary.
	LogsDirName = "Logs"

	// CurrentDir is returned when no tournament directory can be found.
	CurrentDir = "."
)

// Resolver picks the tournament directory to read from.
type Resolver struct {
	LogsDir string
	Prefix  string
	Logger  *log.Logger
}

// NewResolver creates a resolver searching logsDir for Tournament* directories.
func NewResolver(logsDir string, logger *log.Logger) *Resolver {
	return &Resolver{
		LogsDir: logsDir,
		Prefix:  DefaultPrefix,
		Logger:  logger.WithPrefix("resolver"),
	}
}

// Resolve returns explicit verbatim when set. Otherwise it returns the
// lexicographically last tournament directory under the logs root, or the
// current directory when there is none.
func (r *Resolver) Resolve(explicit string) (string, error) {
	if explicit != "" {
		r.Logger.Debug("Using explicit tournament", "dir", explicit)
		return explicit, nil
	}

	candidates, err := r.candidates()
	if err != nil {
		r.Logger.Debug("Cannot search logs root, using current directory", "logs", r.LogsDir, "error", err)
		return CurrentDir, nil
	}
	if len(candidates) == 0 {
		r.Logger.Debug("No tournaments found, using current directory", "logs", r.LogsDir, "prefix", r.Prefix)
		return CurrentDir, nil
	}

	latest := candidates[len(candidates)-1]
	r.Logger.Debug("Using latest tournament", "dir", latest, "candidates", len(candidates))
	return latest, nil
}

// candidates lists matching directories under the logs root, sorted.
func (r *Resolver) candidates() ([]string, error) {
	if r.LogsDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(r.LogsDir)
	if err != nil {
		return nil, err
	}

	names := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if !strings.HasPrefix(entry.Name(), r.Prefix) {
			return "", false
		}
		return filepath.Join(r.LogsDir, entry.Name()), isDir(r.LogsDir, entry)
	})
	sort.Strings(names)
	return names, nil
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(parent string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(filepath.Join(parent, entry.Name()))
	return err == nil && info.IsDir()
}

// DefaultLogsDir returns the Logs directory next to the running executable.
func DefaultLogsDir() (string, error) {
	executable, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	return filepath.Abs(filepath.Join(filepath.Dir(executable), LogsDirName))
}
