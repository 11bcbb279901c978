package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	FlatLogSuffix  = "_fuzz_log.txt"
	FlatStatSuffix = "_fuzzstats.csv"
	RunLogName     = "fuzz_log.txt"
	TableLogName   = "ce_log.txt"
)

var ErrNoLogFiles = errors.New("no log files found")

// Source is one log file and the label its series will carry
type Source struct {
	Label string
	Path  string
}

// Flat finds "<label><suffix>" files directly inside dir, sorted by file name
func Flat(dir, suffix string) ([]Source, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to glob logs in %s: %w", dir, err)
	}
	sort.Strings(matches)

	sources := make([]Source, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		label := strings.ReplaceAll(filepath.Base(path), suffix, "")
		sources = append(sources, Source{label, path})
	}
	if len(sources) == 0 {
		return nil, ErrNoLogFiles
	}
	return sources, nil
}

// Runs finds "<root>/<run>/<name>" for every run directory, sorted by run name.
// Run directories without the log are skipped.
func Runs(root, name string) ([]Source, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs in %s: %w", root, err)
	}

	var sources []Source
	for _, entry := range entries { // ReadDir is sorted by name
		// follow symlinked run directories
		if info, err := os.Stat(filepath.Join(root, entry.Name())); err != nil || !info.IsDir() {
			continue
		}
		logPath := filepath.Join(root, entry.Name(), name)
		if info, err := os.Stat(logPath); err != nil || info.IsDir() {
			continue
		}
		sources = append(sources, Source{entry.Name(), logPath})
	}
	if len(sources) == 0 {
		return nil, ErrNoLogFiles
	}
	return sources, nil
}

// Table locates the single comparison log in dir. The label is the engine name,
// taken from the directory itself.
func Table(dir, name string) (Source, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Source{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	logPath := filepath.Join(absDir, name)
	if _, err := os.Stat(logPath); err != nil {
		return Source{}, fmt.Errorf("log file not found: %s", logPath)
	}
	return Source{filepath.Base(absDir), logPath}, nil
}

// Dirs returns the distinct directories holding the sources
func Dirs(sources ...Source) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, s := range sources {
		dir := filepath.Dir(s.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
