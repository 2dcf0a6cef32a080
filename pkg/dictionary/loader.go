/*
Package dictionary seeds an engine from plain-text corpus files.

Each non-blank line is fed to the engine as one sentence, so adjacency never
crosses a line break. Directories are expanded to the corpus files they hold,
in name order. Nothing is ever written back: seeding is a start-up step, not
persistence.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single corpus line.
const maxLineSize = 1 << 20

// Ingester is the part of the engine the loader feeds.
type Ingester interface {
	Ingest(sentence string)
}

// LoaderStats reports what a Load call consumed.
type LoaderStats struct {
	Files     int
	Lines     int
	Sentences int
	Skipped   []string
}

// Loader reads corpus files into an Ingester.
type Loader struct {
	target Ingester
	logger *log.Logger
}

// NewLoader creates a loader feeding target.
func NewLoader(target Ingester, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{target: target, logger: logger}
}

// Load ingests every path. A path that is missing or not a corpus file is an
// error; files inside a directory that fail validation are skipped and listed
// in the stats.
func (l *Loader) Load(paths ...string) (LoaderStats, error) {
	var stats LoaderStats
	for _, path := range paths {
		files, err := l.expand(path, &stats)
		if err != nil {
			return stats, err
		}
		for _, file := range files {
			if err := l.loadFile(file, &stats); err != nil {
				return stats, err
			}
		}
	}
	l.logger.Debug("corpus loaded", "files", stats.Files, "sentences", stats.Sentences, "skipped", len(stats.Skipped))
	return stats, nil
}

func (l *Loader) expand(path string, stats *LoaderStats) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}
	if !info.IsDir() {
		if _, err := DetectFileFormat(path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir %s: %w", path, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := filepath.Join(path, entry.Name())
		if _, err := DetectFileFormat(file); err != nil {
			l.logger.Warnf("Skipping %s: %v", file, err)
			stats.Skipped = append(stats.Skipped, file)
			continue
		}
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}

func (l *Loader) loadFile(path string, stats *LoaderStats) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open corpus %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		stats.Lines++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.target.Ingest(line)
		stats.Sentences++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read corpus %s: %w", path, err)
	}
	stats.Files++
	l.logger.Debugf("Loaded corpus file %s", path)
	return nil
}
