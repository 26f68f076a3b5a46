package reconcile

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"barks/internal/errs"
	"barks/internal/logging"
)

// StoryIndexFile is the story index inside an index directory.
const StoryIndexFile = "wiki-story-index.txt"

// LoadIndexes parses every submission index named by the routing table,
// keyed by line prefix.
func LoadIndexes(dir string, sources *Sources) (map[string]SubmissionIndex, error) {
	indexes := make(map[string]SubmissionIndex)
	for _, route := range sources.SubmissionFiles() {
		path := filepath.Join(dir, route.File)
		file, err := os.Open(path)
		if err != nil {
			return nil, errs.Wrap(errs.ErrNotFound, "reconcile", "open submission index", path, err)
		}
		index, err := ParseSubmissionIndex(file, route.Prefix)
		file.Close()
		if err != nil {
			return nil, err
		}
		indexes[route.Prefix] = index
	}
	return indexes, nil
}

// Options configures Run.
type Options struct {
	IndexDir string
	Output   string
	Sources  *Sources
	Logger   *slog.Logger
}

// Run rebuilds the stories CSV from the indexes in IndexDir, writes it to
// Output and verifies the written file reads back unchanged.
func Run(opts Options) ([]Record, error) {
	logger := logging.NewComponentLogger(opts.Logger, "reconcile")
	sources := opts.Sources
	if sources == nil {
		var err error
		if sources, err = LoadSources(); err != nil {
			return nil, err
		}
	}

	storyPath := filepath.Join(opts.IndexDir, StoryIndexFile)
	storyFile, err := os.Open(storyPath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "reconcile", "open story index", storyPath, err)
	}
	stories, err := ParseStoryIndex(storyFile)
	storyFile.Close()
	if err != nil {
		return nil, err
	}

	indexes, err := LoadIndexes(opts.IndexDir, sources)
	if err != nil {
		return nil, err
	}

	records, err := Build(stories, indexes, sources, logger)
	if err != nil {
		return nil, err
	}
	SortBySubmission(records)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Output, err)
	}

	written, err := os.Open(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("reopen %s: %w", opts.Output, err)
	}
	defer written.Close()
	readBack, err := ReadCSV(written)
	if err != nil {
		return nil, err
	}
	if err := VerifyRoundTrip(records, readBack); err != nil {
		return nil, err
	}

	logger.Info("stories csv written",
		logging.String("output", opts.Output),
		logging.Int("stories", len(stories)),
		logging.Int("records", len(records)),
	)
	return records, nil
}
