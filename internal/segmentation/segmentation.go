// Package segmentation runs the external kumiko panel segmenter on a page
// image and reduces its panel boxes to a single bounding box.
package segmentation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"barks/internal/deps"
	"barks/internal/errs"
	"barks/internal/logging"
)

// BoundsFileSuffix names the per-page bounds file written by WriteBounds.
const BoundsFileSuffix = "_panel_bounds.txt"

// CommandRunner executes a command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Panel is one kumiko panel box: x, y, width, height.
type Panel [4]int

// Segment is kumiko's description of one page.
type Segment struct {
	Filename  string  `json:"filename"`
	Size      [2]int  `json:"size"`
	Numbering string  `json:"numbering,omitempty"`
	Panels    []Panel `json:"panels"`
}

// Bounds is an inclusive pixel box.
type Bounds struct {
	X0, Y0, X1, Y1 int
}

// Width returns the box width in pixels.
func (b Bounds) Width() int { return b.X1 - b.X0 + 1 }

// Height returns the box height in pixels.
func (b Bounds) Height() int { return b.Y1 - b.Y0 + 1 }

// Runner invokes kumiko as "<python> <script> -i <image>".
type Runner struct {
	python string
	script string
	logger *slog.Logger
	run    CommandRunner
}

// Option customizes a Runner.
type Option func(*Runner)

// WithCommandRunner replaces process execution, for tests.
func WithCommandRunner(run CommandRunner) Option {
	return func(r *Runner) { r.run = run }
}

// NewRunner builds a runner for the given interpreter and kumiko script.
func NewRunner(python, script string, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		python: strings.TrimSpace(python),
		script: strings.TrimSpace(script),
		logger: logging.NewComponentLogger(logger, "segmentation"),
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Requirements lists the external pieces the runner needs.
func (r *Runner) Requirements() []deps.Requirement {
	return []deps.Requirement{
		{Name: "Python", Command: r.python, Description: "interpreter for kumiko"},
		{Name: "Kumiko", Command: r.script, Description: "panel segmentation script", Script: true},
	}
}

// Check fails with a configuration error when the interpreter or script is
// unavailable.
func (r *Runner) Check() error {
	missing := deps.Missing(deps.CheckBinaries(r.Requirements()))
	if len(missing) == 0 {
		return nil
	}
	details := make([]string, len(missing))
	for i, status := range missing {
		details[i] = status.Name + ": " + status.Detail
	}
	return errs.Wrap(errs.ErrConfiguration, "segmentation", "check", strings.Join(details, "; "), nil)
}

// Segment runs kumiko on one image. Kumiko must report exactly one page.
func (r *Runner) Segment(ctx context.Context, image string) (Segment, error) {
	if err := r.Check(); err != nil {
		return Segment{}, err
	}
	args := []string{r.script, "-i", image}
	r.logger.Debug("running kumiko",
		logging.String("command", r.python+" "+strings.Join(args, " ")),
	)

	out, err := r.run(ctx, r.python, args...)
	if err != nil {
		return Segment{}, fmt.Errorf("kumiko %s: %w", image, err)
	}

	var pages []Segment
	if err := json.Unmarshal(out, &pages); err != nil {
		return Segment{}, errs.Wrap(errs.ErrFormat, "segmentation", "decode kumiko output", image, err)
	}
	if len(pages) != 1 {
		return Segment{}, errs.Malformed("segmentation", "decode kumiko output", fmt.Sprintf("%s: expected one page, got %d", image, len(pages)))
	}
	r.logger.Debug("kumiko finished",
		logging.String("image", image),
		logging.Int("panels", len(pages[0].Panels)),
	)
	return pages[0], nil
}

// PanelBounds returns the smallest box enclosing every panel.
func PanelBounds(segment Segment) (Bounds, error) {
	if len(segment.Panels) == 0 {
		return Bounds{}, errs.Malformed("segmentation", "panel bounds", fmt.Sprintf("%s: no panels", segment.Filename))
	}
	first := segment.Panels[0]
	b := Bounds{X0: first[0], Y0: first[1], X1: first[0] + first[2] - 1, Y1: first[1] + first[3] - 1}
	for _, p := range segment.Panels[1:] {
		b.X0 = min(b.X0, p[0])
		b.Y0 = min(b.Y0, p[1])
		b.X1 = max(b.X1, p[0]+p[2]-1)
		b.Y1 = max(b.Y1, p[1]+p[3]-1)
	}
	return b, nil
}

// WriteBounds records a page's bounds as "x0 y0 x1 y1" in dir and returns
// the file path.
func WriteBounds(dir, page string, b Bounds) (string, error) {
	path := filepath.Join(dir, page+BoundsFileSuffix)
	content := fmt.Sprintf("%d %d %d %d\n", b.X0, b.Y0, b.X1, b.Y1)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write panel bounds: %w", err)
	}
	return path, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}
