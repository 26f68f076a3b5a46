package reconcile

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"barks/internal/errs"
	"barks/internal/textutil"
)

//go:embed sources.toml
var defaultSources []byte

// Route sends stories from one story index issue name to a submission index.
type Route struct {
	IssueName string `toml:"issue_name"`
	Canonical string `toml:"canonical"`
	Prefix    string `toml:"prefix"`
	File      string `toml:"file"`
}

type sourcesDocument struct {
	Routes []Route           `toml:"routes"`
	Fixups map[string]string `toml:"fixups"`
}

// Sources holds the issue routing table and title fixups.
type Sources struct {
	routes map[string]Route
	fixups map[string]string
}

// LoadSources decodes the tables compiled into the binary.
func LoadSources() (*Sources, error) {
	return ParseSources(defaultSources)
}

// LoadSourcesFile decodes routing and fixups from a TOML file.
func LoadSourcesFile(path string) (*Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotFound, "reconcile", "read sources", path, err)
	}
	return ParseSources(data)
}

// ParseSources decodes a TOML routing document. Fixup keys are case-folded.
func ParseSources(data []byte) (*Sources, error) {
	var doc sourcesDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrFormat, "reconcile", "parse sources", "", err)
	}
	s := &Sources{
		routes: make(map[string]Route, len(doc.Routes)),
		fixups: make(map[string]string, len(doc.Fixups)),
	}
	for _, route := range doc.Routes {
		if route.IssueName == "" || route.Prefix == "" || route.File == "" || route.Canonical == "" {
			return nil, errs.Malformed("reconcile", "parse sources", fmt.Sprintf("incomplete route %+v", route))
		}
		if _, dup := s.routes[route.IssueName]; dup {
			return nil, errs.Inconsistent("reconcile", "parse sources", fmt.Sprintf("duplicate route for %q", route.IssueName))
		}
		s.routes[route.IssueName] = route
	}
	for title, fixed := range doc.Fixups {
		s.fixups[textutil.Fold(title)] = fixed
	}
	return s, nil
}

// Route returns the routing for a story index issue name.
func (s *Sources) Route(issueName string) (Route, bool) {
	route, ok := s.routes[issueName]
	return route, ok
}

// Fixup returns the submission index wording for a story title.
func (s *Sources) Fixup(title string) (string, bool) {
	fixed, ok := s.fixups[textutil.Fold(title)]
	return fixed, ok
}

// SubmissionFiles maps each distinct prefix to its index file, ordered by
// prefix.
func (s *Sources) SubmissionFiles() []Route {
	seen := make(map[string]Route)
	for _, route := range s.routes {
		if _, ok := seen[route.Prefix]; !ok {
			seen[route.Prefix] = route
		}
	}
	out := make([]Route, 0, len(seen))
	for _, route := range seen {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

func normalizeLine(line string) string {
	return strings.TrimSpace(line)
}
