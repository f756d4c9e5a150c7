// Package fixtures keeps recorded pages and their expected parse results on
// disk. A fixture is a pair of files named after the page identifier:
// <name>.html holds the markup and <name>.json the parsed data.
package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/use-agent/pcstats/document"
	"github.com/use-agent/pcstats/engine"
)

const (
	htmlExt = ".html"
	dataExt = ".json"
)

// ErrNotFound is returned when a fixture file does not exist.
var ErrNotFound = errors.New("fixtures: not found")

// forbidden lists characters that may not appear in a fixture filename.
var forbidden = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_", "&", "_", "=", "_",
)

// Store reads and writes fixtures below Dir.
type Store struct {
	Dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Filename maps a page identifier to its fixture base name.
func Filename(identifier string) string {
	return forbidden.Replace(document.RelativeURL(identifier))
}

// Identifier reverses Filename for names whose only replaced character was
// a slash, which holds for every page path on the site.
func Identifier(filename string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(filename), htmlExt), dataExt)
	return strings.ReplaceAll(base, "_", "/")
}

func (s *Store) path(identifier, ext string) string {
	return filepath.Join(s.Dir, Filename(identifier)+ext)
}

// SaveHTML writes the markup of identifier.
func (s *Store) SaveHTML(identifier, markup string) error {
	return s.write(s.path(identifier, htmlExt), []byte(markup))
}

// LoadHTML reads the markup of identifier.
func (s *Store) LoadHTML(identifier string) (string, error) {
	b, err := s.read(s.path(identifier, htmlExt))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SaveData writes v as indented JSON. Values with their own MarshalJSON,
// such as ordered results, keep their key order.
func (s *Store) SaveData(identifier string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("fixtures: encode %s: %w", identifier, err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("fixtures: indent %s: %w", identifier, err)
	}
	buf.WriteByte('\n')
	return s.write(s.path(identifier, dataExt), buf.Bytes())
}

// LoadData reads the stored JSON of identifier.
func (s *Store) LoadData(identifier string) (json.RawMessage, error) {
	b, err := s.read(s.path(identifier, dataExt))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// Pairs lists the identifiers that have both an HTML and a data file,
// sorted.
func (s *Store) Pairs() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures: list %s: %w", s.Dir, err)
	}
	names := make(map[string]int)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch ext := filepath.Ext(e.Name()); ext {
		case htmlExt, dataExt:
			names[strings.TrimSuffix(e.Name(), ext)]++
		}
	}
	var out []string
	for name, n := range names {
		if n == 2 {
			out = append(out, Identifier(name))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Name() string { return "fixtures" }

// Fetch replays stored markup, so a Store can sit in front of a live engine.
func (s *Store) Fetch(_ context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	markup, err := s.LoadHTML(req.URL)
	if err != nil {
		return nil, err
	}
	return &engine.FetchResult{
		HTML:       markup,
		StatusCode: http.StatusOK,
		FinalURL:   document.AbsoluteURL(req.URL),
		EngineName: s.Name(),
	}, nil
}

func (s *Store) write(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("fixtures: %w", err)
	}
	return nil
}

func (s *Store) read(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	return b, nil
}
