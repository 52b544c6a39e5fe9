// Package dictionary holds the canonical American → British word lists and
// loads them from YAML.
//
// Four tables make up a full set, each stored as a flat YAML mapping:
//
//	american-only.yaml                  American vocabulary → British
//	british-only.yaml                   British vocabulary → American
//	american-to-british-spelling.yaml   American spelling → British
//	american-to-british-titles.yaml     American title → British
//
// The reverse spelling and title tables are derived by inversion in the root
// package, so they are not stored here.
package dictionary

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// File names of the four tables.
const (
	AmericanOnlyFile = "american-only.yaml"
	BritishOnlyFile  = "british-only.yaml"
	SpellingFile     = "american-to-british-spelling.yaml"
	TitlesFile       = "american-to-british-titles.yaml"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Tables is a raw set of canonical tables as read from YAML.
type Tables struct {
	AmericanOnly map[string]string
	BritishOnly  map[string]string
	Spelling     map[string]string
	Titles       map[string]string
}

// Size returns the total number of entries across all four tables.
func (t *Tables) Size() int {
	return len(t.AmericanOnly) + len(t.BritishOnly) + len(t.Spelling) + len(t.Titles)
}

// Embedded returns the tables compiled into the binary.
func Embedded() (*Tables, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded data: %w", err)
	}
	return Load(sub)
}

// Load reads all four tables from the root of fsys.
func Load(fsys fs.FS) (*Tables, error) {
	return load(fsys, nil)
}

// LoadDir reads tables from a directory on disk. Any table missing from dir
// falls back to the embedded copy, so an override directory only needs the
// files it changes.
func LoadDir(dir string) (*Tables, error) {
	base, err := Embedded()
	if err != nil {
		return nil, err
	}
	return load(os.DirFS(dir), base)
}

func load(fsys fs.FS, fallback *Tables) (*Tables, error) {
	t := &Tables{}
	targets := []struct {
		file string
		dst  *map[string]string
		def  func(*Tables) map[string]string
	}{
		{AmericanOnlyFile, &t.AmericanOnly, func(f *Tables) map[string]string { return f.AmericanOnly }},
		{BritishOnlyFile, &t.BritishOnly, func(f *Tables) map[string]string { return f.BritishOnly }},
		{SpellingFile, &t.Spelling, func(f *Tables) map[string]string { return f.Spelling }},
		{TitlesFile, &t.Titles, func(f *Tables) map[string]string { return f.Titles }},
	}

	for _, target := range targets {
		m, err := readTable(fsys, target.file)
		if errors.Is(err, fs.ErrNotExist) && fallback != nil {
			*target.dst = target.def(fallback)
			continue
		}
		if err != nil {
			return nil, err
		}
		*target.dst = m
	}

	return t, nil
}

// readTable decodes one YAML mapping and rejects blank keys or values.
func readTable(fsys fs.FS, name string) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	m := make(map[string]string)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for k, v := range m {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%s: empty entry %q: %q", name, k, v)
		}
	}

	return m, nil
}
