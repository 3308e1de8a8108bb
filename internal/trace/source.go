package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// Source yields one trace. Sources are enumerated up front and loaded one
// at a time by the runner.
type Source interface {
	// ID names the trace in reports.
	ID() string
	// Load reads and parses the trace.
	Load() (*Trace, error)
}

// FileSource loads a trace file. Files ending in .yaml or .yml are
// scenarios; anything else is an ITF JSON document.
type FileSource struct {
	Path string
}

func (s FileSource) ID() string {
	return s.Path
}

func (s FileSource) Load() (*Trace, error) {
	if IsScenarioPath(s.Path) {
		sc, err := LoadScenario(s.Path)
		if err != nil {
			return nil, err
		}
		t, err := sc.Trace()
		if err != nil {
			return nil, err
		}
		t.ID = s.Path
		return t, nil
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return ParseReader(s.Path, f)
}

// BytesSource is an in-memory ITF document.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) ID() string {
	return s.Name
}

func (s BytesSource) Load() (*Trace, error) {
	return ParseReader(s.Name, bytes.NewReader(s.Data))
}

// StaticSource serves an already built trace.
type StaticSource struct {
	Trace *Trace
}

func (s StaticSource) ID() string {
	return s.Trace.ID
}

func (s StaticSource) Load() (*Trace, error) {
	return s.Trace, nil
}

// IsScenarioPath reports whether path names a YAML scenario.
func IsScenarioPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Numbered lists the sources dir/<prefix><i><suffix> for i from 0. With
// count >= 0 exactly count sources are returned whether or not the files
// exist, so a missing file is reported as a failed trace. With count < 0
// the sequence stops at the first missing file.
func Numbered(dir, prefix, suffix string, count int) ([]Source, error) {
	name := func(i int) string {
		return filepath.Join(dir, prefix+strconv.Itoa(i)+suffix)
	}

	if count >= 0 {
		sources := make([]Source, count)
		for i := range count {
			sources[i] = FileSource{Path: name(i)}
		}
		return sources, nil
	}

	var sources []Source
	for i := 0; ; i++ {
		path := name(i)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return sources, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		sources = append(sources, FileSource{Path: path})
	}
}

// Expand turns command-line paths into sources. Files are taken as given;
// a directory contributes its *.itf.json, *.json, *.yaml and *.yml files in
// natural order (out2 before out10).
func Expand(paths []string) ([]Source, error) {
	var sources []Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			sources = append(sources, FileSource{Path: p})
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		var files []string
		for _, e := range entries {
			if e.IsDir() || !isTraceFile(e.Name()) {
				continue
			}
			files = append(files, e.Name())
		}
		sort.Sort(natural.StringSlice(files))
		for _, f := range files {
			sources = append(sources, FileSource{Path: filepath.Join(p, f)})
		}
	}
	return sources, nil
}

func isTraceFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json") || IsScenarioPath(name)
}
