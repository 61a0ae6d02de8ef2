package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkerTable maps normalized file types to their ordered line-comment
// marker strings. Order matters when a type has several markers.
type MarkerTable struct {
	byType   map[string][]string
	fallback []string
}

var fileTypeAliases = map[string]string{
	"golang":     "go",
	"python":     "py",
	"ruby":       "rb",
	"javascript": "js",
	"typescript": "ts",
	"shell":      "sh",
	"c++":        "cpp",
	"rust":       "rs",
	"kotlin":     "kt",
	"haskell":    "hs",
	"erlang":     "erl",
	"elixir":     "ex",
	"perl":       "pl",
	"powershell": "ps1",
	"terraform":  "tf",
	"make":       "mk",
	"docker":     "dockerfile",
}

// DefaultMarkerTable returns the built-in marker definitions.
func DefaultMarkerTable() *MarkerTable {
	slash := []string{"//"}
	hash := []string{"#"}
	dash := []string{"--"}
	semi := []string{";"}
	pct := []string{"%"}
	return &MarkerTable{
		byType: map[string][]string{
			"go": slash, "c": slash, "h": slash, "cpp": slash, "hpp": slash,
			"cc": slash, "java": slash, "js": slash, "jsx": slash, "mjs": slash,
			"ts": slash, "tsx": slash, "cs": slash, "swift": slash, "kt": slash,
			"kts": slash, "scala": slash, "rs": slash, "dart": slash,
			"groovy": slash, "zig": slash, "jsonc": slash, "proto": slash,
			"gradle": slash,
			"php":    {"//", "#"},
			"py":     hash, "rb": hash, "sh": hash, "bash": hash, "zsh": hash,
			"fish": hash, "pl": hash, "pm": hash, "r": hash, "yml": hash,
			"yaml": hash, "toml": hash, "tcl": hash, "ex": hash, "exs": hash,
			"cr": hash, "nim": hash, "jl": hash, "mk": hash, "makefile": hash,
			"dockerfile": hash, "tf": hash, "hcl": hash, "cfg": hash,
			"conf": hash, "properties": hash, "env": hash, "cmake": hash,
			"ps1": hash,
			"lua": dash, "sql": dash, "hs": dash, "elm": dash, "vhdl": dash,
			"adb": dash, "ads": dash,
			"lisp": semi, "el": semi, "clj": semi, "cljs": semi, "scm": semi,
			"rkt": semi, "asm": semi, "s": semi,
			"ini": {";", "#"},
			"tex": pct, "sty": pct, "erl": pct, "hrl": pct, "m": pct,
			"f90": {"!"}, "f95": {"!"}, "f03": {"!"},
			"vb": {"'"}, "vbs": {"'"}, "bas": {"'"},
			"vim": {"\""},
		},
		fallback: []string{"//", "#"},
	}
}

// NormalizeFileType lowercases, strips a leading dot and resolves common
// language-name aliases to their extension form.
func NormalizeFileType(fileType string) string {
	ft := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(fileType)), ".")
	if alias, ok := fileTypeAliases[ft]; ok {
		return alias
	}
	return ft
}

// MarkersFor returns the ordered marker strings for a file type, falling
// back to the generic pair when the type is unknown or empty.
func (t *MarkerTable) MarkersFor(fileType string) []string {
	if ms, ok := t.byType[NormalizeFileType(fileType)]; ok {
		return ms
	}
	return t.fallback
}

// FileTypeForPath derives a marker-table key from a path: the extension
// when present, otherwise the lowercased basename (Makefile, Dockerfile).
func FileTypeForPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != "" && ext != base {
		return strings.TrimPrefix(strings.ToLower(ext), ".")
	}
	return strings.TrimPrefix(strings.ToLower(base), ".")
}

type markerDefinitions struct {
	Fallback []string            `yaml:"fallback"`
	Markers  map[string][]string `yaml:"markers"`
}

// ParseMarkerDefinitions merges user-supplied YAML marker definitions over
// the built-in table. Known types are replaced wholesale, unknown types
// are added.
func ParseMarkerDefinitions(data []byte) (*MarkerTable, error) {
	var defs markerDefinitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing marker definitions: %w", err)
	}
	t := DefaultMarkerTable()
	for ft, ms := range defs.Markers {
		if len(ms) == 0 {
			continue
		}
		t.byType[NormalizeFileType(ft)] = ms
	}
	if len(defs.Fallback) > 0 {
		t.fallback = defs.Fallback
	}
	return t, nil
}

var activeMarkers = DefaultMarkerTable()

// UseMarkerTable installs the process-wide marker table. Meant to run once
// during startup before any document work begins.
func UseMarkerTable(t *MarkerTable) {
	if t != nil {
		activeMarkers = t
	}
}

// Markers returns the active marker strings for a file type.
func Markers(fileType string) []string {
	return activeMarkers.MarkersFor(fileType)
}
