package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/meshgen/pkg/mesh"
)

// Format names an output file format.
type Format string

const (
	FormatOBJ Format = "obj"
	FormatSTL Format = "stl"
)

// ParseFormat accepts "obj" or "stl" in any case. The empty string means OBJ.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "obj":
		return FormatOBJ, nil
	case "stl":
		return FormatSTL, nil
	}
	return "", fmt.Errorf("export: unknown format %q", s)
}

// FormatFor picks the format for path: the extension wins when it is one
// of the known formats, otherwise fallback applies.
func FormatFor(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return FormatSTL
	case ".obj":
		return FormatOBJ
	}
	if fallback == "" {
		return FormatOBJ
	}
	return fallback
}

// Save writes m to path in the format chosen by FormatFor.
func Save(m *mesh.Mesh, path string, fallback Format) error {
	if FormatFor(path, fallback) == FormatSTL {
		return SaveSTL(m, path)
	}
	return Export(m, path)
}
