// Package export serializes generated meshes. The primary format is the
// face-indexed text interchange format (a Wavefront OBJ subset); binary STL
// is available for tools that only take triangle soups.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chazu/meshgen/pkg/mesh"
)

// WriteOBJ writes m as `v`, `vt` and `vn` blocks followed by one
// `f p/t/n p/t/n p/t/n` line per triangle. Face indices are 1-based.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", num(p.X), num(p.Y), num(p.Z))
	}
	for _, t := range m.Texcoords {
		fmt.Fprintf(bw, "vt %s %s\n", num(t.X), num(t.Y))
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", num(n.X), num(n.Y), num(n.Z))
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		fmt.Fprintf(bw, "f %s %s %s\n",
			corner(m.Indices[i]), corner(m.Indices[i+1]), corner(m.Indices[i+2]))
	}

	return bw.Flush()
}

func corner(t mesh.IndexTriplet) string {
	return strconv.FormatUint(uint64(t.Pos)+1, 10) + "/" +
		strconv.FormatUint(uint64(t.UV)+1, 10) + "/" +
		strconv.FormatUint(uint64(t.Norm)+1, 10)
}

// num formats f with the fewest digits that parse back to the same value.
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Export writes m to the file at path in the interchange format. The file
// is created or truncated; an empty mesh produces an empty file.
func Export(m *mesh.Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteOBJ(f, m); err != nil {
		f.Close()
		return fmt.Errorf("export: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: closing %s: %w", path, err)
	}
	return nil
}
