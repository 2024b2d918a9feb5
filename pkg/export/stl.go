package export

import (
	"errors"
	"fmt"

	"github.com/chazu/meshgen/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// ErrEmptyMesh is returned when a format cannot represent a mesh without
// triangles.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// Triangles expands m into a triangle soup. Texture coordinates and the
// per-corner normals are dropped.
func Triangles(m *mesh.Mesh) []*sdf.Triangle3 {
	out := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		tri := m.Triangle(i)
		out = append(out, &sdf.Triangle3{
			m.Positions[tri[0].Pos],
			m.Positions[tri[1].Pos],
			m.Positions[tri[2].Pos],
		})
	}
	return out
}

// SaveSTL writes m to path as binary STL.
func SaveSTL(m *mesh.Mesh, path string) error {
	if m.TriangleCount() == 0 {
		return fmt.Errorf("export: %s: %w", path, ErrEmptyMesh)
	}
	if err := render.SaveSTL(path, Triangles(m)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
