package export

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/meshgen/pkg/mesh"
	"github.com/chazu/meshgen/pkg/shape"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readOBJ parses the subset WriteOBJ emits back into a Mesh.
func readOBJ(t *testing.T, r io.Reader) *mesh.Mesh {
	t.Helper()
	m := &mesh.Mesh{}
	pf := func(s string) float64 {
		f, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		return f
	}
	pi := func(s string) uint32 {
		n, err := strconv.ParseUint(s, 10, 32)
		require.NoError(t, err)
		require.NotZero(t, n, "face indices are 1-based")
		return uint32(n - 1)
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		require.NotEmpty(t, fields)
		switch fields[0] {
		case "v":
			require.Len(t, fields, 4)
			m.Positions = append(m.Positions, v3.Vec{X: pf(fields[1]), Y: pf(fields[2]), Z: pf(fields[3])})
		case "vt":
			require.Len(t, fields, 3)
			m.Texcoords = append(m.Texcoords, v2.Vec{X: pf(fields[1]), Y: pf(fields[2])})
		case "vn":
			require.Len(t, fields, 4)
			m.Normals = append(m.Normals, v3.Vec{X: pf(fields[1]), Y: pf(fields[2]), Z: pf(fields[3])})
		case "f":
			require.Len(t, fields, 4)
			for _, c := range fields[1:] {
				parts := strings.Split(c, "/")
				require.Len(t, parts, 3)
				m.Indices = append(m.Indices, mesh.IndexTriplet{Pos: pi(parts[0]), UV: pi(parts[1]), Norm: pi(parts[2])})
			}
		default:
			t.Fatalf("unexpected line %q", sc.Text())
		}
	}
	require.NoError(t, sc.Err())
	return m
}

func TestWriteOBJ(t *testing.T) {
	b := mesh.NewBuilder()
	up := v3.Vec{Y: 1}
	c0 := b.Corner(v3.Vec{X: 0, Y: 0, Z: 0}, v2.Vec{X: 0, Y: 0}, up)
	c1 := b.Corner(v3.Vec{X: 1, Y: 0, Z: 0}, v2.Vec{X: 1, Y: 0}, up)
	c2 := b.Corner(v3.Vec{X: 0, Y: 0, Z: -0.5}, v2.Vec{X: 0, Y: 1}, up)
	b.Triangle(c0, c2, c1)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, b.Mesh()))

	want := strings.Join([]string{
		"v 0 0 0",
		"v 1 0 0",
		"v 0 0 -0.5",
		"vt 0 0",
		"vt 1 0",
		"vt 0 1",
		"vn 0 1 0",
		"f 1/1/1 3/3/1 2/2/1",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteOBJBlockOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, shape.Sphere(1, 6, 4)))

	order := map[string]int{"v": 0, "vt": 1, "vn": 2, "f": 3}
	last := 0
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		kind := strings.Fields(line)[0]
		rank, ok := order[kind]
		require.True(t, ok, "line %q", line)
		require.GreaterOrEqual(t, rank, last, "%q after a later block", line)
		last = rank
	}
}

func TestWriteOBJRoundTrip(t *testing.T) {
	shapes := map[string]*mesh.Mesh{
		"torus":     shape.Torus(1, 0.25, 8, 12),
		"icosphere": shape.Icosphere(2, 3),
		"box":       shape.Box(1, 2),
	}
	for name, m := range shapes {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteOBJ(&buf, m))
			got := readOBJ(t, &buf)
			assert.Equal(t, m.Positions, got.Positions)
			assert.Equal(t, m.Texcoords, got.Texcoords)
			assert.Equal(t, m.Normals, got.Normals)
			assert.Equal(t, m.Indices, got.Indices)
		})
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(dir, "plane.3d")
		require.NoError(t, Export(shape.Plane(1, 1), path))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		got := readOBJ(t, f)
		assert.Equal(t, 2, got.TriangleCount())
	})

	t.Run("empty mesh", func(t *testing.T) {
		path := filepath.Join(dir, "empty.3d")
		require.NoError(t, Export(&mesh.Mesh{}, path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := Export(shape.Plane(1, 1), filepath.Join(dir, "missing", "x.3d"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSaveSTL(t *testing.T) {
	dir := t.TempDir()
	m := shape.Box(1, 1)

	path := filepath.Join(dir, "box.stl")
	require.NoError(t, SaveSTL(m, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	// 80-byte header, triangle count, 50 bytes per triangle
	assert.Equal(t, int64(84+50*m.TriangleCount()), info.Size())

	err = SaveSTL(&mesh.Mesh{}, filepath.Join(dir, "empty.stl"))
	assert.ErrorIs(t, err, ErrEmptyMesh)
}

func TestTriangles(t *testing.T) {
	m := shape.Plane(2, 1)
	tris := Triangles(m)
	require.Len(t, tris, 2)
	for i, tri := range tris {
		corners := m.Triangle(i)
		for k := range corners {
			assert.Equal(t, m.Positions[corners[k].Pos], tri[k])
		}
	}
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path     string
		fallback Format
		want     Format
	}{
		{"a.stl", FormatOBJ, FormatSTL},
		{"a.STL", "", FormatSTL},
		{"a.obj", FormatSTL, FormatOBJ},
		{"a.3d", FormatSTL, FormatSTL},
		{"a.3d", FormatOBJ, FormatOBJ},
		{"a", "", FormatOBJ},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+string(tt.fallback), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFor(tt.path, tt.fallback))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("STL")
	require.NoError(t, err)
	assert.Equal(t, FormatSTL, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatOBJ, f)

	_, err = ParseFormat("ply")
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	m := shape.Cone(1, 1, 6, 1)

	require.NoError(t, Save(m, filepath.Join(dir, "cone.3d"), FormatOBJ))
	data, err := os.ReadFile(filepath.Join(dir, "cone.3d"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("v ")))

	require.NoError(t, Save(m, filepath.Join(dir, "cone.stl"), FormatOBJ))
	info, err := os.Stat(filepath.Join(dir, "cone.stl"))
	require.NoError(t, err)
	assert.Equal(t, int64(84+50*m.TriangleCount()), info.Size())
}
