package patch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPatches = `2
0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15
3 2 1 0
7 6 5 4
11 10 9 8
15 14 13 12
16
0,0,0
1,0,0
2,0,0
3,0,0
0,0,1
1,0.5,1
2,0.5,1
3,0,1
0,0,2
1,0.5,2
2,0.5,2
3,0,2
0,0,3
1,0,3
2,0,3
3, 0, 3
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(twoPatches))
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	require.Len(t, s.Points, 16)
	assert.Equal(t, [PointsPerPatch]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, s.Patches[0])
	assert.Equal(t, [PointsPerPatch]int{3, 2, 1, 0, 7, 6, 5, 4, 11, 10, 9, 8, 15, 14, 13, 12}, s.Patches[1])
	assert.Equal(t, v3.Vec{X: 1, Y: 0.5, Z: 1}, s.Points[5])
	assert.Equal(t, v3.Vec{X: 3, Y: 0, Z: 3}, s.Points[15])

	cp := s.Patch(1)
	assert.Equal(t, s.Points[3], cp[0])
	assert.Equal(t, s.Points[12], cp[15])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "patch count"},
		{"bad count", "two\n", "invalid integer"},
		{"negative count", "-1\n", "negative patch count"},
		{"short index row", "1\n0 1 2\n", "patch 0 index 3"},
		{"missing points", "1\n" + strings.Repeat("0 ", 16) + "\n", "control point count"},
		{"short point", "1\n" + strings.Repeat("0 ", 16) + "\n1\n0,0\n", "control point 0"},
		{"bad coordinate", "0\n1\n0,x,0\n", "invalid number"},
		{"huge patch count", "99999999999999\n0 1 2\n", "unexpected end of input"},
		{"huge point count", "0\n99999999999999\n0,0,0\n", "unexpected end of input"},
		{"index out of range", "1\n" + strings.Repeat("1 ", 16) + "\n1\n0,0,0\n", "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWriteParse(t *testing.T) {
	s, err := Parse(strings.NewReader(twoPatches))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, s))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "2", lines[0])
	assert.Equal(t, "0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15", lines[1])
	assert.Equal(t, "16", lines[3])
	assert.Equal(t, "1, 0.5, 1", lines[9])

	got, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "surface.patch")
	require.NoError(t, os.WriteFile(path, []byte(twoPatches), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	_, err = Load(filepath.Join(dir, "nope.patch"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave(t *testing.T) {
	s := &Set{
		Patches: [][PointsPerPatch]int{{}},
		Points:  []v3.Vec{{X: 0.1, Y: -2, Z: 1e-7}},
	}
	path := filepath.Join(t.TempDir(), "out.patch")
	require.NoError(t, Save(path, s))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}
