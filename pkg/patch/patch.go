// Package patch reads and writes Bezier patch files: a patch count, one
// row of 16 control-point indices per patch, a control-point count and one
// x, y, z row per control point. Numbers may be separated by whitespace,
// commas or newlines.
package patch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// PointsPerPatch is the number of control points of a bicubic patch.
const PointsPerPatch = 16

// Set is a fully materialized patch file.
type Set struct {
	Patches [][PointsPerPatch]int
	Points  []v3.Vec
}

// Len returns the number of patches.
func (s *Set) Len() int {
	return len(s.Patches)
}

// Patch returns the 16 control points of patch i in row-major order.
func (s *Set) Patch(i int) [PointsPerPatch]v3.Vec {
	var cp [PointsPerPatch]v3.Vec
	for j, idx := range s.Patches[i] {
		cp[j] = s.Points[idx]
	}
	return cp
}

// tokenizer yields the numbers of a patch file one at a time.
type tokenizer struct {
	sc    *bufio.Scanner
	count int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanNumbers)
	return &tokenizer{sc: sc}
}

// scanNumbers is a bufio.SplitFunc treating commas like whitespace.
func scanNumbers(data []byte, atEOF bool) (int, []byte, error) {
	isSep := func(c byte) bool {
		return c == ',' || c == ' ' || c == '\t' || c == '\n' || c == '\r'
	}
	start := 0
	for start < len(data) && isSep(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSep(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

func (t *tokenizer) next(what string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("unexpected end of input reading %s (after %d values)", what, t.count)
	}
	t.count++
	return t.sc.Text(), nil
}

func (t *tokenizer) int(what string) (int, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", what, s)
	}
	return n, nil
}

func (t *tokenizer) float(what string) (float64, error) {
	s, err := t.next(what)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", what, s)
	}
	return f, nil
}

// maxPrealloc bounds the capacity reserved from a declared count.
const maxPrealloc = 1 << 16

// Parse reads a patch file. Every control-point index must refer to one of
// the declared control points.
func Parse(r io.Reader) (*Set, error) {
	t := newTokenizer(r)

	nPatches, err := t.int("patch count")
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	if nPatches < 0 {
		return nil, fmt.Errorf("patch: negative patch count %d", nPatches)
	}

	// Counts come from the file, so capacity is capped and the slices grow
	// only as entries are actually read.
	s := &Set{Patches: make([][PointsPerPatch]int, 0, min(nPatches, maxPrealloc))}
	for i := 0; i < nPatches; i++ {
		var p [PointsPerPatch]int
		for j := range p {
			idx, err := t.int(fmt.Sprintf("patch %d index %d", i, j))
			if err != nil {
				return nil, fmt.Errorf("patch: %w", err)
			}
			p[j] = idx
		}
		s.Patches = append(s.Patches, p)
	}

	nPoints, err := t.int("control point count")
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	if nPoints < 0 {
		return nil, fmt.Errorf("patch: negative control point count %d", nPoints)
	}

	s.Points = make([]v3.Vec, 0, min(nPoints, maxPrealloc))
	for i := 0; i < nPoints; i++ {
		var c [3]float64
		for k := range c {
			c[k], err = t.float(fmt.Sprintf("control point %d", i))
			if err != nil {
				return nil, fmt.Errorf("patch: %w", err)
			}
		}
		s.Points = append(s.Points, v3.Vec{X: c[0], Y: c[1], Z: c[2]})
	}

	for i, p := range s.Patches {
		for j, idx := range p {
			if idx < 0 || idx >= nPoints {
				return nil, fmt.Errorf("patch: patch %d index %d: control point %d out of range [0,%d)", i, j, idx, nPoints)
			}
		}
	}

	return s, nil
}

// Load reads the patch file at path.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Write serializes s in the comma-separated layout.
func Write(w io.Writer, s *Set) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(s.Patches))
	for _, p := range s.Patches {
		row := make([]string, len(p))
		for j, idx := range p {
			row[j] = strconv.Itoa(idx)
		}
		fmt.Fprintln(bw, strings.Join(row, ", "))
	}
	fmt.Fprintf(bw, "%d\n", len(s.Points))
	for _, p := range s.Points {
		fmt.Fprintf(bw, "%s, %s, %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	return bw.Flush()
}

// Save writes s to the file at path.
func Save(path string, s *Set) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return fmt.Errorf("patch: writing %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
