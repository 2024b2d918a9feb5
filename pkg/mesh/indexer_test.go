package mesh

import (
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexerReusesEqualValues(t *testing.T) {
	ix := NewVec3Indexer()
	a := v3.Vec{X: 1, Y: 2, Z: 3}
	b := v3.Vec{X: 3, Y: 2, Z: 1}

	assert.Equal(t, uint32(0), ix.Add(a))
	assert.Equal(t, uint32(1), ix.Add(b))
	assert.Equal(t, uint32(0), ix.Add(a))
	assert.Equal(t, uint32(1), ix.Add(v3.Vec{X: 3, Y: 2, Z: 1}))
	assert.Equal(t, []v3.Vec{a, b}, ix.Data())
	assert.Equal(t, 2, ix.Len())
}

func TestIndexerDenseInsertionOrder(t *testing.T) {
	ix := NewVec2Indexer()
	for i := 0; i < 100; i++ {
		got := ix.Add(v2.Vec{X: float64(i), Y: -float64(i)})
		require.Equal(t, uint32(i), got)
	}
	for i := 99; i >= 0; i-- {
		assert.Equal(t, uint32(i), ix.Add(v2.Vec{X: float64(i), Y: -float64(i)}))
	}
	assert.Equal(t, 100, ix.Len())
}

func TestIndexerKeepsSignedZeroApart(t *testing.T) {
	ix := NewVec3Indexer()
	negZero := math.Copysign(0, -1)

	i0 := ix.Add(v3.Vec{X: 0, Y: 1, Z: 0})
	i1 := ix.Add(v3.Vec{X: 0, Y: 1, Z: negZero})
	assert.NotEqual(t, i0, i1, "+0 and -0 differ in bits and must not merge")
	assert.Equal(t, 2, ix.Len())
}

func TestIndexerNearlyEqualValuesStayDistinct(t *testing.T) {
	ix := NewVec2Indexer()
	a, b := 0.1, 0.2
	x := a + b
	y := 0.3
	require.NotEqual(t, x, y)

	i0 := ix.Add(v2.Vec{X: x})
	i1 := ix.Add(v2.Vec{X: y})
	assert.NotEqual(t, i0, i1)
}

func TestIndexerNaNIsStable(t *testing.T) {
	ix := NewVec3Indexer()
	nan := math.NaN()

	i0 := ix.Add(v3.Vec{X: nan})
	i1 := ix.Add(v3.Vec{X: nan})
	assert.Equal(t, i0, i1, "identical NaN bit patterns share an index")
}

func TestGenericIndexer(t *testing.T) {
	ix := NewIndexer(func(s string) string { return s })
	assert.Equal(t, uint32(0), ix.Add("a"))
	assert.Equal(t, uint32(1), ix.Add("b"))
	assert.Equal(t, uint32(0), ix.Add("a"))
	assert.Equal(t, []string{"a", "b"}, ix.Data())
}
