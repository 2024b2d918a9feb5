package mesh

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Indexer assigns dense, zero-based indices to distinct attribute values.
// Values are compared through a key function, so the notion of "distinct"
// is whatever the key preserves. Insertion order is index order.
type Indexer[T any, K comparable] struct {
	data  []T
	index map[K]uint32
	key   func(T) K
}

// NewIndexer returns an empty indexer that identifies values by key.
func NewIndexer[T any, K comparable](key func(T) K) *Indexer[T, K] {
	return &Indexer[T, K]{
		index: make(map[K]uint32),
		key:   key,
	}
}

// Add returns the index of v, appending it if no value with the same key
// has been added before.
func (ix *Indexer[T, K]) Add(v T) uint32 {
	k := ix.key(v)
	if i, ok := ix.index[k]; ok {
		return i
	}
	i := uint32(len(ix.data))
	ix.data = append(ix.data, v)
	ix.index[k] = i
	return i
}

// Data returns the distinct values in index order. The slice is shared
// with the indexer.
func (ix *Indexer[T, K]) Data() []T {
	return ix.data
}

// Len returns the number of distinct values.
func (ix *Indexer[T, K]) Len() int {
	return len(ix.data)
}

// Vec3Key is the raw bit pattern of a 3D vector. Two vectors share a key
// only when every component is bit-identical, so +0 and -0 differ.
type Vec3Key [3]uint64

// Vec2Key is the raw bit pattern of a 2D vector.
type Vec2Key [2]uint64

// KeyVec3 returns the bit key of v.
func KeyVec3(v v3.Vec) Vec3Key {
	return Vec3Key{math.Float64bits(v.X), math.Float64bits(v.Y), math.Float64bits(v.Z)}
}

// KeyVec2 returns the bit key of v.
func KeyVec2(v v2.Vec) Vec2Key {
	return Vec2Key{math.Float64bits(v.X), math.Float64bits(v.Y)}
}

// NewVec3Indexer returns an indexer for positions or normals.
func NewVec3Indexer() *Indexer[v3.Vec, Vec3Key] {
	return NewIndexer(KeyVec3)
}

// NewVec2Indexer returns an indexer for texture coordinates.
func NewVec2Indexer() *Indexer[v2.Vec, Vec2Key] {
	return NewIndexer(KeyVec2)
}
