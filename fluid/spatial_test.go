package fluid

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	V "github.com/hoopoe/cmag/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//randomPositions - n fluid positions uniformly inside [0, size)^3
func randomPositions(n int, size V.Vec3) []V.Vec4 {
	rnd := rand.New(rand.NewSource(295275912632))
	out := make([]V.Vec4, n)
	for i := range out {
		out[i] = V.Vec4{rnd.Float64() * size[0], rnd.Float64() * size[1], rnd.Float64() * size[2], V.FLUID}
	}
	return out
}

func TestGridConfig(t *testing.T) {
	_, err := NewSpatialHashGrid(V.Vec3{}, 0, [3]int{4, 4, 4}, 10)
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = NewSpatialHashGrid(V.Vec3{}, 1, [3]int{4, 0, 4}, 10)
	assert.True(t, errors.Is(err, ErrConfig))

	g, err := NewSpatialHashGrid(V.Vec3{}, 1, [3]int{4, 5, 6}, 10)
	require.NoError(t, err)
	assert.Equal(t, 120, g.NumCells())
}

func TestGridHash(t *testing.T) {
	g, err := NewSpatialHashGrid(V.Vec3{-1, -1, -1}, 0.5, [3]int{4, 4, 4}, 0)
	require.NoError(t, err)

	cell, clamped := g.CellOf(V.Vec4{0.1, -0.9, 0.6, 0})
	assert.False(t, clamped)
	assert.Equal(t, [3]int{2, 0, 3}, cell)
	assert.Equal(t, uint32(3*16+0*4+2), g.CellHash(cell))
}

func TestGridClamp(t *testing.T) {
	g, err := NewSpatialHashGrid(V.Vec3{}, 1, [3]int{3, 3, 3}, 0)
	require.NoError(t, err)

	var tests = []struct {
		pos  V.Vec4
		cell [3]int
	}{
		{V.Vec4{-5, 1.5, 1.5, 0}, [3]int{0, 1, 1}},
		{V.Vec4{10, 1.5, 1.5, 0}, [3]int{2, 1, 1}},
		{V.Vec4{1.5, 3.0, -0.01, 0}, [3]int{1, 2, 0}},
		{V.Vec4{math.NaN(), 1.5, 1.5, 0}, [3]int{0, 1, 1}},
		{V.Vec4{math.Inf(1), math.Inf(-1), 1.5, 0}, [3]int{2, 0, 1}},
	}
	for _, test := range tests {
		cell, clamped := g.CellOf(test.pos)
		assert.True(t, clamped, "%v", test.pos)
		assert.Equal(t, test.cell, cell, "%v", test.pos)
	}

	positions := []V.Vec4{{0.5, 0.5, 0.5, 0}, {-1, 0.5, 0.5, 0}, {0.5, 0.5, 7, 0}}
	assert.Equal(t, 2, g.Build(positions))
	assert.False(t, g.Clamped(0))
	assert.True(t, g.Clamped(1))
	assert.True(t, g.Clamped(2))
}

func TestGridBuild(t *testing.T) {
	const PARTICLES = 2000
	size := V.Vec3{10, 10, 10}
	positions := randomPositions(PARTICLES, size)

	g, err := NewSpatialHashGrid(V.Vec3{}, 1, [3]int{10, 10, 10}, PARTICLES)
	require.NoError(t, err)
	g.Workers = 4
	assert.Equal(t, 0, g.Build(positions))

	hashes := g.Hashes()
	indices := g.Indices()
	require.Len(t, hashes, PARTICLES)

	//sorted by hash, ties by original index
	assert.True(t, sort.SliceIsSorted(hashes, func(a, b int) bool { return hashes[a] < hashes[b] }))
	for k := 1; k < PARTICLES; k++ {
		if hashes[k] == hashes[k-1] {
			assert.Less(t, indices[k-1], indices[k])
		}
	}

	//permutation of the original indices
	seen := make([]bool, PARTICLES)
	for k, i := range indices {
		assert.False(t, seen[i])
		seen[i] = true
		cell, _ := g.CellOf(positions[i])
		assert.Equal(t, g.CellHash(cell), hashes[k])
	}

	//every cell range holds exactly the particles of that cell
	total := 0
	for c := 0; c < g.NumCells(); c++ {
		start, end := g.CellRange(uint32(c))
		assert.LessOrEqual(t, start, end)
		for k := start; k < end; k++ {
			assert.Equal(t, uint32(c), hashes[k])
		}
		total += end - start
	}
	assert.Equal(t, PARTICLES, total)

	start, end := g.CellRange(uint32(g.NumCells() + 5))
	assert.Equal(t, start, end)
}

func TestGridBuildWorkers(t *testing.T) {
	positions := randomPositions(500, V.Vec3{4, 4, 4})
	build := func(workers int) ([]uint32, []uint32) {
		g, err := NewSpatialHashGrid(V.Vec3{}, 0.5, [3]int{8, 8, 8}, len(positions))
		require.NoError(t, err)
		g.Workers = workers
		g.Build(positions)
		return append([]uint32(nil), g.Hashes()...), append([]uint32(nil), g.Indices()...)
	}
	h1, i1 := build(1)
	h8, i8 := build(8)
	assert.Equal(t, h1, h8)
	assert.Equal(t, i1, i8)
}

func BenchmarkGridOperations(b *testing.B) {
	const PARTICLES = 10000
	positions := randomPositions(PARTICLES, V.Vec3{20, 20, 20})
	g, err := NewSpatialHashGrid(V.Vec3{}, 1, [3]int{20, 20, 20}, PARTICLES)
	if err != nil {
		b.Fatal(err)
	}
	g.Workers = 4
	search := GridSearch{Grid: g}

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g.Build(positions)
		for i := 0; i < PARTICLES; i++ {
			it := search.Candidates(positions[i])
			for it.Next() {
			}
		}
	}
}
