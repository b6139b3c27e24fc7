package fluid

import (
	"fmt"
	"math"

	G "github.com/hoopoe/cmag/geometry"
	V "github.com/hoopoe/cmag/vector"
)

//Spatial Hash Grid - uniform grid of cubic cells with edge CellSize starting
//at Origin. Every step the particles are hashed to their cell, sorted by hash
//and each cell records the [start, end) range of its particles in the sorted
//order. With CellSize >= h only the 27 cells around a particle can hold its
//neighbours. A periodic x axis folds positions into the period before they
//are hashed, so only the first PeriodCells columns hold particles. The period
//starts at Origin x.
type SpatialHashGrid struct {
	Origin   V.Vec3
	CellSize float64
	GridSize [3]int
	Workers  int
	Period   G.Period

	keys      []uint32 //hash per original index
	clamped   []bool   //per original index, last Build
	hashes    []uint32 //sorted
	indices   []uint32 //sorted order -> original index
	cellStart []int
	cellEnd   []int
}

//NewSpatialHashGrid - allocates a grid for n particles
func NewSpatialHashGrid(origin V.Vec3, cellSize float64, gridSize [3]int, n int) (*SpatialHashGrid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: cell size %g must be positive", ErrConfig, cellSize)
	}
	cells := 1
	for i := 0; i < 3; i++ {
		if gridSize[i] < 1 {
			return nil, fmt.Errorf("%w: grid size %v is empty along axis %d", ErrConfig, gridSize, i)
		}
		cells *= gridSize[i]
	}
	if uint64(cells) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: grid size %v has more cells than a 32 bit hash holds", ErrConfig, gridSize)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative particle count %d", ErrConfig, n)
	}

	s := SpatialHashGrid{Origin: origin, CellSize: cellSize, GridSize: gridSize, Workers: 1}
	s.alloc(n)
	s.cellStart = make([]int, cells)
	s.cellEnd = make([]int, cells)
	return &s, nil
}

func (s *SpatialHashGrid) alloc(n int) {
	s.keys = make([]uint32, n)
	s.clamped = make([]bool, n)
	s.hashes = make([]uint32, n)
	s.indices = make([]uint32, n)
}

func (s *SpatialHashGrid) NumCells() int {
	return len(s.cellStart)
}

//CellOf - integer cell of a position. Positions outside the grid, or with a
//non-finite coordinate, are clamped into the nearest valid cell and reported.
func (s *SpatialHashGrid) CellOf(p V.Vec4) ([3]int, bool) {
	p = s.Period.Wrap(p)
	cell := [3]int{}
	clamped := false
	for i := 0; i < 3; i++ {
		f := math.Floor((p[i] - s.Origin[i]) / s.CellSize)
		switch {
		case math.IsNaN(f) || f < 0:
			cell[i] = 0
			clamped = true
		case f > float64(s.GridSize[i]-1):
			cell[i] = s.GridSize[i] - 1
			clamped = true
		default:
			cell[i] = int(f)
		}
	}
	return cell, clamped
}

//PeriodCells - x columns a wrapped position can fall in, the whole grid width
//when x is open
func (s *SpatialHashGrid) PeriodCells() int {
	if !s.Period.Periodic() {
		return s.GridSize[0]
	}
	n := int(math.Ceil(s.Period.Length / s.CellSize))
	if n > s.GridSize[0] {
		n = s.GridSize[0]
	}
	if n < 1 {
		n = 1
	}
	return n
}

//CellHash - linear hash z*gx*gy + y*gx + x
func (s *SpatialHashGrid) CellHash(cell [3]int) uint32 {
	gx, gy := s.GridSize[0], s.GridSize[1]
	return uint32(cell[2]*gx*gy + cell[1]*gx + cell[0])
}

//InGrid - true if the cell lies inside the grid
func (s *SpatialHashGrid) InGrid(cell [3]int) bool {
	for i := 0; i < 3; i++ {
		if cell[i] < 0 || cell[i] >= s.GridSize[i] {
			return false
		}
	}
	return true
}

//Build - hashes every position, sorts particle indices by hash and records
//per-cell ranges. Particles sharing a cell keep ascending original index.
//Returns the number of particles that had to be clamped into the grid.
func (s *SpatialHashGrid) Build(positions []V.Vec4) int {
	n := len(positions)
	if n != len(s.keys) {
		s.alloc(n)
	}

	forEach(s.Workers, n, func(i int) {
		cell, clamped := s.CellOf(positions[i])
		s.keys[i] = s.CellHash(cell)
		s.clamped[i] = clamped
	})

	//Counting sort: occupancy, exclusive prefix sum, then stable scatter
	for c := range s.cellStart {
		s.cellStart[c] = 0
		s.cellEnd[c] = 0
	}
	for _, k := range s.keys {
		s.cellEnd[k]++
	}
	offset := 0
	for c := range s.cellStart {
		count := s.cellEnd[c]
		s.cellStart[c] = offset
		s.cellEnd[c] = offset
		offset += count
	}
	for i, k := range s.keys {
		slot := s.cellEnd[k]
		s.indices[slot] = uint32(i)
		s.hashes[slot] = k
		s.cellEnd[k]++
	}

	count := 0
	for _, c := range s.clamped {
		if c {
			count++
		}
	}
	return count
}

//CellRange - [start, end) of the cell in sorted order, start == end when the
//cell is empty or the hash is out of range
func (s *SpatialHashGrid) CellRange(hash uint32) (int, int) {
	if int(hash) >= len(s.cellStart) {
		return 0, 0
	}
	return s.cellStart[hash], s.cellEnd[hash]
}

//Hashes - sorted hashes of the last Build (not a copy)
func (s *SpatialHashGrid) Hashes() []uint32 {
	return s.hashes
}

//Indices - original particle index for each sorted slot (not a copy)
func (s *SpatialHashGrid) Indices() []uint32 {
	return s.indices
}

//Clamped - true if particle i was clamped in the last Build
func (s *SpatialHashGrid) Clamped(i int) bool {
	return s.clamped[i]
}
