package fluid

import (
	"math"

	V "github.com/hoopoe/cmag/vector"
)

//Neighbour candidates come from the 27 cells around the particle cell. Cells
//outside the grid are skipped so edge particles see fewer cells; candidates
//are not distance filtered and include the particle itself. On a periodic x
//axis the columns across the seam are searched as well.

const (
	NEIGHBOR_CELLS  = 27
	//x columns searched on a periodic axis: the 3 around the cell plus up to
	//2 across the low seam and 1 across the high one
	MAX_COLUMNS     = 6
	NEIGHBOR_RANGES = MAX_COLUMNS * 9
)

//NeighborIter walks a list of [start, end) slot ranges. Slots map to original
//particle indices through indices, or are the index themselves when indices
//is nil.
type NeighborIter struct {
	indices []uint32
	ranges  [NEIGHBOR_RANGES][2]int
	count   int
	r       int
	slot    int
	end     int
	current int
}

//Next - advances to the next candidate, false once every range is drained
func (it *NeighborIter) Next() bool {
	for it.slot >= it.end {
		if it.r >= it.count {
			return false
		}
		it.slot, it.end = it.ranges[it.r][0], it.ranges[it.r][1]
		it.r++
	}
	if it.indices == nil {
		it.current = it.slot
	} else {
		it.current = int(it.indices[it.slot])
	}
	it.slot++
	return true
}

//Index - original index of the current candidate
func (it *NeighborIter) Index() int {
	return it.current
}

func (it *NeighborIter) push(start int, end int) {
	if start < end {
		it.ranges[it.count] = [2]int{start, end}
		it.count++
	}
}

//GridSearch - neighbour search over a built SpatialHashGrid
type GridSearch struct {
	Grid *SpatialHashGrid
}

//columns - ascending x columns searched from column cx of pos. Without a
//period they are the in-grid columns of cx-1..cx+1.
func (g *GridSearch) columns(pos V.Vec4, cx int) ([MAX_COLUMNS]int, int) {
	grid := g.Grid
	var cols [MAX_COLUMNS]int
	n := 0
	add := func(c int) {
		k := 0
		for k < n && cols[k] < c {
			k++
		}
		if k < n && cols[k] == c {
			return
		}
		copy(cols[k+1:n+1], cols[k:n])
		cols[k] = c
		n++
	}

	last := grid.PeriodCells()
	for c := cx - 1; c <= cx+1; c++ {
		if c >= 0 && c < last {
			add(c)
		}
	}
	if !grid.Period.Periodic() {
		return cols, n
	}

	length := grid.Period.Length
	x := grid.Period.WrapX(pos[0]) - grid.Origin[0]
	if lo := x - grid.CellSize; lo < 0 {
		first := int(math.Floor((lo + length) / grid.CellSize))
		if first < 0 {
			first = 0
		}
		for c := first; c < last; c++ {
			add(c)
		}
	}
	if hi := x + grid.CellSize; hi >= length {
		top := int(math.Floor((hi - length) / grid.CellSize))
		for c := 0; c <= top && c < last; c++ {
			add(c)
		}
	}
	return cols, n
}

//Candidates - iterator over the particles of the surrounding cells, in
//ascending hash order
func (g *GridSearch) Candidates(pos V.Vec4) NeighborIter {
	it := NeighborIter{indices: g.Grid.Indices()}
	center, _ := g.Grid.CellOf(pos)
	cols, n := g.columns(pos, center[0])

	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for _, cx := range cols[:n] {
				cell := [3]int{cx, center[1] + dy, center[2] + dz}
				if !g.Grid.InGrid(cell) {
					continue
				}
				it.push(g.Grid.CellRange(g.Grid.CellHash(cell)))
			}
		}
	}
	return it
}

//Cells - number of in-grid cells searched around pos
func (g *GridSearch) Cells(pos V.Vec4) int {
	center, _ := g.Grid.CellOf(pos)
	_, cols := g.columns(pos, center[0])
	n := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			if g.Grid.InGrid([3]int{0, center[1] + dy, center[2] + dz}) {
				n += cols
			}
		}
	}
	return n
}
