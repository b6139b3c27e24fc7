package fluid

import V "github.com/hoopoe/cmag/vector"

//Sampler derives the candidate neighbour set of a position
type Sampler interface {
	Candidates(pos V.Vec4) NeighborIter
}

//BruteForce - every particle is a candidate of every position. Reference
//sampler for checking the grid search.
type BruteForce struct {
	N int
}

func (b BruteForce) Candidates(pos V.Vec4) NeighborIter {
	it := NeighborIter{}
	it.push(0, b.N)
	return it
}

var (
	_ Sampler = (*GridSearch)(nil)
	_ Sampler = BruteForce{}
)
