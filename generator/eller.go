package generator

import (
	"math/rand"

	"github.com/zucenko/mazewalk/model"
)

type ellerStage int

const (
	ellerInitialize ellerStage = iota
	ellerHorizontal
	ellerVertical
)

// ellerState builds one lattice row at a time. sets holds a set label per
// lattice column of the current row.
type ellerState struct {
	row       int
	cols      []int
	sets      []int
	nextSetID int

	stage     ellerStage
	index     int
	verticals []int
	nextSets  []int
}

func newEllerState(grid *model.Grid) *ellerState {
	cols := make([]int, 0, grid.Width/2)
	for x := 1; x < grid.Width-1; x += 2 {
		cols = append(cols, x)
	}
	sets := make([]int, len(cols))
	for i := range sets {
		sets[i] = i
	}
	return &ellerState{row: 1, cols: cols, sets: sets, nextSetID: len(cols)}
}

func (g *Generator) stepEller(grid *model.Grid, rng *rand.Rand, s *ellerState) {
	if s.row >= grid.Height-1 {
		g.finishBase(grid, rng)
		return
	}
	r := s.row
	lastRow := r+2 >= grid.Height-1

	switch s.stage {
	case ellerInitialize:
		for _, x := range s.cols {
			grid.Set(model.Coord{X: x, Y: r}, model.Path)
		}
		s.stage = ellerHorizontal
		s.index = 0

	case ellerHorizontal:
		if s.index < len(s.cols)-1 {
			i := s.index
			s.index++
			if s.sets[i] == s.sets[i+1] {
				return
			}
			// the last row joins everything so the goal is reachable
			if lastRow || rng.Float64() < g.options.Density {
				grid.Set(model.Coord{X: s.cols[i] + 1, Y: r}, model.Path)
				s.relabel(s.sets[i+1], s.sets[i])
			}
			return
		}
		if lastRow {
			g.finishBase(grid, rng)
			return
		}
		s.planVerticals(rng, g.options.Density)
		s.stage = ellerVertical
		s.index = 0

	case ellerVertical:
		if s.index < len(s.verticals) {
			x := s.cols[s.verticals[s.index]]
			grid.Set(model.Coord{X: x, Y: r + 1}, model.Path)
			grid.Set(model.Coord{X: x, Y: r + 2}, model.Path)
			s.index++
			return
		}
		s.sets, s.nextSets = s.nextSets, nil
		s.verticals = nil
		s.row += 2
		s.stage = ellerInitialize
	}
}

func (s *ellerState) relabel(from, to int) {
	for j, set := range s.sets {
		if set == from {
			s.sets[j] = to
		}
	}
}

// planVerticals picks the carry-down columns: at least one per set, each
// further member with probability density. Columns not carried down get a
// fresh label in the next row.
func (s *ellerState) planVerticals(rng *rand.Rand, density float64) {
	order := make([]int, 0, len(s.sets))
	members := make(map[int][]int, len(s.sets))
	for i, set := range s.sets {
		if _, seen := members[set]; !seen {
			order = append(order, set)
		}
		members[set] = append(members[set], i)
	}

	s.nextSets = make([]int, len(s.sets))
	for i := range s.nextSets {
		s.nextSets[i] = s.nextSetID
		s.nextSetID++
	}

	s.verticals = s.verticals[:0]
	for _, set := range order {
		columns := members[set]
		rng.Shuffle(len(columns), func(i, j int) { columns[i], columns[j] = columns[j], columns[i] })
		for k, i := range columns {
			if k == 0 || rng.Float64() < density {
				s.verticals = append(s.verticals, i)
				s.nextSets[i] = set
			}
		}
	}
	rng.Shuffle(len(s.verticals), func(i, j int) {
		s.verticals[i], s.verticals[j] = s.verticals[j], s.verticals[i]
	})
}
