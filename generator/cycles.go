package generator

import (
	"math/rand"

	"github.com/zucenko/mazewalk/model"
)

// DeadEnds lists interior walkable tiles with at least three wall
// neighbours, in row-major order. Tiles off the grid count as walls.
func DeadEnds(grid *model.Grid) []model.Coord {
	deadEnds := make([]model.Coord, 0)
	for y := 1; y < grid.Height-1; y++ {
		for x := 1; x < grid.Width-1; x++ {
			c := model.Coord{X: x, Y: y}
			if !grid.Walkable(c) {
				continue
			}
			walls := 0
			for _, d := range model.Directions {
				if !grid.Walkable(c.Add(d)) {
					walls++
				}
			}
			if walls >= 3 {
				deadEnds = append(deadEnds, c)
			}
		}
	}
	return deadEnds
}

func newCyclesState(grid *model.Grid, rng *rand.Rand, density float64) *cyclesState {
	deadEnds := DeadEnds(grid)
	rng.Shuffle(len(deadEnds), func(i, j int) { deadEnds[i], deadEnds[j] = deadEnds[j], deadEnds[i] })
	return &cyclesState{
		deadEnds: deadEnds,
		target:   int(float64(len(deadEnds)) * density),
	}
}

// stepCycles opens one wall next to one dead end, joining it to another
// carved cell two tiles away.
func (g *Generator) stepCycles(grid *model.Grid, rng *rand.Rand, s *cyclesState) {
	if s.cursor >= s.target || s.cursor >= len(s.deadEnds) {
		g.transition(finishedState{})
		return
	}
	node := s.deadEnds[s.cursor]
	s.cursor++

	var walls [4]model.Coord
	n := 0
	for _, j := range jumps {
		other := node.Add(j)
		wall := node.Add(model.Coord{X: j.X / 2, Y: j.Y / 2})
		if grid.Interior(other) && grid.Walkable(other) && grid.At(wall) == model.Wall {
			walls[n] = wall
			n++
		}
	}
	if n > 0 {
		grid.Set(walls[rng.Intn(n)], model.Path)
	}
}
