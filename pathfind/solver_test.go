package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zucenko/mazewalk/generator"
	"github.com/zucenko/mazewalk/model"
)

func runSolver(grid *model.Grid, h Heuristic) *Solver {
	s := NewSolver(grid)
	for !s.Done() {
		s.Step(grid, h)
	}
	return s
}

func TestSolverMatchesFindPath(t *testing.T) {
	for _, algorithm := range generator.Algorithms {
		grid := maze(t, algorithm, 6)
		for _, h := range []Heuristic{Manhattan, UniformCost, Diagonal} {
			s := runSolver(grid, h)
			require.True(t, s.Found())
			r := FindPath(grid, grid.Start, grid.Goal, h, Obstacles{})
			assert.Equal(t, r.Steps(), len(s.Path())-1, h.Name())
			assert.Equal(t, grid.Start, s.Path()[0])
			assert.Equal(t, grid.Goal, s.Path()[len(s.Path())-1])
			assert.NotEmpty(t, s.Visited())
		}
	}
}

func TestSolverStepsOneNodeAtATime(t *testing.T) {
	grid := layout(t, corridor)
	s := NewSolver(grid)
	assert.Equal(t, 1, s.FrontierSize())

	s.Step(grid, Manhattan)
	assert.Equal(t, 1, s.Steps())
	assert.Equal(t, []model.Coord{{X: 2, Y: 1}}, s.Visited())
	assert.False(t, s.Found())
	assert.Nil(t, s.Path())

	s = runSolver(grid, Manhattan)
	assert.True(t, s.Found())
	// one pop per corridor cell
	assert.Equal(t, 9, s.Steps())
	assert.Len(t, s.Path(), 9)
}

func TestSolverStepAfterFoundIsNoop(t *testing.T) {
	grid := layout(t, corridor)
	s := runSolver(grid, Manhattan)
	require.True(t, s.Found())

	steps := s.Steps()
	visited := append([]model.Coord(nil), s.Visited()...)
	path := append([]model.Coord(nil), s.Path()...)
	frontier := s.FrontierSize()

	s.Step(grid, Euclidean)
	assert.Equal(t, steps, s.Steps())
	assert.Equal(t, visited, s.Visited())
	assert.Equal(t, path, s.Path())
	assert.Equal(t, frontier, s.FrontierSize())
}

func TestSolverExhausts(t *testing.T) {
	grid := layout(t, corridor)
	grid.Set(model.Coord{X: 5, Y: 4}, model.Wall)
	s := runSolver(grid, Manhattan)
	assert.False(t, s.Found())
	assert.True(t, s.Exhausted())
	assert.Nil(t, s.Path())

	steps := s.Steps()
	s.Step(grid, Manhattan)
	assert.Equal(t, steps, s.Steps())
}
