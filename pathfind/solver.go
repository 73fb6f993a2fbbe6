package pathfind

import "github.com/zucenko/mazewalk/model"

// Solver is a steppable A* from grid start to grid goal. It ignores dynamic
// obstacles.
type Solver struct {
	search *search
	found  bool
	path   []model.Coord
	steps  int
}

// NewSolver seeds the open set with the grid start at cost 0.
func NewSolver(grid *model.Grid) *Solver {
	return &Solver{search: newSearch(grid.Start, grid.Goal, 0)}
}

// Step pops one node and expands it. It is a no-op once the goal was found
// or the open set is empty.
func (s *Solver) Step(grid *model.Grid, heuristic Heuristic) {
	if s.Done() {
		return
	}
	s.steps++

	current, _ := s.search.pop()
	if current.node == s.search.goal {
		s.found = true
		s.path = s.search.reconstructPath()
		return
	}
	s.search.expand(grid, current, heuristic, nil)
}

func (s *Solver) Found() bool { return s.found }

// Exhausted reports that the open set ran dry without reaching the goal.
func (s *Solver) Exhausted() bool { return !s.found && s.search.openSet.Len() == 0 }

func (s *Solver) Done() bool { return s.found || s.search.openSet.Len() == 0 }

// Path is nil until Found.
func (s *Solver) Path() []model.Coord { return s.path }

func (s *Solver) Steps() int { return s.steps }

func (s *Solver) FrontierSize() int { return s.search.openSet.Len() }

// Visited lists every cell that received a back-pointer, in discovery order.
func (s *Solver) Visited() []model.Coord { return s.search.discovered }
