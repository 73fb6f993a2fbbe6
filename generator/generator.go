// Package generator carves mazes into a model.Grid one bounded step at a time.
//
// A Generator is a small state machine: each call to Step performs one unit
// of work of the selected algorithm, so a caller can interleave generation
// with rendering. Randomness is always supplied by the caller.
package generator

import (
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/model"
)

// DefaultDensity is the merge, carry-down and braiding probability.
const DefaultDensity = 0.5

// jumps reach the neighbouring lattice cell two tiles away.
var jumps = [4]model.Coord{{X: 0, Y: -2}, {X: 2, Y: 0}, {X: 0, Y: 2}, {X: -2, Y: 0}}

type Options struct {
	Density float64
	Cycles  bool
}

type Option func(*Options)

// WithDensity overrides DefaultDensity. Values are clamped to [0,1].
func WithDensity(density float64) Option {
	return func(options *Options) {
		switch {
		case density < 0:
			density = 0
		case density > 1:
			density = 1
		}
		options.Density = density
	}
}

// WithoutCycles skips the braiding phase, so Eller yields a perfect maze
// and Braid degenerates to Prims.
func WithoutCycles() Option {
	return func(options *Options) { options.Cycles = false }
}

type state interface {
	phase() Phase
}

type backtrackerState struct {
	stack []model.Coord
}

type primsState struct {
	frontier []model.Coord
}

type cyclesState struct {
	deadEnds []model.Coord
	cursor   int
	target   int
}

type finishedState struct{}

func (*backtrackerState) phase() Phase { return PhaseBacktracking }
func (*primsState) phase() Phase       { return PhaseFrontier }
func (*ellerState) phase() Phase       { return PhaseRows }
func (*cyclesState) phase() Phase      { return PhaseCycles }
func (finishedState) phase() Phase     { return PhaseFinished }

type Generator struct {
	algorithm Algorithm
	options   Options
	state     state
	steps     int
}

// New walls off every tile of grid and seeds the algorithm's initial state.
// The grid is left untouched for an unknown algorithm.
func New(grid *model.Grid, algorithm Algorithm, options ...Option) (*Generator, error) {
	switch algorithm {
	case RecursiveBacktracker, Prims, Braid, Eller:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, algorithm)
	}
	generatorOptions := Options{Density: DefaultDensity, Cycles: true}
	for _, option := range options {
		option(&generatorOptions)
	}

	grid.Fill(model.Wall)
	g := &Generator{algorithm: algorithm, options: generatorOptions}

	start := grid.Start
	switch algorithm {
	case Prims, Braid:
		grid.Set(start, model.Path)
		frontier := make([]model.Coord, 0, 4)
		for _, j := range jumps {
			if n := start.Add(j); grid.Interior(n) {
				frontier = append(frontier, n)
			}
		}
		g.state = &primsState{frontier: frontier}
	case Eller:
		g.state = newEllerState(grid)
	case RecursiveBacktracker:
		grid.Set(start, model.Path)
		g.state = &backtrackerState{stack: []model.Coord{start}}
	}
	return g, nil
}

func (g *Generator) Algorithm() Algorithm { return g.algorithm }

func (g *Generator) Phase() Phase { return g.state.phase() }

func (g *Generator) Done() bool {
	_, finished := g.state.(finishedState)
	return finished
}

// Steps counts every Step call that did work, including no-op frontier pops.
func (g *Generator) Steps() int { return g.steps }

// Step performs one unit of generation work. It is a no-op once Done.
func (g *Generator) Step(grid *model.Grid, rng *rand.Rand) {
	if g.Done() {
		return
	}
	g.steps++

	switch s := g.state.(type) {
	case *backtrackerState:
		g.stepBacktracker(grid, rng, s)
	case *primsState:
		g.stepPrims(grid, rng, s)
	case *ellerState:
		g.stepEller(grid, rng, s)
	case *cyclesState:
		g.stepCycles(grid, rng, s)
	}

	if g.Done() {
		grid.StampEndpoints()
	}
}

// Run steps until Done and returns how many steps it took.
func (g *Generator) Run(grid *model.Grid, rng *rand.Rand) int {
	n := 0
	for !g.Done() {
		g.Step(grid, rng)
		n++
	}
	return n
}

func (g *Generator) transition(next state) {
	log.Debugf("generator %s: %s -> %s after %d steps",
		g.algorithm.Name(), g.state.phase().Name(), next.phase().Name(), g.steps)
	g.state = next
}

// finishBase ends the base algorithm, entering the braiding phase when the
// algorithm calls for it.
func (g *Generator) finishBase(grid *model.Grid, rng *rand.Rand) {
	if g.algorithm.braids() && g.options.Cycles {
		g.transition(newCyclesState(grid, rng, g.options.Density))
		return
	}
	g.transition(finishedState{})
}

func (g *Generator) stepBacktracker(grid *model.Grid, rng *rand.Rand, s *backtrackerState) {
	if len(s.stack) == 0 {
		g.transition(finishedState{})
		return
	}
	current := s.stack[len(s.stack)-1]

	var candidates [4]model.Coord
	n := 0
	for _, j := range jumps {
		next := current.Add(j)
		if grid.Interior(next) && grid.At(next) == model.Wall {
			candidates[n] = j
			n++
		}
	}
	if n == 0 {
		s.stack = s.stack[:len(s.stack)-1]
		return
	}

	j := candidates[rng.Intn(n)]
	next := current.Add(j)
	grid.Set(current.Add(model.Coord{X: j.X / 2, Y: j.Y / 2}), model.Path)
	grid.Set(next, model.Path)
	s.stack = append(s.stack, next)
}

func (g *Generator) stepPrims(grid *model.Grid, rng *rand.Rand, s *primsState) {
	if len(s.frontier) == 0 {
		g.finishBase(grid, rng)
		return
	}

	i := rng.Intn(len(s.frontier))
	current := s.frontier[i]
	last := len(s.frontier) - 1
	s.frontier[i] = s.frontier[last]
	s.frontier = s.frontier[:last]

	// duplicates are allowed in the frontier
	if grid.At(current) != model.Wall {
		return
	}
	grid.Set(current, model.Path)

	var carved [4]model.Coord
	n := 0
	for _, j := range jumps {
		next := current.Add(j)
		if grid.Interior(next) && grid.At(next) == model.Path {
			carved[n] = next
			n++
		}
	}
	if n > 0 {
		other := carved[rng.Intn(n)]
		grid.Set(model.Coord{X: (current.X + other.X) / 2, Y: (current.Y + other.Y) / 2}, model.Path)
	}

	for _, j := range jumps {
		next := current.Add(j)
		if grid.Interior(next) && grid.At(next) == model.Wall {
			s.frontier = append(s.frontier, next)
		}
	}
}
