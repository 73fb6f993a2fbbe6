// Package sim owns a maze session: the grid, its generator, the steppable
// solver, and the agents and obstacles moving through it. A Session is
// single-threaded; callers serialise access.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/generator"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/pathfind"
)

var (
	ErrNoPath      = errors.New("no path from spawn point")
	ErrNotWalkable = errors.New("cell is not walkable")
	ErrGenerating  = errors.New("maze is still being generated")
	ErrNoMaze      = errors.New("no maze has been generated")
)

type Mode int

const (
	ModeIdle Mode = iota
	ModeGenerating
	ModePathfinding
)

func (m Mode) Name() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeGenerating:
		return "GENERATING"
	case ModePathfinding:
		return "PATHFINDING"
	default:
		return fmt.Sprintf("n/a:%d", m)
	}
}

const (
	// CrowdPatience is how long a crowd agent waits behind another agent
	// before wandering elsewhere.
	CrowdPatience = 2.0

	blockRadius    = 0.9
	collideRadius  = 1.0
	arrivalRadius  = 1.5
	gatherDistance = 1.0

	spawnTargetTries  = 50
	wanderTargetTries = 20
)

type Config struct {
	Width, Height          int
	Algorithm              generator.Algorithm
	Heuristic              pathfind.Heuristic
	Density                float64
	GenerationStepsPerTick int
	SolverStepsPerTick     int
	MaxExpansions          int
	MovementScale          float32
	ObstacleInterval       float32
}

func DefaultConfig() Config {
	return Config{
		Width:                  201,
		Height:                 101,
		Algorithm:              generator.RecursiveBacktracker,
		Heuristic:              pathfind.Manhattan,
		Density:                generator.DefaultDensity,
		GenerationStepsPerTick: 60,
		SolverStepsPerTick:     60,
		MovementScale:          1,
		ObstacleInterval:       DefaultObstacleInterval,
	}
}

type Session struct {
	cfg Config
	rng *rand.Rand

	mode      Mode
	grid      *model.Grid
	generator *generator.Generator
	solver    *pathfind.Solver
	heuristic pathfind.Heuristic

	agents       []*Agent
	obstacles    []*Obstacle
	globalTarget *model.Coord
}

// NewSession starts idle on an all-wall grid. Call NewMaze to generate.
func NewSession(cfg Config, rng *rand.Rand) (*Session, error) {
	grid, err := model.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if cfg.GenerationStepsPerTick <= 0 {
		cfg.GenerationStepsPerTick = 1
	}
	if cfg.MovementScale <= 0 {
		cfg.MovementScale = 1
	}
	return &Session{
		cfg:       cfg,
		rng:       rng,
		mode:      ModeIdle,
		grid:      grid,
		heuristic: cfg.Heuristic,
	}, nil
}

func (s *Session) Mode() Mode                        { return s.mode }
func (s *Session) Grid() *model.Grid                 { return s.grid }
func (s *Session) Generator() *generator.Generator   { return s.generator }
func (s *Session) Solver() *pathfind.Solver          { return s.solver }
func (s *Session) Heuristic() pathfind.Heuristic     { return s.heuristic }
func (s *Session) Agents() []*Agent                  { return s.agents }
func (s *Session) Obstacles() []*Obstacle            { return s.obstacles }
func (s *Session) GlobalTarget() (model.Coord, bool) { return deref(s.globalTarget) }

func deref(c *model.Coord) (model.Coord, bool) {
	if c == nil {
		return model.Coord{}, false
	}
	return *c, true
}

// NewMaze replaces the grid and starts generating with algorithm. Agents,
// obstacles, the solver and the global target are discarded. On error the
// session is left as it was.
func (s *Session) NewMaze(algorithm generator.Algorithm) error {
	grid, err := model.NewGrid(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}
	gen, err := generator.New(grid, algorithm, generator.WithDensity(s.cfg.Density))
	if err != nil {
		return err
	}
	s.reset(grid)
	s.generator = gen
	s.cfg.Algorithm = algorithm
	s.mode = ModeGenerating
	log.Infof("new %dx%d maze using %s", s.grid.Width, s.grid.Height, algorithm.Name())
	return nil
}

// UseGrid installs a finished maze in place of the current one.
func (s *Session) UseGrid(grid *model.Grid) {
	s.reset(grid)
	s.mode = ModePathfinding
	log.Infof("using supplied %dx%d maze", grid.Width, grid.Height)
}

func (s *Session) reset(grid *model.Grid) {
	s.grid = grid
	s.generator = nil
	s.solver = nil
	s.agents = nil
	s.obstacles = nil
	s.globalTarget = nil
}

// CompleteGeneration runs the generator to the end and returns the number
// of steps it took.
func (s *Session) CompleteGeneration() (int, error) {
	if s.mode != ModeGenerating {
		return 0, ErrNoMaze
	}
	n := s.generator.Run(s.grid, s.rng)
	s.finishGeneration()
	return n, nil
}

func (s *Session) finishGeneration() {
	s.mode = ModePathfinding
	log.Infof("maze generated with %s in %d steps", s.generator.Algorithm().Name(), s.generator.Steps())
}

// Tick advances the session by dt seconds: generator steps while
// generating, otherwise obstacles, then agents, then solver steps.
func (s *Session) Tick(dt float32) {
	switch s.mode {
	case ModeGenerating:
		for i := 0; i < s.cfg.GenerationStepsPerTick && !s.generator.Done(); i++ {
			s.generator.Step(s.grid, s.rng)
		}
		if s.generator.Done() {
			s.finishGeneration()
		}
	case ModePathfinding:
		s.TickObstacles(dt)
		s.TickAgents(dt)
		s.stepSolver()
	}
}

func (s *Session) TickObstacles(dt float32) {
	for _, o := range s.obstacles {
		o.Update(dt, s.grid)
	}
}

func (s *Session) stepSolver() {
	if s.solver == nil {
		return
	}
	for i := 0; i < s.cfg.SolverStepsPerTick && !s.solver.Done(); i++ {
		s.solver.Step(s.grid, s.heuristic)
	}
}

func (s *Session) ready() error {
	switch s.mode {
	case ModeGenerating:
		return ErrGenerating
	case ModeIdle:
		return ErrNoMaze
	}
	return nil
}

// StartSolver restarts the steppable search from the grid start.
func (s *Session) StartSolver() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.solver = pathfind.NewSolver(s.grid)
	return nil
}

// SetHeuristic selects h for the solver and every primary agent. Primary
// agents go back to their start and re-plan.
func (s *Session) SetHeuristic(h pathfind.Heuristic) {
	s.heuristic = h
	if s.mode == ModePathfinding {
		s.solver = pathfind.NewSolver(s.grid)
	}
	static := s.obstacleSnapshot()
	for _, a := range s.agents {
		if !a.Primary {
			continue
		}
		a.Heuristic = h
		a.ResetToStart()
		r := s.findPath(a.Cell(), s.primaryGoal(a), h, static)
		if r.Found {
			a.SetPath(r.Path)
		}
	}
}

func (s *Session) findPath(from, to model.Coord, h pathfind.Heuristic, obstacles pathfind.Obstacles) pathfind.Result {
	return pathfind.FindPath(s.grid, from, to, h, obstacles, pathfind.WithMaxExpansions(s.cfg.MaxExpansions))
}

// FindPath searches with the session heuristic around the current obstacles.
func (s *Session) FindPath(from, to model.Coord) pathfind.Result {
	return s.findPath(from, to, s.heuristic, s.obstacleSnapshot())
}

func (s *Session) obstacleSnapshot() pathfind.Obstacles {
	cells := make([]model.Coord, len(s.obstacles))
	for i, o := range s.obstacles {
		cells[i] = o.Cell
	}
	return pathfind.NewObstacles(cells...)
}

// SpawnAgent adds an agent at cell. A primary agent heads for target or the
// grid goal using the session heuristic; a crowd agent draws a random
// heuristic and heads for target, the global target, or a random cell.
// The agent is only added when a path exists.
func (s *Session) SpawnAgent(at model.Coord, primary bool, target *model.Coord) (AgentID, error) {
	if err := s.ready(); err != nil {
		return uuid.Nil, err
	}
	if !s.grid.Interior(at) || !s.grid.Walkable(at) {
		return uuid.Nil, fmt.Errorf("%w: spawn at %v", ErrNotWalkable, at)
	}
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.Nil, err
	}

	a := NewAgent(id, at, primary)
	var goal model.Coord
	switch {
	case target != nil:
		goal = *target
	case primary:
		goal = s.grid.Goal
	case s.globalTarget != nil:
		goal = *s.globalTarget
	default:
		goal = s.randomTarget(spawnTargetTries)
	}
	if primary {
		a.Heuristic = s.heuristic
	} else {
		a.Heuristic = pathfind.Heuristics[s.rng.Intn(len(pathfind.Heuristics))]
	}

	r := s.findPath(at, goal, a.Heuristic, s.obstacleSnapshot())
	if !r.Found {
		return uuid.Nil, fmt.Errorf("%w: %v to %v", ErrNoPath, at, goal)
	}
	a.SetPath(r.Path)
	a.initialTarget = &goal
	s.agents = append(s.agents, a)
	log.Infof("spawned agent %s at %v heading to %v (primary:%v heuristic:%s)",
		id, at, goal, primary, a.Heuristic.Name())
	return id, nil
}

func (s *Session) Agent(id AgentID) *Agent {
	for _, a := range s.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// SpawnObstacle places an obstacle on a Path tile with a random direction.
func (s *Session) SpawnObstacle(at model.Coord) (*Obstacle, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !s.grid.Interior(at) || s.grid.At(at) != model.Path {
		return nil, fmt.Errorf("%w: obstacle at %v", ErrNotWalkable, at)
	}
	direction := model.Directions[s.rng.Intn(len(model.Directions))]
	o := NewObstacle(at, direction, s.cfg.ObstacleInterval)
	s.obstacles = append(s.obstacles, o)
	log.Infof("spawned obstacle at %v moving %v", at, direction)
	return o, nil
}

// SetGlobalTarget sets or, with nil, clears the shared destination. Setting
// it re-routes every agent there with the session heuristic.
func (s *Session) SetGlobalTarget(target *model.Coord) error {
	if target == nil {
		s.globalTarget = nil
		return nil
	}
	if err := s.ready(); err != nil {
		return err
	}
	if !s.grid.Interior(*target) || !s.grid.Walkable(*target) {
		return fmt.Errorf("%w: target %v", ErrNotWalkable, *target)
	}
	t := *target
	s.globalTarget = &t

	static := s.obstacleSnapshot()
	for _, a := range s.agents {
		r := s.findPath(a.Cell(), t, s.heuristic, static)
		if r.Found {
			a.SetPath(r.Path)
			a.ClearTarget()
		}
	}
	log.Infof("global target set to %v", t)
	return nil
}

// randomTarget samples interior cells until one is a Path tile, falling back
// to (1,1).
func (s *Session) randomTarget(tries int) model.Coord {
	for i := 0; i < tries; i++ {
		c := model.Coord{
			X: 1 + s.rng.Intn(s.grid.Width-2),
			Y: 1 + s.rng.Intn(s.grid.Height-2),
		}
		if s.grid.At(c) == model.Path {
			return c
		}
	}
	return model.Coord{X: 1, Y: 1}
}
