package sim

import (
	"math"

	"github.com/google/uuid"
	"github.com/ungerik/go3d/vec2"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/pathfind"
)

const (
	PrimarySpeed = 4.0
	CrowdSpeed   = 3.0

	// MaxTrail is the number of trail samples kept per agent.
	MaxTrail      = 150
	trailSpacing  = 0.5
	pathDropRange = 0.1
	snapEpsilon   = 1e-4
)

type AgentID = uuid.UUID

// Agent follows a queue of grid waypoints with a continuous position
// measured in cells.
type Agent struct {
	ID          AgentID
	Primary     bool
	Heuristic   pathfind.Heuristic
	Speed       float32
	BlockedTime float32

	position      vec2.T
	target        model.Coord
	hasTarget     bool
	path          []model.Coord
	trail         []vec2.T
	start         vec2.T
	initialTarget *model.Coord
}

func NewAgent(id AgentID, at model.Coord, primary bool) *Agent {
	speed := float32(CrowdSpeed)
	if primary {
		speed = PrimarySpeed
	}
	p := cellVec(at)
	return &Agent{
		ID:       id,
		Primary:  primary,
		Speed:    speed,
		position: p,
		start:    p,
	}
}

func cellVec(c model.Coord) vec2.T {
	return vec2.T{float32(c.X), float32(c.Y)}
}

func roundCell(p vec2.T) model.Coord {
	return model.Coord{
		X: int(math.Round(float64(p[0]))),
		Y: int(math.Round(float64(p[1]))),
	}
}

func (a *Agent) Position() vec2.T { return a.position }

// Cell is the grid cell nearest to the agent.
func (a *Agent) Cell() model.Coord { return roundCell(a.position) }

// Target returns the waypoint the agent is currently moving towards.
func (a *Agent) Target() (model.Coord, bool) { return a.target, a.hasTarget }

func (a *Agent) Path() []model.Coord { return a.path }

func (a *Agent) Trail() []vec2.T { return a.trail }

func (a *Agent) InitialTarget() (model.Coord, bool) {
	if a.initialTarget == nil {
		return model.Coord{}, false
	}
	return *a.initialTarget, true
}

// Idle means no waypoint and nothing queued.
func (a *Agent) Idle() bool { return !a.hasTarget && len(a.path) == 0 }

func (a *Agent) DistanceTo(c model.Coord) float32 {
	v := cellVec(c)
	d := vec2.Sub(&v, &a.position)
	return d.Length()
}

// SetPath queues path, dropping its first cell when the agent already
// stands on it.
func (a *Agent) SetPath(path []model.Coord) {
	a.path = append(a.path[:0:0], path...)
	if len(a.path) == 0 {
		return
	}
	first := cellVec(a.path[0])
	if abs32(first[0]-a.position[0]) < pathDropRange && abs32(first[1]-a.position[1]) < pathDropRange {
		a.path = a.path[1:]
	}
}

// ClearRoute drops the current waypoint and the queued path.
func (a *Agent) ClearRoute() {
	a.hasTarget = false
	a.path = nil
}

func (a *Agent) ClearTarget() {
	a.hasTarget = false
}

func (a *Agent) ResetToStart() {
	a.position = a.start
	a.hasTarget = false
	a.path = nil
	a.trail = nil
	a.BlockedTime = 0
}

// NextWaypoint is the head of the queued path.
func (a *Agent) NextWaypoint() (model.Coord, bool) {
	if len(a.path) == 0 {
		return model.Coord{}, false
	}
	return a.path[0], true
}

// Advance moves the agent Speed*dt cells along its route. Distance left over
// after reaching a waypoint carries on to the next one, unless blocked
// reports that cell as occupied.
func (a *Agent) Advance(dt float32, blocked func(model.Coord) bool) {
	budget := a.Speed * dt
	for budget > 0 {
		if !a.hasTarget {
			if len(a.path) == 0 {
				break
			}
			if blocked != nil && blocked(a.path[0]) {
				break
			}
			a.target = a.path[0]
			a.hasTarget = true
			a.path = a.path[1:]
		}

		target := cellVec(a.target)
		direction := vec2.Sub(&target, &a.position)
		distance := direction.Length()
		if distance <= budget+snapEpsilon {
			a.position = target
			a.hasTarget = false
			budget -= distance
			continue
		}
		direction.Scale(budget / distance)
		a.position.Add(&direction)
		budget = 0
	}
	a.recordTrail()
}

func (a *Agent) recordTrail() {
	if len(a.trail) > 0 {
		last := a.trail[len(a.trail)-1]
		d := vec2.Sub(&a.position, &last)
		if d.Length() <= trailSpacing {
			return
		}
	}
	a.trail = append(a.trail, a.position)
	if len(a.trail) > MaxTrail {
		a.trail = a.trail[len(a.trail)-MaxTrail:]
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
