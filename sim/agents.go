package sim

import (
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/mazewalk/model"
	"github.com/zucenko/mazewalk/pathfind"
)

// TickAgents runs one simulation pass over all agents. Rounded agent cells
// are captured once at the start of the pass and used as point obstacles
// when primary agents re-plan.
func (s *Session) TickAgents(dt float32) {
	if len(s.agents) == 0 {
		return
	}
	cells := make([]model.Coord, len(s.agents))
	for i, a := range s.agents {
		cells[i] = a.Cell()
	}
	static := s.obstacleSnapshot()

	for i, a := range s.agents {
		occupied := func(c model.Coord) bool { return s.occupied(i, c) }

		next, queued := a.NextWaypoint()
		_, moving := a.Target()
		if !moving && queued && occupied(next) {
			a.BlockedTime += dt
			switch {
			case a.Primary:
				s.replan(a, s.primaryGoal(a), static.With(othersCells(cells, i)...))
			case a.BlockedTime > CrowdPatience:
				a.BlockedTime = 0
				s.replan(a, s.randomTarget(wanderTargetTries), static)
			}
		} else {
			a.BlockedTime = 0
			a.Advance(dt*s.cfg.MovementScale, occupied)
		}

		for _, o := range s.obstacles {
			if a.DistanceTo(o.Cell) < collideRadius {
				a.ClearRoute()
				break
			}
		}

		if a.Idle() {
			s.retarget(a, i, cells, static)
		}
	}
}

// occupied reports whether any agent other than agents[self] stands within
// blockRadius of c.
func (s *Session) occupied(self int, c model.Coord) bool {
	for j, other := range s.agents {
		if j != self && other.DistanceTo(c) < blockRadius {
			return true
		}
	}
	return false
}

func othersCells(cells []model.Coord, self int) []model.Coord {
	others := make([]model.Coord, 0, len(cells))
	for j, c := range cells {
		if j != self {
			others = append(others, c)
		}
	}
	return others
}

// primaryGoal resolves where a primary agent is heading: the global target
// if set, else the target it spawned with, else the grid goal.
func (s *Session) primaryGoal(a *Agent) model.Coord {
	if s.globalTarget != nil {
		return *s.globalTarget
	}
	if t, ok := a.InitialTarget(); ok {
		return t
	}
	return s.grid.Goal
}

// replan adopts a fresh route to goal. Failing to find one is routine and
// leaves the agent's route as it was.
func (s *Session) replan(a *Agent, goal model.Coord, obstacles pathfind.Obstacles) bool {
	r := s.findPath(a.Cell(), goal, a.Heuristic, obstacles)
	if !r.Found {
		log.Debugf("agent %s: no path %v -> %v (%d expanded)", a.ID, a.Cell(), goal, r.Expanded)
		return false
	}
	a.SetPath(r.Path)
	return true
}

// retarget gives an idle agent somewhere to go, unless it has arrived.
func (s *Session) retarget(a *Agent, self int, cells []model.Coord, static pathfind.Obstacles) {
	switch {
	case a.Primary:
		goal := s.primaryGoal(a)
		if a.DistanceTo(goal) < arrivalRadius {
			return
		}
		s.replan(a, goal, static.With(othersCells(cells, self)...))
	case s.globalTarget != nil:
		goal := *s.globalTarget
		p := a.Position()
		if abs32(p[0]-float32(goal.X))+abs32(p[1]-float32(goal.Y)) < gatherDistance {
			return
		}
		s.replan(a, goal, static)
	default:
		s.replan(a, s.randomTarget(wanderTargetTries), static)
	}
}
