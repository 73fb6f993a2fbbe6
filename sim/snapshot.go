package sim

import "github.com/zucenko/mazewalk/model"

// Snapshot copies the session into plain data for presentation.
func (s *Session) Snapshot() model.StateMessage {
	m := model.StateMessage{
		Mode:      s.mode.Name(),
		Algorithm: s.cfg.Algorithm.Name(),
		Heuristic: s.heuristic.Name(),
		Width:     s.grid.Width,
		Height:    s.grid.Height,
		Rows:      s.grid.Rows(),
		Start:     s.grid.Start,
		Goal:      s.grid.Goal,
		Agents:    make([]model.AgentView, 0, len(s.agents)),
		Obstacles: make([]model.ObstacleView, 0, len(s.obstacles)),
	}
	if s.generator != nil {
		m.Phase = s.generator.Phase().Name()
		m.GenerationSteps = s.generator.Steps()
	}
	if s.globalTarget != nil {
		t := *s.globalTarget
		m.GlobalTarget = &t
	}

	for _, a := range s.agents {
		view := model.AgentView{
			Id:          a.ID.String(),
			Position:    [2]float32(a.Position()),
			Path:        append([]model.Coord{}, a.Path()...),
			Trail:       make([][2]float32, len(a.Trail())),
			Primary:     a.Primary,
			Heuristic:   a.Heuristic.Name(),
			Speed:       a.Speed,
			BlockedTime: a.BlockedTime,
		}
		if t, ok := a.Target(); ok {
			view.Target = &t
		}
		for i, p := range a.Trail() {
			view.Trail[i] = [2]float32(p)
		}
		m.Agents = append(m.Agents, view)
	}

	for _, o := range s.obstacles {
		m.Obstacles = append(m.Obstacles, model.ObstacleView{
			Cell:      o.Cell,
			Direction: o.Direction,
			Progress:  o.Progress(),
		})
	}

	if s.solver != nil {
		m.Solver = &model.SolverView{
			Steps:     s.solver.Steps(),
			Found:     s.solver.Found(),
			Exhausted: s.solver.Exhausted(),
			Frontier:  s.solver.FrontierSize(),
			Visited:   append([]model.Coord{}, s.solver.Visited()...),
			Path:      append([]model.Coord(nil), s.solver.Path()...),
		}
	}
	return m
}
