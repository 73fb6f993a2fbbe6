package sim

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/zucenko/mazewalk/model"
)

// DefaultObstacleInterval is how many seconds an obstacle waits between moves.
const DefaultObstacleInterval = 1.0

// Obstacle walks one cell per interval and reverses when the next cell is
// not a Path tile.
type Obstacle struct {
	Cell      model.Coord
	Direction model.Coord

	timer    *gween.Tween
	progress float32
}

func NewObstacle(at, direction model.Coord, interval float32) *Obstacle {
	if interval <= 0 {
		interval = DefaultObstacleInterval
	}
	return &Obstacle{
		Cell:      at,
		Direction: direction,
		timer:     gween.New(0, 1, interval, ease.Linear),
	}
}

// Progress is the fraction of the current interval already elapsed.
func (o *Obstacle) Progress() float32 { return o.progress }

// Update advances the interval timer and moves or bounces when it expires.
// Time past the interval is discarded.
func (o *Obstacle) Update(dt float32, grid *model.Grid) {
	current, finished := o.timer.Update(dt)
	if !finished {
		o.progress = current
		return
	}
	o.timer.Reset()
	o.progress = 0

	next := o.Cell.Add(o.Direction)
	if grid.Interior(next) && grid.At(next) == model.Path {
		o.Cell = next
		return
	}
	o.Direction = o.Direction.Neg()
}
