package pathfind

import (
	"github.com/zucenko/mazewalk/model"
	"github.com/zyedidia/generic/mapset"
)

// Obstacles is an immutable set of blocked cells captured for one search.
// The zero value blocks nothing.
type Obstacles struct {
	cells mapset.Set[model.Coord]
}

func NewObstacles(cells ...model.Coord) Obstacles {
	set := mapset.New[model.Coord]()
	for _, c := range cells {
		set.Put(c)
	}
	return Obstacles{cells: set}
}

func (o Obstacles) Blocks(c model.Coord) bool {
	return o.cells.Has(c)
}

func (o Obstacles) Len() int {
	return o.cells.Size()
}

// With returns a new snapshot holding o's cells plus extra; o is unchanged.
func (o Obstacles) With(extra ...model.Coord) Obstacles {
	set := mapset.New[model.Coord]()
	o.cells.Each(func(c model.Coord) { set.Put(c) })
	for _, c := range extra {
		set.Put(c)
	}
	return Obstacles{cells: set}
}
