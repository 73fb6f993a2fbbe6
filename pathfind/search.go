// Package pathfind runs A* over a model.Grid.
//
// FindPath solves in one call and honours an obstacle snapshot. Solver runs
// the same search one expansion per Step on the static maze, for
// visualisation.
package pathfind

import (
	"container/heap"

	"github.com/zucenko/mazewalk/model"
)

// Result contains the outcome of a search. Path runs from start to goal
// inclusive.
type Result struct {
	Path     []model.Coord
	Cost     float32
	Expanded int
	Found    bool
}

// Steps is the number of moves along the path.
func (r Result) Steps() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

type Options struct {
	MaxExpansions int
}

type Option func(*Options)

// WithMaxExpansions makes FindPath give up, reporting no path, once more than
// n nodes have been expanded. Zero means unlimited.
func WithMaxExpansions(n int) Option {
	return func(options *Options) { options.MaxExpansions = n }
}

// FindPath searches 4-connected Path tiles from start to goal with unit edge
// costs. Cells in obstacles are impassable except goal itself.
func FindPath(
	grid *model.Grid,
	start, goal model.Coord,
	heuristic Heuristic,
	obstacles Obstacles,
	options ...Option,
) Result {
	searchOptions := Options{}
	for _, option := range options {
		option(&searchOptions)
	}

	s := newSearch(start, goal, heuristic.Evaluate(start, goal))
	for {
		current, ok := s.pop()
		if !ok {
			return Result{Expanded: s.expanded}
		}
		if current.node == goal {
			return Result{
				Path:     s.reconstructPath(),
				Cost:     current.gScore,
				Expanded: s.expanded,
				Found:    true,
			}
		}
		if searchOptions.MaxExpansions > 0 && s.expanded > searchOptions.MaxExpansions {
			return Result{Expanded: s.expanded}
		}
		s.expand(grid, current, heuristic, obstacles.Blocks)
	}
}

// search is the A* state shared by FindPath and Solver.
type search struct {
	start, goal model.Coord

	openSet    priorityQueue
	openSetMap map[model.Coord]*queueItem
	cameFrom   map[model.Coord]model.Coord
	gScore     map[model.Coord]float32
	discovered []model.Coord

	sequence int
	expanded int
}

func newSearch(start, goal model.Coord, startCost float32) *search {
	s := &search{
		start:      start,
		goal:       goal,
		openSet:    make(priorityQueue, 0),
		openSetMap: make(map[model.Coord]*queueItem),
		cameFrom:   make(map[model.Coord]model.Coord),
		gScore:     map[model.Coord]float32{start: 0},
	}
	heap.Init(&s.openSet)
	s.push(start, 0, startCost)
	return s
}

func (s *search) push(node model.Coord, g, f float32) {
	item := &queueItem{node: node, gScore: g, fCost: f, sequence: s.sequence}
	s.sequence++
	heap.Push(&s.openSet, item)
	s.openSetMap[node] = item
}

func (s *search) pop() (*queueItem, bool) {
	if s.openSet.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&s.openSet).(*queueItem)
	delete(s.openSetMap, item.node)
	s.expanded++
	return item, true
}

// expand relaxes the orthogonal neighbours of current. A node whose g-score
// improves is reopened even if it was expanded before.
func (s *search) expand(grid *model.Grid, current *queueItem, heuristic Heuristic, blocked func(model.Coord) bool) {
	for _, d := range model.Directions {
		next := current.node.Add(d)
		if !grid.Interior(next) || !grid.Walkable(next) {
			continue
		}
		if blocked != nil && next != s.goal && blocked(next) {
			continue
		}

		tentative := current.gScore + 1
		if known, seen := s.gScore[next]; seen && tentative >= known {
			continue
		}
		if _, seen := s.cameFrom[next]; !seen {
			s.discovered = append(s.discovered, next)
		}
		s.cameFrom[next] = current.node
		s.gScore[next] = tentative

		f := tentative + heuristic.Evaluate(next, s.goal)
		if item, inOpen := s.openSetMap[next]; inOpen {
			item.gScore = tentative
			item.fCost = f
			heap.Fix(&s.openSet, item.indexInQueue)
			continue
		}
		s.push(next, tentative, f)
	}
}

func (s *search) reconstructPath() []model.Coord {
	current := s.goal
	path := []model.Coord{current}
	for current != s.start {
		previous, exists := s.cameFrom[current]
		if !exists {
			break
		}
		path = append(path, previous)
		current = previous
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
