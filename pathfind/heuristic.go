package pathfind

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zucenko/mazewalk/model"
)

var ErrUnknownHeuristic = errors.New("unknown heuristic")

// Heuristic estimates the remaining cost between two grid cells. The set is
// closed; out-of-range values evaluate as Manhattan.
type Heuristic int

const (
	Manhattan Heuristic = iota
	Euclidean
	Diagonal
	UniformCost
	Chebyshev
	EuclideanSquared
	WeightedManhattan
	ManhattanTiebreaker
)

// Heuristics is the selection table, indexed by Heuristic.
var Heuristics = []Heuristic{
	Manhattan,
	Euclidean,
	Diagonal,
	UniformCost,
	Chebyshev,
	EuclideanSquared,
	WeightedManhattan,
	ManhattanTiebreaker,
}

const (
	weightedManhattanFactor = 2.0
	tiebreakerFactor        = 1.001
)

var octile = float32(math.Sqrt2 - 1)

func (h Heuristic) Evaluate(a, b model.Coord) float32 {
	dx := float32(absInt(a.X - b.X))
	dy := float32(absInt(a.Y - b.Y))
	switch h {
	case Euclidean:
		return float32(math.Sqrt(float64(dx*dx + dy*dy)))
	case Diagonal:
		return octile*min(dx, dy) + max(dx, dy)
	case UniformCost:
		return 0
	case Chebyshev:
		return max(dx, dy)
	case EuclideanSquared:
		return dx*dx + dy*dy
	case WeightedManhattan:
		return (dx + dy) * weightedManhattanFactor
	case ManhattanTiebreaker:
		return (dx + dy) * tiebreakerFactor
	default:
		return dx + dy
	}
}

// Admissible reports whether the heuristic never overestimates on a
// unit-cost 4-connected grid.
func (h Heuristic) Admissible() bool {
	switch h {
	case EuclideanSquared, WeightedManhattan, ManhattanTiebreaker:
		return false
	}
	return true
}

func (h Heuristic) Name() string {
	switch h {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	case Diagonal:
		return "diagonal"
	case UniformCost:
		return "uniform_cost"
	case Chebyshev:
		return "chebyshev"
	case EuclideanSquared:
		return "euclidean_squared"
	case WeightedManhattan:
		return "weighted_manhattan"
	case ManhattanTiebreaker:
		return "manhattan_tiebreaker"
	default:
		return fmt.Sprintf("n/a:%d", int(h))
	}
}

func (h Heuristic) String() string {
	return h.Name()
}

// ParseHeuristic accepts a heuristic name or its 1-based table position.
func ParseHeuristic(name string) (Heuristic, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if n, err := strconv.Atoi(name); err == nil {
		if n >= 1 && n <= len(Heuristics) {
			return Heuristics[n-1], nil
		}
		return 0, fmt.Errorf("%w: index %d", ErrUnknownHeuristic, n)
	}
	name = strings.ReplaceAll(name, "-", "_")
	for _, h := range Heuristics {
		if h.Name() == name {
			return h, nil
		}
	}
	switch name {
	case "uniform", "dijkstra":
		return UniformCost, nil
	case "octile":
		return Diagonal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
