package generator

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAlgorithm = errors.New("unknown maze algorithm")

type Algorithm int

const (
	RecursiveBacktracker Algorithm = iota
	Prims
	Braid
	Eller
)

var Algorithms = []Algorithm{RecursiveBacktracker, Prims, Braid, Eller}

func (a Algorithm) Name() string {
	switch a {
	case RecursiveBacktracker:
		return "backtracker"
	case Prims:
		return "prims"
	case Braid:
		return "braid"
	case Eller:
		return "eller"
	default:
		return fmt.Sprintf("n/a:%d", a)
	}
}

func (a Algorithm) String() string {
	return a.Name()
}

// braids reports whether the algorithm is followed by the cycle-adding phase.
func (a Algorithm) braids() bool {
	return a == Braid || a == Eller
}

func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "backtracker", "recursive_backtracker", "dfs":
		return RecursiveBacktracker, nil
	case "prims", "prim":
		return Prims, nil
	case "braid":
		return Braid, nil
	case "eller", "ellers":
		return Eller, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

type Phase int

const (
	PhaseBacktracking Phase = iota
	PhaseFrontier
	PhaseRows
	PhaseCycles
	PhaseFinished
)

func (p Phase) Name() string {
	switch p {
	case PhaseBacktracking:
		return "BACKTRACKING"
	case PhaseFrontier:
		return "FRONTIER"
	case PhaseRows:
		return "ROWS"
	case PhaseCycles:
		return "CYCLES"
	case PhaseFinished:
		return "FINISHED"
	default:
		return fmt.Sprintf("n/a:%d", p)
	}
}
