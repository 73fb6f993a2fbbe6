package model

import (
	"fmt"
	"strings"
)

// Directions are the four orthogonal unit steps in search expansion order.
var Directions = [4]Coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y}
}

func (c Coord) Scale(f int) Coord {
	return Coord{c.X * f, c.Y * f}
}

func (c Coord) Neg() Coord {
	return Coord{-c.X, -c.Y}
}

func (c Coord) Manhattan(o Coord) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func ValidateDimensions(width, height int) error {
	if width < MinGridSize || height < MinGridSize || width%2 == 0 || height%2 == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidGridDimensions, width, height)
	}
	return nil
}

// NewGrid returns an all-wall grid with start at (1,1) and goal at the
// opposite interior corner.
func NewGrid(width, height int) (*Grid, error) {
	if err := ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	return &Grid{
		Width:  width,
		Height: height,
		Start:  Coord{1, 1},
		Goal:   Coord{width - 2, height - 2},
		tiles:  make([]Tile, width*height),
	}, nil
}

// Contains reports whether c lies anywhere on the grid, border included.
func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// Interior reports whether c lies strictly inside the border ring.
func (g *Grid) Interior(c Coord) bool {
	return c.X > 0 && c.Y > 0 && c.X < g.Width-1 && c.Y < g.Height-1
}

// At returns Wall for coordinates off the grid.
func (g *Grid) At(c Coord) Tile {
	if !g.Contains(c) {
		return Wall
	}
	return g.tiles[c.Y*g.Width+c.X]
}

func (g *Grid) Set(c Coord, t Tile) {
	if g.Contains(c) {
		g.tiles[c.Y*g.Width+c.X] = t
	}
}

func (g *Grid) Fill(t Tile) {
	for i := range g.tiles {
		g.tiles[i] = t
	}
}

func (g *Grid) Walkable(c Coord) bool {
	return g.At(c) != Wall
}

// StampEndpoints writes the Start and Goal tiles at their coordinates.
func (g *Grid) StampEndpoints() {
	g.Set(g.Start, Start)
	g.Set(g.Goal, Goal)
}

// Count returns how many tiles satisfy keep.
func (g *Grid) Count(keep func(Tile) bool) int {
	n := 0
	for _, t := range g.tiles {
		if keep(t) {
			n++
		}
	}
	return n
}

func (g *Grid) Clone() *Grid {
	c := *g
	c.tiles = append([]Tile(nil), g.tiles...)
	return &c
}

func (g *Grid) Equal(o *Grid) bool {
	if g.Width != o.Width || g.Height != o.Height || g.Start != o.Start || g.Goal != o.Goal {
		return false
	}
	for i := range g.tiles {
		if g.tiles[i] != o.tiles[i] {
			return false
		}
	}
	return true
}

// Rows renders each grid row with one glyph per tile.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		b.Reset()
		for x := 0; x < g.Width; x++ {
			b.WriteByte(g.At(Coord{x, y}).Glyph())
		}
		rows[y] = b.String()
	}
	return rows
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

func (t Tile) Glyph() byte {
	switch t {
	case Path:
		return '.'
	case Start:
		return 'S'
	case Goal:
		return 'G'
	default:
		return '#'
	}
}

func (t Tile) Name() string {
	switch t {
	case Wall:
		return "WALL"
	case Path:
		return "PATH"
	case Start:
		return "START"
	case Goal:
		return "GOAL"
	default:
		return fmt.Sprintf("n/a:%d", t)
	}
}
