package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const room = `#######
#S....#
#.###.#
#....G#
#######`

func TestNewGridValidatesDimensions(t *testing.T) {
	for _, dims := range [][2]int{{4, 5}, {5, 3}, {6, 7}, {7, 8}, {0, 0}, {-5, 5}} {
		_, err := NewGrid(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidGridDimensions, "%dx%d", dims[0], dims[1])
	}

	g, err := NewGrid(9, 7)
	require.NoError(t, err)
	assert.Equal(t, Coord{1, 1}, g.Start)
	assert.Equal(t, Coord{7, 5}, g.Goal)
	assert.Equal(t, 63, g.Count(func(t Tile) bool { return t == Wall }))
}

func TestReadRoundTrip(t *testing.T) {
	g, err := Read(strings.NewReader("\n" + room + "\n\ntrailing text ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, g.Width)
	assert.Equal(t, 5, g.Height)
	assert.Equal(t, Coord{1, 1}, g.Start)
	assert.Equal(t, Coord{5, 3}, g.Goal)
	assert.Equal(t, room, g.String())

	again, err := Read(strings.NewReader(g.String()))
	require.NoError(t, err)
	assert.True(t, g.Equal(again))
}

func TestReadRejectsMalformedLayouts(t *testing.T) {
	cases := map[string]string{
		"empty":       "\n\n",
		"ragged":      "#######\n#S...#\n#.###.#\n#....G#\n#######",
		"unknown":     "#######\n#S..x.#\n#.###.#\n#....G#\n#######",
		"open top":    "###.###\n#S....#\n#.###.#\n#....G#\n#######",
		"open side":   "#######\n#S.....\n#.###.#\n#....G#\n#######",
		"goal border": "#######\n#S....#\n#.###.#\n#.....#\n#####G#",
	}
	for name, layout := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(layout))
			assert.ErrorIs(t, err, ErrMalformedLayout)
		})
	}

	_, err := Read(strings.NewReader("######\n#S..G#\n######"))
	assert.ErrorIs(t, err, ErrInvalidGridDimensions)
}

func TestGridAccess(t *testing.T) {
	g, err := Read(strings.NewReader(room))
	require.NoError(t, err)

	assert.Equal(t, Wall, g.At(Coord{-1, 2}))
	assert.Equal(t, Wall, g.At(Coord{7, 0}))
	assert.True(t, g.Contains(Coord{0, 0}))
	assert.False(t, g.Interior(Coord{0, 2}))
	assert.True(t, g.Interior(Coord{5, 3}))
	assert.False(t, g.Interior(Coord{6, 3}))
	assert.True(t, g.Walkable(g.Start))
	assert.True(t, g.Walkable(g.Goal))
	assert.False(t, g.Walkable(Coord{2, 2}))

	g.Set(Coord{40, 40}, Path)
	assert.Equal(t, 35, g.Count(func(Tile) bool { return true }))

	clone := g.Clone()
	clone.Set(Coord{2, 2}, Path)
	assert.Equal(t, Wall, g.At(Coord{2, 2}))
	assert.False(t, g.Equal(clone))
}

func TestCoordArithmetic(t *testing.T) {
	c := Coord{3, 4}
	assert.Equal(t, Coord{4, 4}, c.Add(Directions[1]))
	assert.Equal(t, Coord{-6, -8}, c.Scale(2).Neg())
	assert.Equal(t, 7, c.Manhattan(Coord{}))
	for _, d := range Directions {
		assert.Equal(t, 1, d.Manhattan(Coord{}))
	}
}
