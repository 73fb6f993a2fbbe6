package model

import "errors"

var (
	ErrInvalidGridDimensions = errors.New("grid width and height must be odd and at least 5")
	ErrMalformedLayout       = errors.New("malformed grid layout")
)

// MinGridSize is the smallest odd side that still has an interior cell lattice.
const MinGridSize = 5

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Tile int

const (
	Wall Tile = iota
	Path
	Start
	Goal
)

// Grid is a fixed width × height tile matrix stored row-major.
// Cells of the generation lattice live at odd coordinates.
type Grid struct {
	Width, Height int
	Start, Goal   Coord
	tiles         []Tile
}
