package model

import (
	"bufio"
	"fmt"
	"io"
)

// Read parses a layout written by Grid.String. '#' is a wall, '.' or ' ' a
// path, 'S' and 'G' mark start and goal. Missing S or G keep the defaults.
// The border ring must be all wall.
func Read(reader io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	lines := make([]string, 0)
	for scanner.Scan() {
		s := scanner.Text()
		if s == "" && len(lines) > 0 {
			break
		}
		if s == "" {
			continue
		}
		lines = append(lines, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrMalformedLayout)
	}

	g, err := NewGrid(len(lines[0]), len(lines))
	if err != nil {
		return nil, err
	}
	for y, s := range lines {
		if len(s) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrMalformedLayout, y, len(s), g.Width)
		}
		for x := 0; x < len(s); x++ {
			c := Coord{x, y}
			switch s[x] {
			case '#':
				g.Set(c, Wall)
			case '.', ' ':
				g.Set(c, Path)
			case 'S':
				g.Set(c, Start)
				g.Start = c
			case 'G':
				g.Set(c, Goal)
				g.Goal = c
			default:
				return nil, fmt.Errorf("%w: unknown glyph %q at %v", ErrMalformedLayout, s[x], c)
			}
			if !g.Interior(c) && g.At(c) != Wall {
				return nil, fmt.Errorf("%w: open border tile at %v", ErrMalformedLayout, c)
			}
		}
	}
	return g, nil
}
