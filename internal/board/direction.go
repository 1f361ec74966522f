package board

import (
	"fmt"
	"strings"
)

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// SearchOrder is the fixed order in which agents consider directions.
// Ties between equally valued directions go to the earliest entry.
var SearchOrder = [4]Direction{DirLeft, DirDown, DirRight, DirUp}

// String returns the upper-case name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// Valid reports whether d is one of the four move directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// ParseDirection accepts full names (case-insensitive) and the w/a/s/d keys.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return DirUp, nil
	case "down", "s":
		return DirDown, nil
	case "left", "a":
		return DirLeft, nil
	case "right", "d":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("board: unknown direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Direction) bit() uint8 {
	return 1 << uint(d)
}
