package board

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders the board top row first, one row per line, columns
// right-aligned.
func (s *State) String() string {
	width := len(strconv.Itoa(s.MaxTile()))

	var sb strings.Builder
	for r := s.size - 1; r >= 0; r-- {
		for c := range s.size {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%*d", width, s.At(r, c))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads a board written the way String prints it: N*N values, top row
// first, separated by whitespace or commas.
func Parse(text string) (*State, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	n := int(math.Round(math.Sqrt(float64(len(fields)))))
	if n < MinSize || n*n != len(fields) {
		return nil, fmt.Errorf("%w: %d values do not form a square board", ErrInvalidGrid, len(fields))
	}

	grid := make([][]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidGrid, f)
		}
		row := n - 1 - i/n
		if grid[row] == nil {
			grid[row] = make([]int, n)
		}
		grid[row][i%n] = v
	}
	return FromGrid(grid)
}
