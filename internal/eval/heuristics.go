package eval

import "github.com/vovakirdan/tileagent/internal/board"

// Corner bonuses, applied when the ranked tiles sit on the bottom row.
const (
	cornerLargestRow = 5.0
	cornerLargestCol = 2.0
	cornerSecondRow  = 2.0
	cornerThirdRow   = 1.5
)

// Merges returns the number of merges accumulated by the state.
func Merges(s *board.State) float64 {
	return float64(s.Merges())
}

// Score returns the cumulative spawn score.
func Score(s *board.State) float64 {
	return float64(s.Score())
}

// Density returns the average value of the non-empty tiles, or 0 on an
// empty board.
func Density(s *board.State) float64 {
	tiles := s.Size()*s.Size() - s.EmptyCount()
	if tiles == 0 {
		return 0
	}
	return float64(s.Sum()) / float64(tiles)
}

// Corner scales Density by where the three largest tiles sit: x5 when the
// largest is on row 0 and a further x2 when it is also in column 0, x2 when
// the second largest is on row 0, x1.5 when the third is. Ties go to the
// first tile in row-major order. Empty cells never rank.
func Corner(s *board.State) float64 {
	value := Density(s)
	if value == 0 {
		return 0
	}

	ranked := topTiles(s, 3)
	if first := ranked[0]; first.Row == 0 {
		value *= cornerLargestRow
		if first.Col == 0 {
			value *= cornerLargestCol
		}
	}
	if len(ranked) > 1 && ranked[1].Row == 0 {
		value *= cornerSecondRow
	}
	if len(ranked) > 2 && ranked[2].Row == 0 {
		value *= cornerThirdRow
	}
	return value
}

// Adjacent counts pairs of equal non-empty tiles that share an edge.
func Adjacent(s *board.State) float64 {
	n := s.Size()
	count := 0
	for r := range n {
		for c := range n {
			v := s.At(r, c)
			if v == 0 {
				continue
			}
			if c+1 < n && s.At(r, c+1) == v {
				count++
			}
			if r+1 < n && s.At(r+1, c) == v {
				count++
			}
		}
	}
	return float64(count)
}

// topTiles returns the positions of up to k largest non-empty tiles, largest
// first, earlier row-major position winning ties.
func topTiles(s *board.State, k int) []board.Cell {
	type tile struct {
		cell  board.Cell
		value int
	}
	top := make([]tile, 0, k+1)

	n := s.Size()
	for r := range n {
		for c := range n {
			v := s.At(r, c)
			if v == 0 {
				continue
			}
			i := len(top)
			for i > 0 && top[i-1].value < v {
				i--
			}
			if i >= k {
				continue
			}
			top = append(top, tile{})
			copy(top[i+1:], top[i:])
			top[i] = tile{cell: board.Cell{Row: r, Col: c}, value: v}
			if len(top) > k {
				top = top[:k]
			}
		}
	}

	cells := make([]board.Cell, len(top))
	for i, t := range top {
		cells[i] = t.cell
	}
	return cells
}
