// Package board implements the sliding-tile puzzle state: the NxN grid, the
// slide-and-merge transition engine, legal-move generation and random tile
// spawning.
//
// Rows are numbered from the bottom: row 0 is the bottom edge, so DOWN moves
// tiles toward row 0 and UP toward row N-1.
package board

import (
	"errors"
	"fmt"
)

// DefaultSize is the default board dimension.
const DefaultSize = 4

// MinSize is the smallest board that supports a move.
const MinSize = 2

var (
	// ErrIllegalOperation is returned when a tile is spawned or placed where
	// the board cannot take it.
	ErrIllegalOperation = errors.New("board: illegal operation")

	// ErrInvalidGrid is returned for malformed grid input.
	ErrInvalidGrid = errors.New("board: invalid grid")
)

// Cell is a grid coordinate.
type Cell struct {
	Row int
	Col int
}

// State is one board position with its running counters and cached
// derived sets. The zero value is not usable; construct with New, NewGame,
// FromGrid or Parse.
type State struct {
	size   int
	cells  []int // row-major, row 0 = bottom
	score  int
	merges int

	empty []int // flat indices of empty cells
	slot  []int // slot[i] is the position of i in empty, or -1
	valid uint8 // bitmask of legal directions
}

// New returns an empty board of the given size.
func New(size int) (*State, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: size %d is below %d", ErrInvalidGrid, size, MinSize)
	}
	s := &State{
		size:  size,
		cells: make([]int, size*size),
		empty: make([]int, 0, size*size),
		slot:  make([]int, size*size),
	}
	s.rebuild()
	return s, nil
}

// NewGame returns a fresh board with two random tiles.
func NewGame(size int, rng Rand) (*State, error) {
	s, err := New(size)
	if err != nil {
		return nil, err
	}
	for range 2 {
		if _, _, err := s.AddRandomTile(rng); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FromGrid builds a board from rows of tile values, grid[0] being the
// bottom row. The score is set to the tile sum, which is what a game
// reaching this position would have accumulated; merges start at zero.
func FromGrid(grid [][]int) (*State, error) {
	n := len(grid)
	s, err := New(n)
	if err != nil {
		return nil, err
	}
	for r, row := range grid {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(row), n)
		}
		for c, v := range row {
			if !validTile(v) {
				return nil, fmt.Errorf("%w: value %d at (%d,%d)", ErrInvalidGrid, v, r, c)
			}
			s.cells[r*n+c] = v
			s.score += v
		}
	}
	s.rebuild()
	return s, nil
}

// validTile reports whether v is 0 or a power of two >= 2.
func validTile(v int) bool {
	return v == 0 || (v >= 2 && v&(v-1) == 0)
}

// Size returns the board dimension.
func (s *State) Size() int {
	return s.size
}

// At returns the tile value at (row, col); 0 means empty.
func (s *State) At(row, col int) int {
	return s.cells[row*s.size+col]
}

// Grid returns a copy of the tile values, grid[0] being the bottom row.
func (s *State) Grid() [][]int {
	grid := make([][]int, s.size)
	for r := range s.size {
		grid[r] = make([]int, s.size)
		copy(grid[r], s.cells[r*s.size:(r+1)*s.size])
	}
	return grid
}

// Score returns the sum of all spawned tile values.
func (s *State) Score() int {
	return s.score
}

// Merges returns the number of merge events since the board was created.
func (s *State) Merges() int {
	return s.merges
}

// MaxTile returns the largest tile value on the board.
func (s *State) MaxTile() int {
	maxVal := 0
	for _, v := range s.cells {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Sum returns the total of all tile values.
func (s *State) Sum() int {
	total := 0
	for _, v := range s.cells {
		total += v
	}
	return total
}

// EmptyCount returns the number of empty cells.
func (s *State) EmptyCount() int {
	return len(s.empty)
}

// EmptyCells returns the empty cells in row-major order.
func (s *State) EmptyCells() []Cell {
	cells := make([]Cell, 0, len(s.empty))
	for i, v := range s.cells {
		if v == 0 {
			cells = append(cells, Cell{Row: i / s.size, Col: i % s.size})
		}
	}
	return cells
}

// IsDead reports whether no empty cell remains. A dead board may still have
// merges available; use IsAbleToMove for game-over decisions.
func (s *State) IsDead() bool {
	return len(s.empty) == 0
}

// IsAbleToMove reports whether any direction is legal.
func (s *State) IsAbleToMove() bool {
	return s.valid != 0
}

// CanMove reports whether moving in d would change the board.
func (s *State) CanMove(d Direction) bool {
	return d.Valid() && s.valid&d.bit() != 0
}

// ValidMoves returns the legal directions in SearchOrder.
func (s *State) ValidMoves() []Direction {
	return s.AppendValidMoves(make([]Direction, 0, 4))
}

// AppendValidMoves appends the legal directions in SearchOrder to dst.
func (s *State) AppendValidMoves(dst []Direction) []Direction {
	for _, d := range SearchOrder {
		if s.valid&d.bit() != 0 {
			dst = append(dst, d)
		}
	}
	return dst
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := &State{
		size:   s.size,
		cells:  make([]int, len(s.cells)),
		score:  s.score,
		merges: s.merges,
		empty:  make([]int, len(s.empty), len(s.cells)),
		slot:   make([]int, len(s.slot)),
		valid:  s.valid,
	}
	copy(c.cells, s.cells)
	copy(c.empty, s.empty)
	copy(c.slot, s.slot)
	return c
}

// CopyFrom overwrites s with the contents of src, reusing s's storage when
// the sizes match.
func (s *State) CopyFrom(src *State) {
	if s.size != src.size {
		*s = *src.Clone()
		return
	}
	copy(s.cells, src.cells)
	s.empty = append(s.empty[:0], src.empty...)
	copy(s.slot, src.slot)
	s.score = src.score
	s.merges = src.merges
	s.valid = src.valid
}

// Equal reports whether both boards hold the same tiles.
func (s *State) Equal(o *State) bool {
	if s.size != o.size {
		return false
	}
	for i, v := range s.cells {
		if o.cells[i] != v {
			return false
		}
	}
	return true
}

// rebuild recomputes the empty set and the legal-move cache from the grid.
func (s *State) rebuild() {
	s.empty = s.empty[:0]
	for i, v := range s.cells {
		if v == 0 {
			s.slot[i] = len(s.empty)
			s.empty = append(s.empty, i)
		} else {
			s.slot[i] = -1
		}
	}
	s.valid = s.scanMoves()
}

func (s *State) markEmpty(i int) {
	if s.slot[i] >= 0 {
		return
	}
	s.slot[i] = len(s.empty)
	s.empty = append(s.empty, i)
}

func (s *State) markFilled(i int) {
	p := s.slot[i]
	if p < 0 {
		return
	}
	last := s.empty[len(s.empty)-1]
	s.empty[p] = last
	s.slot[last] = p
	s.empty = s.empty[:len(s.empty)-1]
	s.slot[i] = -1
}
