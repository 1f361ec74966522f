package board

import "fmt"

// Spawn probabilities: a new tile is a 4 with probability Spawn4Prob,
// otherwise a 2.
const (
	Spawn2Prob = 0.9
	Spawn4Prob = 0.1
)

// SpawnOutcome is one possible result of a random spawn.
type SpawnOutcome struct {
	Value int
	Prob  float64
}

// SpawnOutcomes lists the spawnable values with their probabilities.
var SpawnOutcomes = [2]SpawnOutcome{
	{Value: 2, Prob: Spawn2Prob},
	{Value: 4, Prob: Spawn4Prob},
}

// Rand is the entropy the spawner needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// AddRandomTile places a 2 or a 4 on a uniformly chosen empty cell and adds
// its value to the score. It fails with ErrIllegalOperation on a full board.
func (s *State) AddRandomTile(rng Rand) (Cell, int, error) {
	if len(s.empty) == 0 {
		return Cell{}, 0, fmt.Errorf("%w: spawn on a full board", ErrIllegalOperation)
	}

	i := s.empty[rng.IntN(len(s.empty))]
	value := 2
	if rng.Float64() < Spawn4Prob {
		value = 4
	}
	s.place(i, value)
	return Cell{Row: i / s.size, Col: i % s.size}, value, nil
}

// PlaceTile puts value on an empty cell with the same bookkeeping as a
// random spawn.
func (s *State) PlaceTile(c Cell, value int) error {
	if c.Row < 0 || c.Row >= s.size || c.Col < 0 || c.Col >= s.size {
		return fmt.Errorf("%w: cell (%d,%d) is off the board", ErrIllegalOperation, c.Row, c.Col)
	}
	if value == 0 || !validTile(value) {
		return fmt.Errorf("%w: tile value %d", ErrIllegalOperation, value)
	}
	i := c.Row*s.size + c.Col
	if s.cells[i] != 0 {
		return fmt.Errorf("%w: cell (%d,%d) is occupied", ErrIllegalOperation, c.Row, c.Col)
	}
	s.place(i, value)
	return nil
}

func (s *State) place(i, value int) {
	s.cells[i] = value
	s.score += value
	s.markFilled(i)
	s.valid = s.scanMoves()
}
