package board

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestAddRandomTile(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))

	for i := range 100 {
		s := randomBoard(t, rng, i%40)
		if s.IsDead() {
			continue
		}
		before := s.Clone()

		cell, value, err := s.AddRandomTile(rng)
		if err != nil {
			t.Fatalf("AddRandomTile() failed: %v", err)
		}
		if value != 2 && value != 4 {
			t.Fatalf("spawned value %d, want 2 or 4", value)
		}
		if before.At(cell.Row, cell.Col) != 0 {
			t.Fatalf("spawned on occupied cell %v", cell)
		}
		if s.At(cell.Row, cell.Col) != value {
			t.Fatalf("cell %v = %d, want %d", cell, s.At(cell.Row, cell.Col), value)
		}
		if s.Score() != before.Score()+value {
			t.Fatalf("score %d -> %d after spawning %d", before.Score(), s.Score(), value)
		}
		if s.EmptyCount() != before.EmptyCount()-1 {
			t.Fatalf("empty count %d -> %d", before.EmptyCount(), s.EmptyCount())
		}
		checkCaches(t, s)
	}
}

func TestAddRandomTileFullBoard(t *testing.T) {
	s := mustGrid(t, [][]int{
		{2, 4},
		{4, 2},
	})
	rng := rand.New(rand.NewPCG(1, 1))

	if _, _, err := s.AddRandomTile(rng); !errors.Is(err, ErrIllegalOperation) {
		t.Errorf("AddRandomTile() on full board error = %v, want ErrIllegalOperation", err)
	}
	if s.Score() != 12 {
		t.Errorf("failed spawn changed score to %d", s.Score())
	}
}

func TestSpawnDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(2024, 7))
	empty, _ := New(DefaultSize)
	s := empty.Clone()

	const trials = 20000
	fours := 0
	for range trials {
		s.CopyFrom(empty)
		_, value, err := s.AddRandomTile(rng)
		if err != nil {
			t.Fatalf("AddRandomTile() failed: %v", err)
		}
		if value == 4 {
			fours++
		}
	}

	ratio := float64(fours) / trials
	if ratio < 0.08 || ratio > 0.12 {
		t.Errorf("share of 4s = %.3f, want about %.1f", ratio, Spawn4Prob)
	}
}

func TestPlaceTile(t *testing.T) {
	s := mustGrid(t, [][]int{
		{2, 0},
		{0, 0},
	})

	tests := []struct {
		name  string
		cell  Cell
		value int
		ok    bool
	}{
		{"empty cell", Cell{Row: 1, Col: 1}, 4, true},
		{"occupied cell", Cell{Row: 0, Col: 0}, 2, false},
		{"off board", Cell{Row: 2, Col: 0}, 2, false},
		{"negative index", Cell{Row: 0, Col: -1}, 2, false},
		{"bad value", Cell{Row: 0, Col: 1}, 3, false},
		{"zero value", Cell{Row: 0, Col: 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.PlaceTile(tt.cell, tt.value)
			if tt.ok && err != nil {
				t.Fatalf("PlaceTile(%v, %d) failed: %v", tt.cell, tt.value, err)
			}
			if !tt.ok && !errors.Is(err, ErrIllegalOperation) {
				t.Fatalf("PlaceTile(%v, %d) error = %v, want ErrIllegalOperation", tt.cell, tt.value, err)
			}
			checkCaches(t, s)
		})
	}

	if s.Score() != 6 {
		t.Errorf("Score() = %d, want 6", s.Score())
	}
}

func TestSpawnRestoresMoves(t *testing.T) {
	// A lone tile in the corner cannot move down or left.
	s := mustGrid(t, [][]int{
		{2, 0},
		{0, 0},
	})
	if s.CanMove(DirDown) || s.CanMove(DirLeft) {
		t.Fatal("corner tile should not move down or left")
	}
	if err := s.PlaceTile(Cell{Row: 1, Col: 1}, 2); err != nil {
		t.Fatalf("PlaceTile() failed: %v", err)
	}
	if !s.CanMove(DirDown) || !s.CanMove(DirLeft) {
		t.Error("spawned tile should open DOWN and LEFT")
	}
}
