package core

import (
	"testing"

	"github.com/vovakirdan/tileagent/internal/board"
)

func TestNewDecision(t *testing.T) {
	tests := []struct {
		name   string
		scores []MoveScore
		want   board.Direction
		ok     bool
	}{
		{
			name: "no moves",
			ok:   false,
		},
		{
			name:   "single move",
			scores: []MoveScore{{board.DirUp, 3}},
			want:   board.DirUp,
			ok:     true,
		},
		{
			name: "highest wins",
			scores: []MoveScore{
				{board.DirLeft, 1},
				{board.DirDown, 5},
				{board.DirRight, 2},
			},
			want: board.DirDown,
			ok:   true,
		},
		{
			name: "tie goes to the earliest",
			scores: []MoveScore{
				{board.DirLeft, 4},
				{board.DirRight, 4},
				{board.DirUp, 4},
			},
			want: board.DirLeft,
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecision(tt.scores, Stats{})
			if d.OK != tt.ok {
				t.Fatalf("OK = %v, want %v", d.OK, tt.ok)
			}
			if tt.ok && d.Direction != tt.want {
				t.Errorf("Direction = %s, want %s", d.Direction, tt.want)
			}
		})
	}
}

func TestStatsAdd(t *testing.T) {
	s := Stats{LeafEvaluations: 1, NodesExpanded: 2}
	s.Add(Stats{LeafEvaluations: 10, Rollouts: 3, Truncated: true})

	if s.LeafEvaluations != 11 || s.NodesExpanded != 2 || s.Rollouts != 3 || !s.Truncated {
		t.Errorf("Add() = %+v", s)
	}
}

func TestNewRandIsReproducible(t *testing.T) {
	a := NewRand(99, StreamBoard)
	b := NewRand(99, StreamBoard)
	c := NewRand(99, StreamAgent)

	same := true
	for range 16 {
		x, y, z := a.Uint64(), b.Uint64(), c.Uint64()
		if x != y {
			t.Fatal("same seed and stream produced different sequences")
		}
		if x != z {
			same = false
		}
	}
	if same {
		t.Error("different streams produced the same sequence")
	}
}

func TestResolveSeed(t *testing.T) {
	if got := ResolveSeed(7); got != 7 {
		t.Errorf("ResolveSeed(7) = %d", got)
	}
	if got := ResolveSeed(0); got == 0 {
		t.Error("ResolveSeed(0) should pick a non-zero seed")
	}
}
