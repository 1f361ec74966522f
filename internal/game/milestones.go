// Package game drives the puzzle with an agent: one game per Session, many
// seeded games per Bench.
package game

// Milestone is a tile value whose first appearance is logged during play and
// counted by Bench.
type Milestone struct {
	ID     int
	Name   string
	Target int // Tile value to reach
}

// Milestones lists the tile targets in increasing order.
// 8192 is very hard but achievable on a 4x4 board.
var Milestones = []Milestone{
	{ID: 1, Name: "Warm-up", Target: 128},
	{ID: 2, Name: "Getting Started", Target: 256},
	{ID: 3, Name: "Building Momentum", Target: 512},
	{ID: 4, Name: "The Climb", Target: 1024},
	{ID: 5, Name: "Classic 2048", Target: 2048},
	{ID: 6, Name: "Beyond Limits", Target: 4096},
	{ID: 7, Name: "Master Class", Target: 8192},
}

// MilestoneCount returns the number of milestones.
func MilestoneCount() int {
	return len(Milestones)
}

// GetMilestone returns the milestone at the given index (0-based).
// Returns nil if index is out of range.
func GetMilestone(index int) *Milestone {
	if index < 0 || index >= len(Milestones) {
		return nil
	}
	return &Milestones[index]
}

// MilestonesReached returns how many milestones a board with the given
// largest tile has passed.
func MilestonesReached(maxTile int) int {
	n := 0
	for _, m := range Milestones {
		if maxTile < m.Target {
			break
		}
		n++
	}
	return n
}

// HighestMilestone returns the best milestone reached, or nil for none.
func HighestMilestone(maxTile int) *Milestone {
	return GetMilestone(MilestonesReached(maxTile) - 1)
}
