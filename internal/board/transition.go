package board

// lineGeometry returns the flat index of the target-edge cell of a line and
// the stride toward the far edge.
func lineGeometry(d Direction, line, n int) (start, step int) {
	switch d {
	case DirLeft:
		return line * n, 1
	case DirRight:
		return line*n + n - 1, -1
	case DirDown:
		return line, n
	default: // DirUp
		return (n-1)*n + line, -n
	}
}

// Transition returns a copy of the board moved in direction d and the number
// of merges the move produced. The receiver is not modified. An illegal
// direction yields an unchanged copy and zero merges.
func (s *State) Transition(d Direction) (*State, int) {
	next := s.Clone()
	merges := next.TransitionInPlace(d)
	return next, merges
}

// TransitionInPlace moves the board in direction d, keeping the empty-cell
// set up to date tile by tile, and returns the merges produced. An illegal
// direction is a no-op.
func (s *State) TransitionInPlace(d Direction) int {
	if !s.CanMove(d) {
		return 0
	}

	n := s.size
	merges := 0
	for line := range n {
		start, step := lineGeometry(d, line, n)
		settle := 0
		for k := 1; k < n; k++ {
			src := start + k*step
			cur := s.cells[src]
			if cur == 0 {
				continue
			}

			// settle < k holds here, so settle+1 never leaves the line.
			dst := start + settle*step
			switch {
			case s.cells[dst] == 0:
				s.moveTile(src, dst)
			case s.cells[dst] == cur && settle != k:
				s.moveTile(src, dst)
				merges++
				settle++
			case s.cells[dst+step] == 0:
				s.moveTile(src, dst+step)
				settle++
			default:
				settle = k
			}
		}
	}

	s.merges += merges
	s.valid = s.scanMoves()
	return merges
}

// moveTile adds the value at src into dst and clears src.
func (s *State) moveTile(src, dst int) {
	s.cells[dst] += s.cells[src]
	s.cells[src] = 0
	s.markFilled(dst)
	s.markEmpty(src)
}

// scanMoves computes the legal-move bitmask from scratch: a direction is
// legal when some tile has an empty or equal neighbour on that side.
func (s *State) scanMoves() uint8 {
	n := s.size
	var mask uint8
	for r := range n {
		for c := range n {
			cur := s.cells[r*n+c]
			if cur == 0 {
				continue
			}
			if c > 0 && opens(s.cells[r*n+c-1], cur) {
				mask |= DirLeft.bit()
			}
			if c < n-1 && opens(s.cells[r*n+c+1], cur) {
				mask |= DirRight.bit()
			}
			if r > 0 && opens(s.cells[(r-1)*n+c], cur) {
				mask |= DirDown.bit()
			}
			if r < n-1 && opens(s.cells[(r+1)*n+c], cur) {
				mask |= DirUp.bit()
			}
		}
	}
	return mask
}

func opens(adj, cur int) bool {
	return adj == 0 || adj == cur
}
