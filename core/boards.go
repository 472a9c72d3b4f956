package core

// The boards that each competitor has played on,
// indexed by competitor ID
type BoardUsage map[string]map[int]bool

// Collects the boards of the competitors from the matches.
// The phantom does not occupy a board.
func BoardUsageFrom(matches []*Match) BoardUsage {
	usage := make(BoardUsage)
	for _, m := range matches {
		usage.add(m.Competitor1, m.Board)
		if c2 := m.Competitor2.Competitor(); c2 != nil {
			usage.add(c2, m.Board)
		}
	}
	return usage
}

func (u BoardUsage) add(c *Competitor, board int) {
	boards, ok := u[c.ID]
	if !ok {
		boards = make(map[int]bool)
		u[c.ID] = boards
	}
	boards[board] = true
}

// Returns true when one of the competitors of the match
// already played on the board
func (u BoardUsage) usedBy(m *Match, board int) bool {
	if u[m.Competitor1.ID][board] {
		return true
	}
	c2 := m.Competitor2.Competitor()
	return c2 != nil && u[c2.ID][board]
}

// Returns the board numbers 1 to n
func BoardRange(n int) []int {
	boards := make([]int, 0, n)
	for b := 1; b <= n; b++ {
		boards = append(boards, b)
	}
	return boards
}

// Assigns a distinct board from the available boards to each match
// so that, where possible, no competitor plays on the same board twice.
//
// Each match first tries the boards that neither of its competitors
// used before. If none of them leads to a complete assignment the
// match takes the first available board regardless.
// This always succeeds when there are at least as many boards as
// matches. Otherwise false is returned and the boards of the
// matches are undefined.
func AssignBoards(matches []*Match, usage BoardUsage, boards []int) bool {
	if len(matches) == 0 {
		return true
	}
	if len(boards) == 0 {
		return false
	}

	match := matches[0]
	for i, b := range boards {
		if usage.usedBy(match, b) {
			continue
		}
		match.Board = b
		if AssignBoards(matches[1:], usage, withoutBoard(boards, i)) {
			return true
		}
	}

	match.Board = boards[0]
	return AssignBoards(matches[1:], usage, boards[1:])
}

func withoutBoard(boards []int, i int) []int {
	reduced := make([]int, 0, len(boards)-1)
	reduced = append(reduced, boards[:i]...)
	reduced = append(reduced, boards[i+1:]...)
	return reduced
}
