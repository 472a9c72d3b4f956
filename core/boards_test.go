package core

import (
	"slices"
	"testing"
)

func boardsOf(matches []*Match) []int {
	boards := make([]int, 0, len(matches))
	for _, m := range matches {
		boards = append(boards, m.Board)
	}
	return boards
}

func pairMatches(competitors []*Competitor) []*Match {
	matches := make([]*Match, 0, len(competitors)/2)
	for i := 0; i+1 < len(competitors); i += 2 {
		matches = append(matches, NewMatch(1, 0, competitors[i], Against(competitors[i+1])))
	}
	return matches
}

func TestAssignBoards(t *testing.T) {
	matches := pairMatches(CompetitorSlice(8))

	ok := AssignBoards(matches, BoardUsage{}, BoardRange(4))
	if !ok {
		t.Fatal("assigning as many boards as matches failed")
	}

	boards := boardsOf(matches)
	slices.Sort(boards)
	if !slices.Equal(boards, []int{1, 2, 3, 4}) {
		t.Fatalf("boards are not distinct: %v", boards)
	}
}

func TestAssignBoardsAvoidsReuse(t *testing.T) {
	competitors := CompetitorSlice(4)
	matches := pairMatches(competitors)

	usage := BoardUsage{}
	usage.add(competitors[0], 1)
	usage.add(competitors[2], 2)

	AssignBoards(matches, usage, BoardRange(2))

	if matches[0].Board != 2 || matches[1].Board != 1 {
		t.Fatalf("competitors were put on used boards: %v", boardsOf(matches))
	}
}

func TestAssignBoardsFallback(t *testing.T) {
	competitors := CompetitorSlice(4)
	matches := pairMatches(competitors)

	usage := BoardUsage{}
	for _, c := range competitors {
		usage.add(c, 1)
		usage.add(c, 2)
	}

	if !AssignBoards(matches, usage, BoardRange(2)) {
		t.Fatal("assigning used boards failed")
	}
	if !slices.Equal(boardsOf(matches), []int{1, 2}) {
		t.Fatalf("fallback did not take the first available boards: %v", boardsOf(matches))
	}
}

func TestAssignBoardsTooFewBoards(t *testing.T) {
	matches := pairMatches(CompetitorSlice(6))
	if AssignBoards(matches, BoardUsage{}, BoardRange(2)) {
		t.Fatal("assigning fewer boards than matches succeeded")
	}
}

func TestBoardUsageFrom(t *testing.T) {
	competitors := CompetitorSlice(3)
	a, b, c := competitors[0], competitors[1], competitors[2]

	usage := BoardUsageFrom([]*Match{
		NewMatch(1, 1, a, Against(b)),
		NewMatch(1, 2, c, Bye()),
		NewMatch(2, 2, a, Against(c)),
	})

	if !usage[a.ID][1] || !usage[a.ID][2] || !usage[b.ID][1] || !usage[c.ID][2] {
		t.Fatal("board usage is incomplete")
	}
	if len(usage) != 3 {
		t.Fatal("the phantom occupies a board")
	}
}
