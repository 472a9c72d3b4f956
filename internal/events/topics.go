package events

import "github.com/ezBadminton/goswiss/core"

const (
	TopicTournamentCreated  = "swiss.tournament.created"
	TopicTournamentReplayed = "swiss.tournament.replayed"
	TopicCompetitorChanged  = "swiss.competitor.changed"
	TopicTurnCreated        = "swiss.turn.created"
	TopicResultRecorded     = "swiss.result.recorded"
	TopicPrizesAssigned     = "swiss.prizes.assigned"
	TopicPrizesReset        = "swiss.prizes.reset"
)

// Topics lists every topic the service publishes on.
var Topics = []string{
	TopicTournamentCreated,
	TopicTournamentReplayed,
	TopicCompetitorChanged,
	TopicTurnCreated,
	TopicResultRecorded,
	TopicPrizesAssigned,
	TopicPrizesReset,
}

// Competitor changes
const (
	CompetitorAdded     = "added"
	CompetitorRetired   = "retired"
	CompetitorReentered = "reentered"
)

type TournamentPayload struct {
	TournamentID string `json:"tournament_id"`
	Description  string `json:"description"`
	Competitors  int    `json:"competitors"`
}

type ReplayedPayload struct {
	TournamentID string `json:"tournament_id"`
	ReplayID     string `json:"replay_id"`
}

type CompetitorPayload struct {
	TournamentID string `json:"tournament_id"`
	CompetitorID string `json:"competitor_id"`
	Change       string `json:"change"`
}

// MatchPayload describes a match. An empty Competitor2ID is the phantom.
type MatchPayload struct {
	Turn          int    `json:"turn"`
	Board         int    `json:"board"`
	Final         bool   `json:"final"`
	Competitor1ID string `json:"competitor1_id"`
	Competitor2ID string `json:"competitor2_id,omitempty"`
	Score1        int    `json:"score1"`
	Score2        int    `json:"score2"`
}

type TurnCreatedPayload struct {
	TournamentID string         `json:"tournament_id"`
	Turn         int            `json:"turn"`
	Final        bool           `json:"final"`
	Matches      []MatchPayload `json:"matches"`
}

type ResultRecordedPayload struct {
	TournamentID string       `json:"tournament_id"`
	Match        MatchPayload `json:"match"`
	RankingStale bool         `json:"ranking_stale"`
}

type PrizePayload struct {
	CompetitorID string  `json:"competitor_id"`
	Rank         int     `json:"rank"`
	Prize        float64 `json:"prize"`
}

type PrizesAssignedPayload struct {
	TournamentID string         `json:"tournament_id"`
	Strategy     string         `json:"strategy"`
	Prizes       []PrizePayload `json:"prizes"`
}

type PrizesResetPayload struct {
	TournamentID string `json:"tournament_id"`
}

func NewMatchPayload(m *core.Match) MatchPayload {
	payload := MatchPayload{
		Turn:          m.Turn,
		Board:         m.Board,
		Final:         m.Final,
		Competitor1ID: m.Competitor1.ID,
		Score1:        m.Score1,
		Score2:        m.Score2,
	}
	if c := m.Competitor2.Competitor(); c != nil {
		payload.Competitor2ID = c.ID
	}
	return payload
}

func NewTurnCreatedPayload(tournamentID string, matches []*core.Match) TurnCreatedPayload {
	payload := TurnCreatedPayload{
		TournamentID: tournamentID,
		Matches:      make([]MatchPayload, 0, len(matches)),
	}
	for _, m := range matches {
		payload.Turn = m.Turn
		payload.Final = payload.Final || m.Final
		payload.Matches = append(payload.Matches, NewMatchPayload(m))
	}
	return payload
}

// NewPrizesAssignedPayload lists the prizes in ranking order.
func NewPrizesAssignedPayload(tournamentID string, strategy core.PrizeStrategy, ranking []*core.Competitor) PrizesAssignedPayload {
	payload := PrizesAssignedPayload{
		TournamentID: tournamentID,
		Strategy:     strategy.String(),
		Prizes:       make([]PrizePayload, 0, len(ranking)),
	}
	for i, c := range ranking {
		payload.Prizes = append(payload.Prizes, PrizePayload{
			CompetitorID: c.ID,
			Rank:         i + 1,
			Prize:        c.Prize,
		})
	}
	return payload
}
