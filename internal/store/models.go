package store

import (
	"time"

	"github.com/uptrace/bun"
)

// Tournament is the stored state and configuration of a tournament.
type Tournament struct {
	bun.BaseModel `bun:"table:swiss_tournaments,alias:t"`

	ID              string    `bun:"id,pk,type:uuid"`
	Description     string    `bun:"description,notnull,default:''"`
	Date            time.Time `bun:"date,nullzero"`
	Finals          int       `bun:"finals,notnull,default:0"`
	FinalKind       string    `bun:"final_kind,notnull"`
	Couplings       string    `bun:"couplings,notnull"`
	Rated           bool      `bun:"rated,notnull,default:false"`
	DelayTopPairing int       `bun:"delay_top_pairing,notnull,default:0"`
	PhantomScore    int       `bun:"phantom_score,notnull,default:0"`
	Seed            int64     `bun:"seed,notnull,default:0"`
	PrizeStrategy   string    `bun:"prize_strategy,notnull"` // championship prize-giving
	CurrentTurn     int       `bun:"current_turn,notnull,default:0"`
	RankedTurn      int       `bun:"ranked_turn,notnull,default:0"`
	Prized          bool      `bun:"prized,notnull,default:false"`
	FinalTurns      bool      `bun:"final_turns,notnull,default:false"`
	Modified        time.Time `bun:"modified,nullzero,notnull,default:current_timestamp"`
}

// Player is one member of a competitor.
type Player struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Competitor is a competitor of a tournament with its ranking fields.
type Competitor struct {
	bun.BaseModel `bun:"table:swiss_competitors,alias:c"`

	TournamentID string   `bun:"tournament_id,pk,type:uuid"`
	CompetitorID string   `bun:"competitor_id,pk"`
	Position     int      `bun:"position,notnull"` // registration order
	Players      []Player `bun:"players,type:jsonb,notnull"`
	Points       int      `bun:"points,notnull,default:0"`
	Bucholz      int      `bun:"bucholz,notnull,default:0"`
	NetScore     int      `bun:"net_score,notnull,default:0"`
	TotScore     int      `bun:"tot_score,notnull,default:0"`
	Prize        float64  `bun:"prize,notnull,default:0"`
	Retired      bool     `bun:"retired,notnull,default:false"`
}

// Match is a match of a tournament. An empty Competitor2ID
// is a match against the phantom.
type Match struct {
	bun.BaseModel `bun:"table:swiss_matches,alias:m"`

	TournamentID  string `bun:"tournament_id,pk,type:uuid"`
	Turn          int    `bun:"turn,pk"`
	Board         int    `bun:"board,pk"`
	Final         bool   `bun:"final,notnull,default:false"`
	Competitor1ID string `bun:"competitor1_id,notnull"`
	Competitor2ID string `bun:"competitor2_id,nullzero"`
	Score1        int    `bun:"score1,notnull,default:0"`
	Score2        int    `bun:"score2,notnull,default:0"`
}
