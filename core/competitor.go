package core

import "strings"

// The maximum number of players that form one competitor
// (singles, doubles or teams).
const MaxPlayers = 4

// A Player is a person who takes part in a tournament
// as (part of) a Competitor.
type Player struct {
	ID        string
	FirstName string
	LastName  string
}

// A Competitor is either a single player or a team of up to
// MaxPlayers players.
//
// The identity and the players of a competitor never change
// once it appears in a Match. The ranking fields are updated
// by Tournament.UpdateRanking and the prize by the prize-giving.
type Competitor struct {
	ID string

	// Unused slots beyond the competitor's arity are nil
	Players [MaxPlayers]*Player

	Points   int
	Bucholz  int
	NetScore int
	TotScore int
	Prize    float64

	// A retired competitor is no longer paired but
	// stays in the historical matches
	Retired bool
}

func NewCompetitor(id string, players ...*Player) *Competitor {
	c := &Competitor{ID: id}
	copy(c.Players[:], players)
	return c
}

// Returns the players that are present in the competitor
func (c *Competitor) Members() []*Player {
	members := make([]*Player, 0, MaxPlayers)
	for _, p := range c.Players {
		if p != nil {
			members = append(members, p)
		}
	}
	return members
}

// The key used to order competitors by name, surname first
func (c *Competitor) nameKey() string {
	var sb strings.Builder
	for _, p := range c.Members() {
		sb.WriteString(strings.ToLower(p.LastName))
		sb.WriteRune('\x00')
		sb.WriteString(strings.ToLower(p.FirstName))
		sb.WriteRune('\x01')
	}
	return sb.String()
}

func (c *Competitor) String() string {
	members := c.Members()
	if len(members) == 0 {
		return c.ID
	}

	names := make([]string, 0, len(members))
	for _, p := range members {
		names = append(names, strings.TrimSpace(p.FirstName+" "+p.LastName))
	}
	return strings.Join(names, "/")
}

// The phantom key is never a valid competitor ID
// because competitor keys carry a prefix.
const byeKey = "bye"

// An Opponent is one side of a match. It is either a
// Competitor or the phantom (a bye) which balances an
// odd number of competitors in a round.
//
// The zero value is the phantom.
type Opponent struct {
	competitor *Competitor
}

// Returns an Opponent for the given competitor
func Against(c *Competitor) Opponent {
	return Opponent{competitor: c}
}

// Returns the phantom Opponent
func Bye() Opponent {
	return Opponent{}
}

func (o Opponent) IsBye() bool {
	return o.competitor == nil
}

// Returns the competitor or nil when the opponent is the phantom
func (o Opponent) Competitor() *Competitor {
	return o.competitor
}

// Returns true when the opponent is the given competitor
func (o Opponent) Is(c *Competitor) bool {
	return o.competitor != nil && c != nil && o.competitor.ID == c.ID
}

// A unique key among the opponents of a tournament
func (o Opponent) key() string {
	if o.competitor == nil {
		return byeKey
	}
	return "c:" + o.competitor.ID
}

func (o Opponent) String() string {
	if o.competitor == nil {
		return "[Phantom]"
	}
	return o.competitor.String()
}

// Wraps each competitor in an Opponent and appends the
// phantom when the number of competitors is odd so
// the result is guaranteed to have an even length.
func evenEntries(competitors []*Competitor) []Opponent {
	entries := make([]Opponent, 0, len(competitors)+1)
	for _, c := range competitors {
		entries = append(entries, Against(c))
	}
	if len(entries)%2 != 0 {
		entries = append(entries, Bye())
	}
	return entries
}
