package lineup

import (
	"strings"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefense    Position = "defense"
	PositionMidfield   Position = "midfield"
	PositionForward    Position = "forward"
)

// Player is a free-text name as the vendor printed it.
type Player struct {
	Name     string
	Position Position
}

// Entry is one side's starting lineup for a match. Player order inside a
// position group follows the vendor string and is not guaranteed stable.
type Entry struct {
	MatchID   string
	Side      match.Side
	Team      string
	Formation string
	Players   []Player
}

func (e Entry) Names() []string {
	out := make([]string, 0, len(e.Players))
	for _, p := range e.Players {
		out = append(out, p.Name)
	}
	return out
}

// Groups holds the raw semicolon-delimited vendor strings per position.
type Groups struct {
	Goalkeeper string
	Defense    string
	Midfield   string
	Forward    string
}

func (g Groups) Empty() bool {
	return strings.TrimSpace(g.Goalkeeper+g.Defense+g.Midfield+g.Forward) == ""
}

// Parse splits each group on ';' in goalkeeper, defense, midfield, forward
// order, trimming names and dropping empty segments.
func (g Groups) Parse() []Player {
	out := make([]Player, 0, 11)
	out = appendGroup(out, g.Goalkeeper, PositionGoalkeeper)
	out = appendGroup(out, g.Defense, PositionDefense)
	out = appendGroup(out, g.Midfield, PositionMidfield)
	out = appendGroup(out, g.Forward, PositionForward)
	return out
}

func appendGroup(out []Player, raw string, pos Position) []Player {
	for _, part := range strings.Split(raw, ";") {
		name := strings.Join(strings.Fields(part), " ")
		if name == "" {
			continue
		}
		out = append(out, Player{Name: name, Position: pos})
	}
	return out
}
