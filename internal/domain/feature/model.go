package feature

import (
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/domain/temporal"
)

// Form is a team's standings state before the match being described.
type Form struct {
	// Position is 0 until the team has played in the season.
	Position       int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Played         int
	Won            int
	Drawn          int
	Lost           int
}

// LineupRating is the mean roster rating of the resolved starters.
type LineupRating struct {
	Mean       float64
	Resolved   int
	Unresolved int
}

// Vector is one training row: a team's view of one match. Outcome is the
// label; everything else is known before kickoff.
type Vector struct {
	MatchID     string
	Competition string
	Season      string
	Matchday    int
	KickoffAt   time.Time
	Team        string
	Opponent    string
	Side        match.Side
	Outcome     match.Outcome

	Form         Form
	OpponentForm Form

	RestSeconds         int64
	OpponentRestSeconds int64
	Previous            [temporal.HistoryDepth]match.Outcome
	LastVsOpponent      match.Outcome
	KickoffHour         int

	Formation         string
	OpponentFormation string
	Lineup            LineupRating
	OpponentLineup    LineupRating
}

// Unresolved is a lineup name the resolver could not match in strict mode.
type Unresolved struct {
	MatchID   string
	Team      string
	Name      string
	BestScore float64
}
