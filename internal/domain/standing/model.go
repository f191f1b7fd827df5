package standing

import (
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

// TeamMatchRow is one team's perspective on a single match. Every scored
// match yields exactly two, with goals mirrored.
type TeamMatchRow struct {
	MatchID        string
	Team           string
	Opponent       string
	Side           match.Side
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Played         int
	Won            int
	Drawn          int
	Lost           int
	Outcome        match.Outcome
	Matchday       int
	KickoffAt      time.Time
}

// Row is a team's accumulated league record as it stood after Matchday.
// A Row with Matchday 0 is the zero state before the team's first match.
type Row struct {
	Competition    string
	Season         string
	Team           string
	Matchday       int
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

func (r *Row) add(other Row) {
	r.Points += other.Points
	r.GoalsFor += other.GoalsFor
	r.GoalsAgainst += other.GoalsAgainst
	r.GoalDifference += other.GoalDifference
	r.Played += other.Played
	r.Won += other.Won
	r.Drawn += other.Drawn
	r.Lost += other.Lost
}

func (r *Row) addMatch(tm TeamMatchRow) {
	r.add(Row{
		Points:         tm.Points,
		GoalsFor:       tm.GoalsFor,
		GoalsAgainst:   tm.GoalsAgainst,
		GoalDifference: tm.GoalDifference,
		Played:         tm.Played,
		Won:            tm.Won,
		Drawn:          tm.Drawn,
		Lost:           tm.Lost,
	})
}

// Less is the presentation order inside one matchday:
// points desc, goal difference desc, team name asc.
func Less(a, b Row) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return a.GoalDifference > b.GoalDifference
	}
	return a.Team < b.Team
}
