package postgres

import (
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/standing"
)

type standingTableModel struct {
	ID             int64     `db:"id"`
	Competition    string    `db:"competition"`
	Season         string    `db:"season"`
	Team           string    `db:"team"`
	Matchday       int       `db:"matchday"`
	Position       int       `db:"position"`
	Points         int       `db:"points"`
	GoalsFor       int       `db:"goals_for"`
	GoalsAgainst   int       `db:"goals_against"`
	GoalDifference int       `db:"goal_difference"`
	Played         int       `db:"played"`
	Won            int       `db:"won"`
	Drawn          int       `db:"drawn"`
	Lost           int       `db:"lost"`
	CreatedAt      time.Time `db:"created_at"`
}

type standingInsertModel struct {
	Competition    string `db:"competition"`
	Season         string `db:"season"`
	Team           string `db:"team"`
	Matchday       int    `db:"matchday"`
	Position       int    `db:"position"`
	Points         int    `db:"points"`
	GoalsFor       int    `db:"goals_for"`
	GoalsAgainst   int    `db:"goals_against"`
	GoalDifference int    `db:"goal_difference"`
	Played         int    `db:"played"`
	Won            int    `db:"won"`
	Drawn          int    `db:"drawn"`
	Lost           int    `db:"lost"`
}

var standingColumns = []string{
	"id", "competition", "season", "team", "matchday", "position", "points",
	"goals_for", "goals_against", "goal_difference", "played", "won", "drawn", "lost", "created_at",
}

func standingFromRow(row standingTableModel) standing.Row {
	return standing.Row{
		Competition:    row.Competition,
		Season:         row.Season,
		Team:           row.Team,
		Matchday:       row.Matchday,
		Position:       row.Position,
		Points:         row.Points,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
	}
}

func standingToInsert(competition, season string, row standing.Row) standingInsertModel {
	return standingInsertModel{
		Competition:    competition,
		Season:         season,
		Team:           row.Team,
		Matchday:       row.Matchday,
		Position:       row.Position,
		Points:         row.Points,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
	}
}
