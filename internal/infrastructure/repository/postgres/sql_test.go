package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3, 4, 5}
	got := chunks(items, 2)
	require.Len(t, got, 3)
	assert.Equal(t, []int{5}, got[2])
	assert.Empty(t, chunks([]int{}, 2))
}

func TestFeatureModelRoundTrip(t *testing.T) {
	t.Parallel()

	v := feature.Vector{
		MatchID:     "m1",
		Competition: "PL",
		Season:      "2017-18",
		Matchday:    3,
		KickoffAt:   time.Date(2017, 8, 26, 14, 0, 0, 0, time.UTC),
		Team:        "Arsenal",
		Opponent:    "Liverpool",
		Side:        match.SideAway,
		Outcome:     match.OutcomeLoss,
		Form:        feature.Form{Position: 4, Points: 3, Played: 2},
		Previous:    [3]match.Outcome{match.OutcomeLoss, match.OutcomeWin, match.OutcomeNone},
		Formation:   "4-3-3",
		Lineup:      feature.LineupRating{Mean: 81.5, Resolved: 11},
	}

	model, err := featureToInsert("PL", "2017-18", v)
	require.NoError(t, err)
	assert.Equal(t, "m1", model.MatchID)
	assert.Equal(t, "Arsenal", model.Team)

	got, err := featureFromRow(featureTableModel{MatchID: model.MatchID, Team: model.Team, Payload: []byte(model.Payload)})
	require.NoError(t, err)
	assert.True(t, got.KickoffAt.Equal(v.KickoffAt))
	got.KickoffAt = v.KickoffAt
	assert.Equal(t, v, got)
}

func TestStandingModelMapping(t *testing.T) {
	t.Parallel()

	row := standing.Row{Team: "Leicester", Matchday: 5, Position: 12, Points: 6, GoalsFor: 7, GoalsAgainst: 8, GoalDifference: -1, Played: 5, Won: 2, Lost: 3}
	insert := standingToInsert("PL", "2017-18", row)
	assert.Equal(t, "PL", insert.Competition)
	assert.Equal(t, 12, insert.Position)

	back := standingFromRow(standingTableModel{
		Competition: insert.Competition, Season: insert.Season, Team: insert.Team, Matchday: insert.Matchday,
		Position: insert.Position, Points: insert.Points, GoalsFor: insert.GoalsFor, GoalsAgainst: insert.GoalsAgainst,
		GoalDifference: insert.GoalDifference, Played: insert.Played, Won: insert.Won, Drawn: insert.Drawn, Lost: insert.Lost,
	})
	row.Competition, row.Season = "PL", "2017-18"
	assert.Equal(t, row, back)
}
