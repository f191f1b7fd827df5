package standing

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseKickoff = time.Date(2017, 8, 12, 14, 0, 0, 0, time.UTC)

func record(id string, matchday int, home, away string, homeGoals, awayGoals int) match.Record {
	return match.Record{
		ID:          id,
		HomeTeam:    home,
		AwayTeam:    away,
		HomeGoals:   match.IntPtr(homeGoals),
		AwayGoals:   match.IntPtr(awayGoals),
		Matchday:    matchday,
		KickoffAt:   baseKickoff.Add(time.Duration(matchday) * 7 * 24 * time.Hour),
		Competition: "Premier League",
		Season:      "17-18",
	}
}

func scenario() []match.Record {
	return []match.Record{
		record("1", 1, "TeamA", "TeamB", 2, 1),
		record("2", 1, "TeamC", "TeamD", 0, 0),
		record("3", 2, "TeamA", "TeamC", 1, 3),
	}
}

func rowsAt(rows []Row, matchday int) []Row {
	out := make([]Row, 0)
	for _, row := range rows {
		if row.Matchday == matchday {
			out = append(out, row)
		}
	}
	return out
}

func TestExpand_PairInvariants(t *testing.T) {
	t.Parallel()

	scores := [][2]int{{0, 0}, {1, 0}, {0, 1}, {4, 3}, {2, 2}, {0, 7}}
	for _, score := range scores {
		score := score
		t.Run(fmt.Sprintf("%d-%d", score[0], score[1]), func(t *testing.T) {
			t.Parallel()

			pair, err := Expand(record("x", 3, "Home", "Away", score[0], score[1]))
			require.NoError(t, err)

			home, away := pair[0], pair[1]
			assert.Equal(t, match.SideHome, home.Side)
			assert.Equal(t, match.SideAway, away.Side)
			assert.Equal(t, home.GoalsFor, away.GoalsAgainst)
			assert.Equal(t, home.GoalsAgainst, away.GoalsFor)
			assert.Equal(t, -home.GoalDifference, away.GoalDifference)
			assert.Equal(t, 1, home.Played)
			assert.Equal(t, 1, away.Played)

			total := home.Points + away.Points
			if score[0] == score[1] {
				assert.Equal(t, 2, total)
			} else {
				assert.Equal(t, 3, total)
			}
		})
	}
}

func TestExpand_RejectsMissingGoals(t *testing.T) {
	t.Parallel()

	rec := record("x", 1, "Home", "Away", 1, 0)
	rec.AwayGoals = nil

	_, err := Expand(rec)
	require.Error(t, err)
	assert.True(t, match.IsMalformed(err))
}

func TestBuild_ScenarioTableAfterMatchdayTwo(t *testing.T) {
	t.Parallel()

	result, err := Build(scenario(), Options{})
	require.NoError(t, err)
	require.Equal(t, 3, result.Report.Processed)
	require.Len(t, result.Rows, 6)

	day1 := rowsAt(result.Rows, 1)
	require.Len(t, day1, 4)
	assert.Equal(t, []string{"TeamA", "TeamC", "TeamD", "TeamB"}, teamsOf(day1))

	day2 := rowsAt(result.Rows, 2)
	require.Len(t, day2, 2)
	assert.Equal(t, "TeamC", day2[0].Team)
	assert.Equal(t, 4, day2[0].Points)
	assert.Equal(t, 2, day2[0].GoalDifference)
	assert.Equal(t, 2, day2[0].Played)
	assert.Equal(t, 1, day2[0].Won)
	assert.Equal(t, 1, day2[0].Drawn)
	assert.Equal(t, 1, day2[0].Position)

	assert.Equal(t, "TeamA", day2[1].Team)
	assert.Equal(t, 3, day2[1].Points)
	assert.Equal(t, -1, day2[1].GoalDifference)
	assert.Equal(t, 1, day2[1].Lost)
	assert.Equal(t, 2, day2[1].Position)

	table := NewTable(result.Rows).After(2)
	require.Len(t, table, 4)
	assert.Equal(t, []string{"TeamC", "TeamA", "TeamD", "TeamB"}, teamsOf(table))
	assert.Equal(t, []int{4, 3, 1, 0}, pointsOf(table))
	assert.Equal(t, 1, table[2].Matchday, "TeamD carries its matchday 1 state forward")
}

func TestBuild_IsDeterministicAcrossPermutations(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		record("1", 1, "Arsenal", "Leicester", 4, 3),
		record("2", 1, "Watford", "Liverpool", 3, 3),
		record("3", 1, "Chelsea", "Burnley", 2, 3),
		record("4", 2, "Leicester", "Watford", 2, 0),
		record("5", 2, "Liverpool", "Arsenal", 4, 0),
		record("6", 2, "Burnley", "Chelsea", 1, 1),
		record("7", 3, "Arsenal", "Burnley", 1, 0),
		record("8", 3, "Chelsea", "Watford", 4, 2),
	}

	first, err := Build(records, Options{})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for attempt := 0; attempt < 5; attempt++ {
		shuffled := append([]match.Record(nil), records...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		again, err := Build(shuffled, Options{})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%+v", first.Rows), fmt.Sprintf("%+v", again.Rows))
	}
}

func TestBuild_GamesPlayedMatchesAppearances(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		record("1", 1, "A", "B", 1, 0),
		record("2", 1, "C", "D", 0, 2),
		record("3", 2, "A", "C", 2, 2),
		record("4", 3, "B", "D", 0, 1),
		record("5", 4, "A", "D", 3, 1),
	}
	appearances := map[string]int{}
	for _, rec := range records {
		appearances[rec.HomeTeam]++
		appearances[rec.AwayTeam]++
	}

	result, err := Build(records, Options{})
	require.NoError(t, err)

	table := NewTable(result.Rows)
	for team, want := range appearances {
		assert.Equal(t, want, table.AsOf(team, 4).Played, team)
	}
}

func TestBuild_SumsSameMatchdayAppearances(t *testing.T) {
	t.Parallel()

	records := []match.Record{
		record("1", 1, "A", "B", 1, 0),
		record("2", 1, "B", "A", 2, 2),
	}

	result, err := Build(records, Options{})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	a := NewTable(result.Rows).AsOf("A", 1)
	assert.Equal(t, 2, a.Played)
	assert.Equal(t, 4, a.Points)
	assert.Equal(t, 3, a.GoalsFor)
	assert.Equal(t, 2, a.GoalsAgainst)
}

func TestBuild_RejectsMalformedAndContinues(t *testing.T) {
	t.Parallel()

	records := scenario()
	missing := record("4", 2, "TeamB", "TeamD", 0, 0)
	missing.HomeGoals = nil
	zeroDay := record("5", 0, "TeamB", "TeamD", 1, 1)
	duplicate := record("1", 3, "TeamD", "TeamB", 1, 1)
	records = append(records, missing, zeroDay, duplicate)

	result, err := Build(records, Options{})
	require.NoError(t, err)

	assert.Equal(t, len(records), result.Report.Total)
	assert.Equal(t, 3, result.Report.Processed)
	assert.Equal(t, 3, result.Report.Rejected)
	assert.True(t, result.Report.Consistent())
	assert.Equal(t, []int{3, 4, 5}, []int{
		result.Report.Rejects[0].Index,
		result.Report.Rejects[1].Index,
		result.Report.Rejects[2].Index,
	})
	assert.True(t, match.IsMalformed(result.Report.Rejects[0].Err))
	assert.ErrorIs(t, result.Report.Rejects[2].Err, match.ErrDuplicateMatchID)

	clean, err := Build(scenario(), Options{})
	require.NoError(t, err)
	assert.Equal(t, clean.Rows, result.Rows)
}

func TestBuild_FailFastReturnsFirstMalformedRecord(t *testing.T) {
	t.Parallel()

	records := scenario()
	records[1].Matchday = -1

	_, err := Build(records, Options{FailFast: true})
	require.Error(t, err)

	var malformed *match.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "Matchday", malformed.Field)
	assert.Equal(t, "2", malformed.MatchID)
}

func TestBuild_RejectsMixedSeasons(t *testing.T) {
	t.Parallel()

	records := scenario()
	records[2].Season = "18-19"

	_, err := Build(records, Options{})
	require.ErrorIs(t, err, ErrMixedSeasons)
}

func TestTable_BeforeExcludesCurrentMatchday(t *testing.T) {
	t.Parallel()

	result, err := Build(scenario(), Options{})
	require.NoError(t, err)
	table := NewTable(result.Rows)

	before := table.Before("TeamC", 2)
	assert.Equal(t, 1, before.Matchday)
	assert.Equal(t, 1, before.Points)

	first := table.Before("TeamA", 1)
	assert.Equal(t, 0, first.Matchday)
	assert.Equal(t, 0, first.Played)
	assert.Equal(t, "TeamA", first.Team)
	assert.Equal(t, "17-18", first.Season)

	unknown := table.AsOf("Nobody", 5)
	assert.Equal(t, Row{Team: "Nobody"}, unknown)
}

func teamsOf(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Team)
	}
	return out
}

func pointsOf(rows []Row) []int {
	out := make([]int, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Points)
	}
	return out
}
