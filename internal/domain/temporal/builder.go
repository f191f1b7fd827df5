// Package temporal derives per-team time features: rest since the previous
// match and the outcomes of the last three matches.
package temporal

import (
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

// HistoryDepth is how many previous outcomes each row carries.
const HistoryDepth = 3

// Row is one team's temporal features for one match.
type Row struct {
	// SeasonKey is the competition+season the match belongs to; match ids
	// are only unique within it.
	SeasonKey string
	MatchID   string
	Team      string
	Opponent  string
	Side      match.Side
	KickoffAt time.Time
	// Appearance is the 1-based position of this match in the team's sequence.
	Appearance  int
	RestSeconds int64
	// Previous[0] is the outcome at t-1. Missing history is OutcomeNone.
	Previous       [HistoryDepth]match.Outcome
	LastVsOpponent match.Outcome
	Outcome        match.Outcome
}

func (r Row) RestDays() float64 {
	return float64(r.RestSeconds) / (24 * 60 * 60)
}

type Key struct {
	SeasonKey string
	MatchID   string
	Team      string
}

// KeyFor is the index key of team's row for rec.
func KeyFor(rec match.Record, team string) Key {
	return Key{SeasonKey: rec.SeasonKey(), MatchID: rec.ID, Team: strings.TrimSpace(team)}
}

// Result holds rows ordered by team, then kickoff, then match id.
type Result struct {
	Rows   []Row
	Report match.Report
}

// Index maps (season, match id, team) to the row for that appearance.
func (r Result) Index() map[Key]Row {
	out := make(map[Key]Row, len(r.Rows))
	for _, row := range r.Rows {
		out[Key{SeasonKey: row.SeasonKey, MatchID: row.MatchID, Team: row.Team}] = row
	}
	return out
}

type appearance struct {
	seasonKey string
	matchID   string
	team      string
	opponent  string
	side      match.Side
	kickoffAt time.Time
	outcome   match.Outcome
}

// Build computes temporal rows over records that may span several seasons.
// Unscored, invalid or duplicate records are rejected into the report; a
// match id counts as a duplicate only within its competition+season. An
// AggregationInvariantError is returned when a team has two appearances at
// the same instant.
func Build(records []match.Record) (Result, error) {
	var report match.Report
	seen := make(map[string]struct{}, len(records))
	byTeam := make(map[string][]appearance)

	for idx, rec := range records {
		seasonKey := rec.SeasonKey()
		id := seasonKey + "|" + rec.ID
		err := rec.ValidateScored()
		if err == nil {
			if _, dup := seen[id]; dup {
				err = crerr.Wrapf(match.ErrDuplicateMatchID, "season=%s match_id=%s", seasonKey, rec.ID)
			}
		}
		if err != nil {
			report.Reject(idx, rec.ID, err)
			continue
		}
		seen[id] = struct{}{}
		report.Accept()

		home := strings.TrimSpace(rec.HomeTeam)
		away := strings.TrimSpace(rec.AwayTeam)
		diff := *rec.HomeGoals - *rec.AwayGoals
		byTeam[home] = append(byTeam[home], appearance{
			seasonKey: seasonKey, matchID: rec.ID, team: home, opponent: away, side: match.SideHome,
			kickoffAt: rec.KickoffAt.UTC(), outcome: match.OutcomeFromGoalDifference(diff),
		})
		byTeam[away] = append(byTeam[away], appearance{
			seasonKey: seasonKey, matchID: rec.ID, team: away, opponent: home, side: match.SideAway,
			kickoffAt: rec.KickoffAt.UTC(), outcome: match.OutcomeFromGoalDifference(-diff),
		})
	}

	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	rows := make([]Row, 0, 2*report.Processed)
	zeroElapsed := 0
	var offending []string
	for _, team := range teams {
		seq := byTeam[team]
		sortChronologically(seq)

		teamRows := buildTeamRows(seq)
		firsts := 0
		for _, row := range teamRows {
			if row.RestSeconds == 0 {
				firsts++
			}
		}
		if firsts != 1 {
			offending = append(offending, team)
		}
		zeroElapsed += firsts
		rows = append(rows, teamRows...)
	}

	if zeroElapsed != len(teams) {
		return Result{Report: report}, &AggregationInvariantError{
			Expected: len(teams),
			Got:      zeroElapsed,
			Teams:    offending,
		}
	}

	return Result{Rows: rows, Report: report}, nil
}

func sortChronologically(seq []appearance) {
	sort.SliceStable(seq, func(i, j int) bool {
		if !seq[i].kickoffAt.Equal(seq[j].kickoffAt) {
			return seq[i].kickoffAt.Before(seq[j].kickoffAt)
		}
		if seq[i].seasonKey != seq[j].seasonKey {
			return seq[i].seasonKey < seq[j].seasonKey
		}
		return seq[i].matchID < seq[j].matchID
	})
}

func buildTeamRows(seq []appearance) []Row {
	rows := make([]Row, 0, len(seq))
	lastVs := make(map[string]match.Outcome)

	for i, app := range seq {
		row := Row{
			SeasonKey:      app.seasonKey,
			MatchID:        app.matchID,
			Team:           app.team,
			Opponent:       app.opponent,
			Side:           app.side,
			KickoffAt:      app.kickoffAt,
			Appearance:     i + 1,
			Outcome:        app.outcome,
			LastVsOpponent: match.OutcomeNone,
		}
		if i > 0 {
			row.RestSeconds = int64(app.kickoffAt.Sub(seq[i-1].kickoffAt) / time.Second)
		}
		for lag := 1; lag <= HistoryDepth; lag++ {
			if i-lag >= 0 {
				row.Previous[lag-1] = seq[i-lag].outcome
			} else {
				row.Previous[lag-1] = match.OutcomeNone
			}
		}
		if prev, ok := lastVs[app.opponent]; ok {
			row.LastVsOpponent = prev
		}
		lastVs[app.opponent] = app.outcome

		rows = append(rows, row)
	}
	return rows
}
