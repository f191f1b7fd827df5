package standing

import (
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

var ErrMixedSeasons = crerr.New("records span more than one competition season")

// Options tunes Build.
type Options struct {
	// FailFast returns the first malformed record as an error before any
	// aggregation instead of rejecting it into the report.
	FailFast bool
}

// Result is the full standings sequence plus the accounting of excluded records.
type Result struct {
	Rows   []Row
	Report match.Report
}

// Expand turns one scored match into its home and away rows.
func Expand(rec match.Record) ([2]TeamMatchRow, error) {
	if err := rec.ValidateScored(); err != nil {
		return [2]TeamMatchRow{}, err
	}

	home := teamMatchRow(rec, match.SideHome, rec.HomeTeam, rec.AwayTeam, *rec.HomeGoals, *rec.AwayGoals)
	away := teamMatchRow(rec, match.SideAway, rec.AwayTeam, rec.HomeTeam, *rec.AwayGoals, *rec.HomeGoals)
	return [2]TeamMatchRow{home, away}, nil
}

func teamMatchRow(rec match.Record, side match.Side, team, opponent string, goalsFor, goalsAgainst int) TeamMatchRow {
	diff := goalsFor - goalsAgainst
	outcome := match.OutcomeFromGoalDifference(diff)
	row := TeamMatchRow{
		MatchID:        rec.ID,
		Team:           strings.TrimSpace(team),
		Opponent:       strings.TrimSpace(opponent),
		Side:           side,
		GoalsFor:       goalsFor,
		GoalsAgainst:   goalsAgainst,
		GoalDifference: diff,
		Points:         outcome.Points(),
		Played:         1,
		Outcome:        outcome,
		Matchday:       rec.Matchday,
		KickoffAt:      rec.KickoffAt,
	}
	switch outcome {
	case match.OutcomeWin:
		row.Won = 1
	case match.OutcomeDraw:
		row.Drawn = 1
	default:
		row.Lost = 1
	}
	return row
}

type groupKey struct {
	matchday int
	team     string
}

// Build reconstructs the league table at every matchday of one competition season.
//
// Records missing a score or failing validation are excluded and reported.
// Rows sharing (matchday, team), e.g. a rescheduled fixture, are summed before
// the per-team running total is taken. The output is ordered by matchday and
// then by Less, and is identical for any permutation of the same input.
func Build(records []match.Record, opts Options) (Result, error) {
	var report match.Report
	valid := make([]match.Record, 0, len(records))
	seenIDs := make(map[string]struct{}, len(records))
	seasonKey := ""

	for idx, rec := range records {
		err := rec.ValidateScored()
		if err == nil {
			if _, dup := seenIDs[rec.ID]; dup {
				err = crerr.Wrapf(match.ErrDuplicateMatchID, "match_id=%s", rec.ID)
			}
		}
		if err != nil {
			if opts.FailFast {
				return Result{}, crerr.Wrapf(err, "record index=%d", idx)
			}
			report.Reject(idx, rec.ID, err)
			continue
		}

		key := rec.SeasonKey()
		if seasonKey == "" {
			seasonKey = key
		} else if key != seasonKey {
			return Result{}, crerr.Wrapf(ErrMixedSeasons, "found %q and %q", seasonKey, key)
		}

		seenIDs[rec.ID] = struct{}{}
		valid = append(valid, rec)
		report.Accept()
	}

	grouped := make(map[groupKey]*Row, len(valid)*2)
	for _, rec := range valid {
		pair, err := Expand(rec)
		if err != nil {
			return Result{}, crerr.Wrapf(err, "expand validated record match_id=%s", rec.ID)
		}
		for _, tm := range pair {
			key := groupKey{matchday: tm.Matchday, team: tm.Team}
			row, ok := grouped[key]
			if !ok {
				row = &Row{
					Competition: strings.TrimSpace(rec.Competition),
					Season:      strings.TrimSpace(rec.Season),
					Team:        tm.Team,
					Matchday:    tm.Matchday,
				}
				grouped[key] = row
			}
			row.addMatch(tm)
		}
	}

	keys := make([]groupKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].matchday < keys[j].matchday
	})

	rows := make([]Row, 0, len(keys))
	var running Row
	for idx, key := range keys {
		if idx == 0 || keys[idx-1].team != key.team {
			running = Row{}
		}
		delta := grouped[key]
		running.add(*delta)

		out := running
		out.Competition = delta.Competition
		out.Season = delta.Season
		out.Team = key.team
		out.Matchday = key.matchday
		rows = append(rows, out)
	}

	assignPositions(rows)
	sortRows(rows)

	return Result{Rows: rows, Report: report}, nil
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Matchday != rows[j].Matchday {
			return rows[i].Matchday < rows[j].Matchday
		}
		return Less(rows[i], rows[j])
	})
}

// assignPositions sets Position to the team's rank in the full table as it
// stood after the row's matchday, counting teams that have not played yet.
func assignPositions(rows []Row) {
	table := NewTable(rows)
	indexByKey := make(map[groupKey]int, len(rows))
	for idx, row := range rows {
		indexByKey[groupKey{matchday: row.Matchday, team: row.Team}] = idx
	}

	for _, matchday := range table.Matchdays() {
		for _, ranked := range table.After(matchday) {
			if ranked.Matchday != matchday {
				continue
			}
			if idx, ok := indexByKey[groupKey{matchday: matchday, team: ranked.Team}]; ok {
				rows[idx].Position = ranked.Position
			}
		}
	}
}
