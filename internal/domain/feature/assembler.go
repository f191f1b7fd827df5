package feature

import (
	"context"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/lineup"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/domain/temporal"
)

var ErrMissingTemporal = crerr.New("temporal features missing for match")

// PlayerResolver is the lookup used for lineup ratings.
type PlayerResolver interface {
	ResolvePlayer(ctx context.Context, name, club string, mode rating.Mode) (rating.Match, error)
}

// Input is everything known about one competition season. Standings must be
// built from Records; Temporal may span more seasons than Records.
type Input struct {
	Records   []match.Record
	Standings []standing.Row
	Temporal  temporal.Result
	Lineups   []lineup.Entry
}

type Result struct {
	Vectors    []Vector
	Unresolved []Unresolved
	Report     match.Report
}

type Assembler struct {
	resolver PlayerResolver
	mode     rating.Mode
}

type AssemblerOption func(*Assembler)

// WithResolveMode overrides the strict default used for lineup names.
func WithResolveMode(mode rating.Mode) AssemblerOption {
	return func(a *Assembler) {
		a.mode = mode
	}
}

// NewAssembler builds an Assembler. A nil resolver leaves lineup ratings empty.
func NewAssembler(resolver PlayerResolver, opts ...AssemblerOption) *Assembler {
	a := &Assembler{resolver: resolver, mode: rating.ModeStrict}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type lineupKey struct {
	matchID string
	side    match.Side
}

// Assemble emits two vectors per valid scored match, home first, ordered by
// kickoff then match id. Standings features use the table as it stood
// before the match's matchday, so a match never sees its own result.
func (a *Assembler) Assemble(ctx context.Context, in Input) (Result, error) {
	table := standing.NewTable(in.Standings)
	temporalIndex := in.Temporal.Index()
	lineups := make(map[lineupKey]lineup.Entry, len(in.Lineups))
	for _, entry := range in.Lineups {
		lineups[lineupKey{matchID: entry.MatchID, side: entry.Side}] = entry
	}
	positions := make(map[int]map[string]int)

	// The first valid record of a repeated match id wins, in input order, as
	// in the standings and temporal builders.
	duplicate := make(map[int]bool)
	seen := make(map[string]struct{}, len(in.Records))
	for idx, rec := range in.Records {
		if rec.ValidateScored() != nil {
			continue
		}
		id := rec.SeasonKey() + "|" + rec.ID
		if _, dup := seen[id]; dup {
			duplicate[idx] = true
			continue
		}
		seen[id] = struct{}{}
	}

	order := make([]int, len(in.Records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ri, rj := in.Records[order[i]], in.Records[order[j]]
		if !ri.KickoffAt.Equal(rj.KickoffAt) {
			return ri.KickoffAt.Before(rj.KickoffAt)
		}
		return ri.ID < rj.ID
	})

	var result Result
	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		rec := in.Records[idx]
		if duplicate[idx] {
			result.Report.Reject(idx, rec.ID, crerr.Wrapf(match.ErrDuplicateMatchID, "match_id=%s", rec.ID))
			continue
		}
		if err := rec.ValidateScored(); err != nil {
			result.Report.Reject(idx, rec.ID, err)
			continue
		}

		home := strings.TrimSpace(rec.HomeTeam)
		away := strings.TrimSpace(rec.AwayTeam)
		homeTemporal, okHome := temporalIndex[temporal.KeyFor(rec, home)]
		awayTemporal, okAway := temporalIndex[temporal.KeyFor(rec, away)]
		if !okHome || !okAway {
			result.Report.Reject(idx, rec.ID, crerr.Wrapf(ErrMissingTemporal, "match_id=%s", rec.ID))
			continue
		}

		ranking, ok := positions[rec.Matchday]
		if !ok {
			ranking = rankBefore(table, rec.Matchday)
			positions[rec.Matchday] = ranking
		}

		homeLineup := lineups[lineupKey{matchID: rec.ID, side: match.SideHome}]
		awayLineup := lineups[lineupKey{matchID: rec.ID, side: match.SideAway}]
		homeRating, homeMissing, err := a.rate(ctx, rec.ID, home, homeLineup)
		if err != nil {
			return Result{}, err
		}
		awayRating, awayMissing, err := a.rate(ctx, rec.ID, away, awayLineup)
		if err != nil {
			return Result{}, err
		}
		result.Unresolved = append(result.Unresolved, homeMissing...)
		result.Unresolved = append(result.Unresolved, awayMissing...)

		homeForm := formBefore(table, ranking, home, rec.Matchday)
		awayForm := formBefore(table, ranking, away, rec.Matchday)

		base := Vector{
			MatchID:     rec.ID,
			Competition: strings.TrimSpace(rec.Competition),
			Season:      strings.TrimSpace(rec.Season),
			Matchday:    rec.Matchday,
			KickoffAt:   rec.KickoffAt.UTC(),
			KickoffHour: rec.KickoffAt.UTC().Hour(),
		}

		homeVec := base
		homeVec.Team, homeVec.Opponent, homeVec.Side = home, away, match.SideHome
		fillSide(&homeVec, homeTemporal, awayTemporal, homeForm, awayForm)
		homeVec.Formation, homeVec.OpponentFormation = homeLineup.Formation, awayLineup.Formation
		homeVec.Lineup, homeVec.OpponentLineup = homeRating, awayRating

		awayVec := base
		awayVec.Team, awayVec.Opponent, awayVec.Side = away, home, match.SideAway
		fillSide(&awayVec, awayTemporal, homeTemporal, awayForm, homeForm)
		awayVec.Formation, awayVec.OpponentFormation = awayLineup.Formation, homeLineup.Formation
		awayVec.Lineup, awayVec.OpponentLineup = awayRating, homeRating

		result.Vectors = append(result.Vectors, homeVec, awayVec)
		result.Report.Accept()
	}

	return result, nil
}

func fillSide(v *Vector, own, opp temporal.Row, ownForm, oppForm Form) {
	v.Outcome = own.Outcome
	v.Form = ownForm
	v.OpponentForm = oppForm
	v.RestSeconds = own.RestSeconds
	v.OpponentRestSeconds = opp.RestSeconds
	v.Previous = own.Previous
	v.LastVsOpponent = own.LastVsOpponent
}

func rankBefore(table *standing.Table, matchday int) map[string]int {
	out := make(map[string]int)
	for _, row := range table.After(matchday - 1) {
		out[row.Team] = row.Position
	}
	return out
}

func formBefore(table *standing.Table, ranking map[string]int, team string, matchday int) Form {
	row := table.Before(team, matchday)
	form := Form{
		Points:         row.Points,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
	}
	if row.Played > 0 {
		form.Position = ranking[team]
	}
	return form
}

// rate averages the ratings of the lineup names the resolver can place.
// Names that fail strict resolution are counted and reported, not guessed.
func (a *Assembler) rate(ctx context.Context, matchID, team string, entry lineup.Entry) (LineupRating, []Unresolved, error) {
	if a.resolver == nil || len(entry.Players) == 0 {
		return LineupRating{}, nil, nil
	}

	var (
		sum        float64
		out        LineupRating
		unresolved []Unresolved
	)
	for _, player := range entry.Players {
		found, err := a.resolver.ResolvePlayer(ctx, player.Name, team, a.mode)
		if err != nil {
			var notFound *rating.NoMatchFoundError
			if !crerr.As(err, &notFound) {
				return LineupRating{}, nil, crerr.Wrapf(err, "resolve player %q", player.Name)
			}
			out.Unresolved++
			unresolved = append(unresolved, Unresolved{
				MatchID:   matchID,
				Team:      team,
				Name:      player.Name,
				BestScore: notFound.BestScore,
			})
			continue
		}
		sum += found.Player.Overall
		out.Resolved++
	}
	if out.Resolved > 0 {
		out.Mean = sum / float64(out.Resolved)
	}
	return out, unresolved, nil
}
