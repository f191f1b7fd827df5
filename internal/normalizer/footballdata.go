package normalizer

import (
	"strings"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

// FootballData reads football-data.org match objects. Both the v2 score
// keys (homeTeam/awayTeam) and the v4 keys (home/away) are accepted.
// season and competitionName are stamped on by the fetcher.
type FootballData struct{}

func (FootballData) Vendor() Vendor {
	return VendorFootballData
}

func (FootballData) Normalize(p Payload) (match.Record, error) {
	rec := match.Record{}

	rawID, _ := p.Lookup("id")
	id, ok := coerceString(rawID)
	if !ok {
		return match.Record{}, match.NewMalformedRecordError("", "ID", "is required")
	}
	rec.ID = id

	rec.HomeTeam = stringAt(p, "homeTeam.name")
	rec.AwayTeam = stringAt(p, "awayTeam.name")
	rec.Season = stringAt(p, "season")
	rec.Competition = stringAt(p, "competitionName", "competition.name")

	rawDate, _ := p.Lookup("utcDate")
	dateStr, _ := rawDate.(string)
	kickoff, err := parseInstant(dateStr, true)
	if err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "KickoffAt", err.Error())
	}
	rec.KickoffAt = kickoff.UTC()

	matchday, err := intAt(p, "matchday")
	if err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "Matchday", err.Error())
	}
	rec.Matchday = matchday

	if rec.HomeGoals, err = goalsAt(p, "score.fullTime.homeTeam", "score.fullTime.home"); err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "HomeGoals", err.Error())
	}
	if rec.AwayGoals, err = goalsAt(p, "score.fullTime.awayTeam", "score.fullTime.away"); err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "AwayGoals", err.Error())
	}
	return rec, nil
}

func stringAt(p Payload, paths ...string) string {
	v, ok := p.First(paths...)
	if !ok {
		return ""
	}
	s, _ := coerceString(v)
	return s
}

func intAt(p Payload, paths ...string) (int, error) {
	v, ok := p.First(paths...)
	if !ok {
		return 0, errMissing
	}
	return coerceInt(v)
}

// goalsAt returns nil only when the field is absent; validation then rejects
// the record as unscored. A present but non-numeric value is an error.
func goalsAt(p Payload, paths ...string) (*int, error) {
	v, ok := p.First(paths...)
	if !ok {
		return nil, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	n, err := coerceInt(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
