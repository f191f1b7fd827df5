package normalizer

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/lineup"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

// XMLSoccer reads flattened <Match> elements from GetFixturesByLeagueAndSeason.
// Every field arrives as text; Season is stamped on by the fetcher.
type XMLSoccer struct{}

func (XMLSoccer) Vendor() Vendor {
	return VendorXMLSoccer
}

func (XMLSoccer) Normalize(p Payload) (match.Record, error) {
	rec := match.Record{}

	rawID, _ := p.Lookup("Id")
	id, ok := coerceString(rawID)
	if !ok {
		return match.Record{}, match.NewMalformedRecordError("", "ID", "is required")
	}
	rec.ID = id

	rec.HomeTeam = stringAt(p, "HomeTeam")
	rec.AwayTeam = stringAt(p, "AwayTeam")
	rec.Competition = stringAt(p, "League")
	rec.Season = stringAt(p, "Season")

	kickoff, err := parseInstant(stringAt(p, "Date"), false)
	if err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "KickoffAt", err.Error())
	}
	rec.KickoffAt = kickoff.UTC()

	round, err := intAt(p, "Round")
	if err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "Matchday", err.Error())
	}
	rec.Matchday = round

	if rec.HomeGoals, err = goalsAt(p, "HomeGoals"); err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "HomeGoals", err.Error())
	}
	if rec.AwayGoals, err = goalsAt(p, "AwayGoals"); err != nil {
		return match.Record{}, match.NewMalformedRecordError(id, "AwayGoals", err.Error())
	}
	return rec, nil
}

var errNoLineup = crerr.New("no lineup published")

// Lineups returns an entry for each side whose lineup fields are filled.
func (XMLSoccer) Lineups(p Payload) ([]lineup.Entry, error) {
	rawID, _ := p.Lookup("Id")
	id, ok := coerceString(rawID)
	if !ok {
		return nil, match.NewMalformedRecordError("", "ID", "is required")
	}

	out := make([]lineup.Entry, 0, 2)
	for _, side := range []match.Side{match.SideHome, match.SideAway} {
		prefix := "Home"
		if side == match.SideAway {
			prefix = "Away"
		}
		groups := lineup.Groups{
			Goalkeeper: stringAt(p, prefix+"LineupGoalkeeper"),
			Defense:    stringAt(p, prefix+"LineupDefense"),
			Midfield:   stringAt(p, prefix+"LineupMidfield"),
			Forward:    stringAt(p, prefix+"LineupForward"),
		}
		if groups.Empty() {
			continue
		}
		out = append(out, lineup.Entry{
			MatchID:   id,
			Side:      side,
			Team:      stringAt(p, prefix+"Team"),
			Formation: stringAt(p, prefix+"TeamFormation"),
			Players:   groups.Parse(),
		})
	}
	if len(out) == 0 {
		return nil, crerr.Wrapf(errNoLineup, "match_id=%s", id)
	}
	return out, nil
}
