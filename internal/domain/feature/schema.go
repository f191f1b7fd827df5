package feature

import (
	"time"

	crerr "github.com/cockroachdb/errors"
)

type ColumnType string

const (
	TypeString    ColumnType = "string"
	TypeInt       ColumnType = "int"
	TypeFloat     ColumnType = "float"
	TypeTimestamp ColumnType = "timestamp"
)

type ColumnRole string

const (
	RoleIdentifier ColumnRole = "identifier"
	RoleLabel      ColumnRole = "label"
	RoleFeature    ColumnRole = "feature"
	RoleDebug      ColumnRole = "debug"
)

type Column struct {
	Name string
	Type ColumnType
	Role ColumnRole
}

// Columns is the fixed export schema. Vector.Values returns values in this
// order. Categorical columns hold the codes from the Encode* functions.
var Columns = []Column{
	{"match_id", TypeString, RoleIdentifier},
	{"competition", TypeString, RoleIdentifier},
	{"season", TypeString, RoleIdentifier},
	{"matchday", TypeInt, RoleIdentifier},
	{"kickoff_at", TypeTimestamp, RoleIdentifier},
	{"team", TypeString, RoleIdentifier},
	{"opponent", TypeString, RoleIdentifier},
	{"outcome", TypeInt, RoleLabel},
	{"side", TypeInt, RoleFeature},
	{"kickoff_hour", TypeInt, RoleFeature},
	{"position", TypeInt, RoleFeature},
	{"points", TypeInt, RoleFeature},
	{"goals_for", TypeInt, RoleFeature},
	{"goals_against", TypeInt, RoleFeature},
	{"goal_difference", TypeInt, RoleFeature},
	{"played", TypeInt, RoleFeature},
	{"won", TypeInt, RoleFeature},
	{"drawn", TypeInt, RoleFeature},
	{"lost", TypeInt, RoleFeature},
	{"opp_position", TypeInt, RoleFeature},
	{"opp_points", TypeInt, RoleFeature},
	{"opp_goals_for", TypeInt, RoleFeature},
	{"opp_goals_against", TypeInt, RoleFeature},
	{"opp_goal_difference", TypeInt, RoleFeature},
	{"opp_played", TypeInt, RoleFeature},
	{"rest_seconds", TypeInt, RoleFeature},
	{"rest_days", TypeFloat, RoleFeature},
	{"opp_rest_seconds", TypeInt, RoleFeature},
	{"outcome_t1", TypeInt, RoleFeature},
	{"outcome_t2", TypeInt, RoleFeature},
	{"outcome_t3", TypeInt, RoleFeature},
	{"last_vs_opponent", TypeInt, RoleFeature},
	{"formation", TypeInt, RoleFeature},
	{"opp_formation", TypeInt, RoleFeature},
	{"lineup_rating", TypeFloat, RoleFeature},
	{"lineup_resolved", TypeInt, RoleFeature},
	{"lineup_unresolved", TypeInt, RoleFeature},
	{"opp_lineup_rating", TypeFloat, RoleFeature},
	{"opp_lineup_resolved", TypeInt, RoleFeature},
	{"opp_lineup_unresolved", TypeInt, RoleFeature},
	{"formation_label", TypeString, RoleDebug},
	{"opp_formation_label", TypeString, RoleDebug},
}

func ColumnNames() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = c.Name
	}
	return out
}

// Values flattens v in Columns order. Strings are string, ints are int64,
// floats are float64 and timestamps are UTC time.Time.
func (v Vector) Values() ([]any, error) {
	side, err := EncodeSide(v.Side)
	if err != nil {
		return nil, err
	}
	outcome, err := EncodeOutcome(v.Outcome)
	if err != nil {
		return nil, err
	}
	var history [3]int64
	for i, prev := range v.Previous {
		code, err := EncodeOutcome(prev)
		if err != nil {
			return nil, crerr.Wrapf(err, "outcome_t%d", i+1)
		}
		history[i] = int64(code)
	}
	lastVs, err := EncodeOutcome(v.LastVsOpponent)
	if err != nil {
		return nil, crerr.Wrap(err, "last_vs_opponent")
	}

	return []any{
		v.MatchID,
		v.Competition,
		v.Season,
		int64(v.Matchday),
		v.KickoffAt.UTC(),
		v.Team,
		v.Opponent,
		int64(outcome),
		int64(side),
		int64(v.KickoffHour),
		int64(v.Form.Position),
		int64(v.Form.Points),
		int64(v.Form.GoalsFor),
		int64(v.Form.GoalsAgainst),
		int64(v.Form.GoalDifference),
		int64(v.Form.Played),
		int64(v.Form.Won),
		int64(v.Form.Drawn),
		int64(v.Form.Lost),
		int64(v.OpponentForm.Position),
		int64(v.OpponentForm.Points),
		int64(v.OpponentForm.GoalsFor),
		int64(v.OpponentForm.GoalsAgainst),
		int64(v.OpponentForm.GoalDifference),
		int64(v.OpponentForm.Played),
		v.RestSeconds,
		float64(v.RestSeconds) / float64(24*time.Hour/time.Second),
		v.OpponentRestSeconds,
		history[0],
		history[1],
		history[2],
		int64(lastVs),
		int64(EncodeFormation(v.Formation)),
		int64(EncodeFormation(v.OpponentFormation)),
		v.Lineup.Mean,
		int64(v.Lineup.Resolved),
		int64(v.Lineup.Unresolved),
		v.OpponentLineup.Mean,
		int64(v.OpponentLineup.Resolved),
		int64(v.OpponentLineup.Unresolved),
		v.Formation,
		v.OpponentFormation,
	}, nil
}
