package match

import (
	"strings"
	"time"
)

// Record is the canonical, vendor-independent shape of one played or scheduled match.
type Record struct {
	ID          string    `validate:"required"`
	HomeTeam    string    `validate:"required"`
	AwayTeam    string    `validate:"required,nefield=HomeTeam"`
	HomeGoals   *int      `validate:"omitempty,gte=0"`
	AwayGoals   *int      `validate:"omitempty,gte=0"`
	Matchday    int       `validate:"gt=0"`
	KickoffAt   time.Time `validate:"-"`
	Competition string
	Season      string
}

// HasScore reports whether both goal counts are present.
func (r Record) HasScore() bool {
	return r.HomeGoals != nil && r.AwayGoals != nil
}

// SeasonKey identifies the competition+season a record belongs to.
func (r Record) SeasonKey() string {
	return strings.TrimSpace(r.Competition) + "|" + strings.TrimSpace(r.Season)
}

// Side is the home-or-away flag of a team-perspective row.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Outcome is a match result from one team's perspective. OutcomeNone marks
// missing history and is never a real result.
type Outcome string

const (
	OutcomeNone Outcome = "none"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
	OutcomeWin  Outcome = "win"
)

// OutcomeFromGoalDifference derives the outcome from the sign of goals for minus goals against.
func OutcomeFromGoalDifference(goalDifference int) Outcome {
	switch {
	case goalDifference > 0:
		return OutcomeWin
	case goalDifference == 0:
		return OutcomeDraw
	default:
		return OutcomeLoss
	}
}

// Points returns league points for the outcome: 3 win, 1 draw, 0 otherwise.
func (o Outcome) Points() int {
	switch o {
	case OutcomeWin:
		return 3
	case OutcomeDraw:
		return 1
	default:
		return 0
	}
}

func IntPtr(v int) *int {
	return &v
}
