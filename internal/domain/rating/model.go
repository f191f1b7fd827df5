package rating

import (
	"github.com/riskibarqy/matchday-features/internal/platform/fuzzy"
)

// Player is one row of the externally supplied ratings roster.
type Player struct {
	Name    string
	Club    string
	Overall float64
}

// LookupKey is the string lineup names are matched against: display name
// followed by club, normalized.
func (p Player) LookupKey() string {
	return LookupKey(p.Name, p.Club)
}

func LookupKey(name, club string) string {
	return fuzzy.Normalize(name + " " + club)
}

// Mode selects how the resolver treats a weak best match.
type Mode int

const (
	// ModeLenient returns the best candidate whatever its score.
	ModeLenient Mode = iota
	// ModeStrict fails with NoMatchFoundError below the minimum score.
	ModeStrict
)

func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "lenient"
}

// Match is a resolved roster entry.
type Match struct {
	Player Player
	Score  float64
	// Index is the player's position in the roster.
	Index int
	// Tied counts other candidates that shared the best score. Ties go to the
	// earliest roster entry, so callers needing a stable answer must keep the
	// roster order stable.
	Tied int
}
