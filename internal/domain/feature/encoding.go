package feature

import (
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
)

var ErrUnknownCode = crerr.New("unknown categorical code")

// Side codes: home=0, away=1.
func EncodeSide(side match.Side) (int, error) {
	switch side {
	case match.SideHome:
		return 0, nil
	case match.SideAway:
		return 1, nil
	default:
		return 0, crerr.Newf("unknown side %q", side)
	}
}

func DecodeSide(code int) (match.Side, error) {
	switch code {
	case 0:
		return match.SideHome, nil
	case 1:
		return match.SideAway, nil
	default:
		return "", crerr.Wrapf(ErrUnknownCode, "side code=%d", code)
	}
}

// Outcome codes: none=0, loss=1, draw=2, win=3. None only ever appears for
// missing history, never as a label.
var outcomeCodes = []match.Outcome{match.OutcomeNone, match.OutcomeLoss, match.OutcomeDraw, match.OutcomeWin}

func EncodeOutcome(outcome match.Outcome) (int, error) {
	for code, known := range outcomeCodes {
		if known == outcome {
			return code, nil
		}
	}
	return 0, crerr.Newf("unknown outcome %q", outcome)
}

func DecodeOutcome(code int) (match.Outcome, error) {
	if code < 0 || code >= len(outcomeCodes) {
		return "", crerr.Wrapf(ErrUnknownCode, "outcome code=%d", code)
	}
	return outcomeCodes[code], nil
}

// FormationUnknown is the code for a missing or unlisted formation. The raw
// label travels alongside in the vector so nothing is lost.
const FormationUnknown = 0

// Formations is the fixed enumeration; a formation's code is its index + 1.
// Append only: reordering changes the meaning of stored vectors.
var Formations = []string{
	"4-4-2",
	"4-3-3",
	"4-2-3-1",
	"4-4-1-1",
	"4-1-4-1",
	"4-5-1",
	"4-3-2-1",
	"4-1-2-1-2",
	"4-3-1-2",
	"4-2-2-2",
	"3-5-2",
	"3-4-3",
	"3-4-2-1",
	"3-4-1-2",
	"3-5-1-1",
	"3-1-4-2",
	"5-3-2",
	"5-4-1",
	"5-2-3",
	"4-2-4",
}

var formationIndex = func() map[string]int {
	out := make(map[string]int, len(Formations))
	for i, f := range Formations {
		out[f] = i + 1
	}
	return out
}()

// NormalizeFormation strips whitespace so "4 - 4 - 2" and "4-4-2" agree.
func NormalizeFormation(label string) string {
	return strings.Join(strings.Fields(label), "")
}

func EncodeFormation(label string) int {
	if code, ok := formationIndex[NormalizeFormation(label)]; ok {
		return code
	}
	return FormationUnknown
}

// DecodeFormation returns "" for FormationUnknown.
func DecodeFormation(code int) (string, error) {
	if code == FormationUnknown {
		return "", nil
	}
	if code < 0 || code > len(Formations) {
		return "", crerr.Wrapf(ErrUnknownCode, "formation code=%d", code)
	}
	return Formations[code-1], nil
}
