package feature

import (
	"testing"

	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormationCodesDecodeToLabels(t *testing.T) {
	t.Parallel()

	for _, label := range Formations {
		code := EncodeFormation(label)
		require.NotEqual(t, FormationUnknown, code, label)
		decoded, err := DecodeFormation(code)
		require.NoError(t, err)
		assert.Equal(t, label, decoded)
	}

	assert.Equal(t, EncodeFormation("4-4-2"), EncodeFormation(" 4 - 4 - 2 "))
	assert.Equal(t, FormationUnknown, EncodeFormation("2-3-5"))
	assert.Equal(t, FormationUnknown, EncodeFormation(""))

	_, err := DecodeFormation(len(Formations) + 1)
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestOutcomeNoneIsDistinctFromResults(t *testing.T) {
	t.Parallel()

	none, err := EncodeOutcome(match.OutcomeNone)
	require.NoError(t, err)
	for _, o := range []match.Outcome{match.OutcomeLoss, match.OutcomeDraw, match.OutcomeWin} {
		code, err := EncodeOutcome(o)
		require.NoError(t, err)
		assert.NotEqual(t, none, code)
	}

	_, err = EncodeOutcome("")
	assert.Error(t, err)
	_, err = DecodeOutcome(9)
	assert.ErrorIs(t, err, ErrUnknownCode)
	_, err = EncodeSide("neutral")
	assert.Error(t, err)
}
