package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ standing.Repository = (*StandingRepository)(nil)
	_ feature.Repository  = (*FeatureRepository)(nil)
)

func TestStandingRepository_ReplaceBySeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewStandingRepository()

	rows := []standing.Row{{Team: "A", Matchday: 1, Points: 3}, {Team: "B", Matchday: 1}}
	require.NoError(t, repo.ReplaceBySeason(ctx, "PL", "2017-18", rows))
	rows[0].Points = 99

	got, err := repo.ListBySeason(ctx, "PL", "2017-18")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Points, "stored rows must not alias the caller's slice")

	require.NoError(t, repo.ReplaceBySeason(ctx, "PL", "2017-18", rows[:1]))
	got, err = repo.ListBySeason(ctx, "PL", "2017-18")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	other, err := repo.ListBySeason(ctx, "PL", "2018-19")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFeatureRepository_ReplaceBySeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFeatureRepository()

	require.NoError(t, repo.ReplaceBySeason(ctx, "PL", "2017-18", []feature.Vector{{MatchID: "m1", Team: "A"}}))
	got, err := repo.ListBySeason(ctx, "PL", "2017-18")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].MatchID)
}
