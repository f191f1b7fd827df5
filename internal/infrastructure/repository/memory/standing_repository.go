package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday-features/internal/domain/standing"
)

type seasonKey struct {
	competition string
	season      string
}

type StandingRepository struct {
	mu       sync.RWMutex
	bySeason map[seasonKey][]standing.Row
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{bySeason: make(map[seasonKey][]standing.Row)}
}

func (r *StandingRepository) ReplaceBySeason(_ context.Context, competition, season string, rows []standing.Row) error {
	items := make([]standing.Row, len(rows))
	copy(items, rows)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySeason[seasonKey{competition: competition, season: season}] = items
	return nil
}

func (r *StandingRepository) ListBySeason(_ context.Context, competition, season string) ([]standing.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonKey{competition: competition, season: season}]
	out := make([]standing.Row, 0, len(items))
	out = append(out, items...)
	return out, nil
}
