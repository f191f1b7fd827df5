package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday-features/internal/domain/feature"
)

type FeatureRepository struct {
	mu       sync.RWMutex
	bySeason map[seasonKey][]feature.Vector
}

func NewFeatureRepository() *FeatureRepository {
	return &FeatureRepository{bySeason: make(map[seasonKey][]feature.Vector)}
}

func (r *FeatureRepository) ReplaceBySeason(_ context.Context, competition, season string, vectors []feature.Vector) error {
	items := make([]feature.Vector, len(vectors))
	copy(items, vectors)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySeason[seasonKey{competition: competition, season: season}] = items
	return nil
}

func (r *FeatureRepository) ListBySeason(_ context.Context, competition, season string) ([]feature.Vector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonKey{competition: competition, season: season}]
	out := make([]feature.Vector, 0, len(items))
	out = append(out, items...)
	return out, nil
}
