package rating

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-features/internal/platform/cache"
	"github.com/riskibarqy/matchday-features/internal/platform/fuzzy"
)

const DefaultMinScore = 0.6

// Resolver finds the roster entry closest to a free-text name. The roster is
// copied on construction and never mutated, so one Resolver may serve
// concurrent callers. Best matches are memoized per normalized query.
type Resolver struct {
	players  []Player
	keys     []string
	minScore float64
	memo     *cache.Store[Match]
}

type Option func(*Resolver)

// WithMinScore sets the strict-mode threshold. Values outside (0, 1] are ignored.
func WithMinScore(score float64) Option {
	return func(r *Resolver) {
		if score > 0 && score <= 1 {
			r.minScore = score
		}
	}
}

// WithCacheTTL bounds how long a memoized lookup lives. Zero keeps it for the
// life of the resolver.
func WithCacheTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		r.memo = cache.NewStore[Match](ttl)
	}
}

func NewResolver(players []Player, opts ...Option) *Resolver {
	r := &Resolver{
		players:  append([]Player(nil), players...),
		minScore: DefaultMinScore,
	}
	r.keys = make([]string, len(r.players))
	for i, p := range r.players {
		r.keys[i] = p.LookupKey()
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.memo == nil {
		r.memo = cache.NewStore[Match](0)
	}
	return r
}

func (r *Resolver) Len() int {
	return len(r.players)
}

func (r *Resolver) MinScore() float64 {
	return r.minScore
}

func (r *Resolver) CacheStats() cache.Stats {
	return r.memo.Stats()
}

// Resolve matches query against every roster lookup key.
func (r *Resolver) Resolve(ctx context.Context, query string, mode Mode) (Match, error) {
	normalized := fuzzy.Normalize(query)
	if len(r.players) == 0 {
		return Match{}, &NoMatchFoundError{Query: query, Threshold: r.threshold(mode)}
	}

	best, err := r.memo.GetOrLoad(ctx, normalized, func(context.Context) (Match, error) {
		return r.scan(normalized), nil
	})
	if err != nil {
		return Match{}, err
	}

	if mode == ModeStrict && best.Score < r.minScore {
		return Match{}, &NoMatchFoundError{Query: query, BestScore: best.Score, Threshold: r.minScore}
	}
	return best, nil
}

// ResolvePlayer resolves a lineup name played for club.
func (r *Resolver) ResolvePlayer(ctx context.Context, name, club string, mode Mode) (Match, error) {
	return r.Resolve(ctx, LookupKey(name, club), mode)
}

func (r *Resolver) scan(query string) Match {
	matcher := fuzzy.NewMatcher(query)
	best := Match{Index: -1, Score: -1}
	for i, key := range r.keys {
		score := matcher.Score(key)
		switch {
		case score > best.Score:
			best = Match{Player: r.players[i], Score: score, Index: i}
		case score == best.Score:
			best.Tied++
		}
	}
	return best
}

func (r *Resolver) threshold(mode Mode) float64 {
	if mode == ModeStrict {
		return r.minScore
	}
	return 0
}
