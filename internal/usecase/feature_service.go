package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/lineup"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/domain/temporal"
	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultBuildWorkers = 4

// SeasonInput is the raw material for one competition season.
type SeasonInput struct {
	Competition string
	Season      string
	Vendor      normalizer.Vendor
	Payloads    []normalizer.Payload
}

func (s SeasonInput) key() string {
	return s.Competition + "|" + s.Season
}

type BuildInput struct {
	Seasons []SeasonInput
	// Roster feeds lineup ratings; an empty roster leaves them at zero.
	Roster []rating.Player
	// FailFast aborts a season on its first malformed record instead of
	// rejecting it into the report.
	FailFast bool
	// Persist writes standings and vectors through the configured repositories.
	Persist bool
}

type SeasonBuild struct {
	Competition string
	Season      string
	Standings   []standing.Row
	Vectors     []feature.Vector
	Unresolved  []feature.Unresolved

	NormalizeReport match.Report
	LineupReport    match.Report
	StandingsReport match.Report
	FeatureReport   match.Report
}

type BuildResult struct {
	Seasons        []SeasonBuild
	TemporalReport match.Report
}

// VectorCount sums the vectors of every season.
func (r BuildResult) VectorCount() int {
	total := 0
	for _, s := range r.Seasons {
		total += len(s.Vectors)
	}
	return total
}

type FeatureService struct {
	normalizer   *normalizer.Normalizer
	standingRepo standing.Repository
	featureRepo  feature.Repository
	resolverOpts []rating.Option
	maxWorkers   int
	logger       *logging.Logger
}

type FeatureServiceOption func(*FeatureService)

func WithBuildWorkers(n int) FeatureServiceOption {
	return func(s *FeatureService) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

func WithResolverOptions(opts ...rating.Option) FeatureServiceOption {
	return func(s *FeatureService) {
		s.resolverOpts = append(s.resolverOpts, opts...)
	}
}

func WithFeatureLogger(logger *logging.Logger) FeatureServiceOption {
	return func(s *FeatureService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFeatureService wires the pipeline. Repositories may be nil when nothing
// is persisted.
func NewFeatureService(
	norm *normalizer.Normalizer,
	standingRepo standing.Repository,
	featureRepo feature.Repository,
	opts ...FeatureServiceOption,
) *FeatureService {
	s := &FeatureService{
		normalizer:   norm,
		standingRepo: standingRepo,
		featureRepo:  featureRepo,
		maxWorkers:   defaultBuildWorkers,
		logger:       logging.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.normalizer == nil {
		s.normalizer = normalizer.New(normalizer.WithLogger(s.logger))
	}
	return s
}

type normalizedSeason struct {
	input        SeasonInput
	records      []match.Record
	lineups      []lineup.Entry
	normalizeRep match.Report
	lineupRep    match.Report
}

// Build runs normalize, temporal, standings and assembly for every season.
// Temporal features are computed over all seasons together so rest days and
// form carry across season boundaries.
func (s *FeatureService) Build(ctx context.Context, input BuildInput) (result BuildResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.Build", attribute.Int("seasons", len(input.Seasons)))
	defer func() { endSpan(span, err) }()

	if err := validateBuildInput(input); err != nil {
		return BuildResult{}, err
	}
	if input.Persist && (s.standingRepo == nil || s.featureRepo == nil) {
		return BuildResult{}, fmt.Errorf("%w: persistence requested without repositories", ErrInvalidInput)
	}

	normalized := make([]normalizedSeason, len(input.Seasons))
	if err := s.parallel(len(input.Seasons), func(i int) error {
		season, err := s.normalizeSeason(ctx, input.Seasons[i])
		if err != nil {
			return err
		}
		normalized[i] = season
		return nil
	}); err != nil {
		return BuildResult{}, err
	}

	all := make([]match.Record, 0)
	for _, season := range normalized {
		all = append(all, season.records...)
	}
	temporalResult, err := temporal.Build(all)
	if err != nil {
		s.logger.ErrorContext(ctx, "temporal features failed", "error", err)
		return BuildResult{}, fmt.Errorf("build temporal features: %w", err)
	}

	resolver := rating.NewResolver(input.Roster, s.resolverOpts...)
	var players feature.PlayerResolver
	if resolver.Len() > 0 {
		players = resolver
	}
	assembler := feature.NewAssembler(players)

	builds := make([]SeasonBuild, len(normalized))
	if err := s.parallel(len(normalized), func(i int) error {
		build, err := s.buildSeason(ctx, normalized[i], temporalResult, assembler, input.FailFast)
		if err != nil {
			return err
		}
		builds[i] = build
		return nil
	}); err != nil {
		return BuildResult{}, err
	}

	if input.Persist {
		for _, build := range builds {
			if err := s.persist(ctx, build); err != nil {
				return BuildResult{}, err
			}
		}
	}

	sort.SliceStable(builds, func(i, j int) bool {
		if builds[i].Competition != builds[j].Competition {
			return builds[i].Competition < builds[j].Competition
		}
		return builds[i].Season < builds[j].Season
	})

	result = BuildResult{Seasons: builds, TemporalReport: temporalResult.Report}
	s.logger.InfoContext(ctx, "feature build finished",
		"seasons", len(builds),
		"vectors", result.VectorCount(),
		"temporal_rejected", temporalResult.Report.Rejected,
		"resolver_cache", resolver.CacheStats(),
	)
	return result, nil
}

func validateBuildInput(input BuildInput) error {
	if len(input.Seasons) == 0 {
		return fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(input.Seasons))
	for i, season := range input.Seasons {
		if strings.TrimSpace(season.Competition) == "" || strings.TrimSpace(season.Season) == "" {
			return fmt.Errorf("%w: season[%d] needs competition and season", ErrInvalidInput, i)
		}
		if _, dup := seen[season.key()]; dup {
			return fmt.Errorf("%w: season %s listed twice", ErrInvalidInput, season.key())
		}
		seen[season.key()] = struct{}{}
	}
	return nil
}

func (s *FeatureService) normalizeSeason(ctx context.Context, input SeasonInput) (normalizedSeason, error) {
	records, report, err := s.normalizer.NormalizeBatch(ctx, input.Vendor, input.Payloads)
	if err != nil {
		return normalizedSeason{}, fmt.Errorf("%w: season %s: %v", ErrInvalidInput, input.key(), err)
	}
	for i := range records {
		if records[i].Competition == "" {
			records[i].Competition = input.Competition
		}
		if records[i].Season == "" {
			records[i].Season = input.Season
		}
	}

	out := normalizedSeason{input: input, records: records, normalizeRep: report}
	lineups, lineupReport, err := s.normalizer.Lineups(ctx, input.Vendor, input.Payloads)
	switch {
	case err == nil:
		out.lineups = lineups
		out.lineupRep = lineupReport
	case errors.Is(err, normalizer.ErrLineupsNotSupported):
	default:
		return normalizedSeason{}, fmt.Errorf("extract lineups for %s: %w", input.key(), err)
	}
	return out, nil
}

func (s *FeatureService) buildSeason(
	ctx context.Context,
	season normalizedSeason,
	temporalResult temporal.Result,
	assembler *feature.Assembler,
	failFast bool,
) (SeasonBuild, error) {
	logger := s.logger.With("competition", season.input.Competition, "season", season.input.Season)

	standings, err := standing.Build(season.records, standing.Options{FailFast: failFast})
	if err != nil {
		return SeasonBuild{}, fmt.Errorf("build standings for %s: %w", season.input.key(), err)
	}
	for _, reject := range standings.Report.Rejects {
		logger.DebugContext(ctx, "standings record rejected", "match_id", reject.MatchID, "error", reject.Err)
	}

	assembled, err := assembler.Assemble(ctx, feature.Input{
		Records:   season.records,
		Standings: standings.Rows,
		Temporal:  temporalResult,
		Lineups:   season.lineups,
	})
	if err != nil {
		return SeasonBuild{}, fmt.Errorf("assemble features for %s: %w", season.input.key(), err)
	}

	logger.InfoContext(ctx, "season built",
		"payloads", season.normalizeRep.Total,
		"payloads_rejected", season.normalizeRep.Rejected,
		"standing_rows", len(standings.Rows),
		"vectors", len(assembled.Vectors),
		"unresolved_players", len(assembled.Unresolved),
	)

	return SeasonBuild{
		Competition:     season.input.Competition,
		Season:          season.input.Season,
		Standings:       standings.Rows,
		Vectors:         assembled.Vectors,
		Unresolved:      assembled.Unresolved,
		NormalizeReport: season.normalizeRep,
		LineupReport:    season.lineupRep,
		StandingsReport: standings.Report,
		FeatureReport:   assembled.Report,
	}, nil
}

func (s *FeatureService) persist(ctx context.Context, build SeasonBuild) error {
	if err := s.standingRepo.ReplaceBySeason(ctx, build.Competition, build.Season, build.Standings); err != nil {
		return fmt.Errorf("%w: persist standings for %s %s: %v", ErrDependencyUnavailable, build.Competition, build.Season, err)
	}
	if err := s.featureRepo.ReplaceBySeason(ctx, build.Competition, build.Season, build.Vectors); err != nil {
		return fmt.Errorf("%w: persist features for %s %s: %v", ErrDependencyUnavailable, build.Competition, build.Season, err)
	}
	return nil
}

// parallel runs fn for every index on an ants pool and returns the error of
// the lowest failing index, so failures are reported deterministically.
func (s *FeatureService) parallel(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	workers := s.maxWorkers
	if workers > n {
		workers = n
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			errs[i] = fn(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
