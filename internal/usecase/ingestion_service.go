package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultFetchConcurrency = 2

// SeasonRequest names one competition season at one vendor.
type SeasonRequest struct {
	Vendor normalizer.Vendor
	// Competition is the display name stamped on every payload.
	Competition string
	// CompetitionCode is the vendor's identifier, e.g. "PL" or "English Premier League".
	CompetitionCode string
	// Season is the label, e.g. "17-18"; StartYear is the year it kicks off.
	Season    string
	StartYear int
}

func (r SeasonRequest) key() string {
	return string(r.Vendor) + "|" + r.Competition + "|" + r.Season
}

// SeasonSource fetches raw payloads for one season from one vendor.
type SeasonSource interface {
	Vendor() normalizer.Vendor
	FetchSeason(ctx context.Context, req SeasonRequest) ([]normalizer.Payload, error)
}

type IngestionService struct {
	sources     map[normalizer.Vendor]SeasonSource
	concurrency int
	logger      *logging.Logger
}

func NewIngestionService(logger *logging.Logger, concurrency int, sources ...SeasonSource) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency < 1 {
		concurrency = defaultFetchConcurrency
	}
	bySource := make(map[normalizer.Vendor]SeasonSource, len(sources))
	for _, src := range sources {
		if src != nil {
			bySource[src.Vendor()] = src
		}
	}
	return &IngestionService{sources: bySource, concurrency: concurrency, logger: logger}
}

// FetchSeasons downloads every requested season concurrently and returns
// them in request order. The first failure cancels the remaining fetches.
func (s *IngestionService) FetchSeasons(ctx context.Context, reqs []SeasonRequest) (out []SeasonInput, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.FetchSeasons", attribute.Int("seasons", len(reqs)))
	defer func() { endSpan(span, err) }()

	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one season request is required", ErrInvalidInput)
	}
	order := make(map[string]int, len(reqs))
	for i, req := range reqs {
		if strings.TrimSpace(req.Competition) == "" || strings.TrimSpace(req.Season) == "" {
			return nil, fmt.Errorf("%w: request[%d] needs competition and season", ErrInvalidInput, i)
		}
		if _, ok := s.sources[req.Vendor]; !ok {
			return nil, fmt.Errorf("%w: no source configured for vendor %q", ErrInvalidInput, req.Vendor)
		}
		if _, dup := order[req.key()]; dup {
			return nil, fmt.Errorf("%w: request %s listed twice", ErrInvalidInput, req.key())
		}
		order[req.key()] = i
	}

	type fetched struct {
		index int
		input SeasonInput
	}

	p := pool.NewWithResults[fetched]().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(s.concurrency)

	for _, req := range reqs {
		req := req
		p.Go(func(ctx context.Context) (fetched, error) {
			start := time.Now()
			payloads, err := s.sources[req.Vendor].FetchSeason(ctx, req)
			if err != nil {
				s.logger.WarnContext(ctx, "season fetch failed",
					"vendor", req.Vendor, "competition", req.Competition, "season", req.Season, "error", err)
				return fetched{}, fmt.Errorf("fetch %s %s from %s: %w", req.Competition, req.Season, req.Vendor, err)
			}
			s.logger.InfoContext(ctx, "season fetched",
				"vendor", req.Vendor,
				"competition", req.Competition,
				"season", req.Season,
				"payloads", len(payloads),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return fetched{
				index: order[req.key()],
				input: SeasonInput{
					Competition: req.Competition,
					Season:      req.Season,
					Vendor:      req.Vendor,
					Payloads:    payloads,
				},
			}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })
	out = make([]SeasonInput, 0, len(results))
	for _, r := range results {
		out = append(out, r.input)
	}
	return out, nil
}
