package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday-features/external/footballdata"
	"github.com/riskibarqy/matchday-features/external/xmlsoccer"
	"github.com/riskibarqy/matchday-features/internal/config"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-features/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"github.com/riskibarqy/matchday-features/internal/usecase"
)

// Pipeline holds the services a build run needs.
type Pipeline struct {
	Ingestion *usecase.IngestionService
	Features  *usecase.FeatureService
	Standings standing.Repository
	Vectors   feature.Repository

	db *sqlx.DB
}

// NewPipeline wires vendor clients, repositories and the feature service.
// Postgres is only opened when persistence is enabled.
func NewPipeline(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}

	p := &Pipeline{}
	if cfg.PersistEnabled {
		db, err := OpenPostgres(ctx, cfg.DBURL)
		if err != nil {
			return nil, err
		}
		p.db = db
		p.Standings = postgres.NewStandingRepository(db)
		p.Vectors = postgres.NewFeatureRepository(db)
	} else {
		p.Standings = memory.NewStandingRepository()
		p.Vectors = memory.NewFeatureRepository()
	}

	var sources []usecase.SeasonSource
	if cfg.FootballDataEnabled {
		sources = append(sources, footballdata.NewClient(footballdata.ClientConfig{
			HTTPClient:        &http.Client{Timeout: cfg.FootballDataTimeout},
			BaseURL:           cfg.FootballDataBaseURL,
			Token:             cfg.FootballDataToken,
			Timeout:           cfg.FootballDataTimeout,
			MaxRetries:        cfg.FootballDataMaxRetries,
			RequestsPerMinute: cfg.FootballDataRequestsPerMinute,
			Logger:            logger,
			CircuitBreaker:    cfg.FootballDataCircuitBreaker(),
		}))
	}
	if cfg.XMLSoccerEnabled {
		sources = append(sources, xmlsoccer.NewClient(xmlsoccer.ClientConfig{
			BaseURL:        cfg.XMLSoccerBaseURL,
			APIKey:         cfg.XMLSoccerAPIKey,
			Timeout:        cfg.XMLSoccerTimeout,
			Logger:         logger,
			CircuitBreaker: cfg.XMLSoccerCircuitBreaker(),
		}))
	}
	if len(sources) == 0 {
		logger.Warn("no vendor source enabled", "hint", "set FOOTBALL_DATA_ENABLED or XML_SOCCER_ENABLED")
	}

	p.Ingestion = usecase.NewIngestionService(logger, cfg.FetchConcurrency, sources...)
	p.Features = usecase.NewFeatureService(
		normalizer.New(normalizer.WithLogger(logger)),
		p.Standings,
		p.Vectors,
		usecase.WithBuildWorkers(cfg.BuildMaxWorkers),
		usecase.WithResolverOptions(
			rating.WithMinScore(cfg.ResolverMinScore),
			rating.WithCacheTTL(cfg.ResolverCacheTTL),
		),
		usecase.WithFeatureLogger(logger),
	)
	return p, nil
}

func (p *Pipeline) Close() error {
	if p.db == nil {
		return nil
	}
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	return nil
}
