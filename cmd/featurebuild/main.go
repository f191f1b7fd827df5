// Command featurebuild fetches match results, rebuilds league tables and
// exports one feature vector per team per match.
//
// Usage:
//
//	featurebuild build --manifest competitions.yaml --output features.csv
//	featurebuild build --manifest competitions.yaml --format jsonl --output -
//	featurebuild standings --competition "Premier League" --season 2017-18 --matchday 10
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/riskibarqy/matchday-features/internal/app"
	"github.com/riskibarqy/matchday-features/internal/config"
	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/infrastructure/dataset"
	"github.com/riskibarqy/matchday-features/internal/infrastructure/export"
	"github.com/riskibarqy/matchday-features/internal/observability"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"github.com/riskibarqy/matchday-features/internal/usecase"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "featurebuild",
		Short:         "Build match feature datasets from vendor fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(buildCmd())
	root.AddCommand(standingsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type session struct {
	cfg      config.Config
	logger   *logging.Logger
	pipeline *app.Pipeline
}

// withSession loads config, starts tracing and profiling, wires the pipeline
// and tears everything down after fn returns.
func withSession(fn func(ctx context.Context, rt session) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "version", cfg.ServiceVersion)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	defer func() {
		if err := stopProfiling(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pipeline, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipeline.Close(); err != nil {
			logger.Warn("pipeline close failed", "error", err)
		}
	}()

	return fn(ctx, session{cfg: cfg, logger: logger, pipeline: pipeline})
}

type buildFlags struct {
	manifest string
	roster   string
	output   string
	format   string
	failFast bool
	persist  bool
}

func buildCmd() *cobra.Command {
	var flags buildFlags
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch every season in the manifest and export feature vectors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, rt session) error {
				return runBuild(ctx, rt, flags, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&flags.manifest, "manifest", "competitions.yaml", "Competition manifest (YAML)")
	cmd.Flags().StringVar(&flags.roster, "roster", "", "Player ratings CSV; overrides the manifest")
	cmd.Flags().StringVar(&flags.output, "output", "", "Output path, - for stdout; overrides the manifest")
	cmd.Flags().StringVar(&flags.format, "format", "", "csv or jsonl; overrides the manifest")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "Abort on the first malformed record")
	cmd.Flags().BoolVar(&flags.persist, "persist", false, "Write standings and vectors to postgres (needs PERSIST_ENABLED)")
	return cmd
}

func runBuild(ctx context.Context, rt session, flags buildFlags, stdout io.Writer) (err error) {
	ctx, span := otel.Tracer("matchday-features/cmd/featurebuild").Start(ctx, "featurebuild.build")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	if err := checkPersist(flags, rt.cfg); err != nil {
		return err
	}

	manifest, err := dataset.LoadManifest(flags.manifest)
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(flags.manifest)

	format, err := export.ParseFormat(firstNonEmpty(flags.format, manifest.Format))
	if err != nil {
		return err
	}

	var roster []rating.Player
	if path := firstNonEmpty(flags.roster, resolvePath(baseDir, manifest.Roster)); path != "" {
		roster, err = dataset.LoadRosterFile(path)
		if err != nil {
			return err
		}
		rt.logger.Info("roster loaded", "path", path, "players", len(roster))
	}

	start := time.Now()
	seasons, err := rt.pipeline.Ingestion.FetchSeasons(ctx, manifest.Requests())
	if err != nil {
		return fmt.Errorf("fetch seasons: %w", err)
	}

	result, err := rt.pipeline.Features.Build(ctx, usecase.BuildInput{
		Seasons:  seasons,
		Roster:   roster,
		FailFast: flags.failFast,
		Persist:  flags.persist,
	})
	if err != nil {
		return fmt.Errorf("build features: %w", err)
	}
	logSummary(rt.logger, result)

	vectors := make([]feature.Vector, 0, result.VectorCount())
	for _, season := range result.Seasons {
		vectors = append(vectors, season.Vectors...)
	}

	out, closeOut, err := openOutput(firstNonEmpty(flags.output, resolvePath(baseDir, manifest.Output)), stdout)
	if err != nil {
		return err
	}
	if err := export.Write(out, format, vectors); err != nil {
		_ = closeOut()
		return fmt.Errorf("export vectors: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	rt.logger.Info("feature build exported",
		"vectors", len(vectors),
		"format", format,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func checkPersist(flags buildFlags, cfg config.Config) error {
	if flags.persist && !cfg.PersistEnabled {
		return fmt.Errorf("%w: --persist needs PERSIST_ENABLED=true", usecase.ErrInvalidInput)
	}
	return nil
}

func logSummary(logger *logging.Logger, result usecase.BuildResult) {
	logger.Info("temporal features",
		"total", result.TemporalReport.Total,
		"processed", result.TemporalReport.Processed,
		"rejected", result.TemporalReport.Rejected,
	)
	for _, season := range result.Seasons {
		logger.Info("season built",
			"competition", season.Competition,
			"season", season.Season,
			"records_rejected", season.NormalizeReport.Rejected,
			"lineups_rejected", season.LineupReport.Rejected,
			"standings_rows", len(season.Standings),
			"vectors", len(season.Vectors),
			"unresolved_players", len(season.Unresolved),
		)
		for _, u := range season.Unresolved {
			logger.Debug("unresolved player",
				"match_id", u.MatchID,
				"team", u.Team,
				"name", u.Name,
				"best_score", u.BestScore,
			)
		}
	}
}

func standingsCmd() *cobra.Command {
	var competition, season string
	var matchday int
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print a persisted league table as it stood after a matchday",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(func(ctx context.Context, rt session) error {
				if !rt.cfg.PersistEnabled {
					return fmt.Errorf("%w: standings needs PERSIST_ENABLED=true", usecase.ErrInvalidInput)
				}
				rows, err := rt.pipeline.Standings.ListBySeason(ctx, competition, season)
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					return fmt.Errorf("%w: no standings for %s %s", usecase.ErrNotFound, competition, season)
				}
				return printTable(cmd.OutOrStdout(), standing.NewTable(rows), matchday)
			})
		},
	}
	cmd.Flags().StringVar(&competition, "competition", "", "Competition name")
	cmd.Flags().StringVar(&season, "season", "", "Season label")
	cmd.Flags().IntVar(&matchday, "matchday", 0, "Matchday; 0 prints the final table")
	_ = cmd.MarkFlagRequired("competition")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func printTable(w io.Writer, table *standing.Table, matchday int) error {
	if matchday <= 0 {
		days := table.Matchdays()
		if len(days) > 0 {
			matchday = days[len(days)-1]
		}
	}

	if _, err := fmt.Fprintf(w, "%-4s %-28s %3s %3s %3s %3s %4s %4s %4s %4s\n",
		"Pos", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for _, row := range table.After(matchday) {
		if _, err := fmt.Fprintf(w, "%-4d %-28s %3d %3d %3d %3d %4d %4d %4d %4d\n",
			row.Position, row.Team, row.Played, row.Won, row.Drawn, row.Lost,
			row.GoalsFor, row.GoalsAgainst, row.GoalDifference, row.Points); err != nil {
			return err
		}
	}
	return nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

func resolvePath(baseDir, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
