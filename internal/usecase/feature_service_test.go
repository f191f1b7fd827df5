package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-features/internal/domain/feature"
	"github.com/riskibarqy/matchday-features/internal/domain/match"
	"github.com/riskibarqy/matchday-features/internal/domain/rating"
	"github.com/riskibarqy/matchday-features/internal/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/domain/temporal"
	featuremock "github.com/riskibarqy/matchday-features/internal/mocks/domain/feature"
	standingmock "github.com/riskibarqy/matchday-features/internal/mocks/domain/standing"
	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/stretchr/testify/mock"
)

func footballDataPayload(id, matchday int, kickoff time.Time, home, away string, homeGoals, awayGoals any) normalizer.Payload {
	return normalizer.Payload{
		"id":       float64(id),
		"utcDate":  kickoff.UTC().Format(time.RFC3339),
		"matchday": float64(matchday),
		"homeTeam": map[string]any{"name": home},
		"awayTeam": map[string]any{"name": away},
		"score": map[string]any{
			"fullTime": map[string]any{"homeTeam": homeGoals, "awayTeam": awayGoals},
		},
	}
}

func xmlSoccerPayload(id, round int, kickoff time.Time, home, away string, homeGoals, awayGoals int) normalizer.Payload {
	return normalizer.Payload{
		"Id":        strconv.Itoa(id),
		"Date":      kickoff.Format(time.RFC3339),
		"Round":     strconv.Itoa(round),
		"HomeTeam":  home,
		"AwayTeam":  away,
		"HomeGoals": strconv.Itoa(homeGoals),
		"AwayGoals": strconv.Itoa(awayGoals),
		"League":    "English Premier League",
	}
}

var kickoff1718 = time.Date(2017, 8, 12, 14, 0, 0, 0, time.UTC)

func season1718() SeasonInput {
	return SeasonInput{
		Competition: "Premier League",
		Season:      "17-18",
		Vendor:      normalizer.VendorFootballData,
		Payloads: []normalizer.Payload{
			footballDataPayload(1, 1, kickoff1718, "TeamA", "TeamB", 2.0, 1.0),
			footballDataPayload(2, 1, kickoff1718.Add(2*time.Hour), "TeamC", "TeamD", 0.0, 0.0),
			footballDataPayload(3, 2, kickoff1718.AddDate(0, 0, 7), "TeamA", "TeamC", 1.0, 3.0),
			footballDataPayload(4, 2, kickoff1718.AddDate(0, 0, 7), "TeamB", "TeamD", nil, nil),
		},
	}
}

func season1819() SeasonInput {
	start := time.Date(2018, 8, 11, 15, 0, 0, 0, time.UTC)
	first := xmlSoccerPayload(101, 1, start, "TeamB", "TeamA", 0, 2)
	first["HomeTeamFormation"] = "4-4-2"
	first["HomeLineupGoalkeeper"] = "Keeper One"
	first["HomeLineupDefense"] = "Back One; Back Two"
	first["HomeLineupForward"] = "Zed Quixley"

	return SeasonInput{
		Competition: "Premier League",
		Season:      "18-19",
		Vendor:      normalizer.VendorXMLSoccer,
		Payloads: []normalizer.Payload{
			first,
			xmlSoccerPayload(102, 1, start.Add(time.Hour), "TeamD", "TeamC", 1, 1),
		},
	}
}

func testRoster() []rating.Player {
	return []rating.Player{
		{Name: "Keeper One", Club: "TeamB", Overall: 80},
		{Name: "Back One", Club: "TeamB", Overall: 70},
		{Name: "Back Two", Club: "TeamB", Overall: 75},
	}
}

func TestFeatureService_Build_PersistsEverySeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	standingRepo := standingmock.NewRepository(t)
	featureRepo := featuremock.NewRepository(t)

	standingRepo.
		On("ReplaceBySeason", ctx, "Premier League", "17-18", mock.MatchedBy(func(rows []standing.Row) bool { return len(rows) == 6 })).
		Return(nil).
		Once()
	standingRepo.
		On("ReplaceBySeason", ctx, "Premier League", "18-19", mock.MatchedBy(func(rows []standing.Row) bool { return len(rows) == 4 })).
		Return(nil).
		Once()
	featureRepo.
		On("ReplaceBySeason", ctx, "Premier League", "17-18", mock.MatchedBy(func(v []feature.Vector) bool { return len(v) == 6 })).
		Return(nil).
		Once()
	featureRepo.
		On("ReplaceBySeason", ctx, "Premier League", "18-19", mock.MatchedBy(func(v []feature.Vector) bool { return len(v) == 4 })).
		Return(nil).
		Once()

	service := NewFeatureService(nil, standingRepo, featureRepo, WithBuildWorkers(2))
	result, err := service.Build(ctx, BuildInput{
		Seasons: []SeasonInput{season1819(), season1718()},
		Roster:  testRoster(),
		Persist: true,
	})
	if err != nil {
		t.Fatalf("build features: %v", err)
	}

	if len(result.Seasons) != 2 || result.Seasons[0].Season != "17-18" || result.Seasons[1].Season != "18-19" {
		t.Fatalf("unexpected season order: %+v", result.Seasons)
	}
	if got := result.VectorCount(); got != 10 {
		t.Fatalf("vector count = %d, want 10", got)
	}

	first := result.Seasons[0]
	if first.NormalizeReport.Rejected != 1 || first.NormalizeReport.Total != 4 {
		t.Fatalf("unexpected normalize report: %+v", first.NormalizeReport)
	}
	if first.LineupReport.Total != 0 {
		t.Fatalf("football-data season should not extract lineups: %+v", first.LineupReport)
	}

	second := result.Seasons[1]
	home := second.Vectors[0]
	if home.Team != "TeamB" || home.Formation != "4-4-2" {
		t.Fatalf("unexpected first vector: %+v", home)
	}
	if home.Lineup.Resolved != 3 || home.Lineup.Unresolved != 1 || home.Lineup.Mean != 75 {
		t.Fatalf("unexpected lineup rating: %+v", home.Lineup)
	}
	if home.RestSeconds == 0 || home.Previous[0] == "none" {
		t.Fatalf("temporal features should carry across seasons: %+v", home)
	}
	if home.Form.Played != 0 {
		t.Fatalf("standings must reset per season: %+v", home.Form)
	}
	if len(second.Unresolved) != 1 || second.Unresolved[0].Name != "Zed Quixley" {
		t.Fatalf("unexpected unresolved players: %+v", second.Unresolved)
	}
}

func TestFeatureService_Build_MatchIDsReusedAcrossSeasons(t *testing.T) {
	t.Parallel()

	start := kickoff1718.AddDate(1, 0, 0)
	next := SeasonInput{
		Competition: "Premier League",
		Season:      "18-19",
		Vendor:      normalizer.VendorFootballData,
		Payloads: []normalizer.Payload{
			footballDataPayload(1, 1, start, "TeamA", "TeamB", 0.0, 2.0),
			footballDataPayload(3, 1, start.Add(time.Hour), "TeamE", "TeamF", 1.0, 1.0),
		},
	}

	result, err := NewFeatureService(nil, nil, nil).Build(context.Background(), BuildInput{
		Seasons: []SeasonInput{season1718(), next},
	})
	if err != nil {
		t.Fatalf("build features: %v", err)
	}
	if result.TemporalReport.Rejected != 0 {
		t.Fatalf("temporal rejected reused ids: %+v", result.TemporalReport.Rejects)
	}

	second := result.Seasons[1]
	if second.FeatureReport.Rejected != 0 || len(second.Vectors) != 4 {
		t.Fatalf("18-19 lost vectors: report=%+v vectors=%d", second.FeatureReport, len(second.Vectors))
	}

	teamA := second.Vectors[0]
	if teamA.Team != "TeamA" || teamA.Outcome != match.OutcomeLoss {
		t.Fatalf("18-19 vector uses another season's row: %+v", teamA)
	}
	if want := int64(358 * 24 * 3600); teamA.RestSeconds != want {
		t.Fatalf("rest = %d, want %d", teamA.RestSeconds, want)
	}
	if teamA.Previous[0] != match.OutcomeLoss {
		t.Fatalf("previous outcome = %s, want loss", teamA.Previous[0])
	}

	teamE := second.Vectors[2]
	if teamE.Team != "TeamE" || teamE.Outcome != match.OutcomeDraw || teamE.RestSeconds != 0 {
		t.Fatalf("unexpected vector for reused id 3: %+v", teamE)
	}
}

func TestFeatureService_Build_InvalidInput(t *testing.T) {
	t.Parallel()

	service := NewFeatureService(nil, nil, nil)
	tests := []struct {
		name  string
		input BuildInput
	}{
		{name: "no seasons", input: BuildInput{}},
		{name: "missing season label", input: BuildInput{Seasons: []SeasonInput{{Competition: "Premier League"}}}},
		{name: "duplicate season", input: BuildInput{Seasons: []SeasonInput{season1718(), season1718()}}},
		{name: "persist without repositories", input: BuildInput{Seasons: []SeasonInput{season1718()}, Persist: true}},
		{name: "unknown vendor", input: BuildInput{Seasons: []SeasonInput{{Competition: "Serie A", Season: "17-18", Vendor: "opta"}}}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := service.Build(context.Background(), tc.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestFeatureService_Build_TemporalInvariantIsFatal(t *testing.T) {
	t.Parallel()

	season := season1718()
	season.Payloads = append(season.Payloads,
		footballDataPayload(5, 3, kickoff1718.AddDate(0, 0, 14), "TeamA", "TeamD", 1.0, 0.0),
		footballDataPayload(6, 3, kickoff1718.AddDate(0, 0, 14), "TeamB", "TeamA", 1.0, 0.0),
	)

	_, err := NewFeatureService(nil, nil, nil).Build(context.Background(), BuildInput{Seasons: []SeasonInput{season}})
	if !errors.Is(err, temporal.ErrAggregationInvariant) {
		t.Fatalf("expected aggregation invariant error, got %v", err)
	}
}

func TestFeatureService_Build_PersistFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	standingRepo := standingmock.NewRepository(t)
	featureRepo := featuremock.NewRepository(t)
	standingRepo.
		On("ReplaceBySeason", ctx, "Premier League", "17-18", mock.Anything).
		Return(errors.New("connection refused")).
		Once()

	service := NewFeatureService(nil, standingRepo, featureRepo)
	_, err := service.Build(ctx, BuildInput{Seasons: []SeasonInput{season1718()}, Persist: true})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
