package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/platform/resilience"
	"github.com/riskibarqy/matchday-features/internal/usecase"
)

const matchesBody = `{
	"count": 2,
	"matches": [
		{"id": 233086, "utcDate": "2017-08-11T18:45:00Z", "matchday": 1,
		 "homeTeam": {"name": "Arsenal FC"}, "awayTeam": {"name": "Leicester City FC"},
		 "score": {"fullTime": {"homeTeam": 4, "awayTeam": 3}}},
		{"id": 233087, "utcDate": "2017-08-12T11:30:00Z", "matchday": 1,
		 "homeTeam": {"name": "Watford FC"}, "awayTeam": {"name": "Liverpool FC"},
		 "score": {"fullTime": {"homeTeam": 3, "awayTeam": 3}}}
	]
}`

func premierLeague1718() usecase.SeasonRequest {
	return usecase.SeasonRequest{
		Vendor:          normalizer.VendorFootballData,
		Competition:     "Premier League",
		CompetitionCode: "PL",
		Season:          "17-18",
		StartYear:       2017,
	}
}

func newTestClient(serverURL string, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	c := NewClient(ClientConfig{
		BaseURL:           serverURL,
		Token:             "secret-token",
		MaxRetries:        retries,
		RequestsPerMinute: 60000,
		CircuitBreaker:    breaker,
	})
	c.backoff = time.Millisecond
	return c
}

func TestClient_FetchSeason(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/PL/matches" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Auth-Token"); got != "secret-token" {
			t.Errorf("X-Auth-Token = %q", got)
		}
		if r.URL.Query().Get("dateFrom") != "2017-08-01" || r.URL.Query().Get("dateTo") != "2018-05-30" {
			t.Errorf("unexpected window %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(matchesBody))
	}))
	defer server.Close()

	payloads, err := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{}).FetchSeason(context.Background(), premierLeague1718())
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if len(payloads) != 2 {
		t.Fatalf("got %d payloads, want 2", len(payloads))
	}

	rec, err := normalizer.New().Normalize(normalizer.VendorFootballData, payloads[0])
	if err != nil {
		t.Fatalf("normalize fetched payload: %v", err)
	}
	if rec.Season != "17-18" || rec.Competition != "Premier League" || rec.ID != "233086" {
		t.Fatalf("fetcher did not stamp season metadata: %+v", rec)
	}
}

func TestClient_RetriesRateLimitedResponses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message": "You reached your request limit."}`))
			return
		}
		_, _ = w.Write([]byte(matchesBody))
	}))
	defer server.Close()

	payloads, err := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{}).FetchSeason(context.Background(), premierLeague1718())
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if len(payloads) != 2 || calls.Load() != 3 {
		t.Fatalf("payloads=%d calls=%d", len(payloads), calls.Load())
	}
}

func TestClient_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	if _, err := client.FetchSeason(context.Background(), premierLeague1718()); err == nil {
		t.Fatalf("expected failure on 502")
	}
	_, err := client.FetchSeason(context.Background(), premierLeague1718())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once open, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open breaker still reached the server: calls=%d", calls.Load())
	}
}

func TestClient_NonRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "The resource you are looking for is restricted."}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3, resilience.CircuitBreakerConfig{}).FetchSeason(context.Background(), premierLeague1718())
	if err == nil || calls.Load() != 1 {
		t.Fatalf("err=%v calls=%d, want single failed call", err, calls.Load())
	}
}

func TestClient_FetchSeasonValidatesRequest(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	req := premierLeague1718()
	req.CompetitionCode = ""
	if _, err := client.FetchSeason(context.Background(), req); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
