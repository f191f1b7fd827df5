package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"github.com/riskibarqy/matchday-features/internal/platform/resilience"
)

// Config stores runtime configuration for the feature builder.
type Config struct {
	AppEnv                            string
	ServiceName                       string
	ServiceVersion                    string
	LogLevel                          logging.Level
	DBURL                             string
	PersistEnabled                    bool
	BuildMaxWorkers                   int
	FetchConcurrency                  int
	ResolverMinScore                  float64
	ResolverCacheTTL                  time.Duration
	FootballDataEnabled               bool
	FootballDataBaseURL               string
	FootballDataToken                 string
	FootballDataTimeout               time.Duration
	FootballDataMaxRetries            int
	FootballDataRequestsPerMinute     int
	FootballDataCircuitEnabled        bool
	FootballDataCircuitFailureCount   int
	FootballDataCircuitOpenTimeout    time.Duration
	FootballDataCircuitHalfOpenMaxReq int
	XMLSoccerEnabled                  bool
	XMLSoccerBaseURL                  string
	XMLSoccerAPIKey                   string
	XMLSoccerTimeout                  time.Duration
	XMLSoccerCircuitEnabled           bool
	UptraceEnabled                    bool
	UptraceDSN                        string
	PyroscopeEnabled                  bool
	PyroscopeServerAddress            string
	PyroscopeAppName                  string
	PyroscopeAuthToken                string
	PyroscopeBasicAuthUser            string
	PyroscopeBasicAuthPassword        string
	PyroscopeUploadRate               time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	persistEnabled, err := strconv.ParseBool(getEnv("PERSIST_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PERSIST_ENABLED: %w", err)
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if persistEnabled && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when PERSIST_ENABLED=true")
	}

	buildMaxWorkers, err := getEnvAsInt("BUILD_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse BUILD_MAX_WORKERS: %w", err)
	}
	if buildMaxWorkers < 1 {
		return Config{}, fmt.Errorf("BUILD_MAX_WORKERS must be >= 1")
	}
	fetchConcurrency, err := getEnvAsInt("FETCH_CONCURRENCY", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CONCURRENCY: %w", err)
	}
	if fetchConcurrency < 1 {
		return Config{}, fmt.Errorf("FETCH_CONCURRENCY must be >= 1")
	}

	resolverMinScore, err := strconv.ParseFloat(getEnv("RESOLVER_MIN_SCORE", "0.6"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESOLVER_MIN_SCORE: %w", err)
	}
	if resolverMinScore <= 0 || resolverMinScore > 1 {
		return Config{}, fmt.Errorf("RESOLVER_MIN_SCORE must be in (0, 1]")
	}
	resolverCacheTTL, err := time.ParseDuration(getEnv("RESOLVER_CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RESOLVER_CACHE_TTL: %w", err)
	}
	if resolverCacheTTL < 0 {
		return Config{}, fmt.Errorf("RESOLVER_CACHE_TTL must be >= 0")
	}

	footballDataEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_ENABLED: %w", err)
	}
	footballDataToken := strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", ""))
	if footballDataEnabled && footballDataToken == "" {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TOKEN is required when FOOTBALL_DATA_ENABLED=true")
	}
	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	footballDataRPM, err := getEnvAsInt("FOOTBALL_DATA_REQUESTS_PER_MINUTE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_REQUESTS_PER_MINUTE: %w", err)
	}
	if footballDataRPM < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_REQUESTS_PER_MINUTE must be >= 1")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footballDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footballDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footballDataCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footballDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	xmlSoccerEnabled, err := strconv.ParseBool(getEnv("XML_SOCCER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XML_SOCCER_ENABLED: %w", err)
	}
	xmlSoccerAPIKey := strings.TrimSpace(getEnv("XML_SOCCER_API_KEY", ""))
	if xmlSoccerEnabled && xmlSoccerAPIKey == "" {
		return Config{}, fmt.Errorf("XML_SOCCER_API_KEY is required when XML_SOCCER_ENABLED=true")
	}
	xmlSoccerTimeout, err := time.ParseDuration(getEnv("XML_SOCCER_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XML_SOCCER_TIMEOUT: %w", err)
	}
	if xmlSoccerTimeout <= 0 {
		return Config{}, fmt.Errorf("XML_SOCCER_TIMEOUT must be > 0")
	}
	xmlSoccerCircuitEnabled, err := strconv.ParseBool(getEnv("XML_SOCCER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse XML_SOCCER_CIRCUIT_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                            appEnv,
		ServiceName:                       getEnv("APP_SERVICE_NAME", "matchday-features"),
		ServiceVersion:                    getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                          logLevel,
		DBURL:                             dbURL,
		PersistEnabled:                    persistEnabled,
		BuildMaxWorkers:                   buildMaxWorkers,
		FetchConcurrency:                  fetchConcurrency,
		ResolverMinScore:                  resolverMinScore,
		ResolverCacheTTL:                  resolverCacheTTL,
		FootballDataEnabled:               footballDataEnabled,
		FootballDataBaseURL:               strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")),
		FootballDataToken:                 footballDataToken,
		FootballDataTimeout:               footballDataTimeout,
		FootballDataMaxRetries:            footballDataMaxRetries,
		FootballDataRequestsPerMinute:     footballDataRPM,
		FootballDataCircuitEnabled:        footballDataCircuitEnabled,
		FootballDataCircuitFailureCount:   footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:    footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenMaxReq: footballDataCircuitHalfOpenMaxReq,
		XMLSoccerEnabled:                  xmlSoccerEnabled,
		XMLSoccerBaseURL:                  strings.TrimSpace(getEnv("XML_SOCCER_BASE_URL", "http://www.xmlsoccer.com/FootballData.asmx")),
		XMLSoccerAPIKey:                   xmlSoccerAPIKey,
		XMLSoccerTimeout:                  xmlSoccerTimeout,
		XMLSoccerCircuitEnabled:           xmlSoccerCircuitEnabled,
		UptraceEnabled:                    uptraceEnabled,
		UptraceDSN:                        uptraceDSN,
		PyroscopeEnabled:                  pyroscopeEnabled,
		PyroscopeServerAddress:            pyroscopeServerAddress,
		PyroscopeAuthToken:                strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:            strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:               pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func (c Config) FootballDataCircuitBreaker() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.FootballDataCircuitEnabled,
		FailureThreshold: c.FootballDataCircuitFailureCount,
		OpenTimeout:      c.FootballDataCircuitOpenTimeout,
		HalfOpenMaxReq:   c.FootballDataCircuitHalfOpenMaxReq,
	}
}

// XMLSoccerCircuitBreaker uses the package defaults; the vendor throttles
// per key so only the switch is configurable.
func (c Config) XMLSoccerCircuitBreaker() resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.Enabled = c.XMLSoccerCircuitEnabled
	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
