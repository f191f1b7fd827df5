package xmlsoccer

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-features/internal/normalizer"
	"github.com/riskibarqy/matchday-features/internal/platform/logging"
	"github.com/riskibarqy/matchday-features/internal/platform/resilience"
	"github.com/riskibarqy/matchday-features/internal/usecase"
	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "http://www.xmlsoccer.com/FootballData.asmx"

var (
	errTransient = crerr.New("xmlsoccer transient failure")
	// The service answers throttled calls with HTTP 200 and this text body.
	errThrottled = crerr.New("xmlsoccer request throttled")
)

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixtures from the XMLSoccer SOAP-over-GET API.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                "matchday-features",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: 16 << 20,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		logger:  logger.Named("xmlsoccer"),
		breaker: cfg.CircuitBreaker.Build(),
	}
}

func (c *Client) Vendor() normalizer.Vendor {
	return normalizer.VendorXMLSoccer
}

// FetchSeason calls GetFixturesByLeagueAndSeason and flattens every <Match>
// element into a payload keyed by child element name.
func (c *Client) FetchSeason(ctx context.Context, req usecase.SeasonRequest) ([]normalizer.Payload, error) {
	league := strings.TrimSpace(req.CompetitionCode)
	if league == "" {
		league = strings.TrimSpace(req.Competition)
	}
	seasonCode := SeasonDateString(req.StartYear, req.Season)
	if league == "" || seasonCode == "" {
		return nil, fmt.Errorf("%w: xmlsoccer league and season are required", usecase.ErrInvalidInput)
	}

	values := url.Values{}
	values.Set("ApiKey", c.apiKey)
	values.Set("league", league)
	values.Set("seasonDateString", seasonCode)
	fullURL := c.baseURL + "/GetFixturesByLeagueAndSeason?" + values.Encode()

	var body []byte
	call := func() error {
		raw, err := c.get(ctx, fullURL)
		body = raw
		return err
	}
	countable := func(err error) bool { return crerr.Is(err, errTransient) }

	var err error
	if c.breaker != nil {
		err = c.breaker.Do(call, countable)
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: xmlsoccer is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	} else {
		err = call()
	}
	if err != nil {
		c.logger.WarnContext(ctx, "xmlsoccer request failed", "league", league, "season", seasonCode, "error", err)
		return nil, err
	}

	payloads, err := ParseFixtures(body)
	if err != nil {
		return nil, err
	}
	for _, p := range payloads {
		p["Season"] = req.Season
	}
	return payloads, nil
}

// SeasonDateString renders the vendor season code, "1718" for 2017/18.
func SeasonDateString(startYear int, label string) string {
	if startYear > 0 {
		return fmt.Sprintf("%02d%02d", startYear%100, (startYear+1)%100)
	}
	return strings.NewReplacer("-", "", "/", "", " ", "").Replace(label)
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/xml")

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errTransient, err)
	}

	body := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	switch {
	case status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status=%d", errTransient, status)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("xmlsoccer status=%d body=%s", status, abbreviate(body))
	}
	if bytes.Contains(body, []byte("To avoid misuse of the service")) {
		return nil, crerr.Mark(fmt.Errorf("%w: %s", errTransient, abbreviate(body)), errThrottled)
	}
	return body, nil
}

type fixtureDocument struct {
	Matches []xmlElement `xml:"Match"`
}

type xmlElement struct {
	Fields []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// ParseFixtures flattens <XMLSOCCER.COM><Match>...</Match></XMLSOCCER.COM>.
func ParseFixtures(body []byte) ([]normalizer.Payload, error) {
	var doc fixtureDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, crerr.Wrap(err, "decode xmlsoccer fixtures")
	}

	out := make([]normalizer.Payload, 0, len(doc.Matches))
	for _, m := range doc.Matches {
		p := make(normalizer.Payload, len(m.Fields))
		for _, f := range m.Fields {
			p[f.XMLName.Local] = strings.TrimSpace(f.Value)
		}
		out = append(out, p)
	}
	return out, nil
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
