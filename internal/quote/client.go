// Package quote fetches the USD-BRL exchange rate from a public quote API.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/theirongolddev/rateio/internal/model"
)

const (
	// DefaultBaseURL is the public AwesomeAPI endpoint.
	DefaultBaseURL = "https://economia.awesomeapi.com.br"

	defaultTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB

	breakerTrip    = 3
	breakerTimeout = 30 * time.Second
)

var (
	// ErrMalformedQuote indicates the response lacked a usable ask price.
	ErrMalformedQuote = errors.New("quote: malformed response")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("quote: rate limited")
	// ErrUnavailable indicates the circuit breaker is rejecting requests.
	ErrUnavailable = errors.New("quote: service unavailable")
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches exchange rate quotes.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
	now     func() time.Time
}

// NewClient creates a quote client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		timeout: opts.Timeout,
		http:    opts.HTTPClient,
		log:     opts.Logger,
		now:     time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "quote",
		MaxRequests: 1,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrip
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the API's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("quote circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// BaseURL returns the endpoint the client queries.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchRate returns the latest USD-BRL quote. The worksheet is never touched
// here; callers decide whether to apply the rate.
func (c *Client) FetchRate(ctx context.Context) (model.Quote, error) {
	return c.FetchPair(ctx, model.PairUSDBRL)
}

// FetchPair returns the latest quote for a pair such as "USD-BRL".
func (c *Client) FetchPair(ctx context.Context, pair string) (model.Quote, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, pair)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		c.log.Warn("quote fetch failed", zap.String("pair", pair), zap.Error(err))
		return model.Quote{}, err
	}

	q := res.(model.Quote)
	c.log.Debug("quote fetched", zap.String("pair", pair), zap.Float64("rate", q.Rate))
	return q, nil
}

func (c *Client) fetch(ctx context.Context, pair string) (model.Quote, error) {
	body, err := c.get(ctx, "/last/"+pair)
	if err != nil {
		return model.Quote{}, err
	}
	q, err := parseQuote(body, pair)
	if err != nil {
		return model.Quote{}, err
	}
	q.FetchedAt = c.now()
	return q, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("quote: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/rateio/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("quote: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("quote: reading response: %w", err)
	}
	return body, nil
}

// parseQuote extracts the pair from a /last response. The rate is the ask
// price rounded to cents.
func parseQuote(body []byte, pair string) (model.Quote, error) {
	var raw lastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", ErrMalformedQuote, err)
	}

	key := strings.ReplaceAll(pair, "-", "")
	pq, ok := raw[key]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: missing %s", ErrMalformedQuote, key)
	}

	ask, err := decimal.NewFromString(strings.TrimSpace(pq.Ask))
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: ask %q: %w", ErrMalformedQuote, pq.Ask, err)
	}
	rate := ask.Round(2)
	if !rate.IsPositive() {
		return model.Quote{}, fmt.Errorf("%w: non-positive ask %s", ErrMalformedQuote, pq.Ask)
	}

	q := model.Quote{
		Pair: pair,
		Ask:  ask.InexactFloat64(),
		Rate: rate.InexactFloat64(),
	}
	if bid, err := decimal.NewFromString(strings.TrimSpace(pq.Bid)); err == nil {
		q.Bid = bid.InexactFloat64()
	}
	if ts, err := strconv.ParseInt(strings.TrimSpace(pq.Timestamp), 10, 64); err == nil && ts > 0 {
		q.QuotedAt = time.Unix(ts, 0).UTC()
	}
	return q, nil
}
