package breeze

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/breeze-go/breeze/internal/logctx"
	"github.com/breeze-go/breeze/internal/schemacache"
	"github.com/breeze-go/breeze/internal/transport"
	"github.com/breeze-go/breeze/normalize"
)

// DefaultDetailConcurrency caps the number of per-person requests ShowPeople
// keeps in flight.
const DefaultDetailConcurrency = 100

// Record is one normalized entity.
type Record = map[string]any

// Client talks to one organization's Breeze instance. It is safe for
// concurrent use.
type Client struct {
	req               *transport.Requester
	logger            *slog.Logger
	schemas           *schemacache.Cache
	detailConcurrency int
	extraActions      []string
}

// Option configures a Client.
type Option func(*config)

type config struct {
	httpClient        *http.Client
	logger            *slog.Logger
	timeout           time.Duration
	maxAttempts       int
	ratePerMinute     int
	detailConcurrency int
	schemaTTL         time.Duration
	dryRun            bool
	extraActions      []string
	transportOpts     []transport.Option
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) { cfg.httpClient = c }
}

// WithLogger sets the logger. Without one nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithTimeout sets the per-attempt timeout (default 60s).
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) { cfg.timeout = d }
}

// WithMaxAttempts sets how many times a request is tried before failing with
// a *RequestError (default 5).
func WithMaxAttempts(n int) Option {
	return func(cfg *config) { cfg.maxAttempts = n }
}

// WithRateLimit caps outgoing requests per minute. Zero disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(cfg *config) { cfg.ratePerMinute = perMinute }
}

// WithDetailConcurrency caps concurrent per-person fetches in ShowPeople.
func WithDetailConcurrency(n int) Option {
	return func(cfg *config) { cfg.detailConcurrency = n }
}

// WithSchemaCacheTTL keeps fetched profile and form field listings for ttl.
// By default every call that needs a schema fetches it.
func WithSchemaCacheTTL(ttl time.Duration) Option {
	return func(cfg *config) { cfg.schemaTTL = ttl }
}

// WithDryRun logs requests without sending them. Listings come back empty.
func WithDryRun(on bool) Option {
	return func(cfg *config) { cfg.dryRun = on }
}

// WithAccountLogActions accepts account-log action names the client does not
// know about. Their entries are normalized generically instead of failing.
func WithAccountLogActions(names ...string) Option {
	return func(cfg *config) { cfg.extraActions = append(cfg.extraActions, names...) }
}

// withTransportOptions passes options straight to the requester, for tests.
func withTransportOptions(opts ...transport.Option) Option {
	return func(cfg *config) { cfg.transportOpts = append(cfg.transportOpts, opts...) }
}

// New returns a client for the Breeze instance at baseURL, which must be an
// https URL on a breezechms domain such as https://demo.breezechms.com.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if err := validateBaseURL(baseURL); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: an API key is required", ErrInvalidConfig)
	}

	cfg := config{detailConcurrency: DefaultDetailConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.detailConcurrency <= 0 {
		cfg.detailConcurrency = DefaultDetailConcurrency
	}

	logger := logctx.Wrap(cfg.logger)
	schemas, err := schemacache.New(schemacache.DefaultSize, cfg.schemaTTL)
	if err != nil {
		return nil, err
	}

	topts := []transport.Option{
		transport.WithHTTPClient(cfg.httpClient),
		transport.WithLogger(logger),
		transport.WithTimeout(cfg.timeout),
		transport.WithMaxAttempts(cfg.maxAttempts),
		transport.WithRateLimit(cfg.ratePerMinute),
		transport.WithDryRun(cfg.dryRun),
	}
	topts = append(topts, cfg.transportOpts...)

	return &Client{
		req:               transport.New(baseURL, apiKey, topts...),
		logger:            logger,
		schemas:           schemas,
		detailConcurrency: cfg.detailConcurrency,
		extraActions:      cfg.extraActions,
	}, nil
}

func validateBaseURL(raw string) error {
	if !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("%w: base URL must start with https:// (got %q)", ErrInvalidConfig, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !strings.Contains(u.Hostname(), ".breezechms.") {
		return fmt.Errorf("%w: base URL must be a breezechms host such as https://demo.breezechms.com (got %q)", ErrInvalidConfig, raw)
	}
	return nil
}

// get fetches endpoint and returns the raw payload, tagging log records with
// the client operation.
func (c *Client) get(ctx context.Context, op, endpoint string, q url.Values) (any, error) {
	return c.getWithTimeout(ctx, op, endpoint, q, 0)
}

func (c *Client) getWithTimeout(ctx context.Context, op, endpoint string, q url.Values, timeout time.Duration) (any, error) {
	ctx = logctx.WithCallData(ctx, &logctx.CallData{Operation: op})
	raw, err := c.req.Do(ctx, transport.Request{Endpoint: endpoint, Query: q, Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return raw, nil
}

// records converts a normalized listing into records. Index-keyed maps are
// treated as lists; elements that are not objects are skipped.
func (c *Client) records(ctx context.Context, op string, v any) []Record {
	var list []any
	switch t := v.(type) {
	case nil:
		return []Record{}
	case []any:
		list = t
	case map[string]any:
		if l, ok := indexedList(t); ok {
			list = l
		} else {
			return []Record{t}
		}
	default:
		c.logger.WarnContext(ctx, "client.response.unexpected_shape", slog.String("op", op), slog.String("type", fmt.Sprintf("%T", v)))
		return []Record{}
	}
	out := make([]Record, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
			continue
		}
		c.logger.WarnContext(ctx, "client.response.skipped_element", slog.String("op", op), slog.String("type", fmt.Sprintf("%T", e)))
	}
	return out
}

// record returns v as a single record, or nil when the service returned
// nothing usable.
func record(v any) Record {
	m, _ := v.(map[string]any)
	return m
}

func indexedList(m map[string]any) ([]any, bool) {
	if len(m) == 0 {
		return nil, false
	}
	list := make([]any, len(m))
	for i := range list {
		e, ok := m[fmt.Sprint(i)]
		if !ok {
			return nil, false
		}
		list[i] = e
	}
	return list, true
}

func (c *Client) normalizeOpts(extra ...normalize.Option) []normalize.Option {
	opts := make([]normalize.Option, 0, len(extra)+1)
	if len(c.extraActions) > 0 {
		opts = append(opts, normalize.WithExtraActions(c.extraActions...))
	}
	return append(opts, extra...)
}
