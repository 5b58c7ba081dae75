// Package transport issues requests against the Breeze REST API: it signs
// them with the API key, retries transient failures with a capped linear
// backoff, optionally rate-limits, and classifies responses into data or
// typed errors.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/breeze-go/breeze/internal/jsonx"
	"github.com/breeze-go/breeze/internal/logctx"
	"github.com/elnormous/contenttype"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout     = 60 * time.Second
	DefaultMaxAttempts = 5

	backoffStep = 250 * time.Millisecond
	backoffCap  = time.Second

	apiKeyHeader    = "Api-Key"
	requestIDHeader = "X-Request-Id"
	userAgent       = "breeze-go"
)

var jsonMediaType = contenttype.NewMediaType("application/json")

// Backoff returns the delay before retry number attempt (1-based): a linear
// ramp of 250ms per attempt, capped at one second.
func Backoff(attempt int) time.Duration {
	d := time.Duration(attempt) * backoffStep
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// Request names one API call. Endpoint is the path below the base URL, such
// as "/api/people/12".
type Request struct {
	Endpoint string
	Query    url.Values
	// Timeout overrides the per-attempt timeout. Slow listings such as the
	// account log use a longer one.
	Timeout time.Duration
}

// Requester is safe for concurrent use.
type Requester struct {
	base        string
	apiKey      string
	client      *http.Client
	logger      *slog.Logger
	timeout     time.Duration
	maxAttempts int
	limiter     *rate.Limiter
	dryRun      bool
	sleep       func(context.Context, time.Duration) error
}

// Option configures a Requester.
type Option func(*Requester)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Requester) {
		if c != nil {
			r.client = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Requester) { r.logger = logctx.Wrap(l) }
}

// WithTimeout sets the default per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxAttempts bounds the number of attempts per request, first one
// included.
func WithMaxAttempts(n int) Option {
	return func(r *Requester) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithRateLimit allows at most perMinute requests per minute, attempts and
// retries included. Zero means unlimited.
func WithRateLimit(perMinute int) Option {
	return func(r *Requester) {
		if perMinute <= 0 {
			r.limiter = nil
			return
		}
		r.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// WithDryRun makes Do log the request and return a nil payload without
// contacting the service.
func WithDryRun(on bool) Option {
	return func(r *Requester) { r.dryRun = on }
}

// WithSleep replaces the backoff sleep, for tests.
func WithSleep(f func(context.Context, time.Duration) error) Option {
	return func(r *Requester) { r.sleep = f }
}

// New returns a Requester for the service at baseURL. The URL is used as-is;
// validation belongs to the caller.
func New(baseURL, apiKey string, opts ...Option) *Requester {
	r := &Requester{
		base:        strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		client:      http.DefaultClient,
		logger:      logctx.Wrap(nil),
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DryRun reports whether requests are suppressed.
func (r *Requester) DryRun() bool { return r.dryRun }

// Do performs req and returns the decoded JSON payload. Numbers are decoded
// as json.Number. In dry-run mode the payload is nil.
func (r *Requester) Do(ctx context.Context, req Request) (any, error) {
	u := r.base + req.Endpoint
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	rd := &logctx.RequestData{
		RequestID: uuid.NewString(),
		Method:    http.MethodGet,
		Endpoint:  req.Endpoint,
	}
	ctx = logctx.WithRequestData(ctx, rd)

	if r.dryRun {
		r.logger.InfoContext(ctx, "transport.request.dry_run", slog.String("url", redact(u)))
		return nil, nil
	}

	timeout := r.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	var lastErr error
	var lastStatus int
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		rd.Attempt = attempt
		if attempt > 1 {
			delay := Backoff(attempt - 1)
			r.logger.WarnContext(ctx, "transport.request.retry",
				slog.Duration("delay", delay),
				slog.Int("last_status", lastStatus),
				slog.Any("err", lastErr),
			)
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		payload, status, err := r.attempt(ctx, u, rd.RequestID, timeout)
		if err == nil {
			return payload, nil
		}
		var remote *RemoteError
		if errors.As(err, &remote) {
			remote.Endpoint = req.Endpoint
			r.logger.InfoContext(ctx, "transport.request.rejected", slog.Int("status", remote.StatusCode))
			return nil, remote
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr, lastStatus = err, status
	}

	r.logger.ErrorContext(ctx, "transport.request.failed", slog.Any("err", lastErr))
	return nil, &RequestError{
		Endpoint:   req.Endpoint,
		Attempts:   r.maxAttempts,
		StatusCode: lastStatus,
		Err:        lastErr,
	}
}

// errRetryableStatus marks a 5xx response.
var errRetryableStatus = errors.New("server error")

// attempt performs one HTTP exchange. Errors other than *RemoteError are
// retryable.
func (r *Requester) attempt(ctx context.Context, u, requestID string, timeout time.Duration) (any, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	httpReq.Header.Set(apiKeyHeader, r.apiKey)
	httpReq.Header.Set("Content-Type", jsonMediaType.String())
	httpReq.Header.Set("Accept", jsonMediaType.String())
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set(requestIDHeader, requestID)

	r.logger.DebugContext(ctx, "transport.request.start")
	start := time.Now()
	res, err := r.client.Do(httpReq)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	r.logger.DebugContext(ctx, "transport.request.done",
		slog.Int("status", res.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("bytes", len(body)),
	)

	if res.StatusCode >= http.StatusInternalServerError {
		return nil, res.StatusCode, errRetryableStatus
	}

	if ct := res.Header.Get("Content-Type"); ct != "" {
		if !contenttype.NewMediaType(ct).Matches(jsonMediaType) {
			r.logger.WarnContext(ctx, "transport.response.unexpected_content_type", slog.String("content_type", ct))
		}
	}

	payload, decodeErr := jsonx.DecodeBytes(body)
	if decodeErr != nil {
		payload = string(body)
	}
	if res.StatusCode >= http.StatusBadRequest || decodeErr != nil || Rejected(payload) {
		return nil, res.StatusCode, &RemoteError{StatusCode: res.StatusCode, Payload: payload}
	}
	return payload, res.StatusCode, nil
}

// Rejected reports whether a decoded payload is the service's way of
// refusing a request: a literal false, or an object carrying "errors" or
// "errorCode".
func Rejected(payload any) bool {
	switch t := payload.(type) {
	case bool:
		return !t
	case map[string]any:
		_, hasErrors := t["errors"]
		_, hasCode := t["errorCode"]
		return hasErrors || hasCode
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// redact drops the query string, which may carry personal data.
func redact(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}
