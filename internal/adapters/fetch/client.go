// Package fetch retrieves per-category record envelopes from the upstream
// stats API.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/okian/scout/internal/domain/record"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Query parameter names understood by the upstream API.
const (
	ParamSortBy     = "sortBy"
	ParamMinMinutes = "minSure"
)

// Params are forwarded to every category request.
type Params struct {
	SortBy     string
	MinMinutes float64
}

// Config controls how the client reaches the upstream API.
type Config struct {
	BaseURL      string
	Token        string
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxRetries   int
	Concurrency  int
	MaxBodyBytes int64
	// RetryInterval is the first backoff delay; later delays grow
	// exponentially.
	RetryInterval time.Duration
	Logger        logger.Logger
}

// Client fetches record envelopes.
type Client struct {
	baseURL       string
	token         string
	httpClient    httpDoer
	maxRetries    int
	concurrency   int
	maxBodyBytes  int64
	retryInterval time.Duration
	log           logger.Logger
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:       normalizeBaseURL(cfg.BaseURL),
		token:         cfg.Token,
		httpClient:    resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		maxRetries:    retries,
		concurrency:   positiveOr(cfg.Concurrency, defaultConcurrency),
		maxBodyBytes:  positiveOr(cfg.MaxBodyBytes, int64(defaultMaxBodyBytes)),
		retryInterval: positiveOr(cfg.RetryInterval, defaultRetryInterval),
		log:           log.Named("fetch"),
	}
}

// Fetch retrieves one category. Transport errors, 429 and 5xx responses are
// retried with exponential backoff; a success:false envelope returns
// record.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context, category string, p Params) ([]record.Raw, error) {
	category = strings.Trim(strings.TrimSpace(category), "/")
	if category == "" {
		return nil, ErrEmptyCategory
	}

	start := time.Now()
	var env record.Envelope
	op := func() error {
		e, err := c.fetchOnce(ctx, category, p)
		if err != nil {
			return err
		}
		env = e
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
	notify := func(err error, wait time.Duration) {
		metrics.RecordFetchRetry(category)
		c.log.Debug(ctx, "retrying category fetch",
			logger.String("category", category),
			logger.Duration("wait", wait),
			logger.Error(err),
		)
	}

	err := backoff.RetryNotify(op, policy, notify)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordFetch(category, "error", latency)
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}

	rows, err := env.Records()
	if err != nil {
		metrics.RecordFetch(category, "unavailable", latency)
		return rows, fmt.Errorf("fetch %s: %w", category, err)
	}
	metrics.RecordFetch(category, "ok", latency)
	return rows, nil
}

func (c *Client) fetchOnce(ctx context.Context, category string, p Params) (record.Envelope, error) {
	req, err := c.buildRequest(ctx, category, p)
	if err != nil {
		return record.Envelope{}, backoff.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return record.Envelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPeek))
		err := fmt.Errorf("%w %d: %s", ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
		if retryable(resp.StatusCode) {
			return record.Envelope{}, err
		}
		return record.Envelope{}, backoff.Permanent(err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return record.Envelope{}, err
	}
	if int64(len(body)) > c.maxBodyBytes {
		return record.Envelope{}, backoff.Permanent(fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, c.maxBodyBytes))
	}

	env, err := record.DecodeEnvelope(bytes.NewReader(body))
	if err != nil {
		return record.Envelope{}, backoff.Permanent(err)
	}
	return env, nil
}

func (c *Client) buildRequest(ctx context.Context, category string, p Params) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+category, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	if p.SortBy != "" {
		q.Set(ParamSortBy, p.SortBy)
	}
	q.Set(ParamMinMinutes, strconv.FormatFloat(p.MinMinutes, 'f', -1, 64))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// Result is the outcome of fetching several categories.
type Result struct {
	// Records holds one entry per requested category; failed categories map
	// to an empty slice.
	Records map[string][]record.Raw
	// Unavailable lists failed categories in request order.
	Unavailable []string
}

// Get returns the records of category, empty when unknown.
func (r Result) Get(category string) []record.Raw {
	if rows, ok := r.Records[category]; ok && rows != nil {
		return rows
	}
	return []record.Raw{}
}

// FetchAll fetches every category concurrently. A failing category never
// cancels the others: it contributes an empty record set and is listed in
// Unavailable.
func (c *Client) FetchAll(ctx context.Context, categories []string, p Params) Result {
	rows := make([][]record.Raw, len(categories))
	errs := make([]error, len(categories))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, cat := range categories {
		g.Go(func() error {
			rows[i], errs[i] = c.Fetch(ctx, cat, p)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Records: make(map[string][]record.Raw, len(categories))}
	for i, cat := range categories {
		if errs[i] != nil {
			res.Records[cat] = []record.Raw{}
			res.Unavailable = append(res.Unavailable, cat)
			metrics.RecordSourceUnavailable(cat)
			c.log.Warn(ctx, "category unavailable",
				logger.String("category", cat),
				logger.Bool("canceled", errors.Is(errs[i], context.Canceled)),
				logger.Error(errs[i]),
			)
			continue
		}
		res.Records[cat] = rows[i]
	}
	return res
}
