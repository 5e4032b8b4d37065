// Package fetcher retrieves one date's data from every registered endpoint concurrently.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/healthfetch/internal/adapters/mq/worker"
	"github.com/okian/healthfetch/internal/adapters/upstream/auth"
	"github.com/okian/healthfetch/internal/adapters/upstream/transport"
	"github.com/okian/healthfetch/internal/domain/endpoint"
	"github.com/okian/healthfetch/pkg/logger"
	"github.com/okian/healthfetch/pkg/metrics"
)

// Result is a normalized endpoint payload. nil means no usable data.
type Result = map[string]any

// Outcome is the completion of one endpoint fetch.
type Outcome struct {
	Endpoint endpoint.Descriptor
	Result   Result
	// Err is set for failures; a nil Result with nil Err is an empty answer.
	Err error
}

// Tokens supplies bearer tokens and replaces rejected ones.
type Tokens interface {
	Ensure(ctx context.Context) (string, error)
	CompareAndRefresh(ctx context.Context, old string) (string, error)
}

// Fetcher fans out one request per endpoint for a date.
type Fetcher struct {
	doer      auth.Doer
	tokens    Tokens
	baseURL   string
	endpoints []endpoint.Descriptor
	pool      *worker.Pool
	logger    logger.Logger
}

// New creates a Fetcher over the full endpoint registry with one worker per endpoint.
func New(doer auth.Doer, tokens Tokens, baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		doer:      doer,
		tokens:    tokens,
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoint.All(),
		logger:    logger.Get().Named("fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.pool == nil {
		f.pool = worker.NewPool(len(f.endpoints), worker.WithName("fetch"))
	}
	return f
}

// Endpoints returns the endpoints fetched per date, in order.
func (f *Fetcher) Endpoints() []endpoint.Descriptor {
	out := make([]endpoint.Descriptor, len(f.endpoints))
	copy(out, f.endpoints)
	return out
}

// FetchAll starts the fan-out for date and streams each Outcome as it completes.
// The channel is closed once every endpoint has finished.
func (f *Fetcher) FetchAll(ctx context.Context, date string) <-chan Outcome {
	out := make(chan Outcome, len(f.endpoints))
	tasks := make([]worker.Task, len(f.endpoints))
	for i, d := range f.endpoints {
		tasks[i] = func(ctx context.Context) {
			o := Outcome{Endpoint: d}
			// Deferred so a panicking fetch still reports as no data.
			defer func() { out <- o }()
			o.Result, o.Err = f.fetchOne(ctx, d, date)
		}
	}

	go func() {
		defer close(out)
		metrics.AddFanOutInFlight(len(tasks))
		defer metrics.AddFanOutInFlight(-len(tasks))
		f.pool.Run(ctx, tasks)
	}()
	return out
}

// FetchAllForDate runs FetchAll to completion. The map has one key per endpoint.
func (f *Fetcher) FetchAllForDate(ctx context.Context, date string) map[string]Result {
	results := make(map[string]Result, len(f.endpoints))
	for o := range f.FetchAll(ctx, date) {
		results[o.Endpoint.Name] = o.Result
	}
	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, d endpoint.Descriptor, date string) (res Result, err error) {
	start := time.Now()
	defer func() {
		status := "success"
		switch {
		case err != nil:
			status = "error"
			f.logger.Debug(ctx, "endpoint fetch failed",
				logger.String("endpoint", d.Name),
				logger.String("date", date),
				logger.Error(err),
			)
		case res == nil:
			status = "no_data"
		}
		metrics.RecordEndpointFetch(d.Name, status, float64(time.Since(start).Milliseconds()))
	}()

	tok, err := f.tokens.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := f.get(ctx, d, date, tok)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusUnauthorized {
		tok, err = f.tokens.CompareAndRefresh(ctx, tok)
		if err != nil {
			return nil, err
		}
		if resp, err = f.get(ctx, d, date, tok); err != nil {
			return nil, err
		}
		if resp.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%s: %w", d.Name, auth.ErrUnauthorized)
		}
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, fmt.Errorf("%w: %s: %d", ErrStatus, d.Name, resp.Status)
	}
	return Normalize(resp.Body), nil
}

type dateBody struct {
	TDate    string `json:"tdate"`
	DEndDate string `json:"dEndDate"`
}

func (f *Fetcher) get(ctx context.Context, d endpoint.Descriptor, date, tok string) (*transport.Response, error) {
	body, err := json.Marshal(dateBody{TDate: date, DEndDate: date})
	if err != nil {
		return nil, errors.Join(transport.ErrTransport, err)
	}
	return f.doer.Do(ctx, transport.RequestSpec{
		Method: http.MethodGet,
		URL:    f.baseURL + "/" + d.Path,
		Header: http.Header{
			"Authorization": []string{"Bearer " + tok},
			"Content-Type":  []string{"application/json"},
		},
		Body: body,
	}, transport.ClassData)
}
