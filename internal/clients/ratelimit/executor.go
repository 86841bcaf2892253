// Package ratelimit provides the throttled request executor shared by the
// provider clients. It enforces a minimum inter-request delay and handles
// 429 backoff with a bounded attempt count.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/meridian/internal/domain"
)

const (
	defaultMinInterval = 200 * time.Millisecond
	defaultMaxAttempts = 3
	defaultBaseBackoff = time.Second
	defaultMaxBackoff  = 30 * time.Second
	defaultQueueSize   = 100
	defaultHTTPTimeout = 30 * time.Second
)

// Config tunes an Executor. Zero values fall back to defaults.
type Config struct {
	// MinInterval is the minimum spacing between issued requests.
	MinInterval time.Duration
	// MaxAttempts caps total attempts per request, counting the first.
	MaxAttempts int
	// BaseBackoff is the first retry delay; it doubles per attempt.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential delay.
	MaxBackoff time.Duration
	// QueueSize bounds the pending request queue.
	QueueSize int
	// HTTPTimeout bounds a single HTTP exchange, not the whole job.
	HTTPTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinInterval <= 0 {
		c.MinInterval = defaultMinInterval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = defaultBaseBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	if c.QueueSize <= 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return c
}

type job struct {
	req      *http.Request
	resultCh chan result
}

type result struct {
	body []byte
	err  error
}

// Executor issues HTTP requests through a single admission worker. Spacing
// between request starts honors MinInterval; each admitted job then runs its
// attempt/backoff loop in its own goroutine, so retries for one request are
// never concurrent with each other while separate requests may overlap.
type Executor struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger

	queue      chan job
	stopChan   chan struct{}
	workerDone chan struct{}
	inFlight   sync.WaitGroup
	once       sync.Once
}

// NewExecutor creates an executor and starts its admission worker.
func NewExecutor(cfg Config, log zerolog.Logger) *Executor {
	cfg = cfg.withDefaults()

	e := &Executor{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		log:        log.With().Str("component", "ratelimit").Logger(),
		queue:      make(chan job, cfg.QueueSize),
		stopChan:   make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	go e.worker()

	return e
}

// Do executes req through the throttle and returns the response body.
// A cancelled ctx abandons the wait; the in-flight attempt is not
// interrupted and its eventual result is discarded.
// Rate-limit exhaustion surfaces as domain.ErrRateLimited; any other
// non-2xx response as domain.ErrProviderUnavailable.
func (e *Executor) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	select {
	case <-e.stopChan:
		return nil, fmt.Errorf("executor is closed")
	default:
	}

	resultCh := make(chan result, 1)

	select {
	case e.queue <- job{req: req, resultCh: resultCh}:
	case <-e.stopChan:
		return nil, fmt.Errorf("executor is closed")
	default:
		return nil, fmt.Errorf("request queue is full")
	}

	select {
	case res := <-resultCh:
		return res.body, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.workerDone:
		// Shut down mid-wait; take a drained result if one landed.
		select {
		case res := <-resultCh:
			return res.body, res.err
		default:
			return nil, fmt.Errorf("executor is closed")
		}
	}
}

// Close drains queued jobs and waits for in-flight attempts. Idempotent.
func (e *Executor) Close() {
	e.once.Do(func() {
		close(e.stopChan)
		<-e.workerDone
	})
}

// worker admits queued jobs with MinInterval spacing between request starts.
func (e *Executor) worker() {
	defer close(e.workerDone)

	var lastIssue time.Time
	first := true

	dispatch := func(j job) {
		if !first {
			if elapsed := time.Since(lastIssue); elapsed < e.cfg.MinInterval {
				time.Sleep(e.cfg.MinInterval - elapsed)
			}
		}
		first = false
		lastIssue = time.Now()

		e.inFlight.Add(1)
		go e.process(j)
	}

	for {
		select {
		case <-e.stopChan:
			// Drain remaining jobs before exiting.
			for {
				select {
				case j := <-e.queue:
					dispatch(j)
				default:
					e.inFlight.Wait()
					return
				}
			}
		case j := <-e.queue:
			dispatch(j)
		}
	}
}

func (e *Executor) process(j job) {
	defer e.inFlight.Done()

	body, err := e.attempt(j.req)
	j.resultCh <- result{body: body, err: err}
}

// attempt runs the Requesting -> {Success | RateLimited -> Backoff | Failed}
// loop for one request.
func (e *Executor) attempt(req *http.Request) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		// Detached context: an abandoned caller must not cancel the exchange.
		resp, err := e.httpClient.Do(req.Clone(context.Background()))
		if err != nil {
			return nil, fmt.Errorf("request to %s failed: %v: %w", req.URL.Host, err, domain.ErrProviderUnavailable)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return nil, fmt.Errorf("reading response from %s: %v: %w", req.URL.Host, readErr, domain.ErrProviderUnavailable)
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= e.cfg.MaxAttempts {
				return nil, fmt.Errorf("%d attempts exhausted for %s: %w", e.cfg.MaxAttempts, req.URL.Path, domain.ErrRateLimited)
			}
			delay := e.backoffDelay(resp.Header.Get("Retry-After"), attempt)
			e.log.Warn().
				Str("path", req.URL.Path).
				Int("attempt", attempt).
				Dur("backoff", delay).
				Msg("Rate limited, backing off")
			time.Sleep(delay)

		default:
			return nil, fmt.Errorf("unexpected status %d from %s: %w", resp.StatusCode, req.URL.Host, domain.ErrProviderUnavailable)
		}
	}
}

// backoffDelay honors a server retry hint when present, otherwise doubles
// BaseBackoff per attempt capped at MaxBackoff. Jitter up to half the delay
// is added on top.
func (e *Executor) backoffDelay(retryAfter string, attempt int) time.Duration {
	delay := e.cfg.BaseBackoff << uint(attempt-1)
	if delay > e.cfg.MaxBackoff {
		delay = e.cfg.MaxBackoff
	}

	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
			if delay > e.cfg.MaxBackoff {
				delay = e.cfg.MaxBackoff
			}
		}
	}

	if half := delay / 2; half > 0 {
		delay += time.Duration(rand.Int63n(int64(half)))
	}

	return delay
}
