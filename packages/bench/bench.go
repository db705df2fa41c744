// Package bench drives repeated requests through the client and collects
// latency statistics. Each worker owns its response buffer for the whole
// run, honoring the engine's single-owner buffer contract.
package bench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/nanofish-go/nanofish/packages/client"
	"github.com/nanofish-go/nanofish/packages/header"
	"github.com/nanofish-go/nanofish/packages/request"
)

// Config controls a bench run.
type Config struct {
	// Requests is the total number of requests to issue.
	Requests int
	// Concurrency is the number of parallel workers.
	Concurrency int
	// Rate caps requests per second across all workers; 0 means unpaced.
	Rate float64
	// BufferSize is the per-worker response buffer size.
	BufferSize int
}

func (c Config) withDefaults() Config {
	if c.Requests <= 0 {
		c.Requests = 1
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 64 * 1024
	}
	return c
}

// Result aggregates the outcome of a run.
type Result struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram

	total  atomic.Int64
	errors atomic.Int64

	start time.Time
	end   time.Time
}

func newResult() *Result {
	return &Result{
		// 1us to 60s range, 3 significant digits.
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

func (r *Result) record(d time.Duration, err error) {
	r.total.Add(1)
	if err != nil {
		r.errors.Add(1)
		return
	}
	r.mu.Lock()
	_ = r.histogram.RecordValue(d.Microseconds())
	r.mu.Unlock()
}

// Total returns the number of requests issued.
func (r *Result) Total() int64 { return r.total.Load() }

// Errors returns the number of failed requests.
func (r *Result) Errors() int64 { return r.errors.Load() }

// Duration returns the wall-clock length of the run.
func (r *Result) Duration() time.Duration { return r.end.Sub(r.start) }

// RPS returns achieved requests per second.
func (r *Result) RPS() float64 {
	d := r.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(r.Total()) / d
}

// Percentile returns the latency at the given percentile for successful
// requests.
func (r *Result) Percentile(p float64) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Duration(r.histogram.ValueAtQuantile(p)) * time.Microsecond
}

// P50 is the median latency.
func (r *Result) P50() time.Duration { return r.Percentile(50) }

// P95 is the 95th percentile latency.
func (r *Result) P95() time.Duration { return r.Percentile(95) }

// P99 is the 99th percentile latency.
func (r *Result) P99() time.Duration { return r.Percentile(99) }

// Runner issues the configured number of requests through one client.
type Runner struct {
	client *client.Client
	cfg    Config
}

// New creates a Runner.
func New(c *client.Client, cfg Config) *Runner {
	return &Runner{client: c, cfg: cfg.withDefaults()}
}

// Run performs the bench and returns its aggregated result. The run stops
// early when the context is cancelled.
func (r *Runner) Run(ctx context.Context, method request.Method, endpoint string, headers *header.Set, body []byte) *Result {
	result := newResult()

	var limiter *rate.Limiter
	if r.cfg.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.Rate), 1)
	}

	jobs := make(chan struct{}, r.cfg.Requests)
	for i := 0; i < r.cfg.Requests; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	result.start = time.Now()

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			respBuf := make([]byte, r.cfg.BufferSize)
			for range jobs {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				} else if ctx.Err() != nil {
					return
				}

				begin := time.Now()
				_, _, err := r.client.Do(ctx, method, endpoint, headers, body, respBuf)
				result.record(time.Since(begin), err)
			}
		}()
	}
	wg.Wait()

	result.end = time.Now()
	return result
}
