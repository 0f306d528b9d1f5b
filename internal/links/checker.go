package links

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"canvassak/internal/debug"
	"canvassak/internal/telemetry"
)

// Result is the memoized outcome of checking one external URL.
type Result struct {
	OK      bool
	Message string // non-empty when !OK
}

// Checker verifies external links over HTTP, at most one real request
// per distinct URL per run. Safe for concurrent use.
type Checker struct {
	client *http.Client

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]Result
}

// NewChecker returns a Checker whose requests time out after timeout.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		client: &http.Client{Timeout: timeout},
		cache:  make(map[string]Result),
	}
}

// Check reports whether url is reachable. It issues a HEAD request,
// falling back to GET when the server answers 405; status codes >= 400
// and transport faults are not-ok with a descriptive message. Results
// are cached for the checker's lifetime.
func (c *Checker) Check(ctx context.Context, url string) Result {
	c.mu.Lock()
	if r, ok := c.cache[url]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(url, func() (any, error) {
		r := c.fetch(ctx, url)
		c.mu.Lock()
		c.cache[url] = r
		c.mu.Unlock()
		telemetry.CountLinkCheck(ctx, r.OK)
		return r, nil
	})
	return v.(Result)
}

// Warm checks urls concurrently, bounded by workers, so subsequent
// Check calls answer from cache. Duplicate URLs collapse into one
// request via singleflight.
func (c *Checker) Warm(ctx context.Context, urls []string, workers int) {
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, u := range urls {
		g.Go(func() error {
			c.Check(ctx, u)
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
}

func (c *Checker) fetch(ctx context.Context, url string) Result {
	debug.Logf("checking external link %s", url)

	resp, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return Result{Message: err.Error()}
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusMethodNotAllowed {
		// Some servers reject HEAD outright. Retry with GET and drain
		// nothing; closing the body abandons the transfer.
		resp, err = c.do(ctx, http.MethodGet, url)
		if err != nil {
			return Result{Message: err.Error()}
		}
		io.CopyN(io.Discard, resp.Body, 512)
		resp.Body.Close()
	}

	if resp.StatusCode >= 400 {
		return Result{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return Result{OK: true}
}

func (c *Checker) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	return c.client.Do(req)
}
