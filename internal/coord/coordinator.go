// Package coord provides background refresh coordination for newsboard.
//
// The coordinator periodically refetches the user's items from the backend,
// writes them through to the local cache, and hands them to the UI as
// messages. It never touches the board store directly - only the event loop
// mutates that.
package coord

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/newsboard/internal/logging"
	"github.com/abelbrown/newsboard/internal/news"
	"github.com/abelbrown/newsboard/internal/ui"
)

// fetchTimeout bounds one full refresh cycle.
const fetchTimeout = 30 * time.Second

// maxConcurrentPages limits parallel page fetches within a cycle.
const maxConcurrentPages = 4

// maxPages caps how many pages a single refresh will pull.
const maxPages = 40

// remote is the backend slice the coordinator needs (interface for testing).
type remote interface {
	FetchItems(ctx context.Context, spec news.FilterSpec) ([]news.Item, error)
}

// SnapshotCache is the write-through target for fetched items. *cache.Cache
// satisfies it; tests substitute a spy.
type SnapshotCache interface {
	SaveItems(items []news.Item) error
}

// Sender delivers messages into the running program. *tea.Program satisfies
// it; tests substitute a recorder.
type Sender interface {
	Send(msg tea.Msg)
}

// Coordinator manages background refreshes.
// Uses context cancellation as the ONLY stop mechanism.
type Coordinator struct {
	remote   remote
	cache    SnapshotCache // optional: nil to disable write-through
	pageSize int
	interval time.Duration
	wg       sync.WaitGroup
}

// New creates a Coordinator. cache may be nil. A non-positive pageSize
// falls back to 100; a non-positive interval to 2 minutes.
func New(r remote, cache SnapshotCache, pageSize int, interval time.Duration) *Coordinator {
	if pageSize <= 0 {
		pageSize = 100
	}
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	return &Coordinator{
		remote:   r,
		cache:    cache,
		pageSize: pageSize,
		interval: interval,
	}
}

// Start begins background refreshing. Call with a cancellable context.
// Performs an initial refresh immediately, then on every interval tick.
func (c *Coordinator) Start(ctx context.Context, program Sender) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refresh(ctx, program)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(ctx, program)
			}
		}
	}()
}

// Wait blocks until the background goroutine exits.
// Call after canceling the context passed to Start.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Refresh performs one refresh cycle synchronously. Exposed for the
// one-shot CLI path; Start drives the same code on a ticker.
func (c *Coordinator) Refresh(ctx context.Context, program Sender) {
	c.refresh(ctx, program)
}

// refresh pulls all pages, writes through to the cache, and reports to the
// program. Errors degrade: the UI keeps whatever board it has.
func (c *Coordinator) refresh(ctx context.Context, program Sender) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	items, err := c.fetchAll(fetchCtx)
	if err == nil && c.cache != nil {
		if cacheErr := c.cache.SaveItems(items); cacheErr != nil {
			// Fetch succeeded; a cache miss only costs the next cold start.
			logging.Warn("Cache write-through failed", "error", cacheErr)
		}
	}

	if err != nil {
		logging.Warn("Refresh failed", "error", err)
	} else {
		logging.Debug("Refresh complete", "items", len(items))
	}

	if program != nil {
		program.Send(ui.RefreshDone{Items: items, Err: err})
	}
}

// fetchAll retrieves every page of the user's items. The first page is
// fetched alone (the common case is a single short page); further pages go
// in bounded-concurrency rounds until a short page marks the end.
func (c *Coordinator) fetchAll(ctx context.Context) ([]news.Item, error) {
	first, err := c.fetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}
	items := first
	if len(first) < c.pageSize {
		return items, nil
	}

	for page := 1; page < maxPages; page += maxConcurrentPages {
		round := make([][]news.Item, maxConcurrentPages)

		var g errgroup.Group
		g.SetLimit(maxConcurrentPages)
		for i := 0; i < maxConcurrentPages; i++ {
			g.Go(func() error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				got, err := c.fetchPage(ctx, page+i)
				if err != nil {
					return err
				}
				round[i] = got
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, got := range round {
			items = append(items, got...)
			if len(got) < c.pageSize {
				return items, nil
			}
		}
	}

	logging.Warn("Refresh hit page cap", "pages", maxPages, "items", len(items))
	return items, nil
}

func (c *Coordinator) fetchPage(ctx context.Context, page int) ([]news.Item, error) {
	return c.remote.FetchItems(ctx, news.FilterSpec{
		Limit:  c.pageSize,
		Offset: page * c.pageSize,
	})
}
