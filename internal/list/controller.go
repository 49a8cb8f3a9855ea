// Package list owns the in-memory task list mirrored from the server:
// page cursor, has-more flag and the ordering/dedup/staleness rules that
// keep the mirror consistent while fetches, optimistic writes and
// realtime refreshes interleave.
package list

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gestorhub/taskdesk/internal/gateway"
	"github.com/gestorhub/taskdesk/internal/models"
	"github.com/gestorhub/taskdesk/internal/query"
)

const defaultDebounce = 500 * time.Millisecond

// Gateway is the read side the controller needs from the REST client.
type Gateway interface {
	ListTasks(ctx context.Context, params query.Params, page, pageSize int) (*gateway.TaskPage, error)
}

// Controller owns the task list state. All mutations, whether from
// fetches, optimistic writes or realtime-triggered refreshes, go through
// this one container; completions arriving from any goroutine are
// serialized by the mutex.
type Controller struct {
	mu sync.Mutex

	gw       Gateway
	pageSize int

	tab     query.Tab
	filters query.Filters
	search  string

	params      query.Params
	fingerprint string
	inflight    string

	items       []models.Task
	page        int
	total       int
	hasMore     bool
	loading     bool
	loadingMore bool

	debounce    *time.Timer
	debounceDur time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce overrides the search debounce quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounceDur = d }
}

// New creates a Controller over the given gateway, initialized to the
// "all" tab with no filters.
func New(gw Gateway, pageSize int, opts ...Option) *Controller {
	c := &Controller{
		gw:          gw,
		pageSize:    pageSize,
		tab:         query.TabAll,
		hasMore:     true,
		page:        1,
		debounceDur: defaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.params = query.Resolve(c.tab, c.filters, c.search)
	c.fingerprint = c.params.Fingerprint()
	return c
}

// Reset clears the list for a new query. It must run before the next
// fetch: the recomputed fingerprint is what supersedes any response still
// in flight for the previous query.
func (c *Controller) Reset(tab query.Tab, filters query.Filters, search string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = tab
	c.filters = filters
	c.search = search
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.params = query.Resolve(c.tab, c.filters, c.search)
	c.fingerprint = c.params.Fingerprint()
	c.items = nil
	c.page = 1
	c.total = 0
	c.hasMore = true
}

// FetchFirstPage requests page 1 for the current query and replaces the
// items wholesale. A response whose captured fingerprint no longer matches
// the live one is discarded silently: it belongs to a query that has since
// been superseded.
func (c *Controller) FetchFirstPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading && c.inflight == c.fingerprint {
		c.mu.Unlock()
		return nil
	}
	captured := c.fingerprint
	params := c.params
	pageSize := c.pageSize
	c.loading = true
	c.inflight = captured
	c.mu.Unlock()

	result, err := c.gw.ListTasks(ctx, params, 1, pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == captured {
		c.loading = false
	}
	if captured != c.fingerprint {
		return nil
	}
	if err != nil {
		return err
	}

	c.items = append([]models.Task(nil), result.Tasks...)
	c.page = 1
	c.total = result.Count
	c.hasMore = len(c.items) < c.total
	return nil
}

// FetchNextPage loads the following page and appends it, skipping any task
// ID already present. It is a no-op while a fetch is in flight or once the
// server-reported total has been reached.
func (c *Controller) FetchNextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || c.loadingMore || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	captured := c.fingerprint
	params := c.params
	next := c.page + 1
	pageSize := c.pageSize
	c.loadingMore = true
	c.mu.Unlock()

	result, err := c.gw.ListTasks(ctx, params, next, pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadingMore = false
	if captured != c.fingerprint {
		return nil
	}
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.items))
	for _, task := range c.items {
		seen[task.ID] = struct{}{}
	}
	for _, task := range result.Tasks {
		if _, dup := seen[task.ID]; dup {
			continue
		}
		seen[task.ID] = struct{}{}
		c.items = append(c.items, task)
	}

	c.page = next
	c.total = result.Count
	c.hasMore = len(result.Tasks) > 0 && len(c.items) < c.total
	return nil
}

// Refresh re-fetches the first page of the current query. Used by the
// explicit refresh action and by realtime invalidation.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.items = nil
	c.page = 1
	c.hasMore = true
	c.mu.Unlock()
	return c.FetchFirstPage(ctx)
}

// SetSearch schedules a debounced query change for the new search text.
// Successive calls within the quiet period collapse into a single fetch.
func (c *Controller) SetSearch(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.debounceDur, func() {
		c.mu.Lock()
		c.search = text
		c.resetLocked()
		c.mu.Unlock()
		if err := c.FetchFirstPage(ctx); err != nil {
			log.Printf("search fetch failed: %v", err)
		}
	})
}

// Tasks returns a copy of the current items in display order.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.items...)
}

// TaskByID returns a copy of the task with the given ID.
func (c *Controller) TaskByID(id string) (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, task := range c.items {
		if task.ID == id {
			return task, true
		}
	}
	return models.Task{}, false
}

// ReplaceTask swaps the stored task with the same ID. Unknown IDs are
// ignored; the next refresh is authoritative anyway.
func (c *Controller) ReplaceTask(task models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == task.ID {
			c.items[i] = task
			return
		}
	}
}

// HasMore reports whether the server holds more pages for the current
// query.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Loading reports whether any fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading || c.loadingMore
}

// Page returns the current page cursor.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Total returns the server-reported total for the current query.
func (c *Controller) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Fingerprint returns the identity of the current query.
func (c *Controller) Fingerprint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fingerprint
}

// Params returns the resolved parameters of the current query.
func (c *Controller) Params() query.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}
