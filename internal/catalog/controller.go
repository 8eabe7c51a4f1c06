// Package catalog turns user-edited filter fields into a fetched, paginated
// result set with minimal request churn. Free-text fields are debounced; any
// non-page change resets the page; only the most recently issued fetch may
// commit its result.
package catalog

import (
	"context"
	"sync"
	"time"

	"vitrine/internal/model"
)

// FilterState is the composite filter key for a listing view. Nome and
// Descricao hold effective (settled) values; the raw input values live in the
// view until the quiet period closes.
type FilterState struct {
	Nome        string
	Descricao   string
	CategoriaID string
	Tamanho     string
	Situacao    string
	Page        int
}

// FetchFunc performs one listing request for the given settled filters.
type FetchFunc[T any] func(ctx context.Context, filters FilterState) (model.Page[T], error)

// Snapshot is the view-facing state of a controller at one point in time.
type Snapshot[T any] struct {
	Filters FilterState
	Loading bool
	Result  model.Page[T]
	Err     error
}

// Controller owns the filter state of a single listing view.
type Controller[T any] struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	fetch  FetchFunc[T]
	quiet  time.Duration

	filters   FilterState
	rawNome   string
	rawDesc   string
	nomeTimer *time.Timer
	descTimer *time.Timer
	nomeGen   uint64
	descGen   uint64
	pending   int

	seq     uint64
	loading bool
	result  model.Page[T]
	err     error
	updates chan struct{}
}

// New creates a controller. quiet is the debounce window for the free-text
// fields. In-flight requests are tied to parent: cancelling it (the view
// going away) discards anything still on the wire.
func New[T any](parent context.Context, fetch FetchFunc[T], quiet time.Duration) *Controller[T] {
	ctx, cancel := context.WithCancel(parent)
	return &Controller[T]{
		ctx:     ctx,
		cancel:  cancel,
		fetch:   fetch,
		quiet:   quiet,
		result:  model.EmptyPage[T](),
		updates: make(chan struct{}, 1),
	}
}

// SetNome records a keystroke in the name filter. The page resets now; the
// effective value and the fetch wait for the quiet period.
func (c *Controller[T]) SetNome(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawNome = value
	c.filters.Page = 0
	c.nomeGen++
	gen := c.nomeGen
	c.nomeTimer = c.bounce(c.nomeTimer, func() { c.settleNome(gen) })
}

// SetDescricao records a keystroke in the description filter.
func (c *Controller[T]) SetDescricao(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rawDesc = value
	c.filters.Page = 0
	c.descGen++
	gen := c.descGen
	c.descTimer = c.bounce(c.descTimer, func() { c.settleDescricao(gen) })
}

// SetCategoriaID takes effect immediately, resetting the page. If a text
// debounce is still open the change rides along with its settle so a burst of
// edits yields a single fetch.
func (c *Controller[T]) SetCategoriaID(value string) {
	c.setImmediate(func(f *FilterState) { f.CategoriaID = value })
}

// SetTamanho takes effect immediately, resetting the page.
func (c *Controller[T]) SetTamanho(value string) {
	c.setImmediate(func(f *FilterState) { f.Tamanho = value })
}

// SetSituacao takes effect immediately, resetting the page.
func (c *Controller[T]) SetSituacao(value string) {
	c.setImmediate(func(f *FilterState) { f.Situacao = value })
}

// SetPage changes only the page; the other filters are untouched.
func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 0 {
		page = 0
	}
	c.filters.Page = page
	if c.pending == 0 {
		c.issueFetch()
	}
}

// NextPage advances one page unless the current result is the last.
func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result.IsLast {
		return
	}
	c.filters.Page++
	if c.pending == 0 {
		c.issueFetch()
	}
}

// PrevPage goes back one page unless the current result is the first.
func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result.IsFirst || c.filters.Page == 0 {
		return
	}
	c.filters.Page--
	if c.pending == 0 {
		c.issueFetch()
	}
}

// Refresh refetches the current composite key, e.g. after a mutation.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueFetch()
}

// Snapshot returns the current view state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Filters: c.filters,
		Loading: c.loading,
		Result:  c.result,
		Err:     c.err,
	}
}

// Updates signals (coalesced) whenever the snapshot changed.
func (c *Controller[T]) Updates() <-chan struct{} {
	return c.updates
}

// Stop cancels in-flight fetches and pending debounce timers.
func (c *Controller[T]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nomeTimer != nil {
		c.nomeTimer.Stop()
		c.nomeTimer = nil
	}
	if c.descTimer != nil {
		c.descTimer.Stop()
		c.descTimer = nil
	}
	c.pending = 0
	c.cancel()
}

// bounce opens or extends a field's quiet-period window. The previous timer
// is stopped and replaced rather than reset: a timer that fired just before
// the keystroke has a settle already on its way, and resetting would let it
// commit before the new window elapses. Each settle carries a generation
// checked against the field's current one, so only the latest keystroke's
// settle proceeds. Caller holds the lock.
func (c *Controller[T]) bounce(timer *time.Timer, settle func()) *time.Timer {
	if timer == nil {
		c.pending++
	} else {
		timer.Stop()
	}
	return time.AfterFunc(c.quiet, settle)
}

func (c *Controller[T]) settleNome(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.nomeGen || c.nomeTimer == nil {
		return // superseded by a newer keystroke, or Stop ran
	}
	c.nomeTimer = nil
	c.pending--
	c.filters.Nome = c.rawNome
	if c.pending == 0 {
		c.issueFetch()
	}
}

func (c *Controller[T]) settleDescricao(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.descGen || c.descTimer == nil {
		return // superseded by a newer keystroke, or Stop ran
	}
	c.descTimer = nil
	c.pending--
	c.filters.Descricao = c.rawDesc
	if c.pending == 0 {
		c.issueFetch()
	}
}

func (c *Controller[T]) setImmediate(mutate func(*FilterState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mutate(&c.filters)
	c.filters.Page = 0
	if c.pending == 0 {
		c.issueFetch()
	}
}

// issueFetch starts one request for the current filters. Caller holds the
// lock. Each request carries a sequence number; a response whose number is no
// longer the latest issued is discarded, so rapid changes can never commit a
// stale page over a fresh one.
func (c *Controller[T]) issueFetch() {
	c.seq++
	seq := c.seq
	filters := c.filters
	c.loading = true
	c.signal()

	go func() {
		page, err := c.fetch(c.ctx, filters)

		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.seq {
			return // a newer request was issued meanwhile
		}
		c.loading = false
		if err != nil {
			c.result = model.EmptyPage[T]()
			c.err = err
		} else {
			c.result = page
			c.err = nil
		}
		c.signal()
	}()
}

func (c *Controller[T]) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
