// Package reconcile keeps the reservation controls' visual state in sync with
// the selection store after destructive host re-renders. Reconciliation is an
// idempotent operation: it is safe to run any number of times, so the observer
// can afford to be conservative about when it runs at all.
package reconcile

import (
	"log"
	"sync"
	"time"

	"github.com/clubtryara/pos/internal/pos/selection"
	"github.com/clubtryara/pos/internal/pos/view"
)

const (
	// DefaultDebounce coalesces bursts of host mutations into one pass.
	DefaultDebounce = 100 * time.Millisecond
	// DefaultCooldown suppresses further passes after one was applied.
	DefaultCooldown = 500 * time.Millisecond
)

// Observer watches a host-owned UI region and reapplies the persisted
// selection when the host has wiped the reservation controls. Mutations
// originating from the reserved block or the table-picker modal (which
// include the observer's own corrective writes) never trigger a pass.
type Observer struct {
	region   view.Region
	controls view.ReservedControls
	store    *selection.Store

	debounce time.Duration
	cooldown time.Duration
	now      func() time.Time

	mu          sync.Mutex
	timer       *time.Timer
	pending     bool
	lastApplied time.Time
	cancel      func()
}

// Option configures an Observer.
type Option func(*Observer)

// WithDebounce overrides the mutation-coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(o *Observer) { o.debounce = d }
}

// WithCooldown overrides the window during which further passes are
// suppressed after an applied pass.
func WithCooldown(d time.Duration) Option {
	return func(o *Observer) { o.cooldown = d }
}

// WithClock overrides the time source. Tests use it to step the cooldown.
func WithClock(now func() time.Time) Option {
	return func(o *Observer) { o.now = now }
}

// New creates an Observer. Call Start to begin watching the region.
func New(region view.Region, controls view.ReservedControls, store *selection.Store, opts ...Option) *Observer {
	o := &Observer{
		region:   region,
		controls: controls,
		store:    store,
		debounce: DefaultDebounce,
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start subscribes to the region's mutation feed.
func (o *Observer) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		return
	}
	o.cancel = o.region.Subscribe(o.onMutation)
}

// Stop unsubscribes and drops any pending pass.
func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.pending = false
}

func (o *Observer) onMutation(m view.Mutation) {
	// Origin filter: only host rewrites are relevant. Everything raised from
	// the reserved block or modal subtree is either our own corrective write
	// or the picker doing its own thing.
	if m.Origin != view.OriginHost {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = true
	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, o.flush)
}

func (o *Observer) flush() {
	o.mu.Lock()
	if !o.pending {
		o.mu.Unlock()
		return
	}
	o.pending = false
	now := o.now()
	if !o.lastApplied.IsZero() && now.Sub(o.lastApplied) < o.cooldown {
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()

	if !o.Reconcile() {
		return
	}

	o.mu.Lock()
	o.lastApplied = o.now()
	o.mu.Unlock()
}

// Reconcile runs one pass immediately, ignoring debounce and cooldown: it
// rebuilds missing controls, repaints the persisted selection, and
// rebroadcasts its price. It reports whether a correction was applied.
// A missing host UI is not fatal; the pass is logged and skipped.
func (o *Observer) Reconcile() bool {
	if err := o.controls.Ensure(); err != nil {
		log.Printf("reconcile: skipping pass: %v", err)
		return false
	}

	t := o.store.Current()
	if t == nil {
		if err := o.controls.ClearSelection(); err != nil {
			log.Printf("reconcile: skipping pass: %v", err)
			return false
		}
		return true
	}

	if err := o.controls.ApplySelection(t); err != nil {
		log.Printf("reconcile: skipping pass: %v", err)
		return false
	}
	o.store.Rebroadcast()
	return true
}
