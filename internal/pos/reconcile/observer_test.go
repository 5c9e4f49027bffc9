package reconcile

import (
	"sync"
	"testing"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/pos/selection"
	"github.com/clubtryara/pos/internal/pos/session"
	"github.com/clubtryara/pos/internal/pos/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeControls records reconciliation calls.
type fakeControls struct {
	mu           sync.Mutex
	ensureErr    error
	ensureCalls  int
	applied      []*entity.Table
	clearedCalls int
}

func (f *fakeControls) Ensure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeControls) ApplySelection(t *entity.Table) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, t)
	return nil
}

func (f *fakeControls) ClearSelection() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedCalls++
	return nil
}

func (f *fakeControls) appliedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.applied)
}

func (f *fakeControls) clearedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clearedCalls
}

func newTestStore(t *testing.T, selected bool) *selection.Store {
	t.Helper()
	store := selection.NewStore(session.NewMemoryStore(), session.EntrySoft)
	if selected {
		store.Select(entity.Table{ID: 5, Name: "Tonio", Price: 500})
	}
	return store
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestObserver_DebounceCoalescesBurst(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, true)

	o := New(region, controls, store, WithDebounce(20*time.Millisecond))
	o.Start()
	defer o.Stop()

	// A burst of host mutations inside one debounce window runs one pass.
	for i := 0; i < 10; i++ {
		region.Notify(view.Mutation{Origin: view.OriginHost})
	}

	waitFor(t, func() bool { return controls.appliedCount() == 1 })
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, controls.appliedCount())
}

func TestObserver_IgnoresNonHostOrigins(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, true)

	o := New(region, controls, store, WithDebounce(5*time.Millisecond))
	o.Start()
	defer o.Stop()

	region.Notify(view.Mutation{Origin: view.OriginReservedBlock})
	region.Notify(view.Mutation{Origin: view.OriginModal})

	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, controls.appliedCount(), "self- and modal-originated mutations must not trigger a pass")
}

func TestObserver_CooldownSuppressesSecondPass(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, true)

	now := time.Now()
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}

	o := New(region, controls, store,
		WithDebounce(5*time.Millisecond),
		WithCooldown(500*time.Millisecond),
		WithClock(clock),
	)
	o.Start()
	defer o.Stop()

	region.Notify(view.Mutation{Origin: view.OriginHost})
	waitFor(t, func() bool { return controls.appliedCount() == 1 })

	// Second burst lands inside the cooldown: no visible correction.
	region.Notify(view.Mutation{Origin: view.OriginHost})
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, controls.appliedCount())

	// Step the clock past the cooldown; the next burst runs again.
	clockMu.Lock()
	now = now.Add(time.Second)
	clockMu.Unlock()
	region.Notify(view.Mutation{Origin: view.OriginHost})
	waitFor(t, func() bool { return controls.appliedCount() == 2 })
}

func TestObserver_ClearsWhenNothingSelected(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, false)

	o := New(region, controls, store, WithDebounce(5*time.Millisecond))
	o.Start()
	defer o.Stop()

	region.Notify(view.Mutation{Origin: view.OriginHost})
	waitFor(t, func() bool { return controls.clearedCount() == 1 })
	assert.Zero(t, controls.appliedCount())
}

func TestObserver_MissingAnchorSkipsPass(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{ensureErr: view.ErrAnchorMissing}
	store := newTestStore(t, true)

	o := New(region, controls, store, WithDebounce(5*time.Millisecond))
	o.Start()
	defer o.Stop()

	region.Notify(view.Mutation{Origin: view.OriginHost})
	waitFor(t, func() bool {
		controls.mu.Lock()
		defer controls.mu.Unlock()
		return controls.ensureCalls == 1
	})
	assert.Zero(t, controls.appliedCount())
	assert.Zero(t, controls.clearedCount())
}

func TestObserver_ReconcileRebroadcastsPrice(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, true)

	var prices []float64
	store.Subscribe(func(pc selection.PriceChange) { prices = append(prices, pc.Price) })

	o := New(region, controls, store)
	require.True(t, o.Reconcile())
	require.Len(t, prices, 1)
	assert.Equal(t, 500.0, prices[0])
}

func TestObserver_StopDropsPendingPass(t *testing.T) {
	region := view.NewEventRegion()
	controls := &fakeControls{}
	store := newTestStore(t, true)

	o := New(region, controls, store, WithDebounce(30*time.Millisecond))
	o.Start()

	region.Notify(view.Mutation{Origin: view.OriginHost})
	o.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, controls.appliedCount())
}
