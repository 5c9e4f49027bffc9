package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSales struct {
	mu     sync.Mutex
	calls  int
	keys   []string
	sales  []entity.SalePayload
	saleID int64
	err    error
}

func (f *fakeSales) SaveSale(ctx context.Context, sale entity.SalePayload, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keys = append(f.keys, key)
	f.sales = append(f.sales, sale)
	if f.err != nil {
		return 0, f.err
	}
	return f.saleID, nil
}

type fakeStock struct {
	mu        sync.Mutex
	calls     int
	keys      []string
	adjs      []entity.StockAdjustment
	err       error
	afterSave func() bool // consulted at call time to check ordering
	orderOK   bool
}

func (f *fakeStock) AdjustStock(ctx context.Context, adj entity.StockAdjustment, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.keys = append(f.keys, key)
	f.adjs = append(f.adjs, adj)
	if f.afterSave != nil {
		f.orderOK = f.afterSave()
	}
	return f.err
}

type fakeRenderer struct {
	mu      sync.Mutex
	calls   int
	saleIDs []int64
	err     error
}

func (f *fakeRenderer) Render(ctx context.Context, sale entity.SalePayload, saleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.saleIDs = append(f.saleIDs, saleID)
	return f.err
}

type fakeCart struct {
	mu       sync.Mutex
	lines    []entity.CartLine
	cleared  int
	refreshs int
}

func (f *fakeCart) Snapshot() []entity.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.CartLine, len(f.lines))
	copy(out, f.lines)
	return out
}

func (f *fakeCart) Clear() {
	f.mu.Lock()
	f.lines = nil
	f.cleared++
	f.mu.Unlock()
}

func (f *fakeCart) Refresh() {
	f.mu.Lock()
	f.refreshs++
	f.mu.Unlock()
}

type fakeSelection struct {
	table *entity.Table
}

func (f *fakeSelection) Current() *entity.Table { return f.table }

type fakeGuard struct {
	mu       sync.Mutex
	disabled int
	enabled  int
}

func (f *fakeGuard) Disable() {
	f.mu.Lock()
	f.disabled++
	f.mu.Unlock()
}

func (f *fakeGuard) Enable() {
	f.mu.Lock()
	f.enabled++
	f.mu.Unlock()
}

type recordingNotifier struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (n *recordingNotifier) Info(msg string) {
	n.mu.Lock()
	n.infos = append(n.infos, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

// scenario: Beer 120 x2 in the cart, VIP table 5 at 500 selected.
func scenarioDeps() (Deps, *fakeSales, *fakeStock, *fakeRenderer, *fakeCart, *fakeGuard, *recordingNotifier) {
	sales := &fakeSales{saleID: 42}
	stock := &fakeStock{}
	renderer := &fakeRenderer{}
	cart := &fakeCart{lines: []entity.CartLine{{ID: 1, Name: "Beer", Price: 120, Qty: 2}}}
	guard := &fakeGuard{}
	notify := &recordingNotifier{}
	sel := &fakeSelection{table: &entity.Table{ID: 5, Name: "Tonio", Price: 500}}

	deps := Deps{
		Sales:     sales,
		Stock:     stock,
		Receipts:  renderer,
		Cart:      cart,
		Selection: sel,
		Guard:     guard,
		Notify:    notify,
		Totals: func() entity.Totals {
			return entity.Totals{Subtotal: 240, TablePrice: 500, Payable: 740}
		},
	}
	return deps, sales, stock, renderer, cart, guard, notify
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestSubmit_BilloutCashSkipsStock(t *testing.T) {
	deps, sales, stock, renderer, cart, guard, _ := scenarioDeps()
	o := New(deps, WithCashier("ana"), WithKeyMint(func() string { return "attempt-1" }), WithClock(fixedClock()))

	require.NoError(t, o.Begin(enum.FlowBillOut))
	saleID, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), saleID)

	assert.Equal(t, 1, sales.calls)
	assert.Equal(t, 0, stock.calls, "billout must never touch stock")
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, []int64{42}, renderer.saleIDs)
	assert.Equal(t, 1, cart.cleared)
	assert.Equal(t, 1, cart.refreshs)
	assert.Equal(t, 1, guard.disabled)
	assert.Equal(t, 1, guard.enabled)
	assert.Equal(t, StateIdle, o.State())

	// payload carries the scenario's cart, reservation, and totals
	require.Len(t, sales.sales, 1)
	sale := sales.sales[0]
	assert.Equal(t, enum.FlowBillOut, sale.Meta.Flow)
	assert.Equal(t, "ana", sale.Meta.Cashier)
	require.NotNil(t, sale.Reserved)
	assert.Equal(t, int64(5), sale.Reserved.ID)
	assert.Equal(t, 740.0, sale.Totals.Payable)
	assert.Equal(t, []string{"attempt-1"}, sales.keys)
}

func TestSubmit_ProceedAdjustsStockAfterSave(t *testing.T) {
	deps, sales, stock, renderer, _, _, notify := scenarioDeps()
	stock.afterSave = func() bool {
		sales.mu.Lock()
		defer sales.mu.Unlock()
		return sales.calls == 1
	}

	o := New(deps, WithKeyMint(func() string { return "attempt-1" }))
	require.NoError(t, o.Begin(enum.FlowProceed))
	saleID, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), saleID)

	require.Equal(t, 1, stock.calls)
	assert.True(t, stock.orderOK, "stock adjustment must run only after a successful save")
	require.Len(t, stock.adjs, 1)
	require.Len(t, stock.adjs[0].Items, 1)
	assert.Equal(t, entity.StockItem{ID: 1, Qty: 2}, stock.adjs[0].Items[0])

	// same idempotency token on both calls of the attempt
	assert.Equal(t, []string{"attempt-1"}, sales.keys)
	assert.Equal(t, []string{"attempt-1"}, stock.keys)

	assert.Equal(t, 1, renderer.calls)
	assert.Contains(t, notify.infos[0], "42")
}

func TestSubmit_FreshTokenPerAttempt(t *testing.T) {
	deps, sales, _, _, cart, _, _ := scenarioDeps()
	n := 0
	o := New(deps, WithKeyMint(func() string {
		n++
		if n == 1 {
			return "attempt-1"
		}
		return "attempt-2"
	}))

	require.NoError(t, o.Begin(enum.FlowBillOut))
	_, err := o.Submit(context.Background())
	require.NoError(t, err)

	cart.mu.Lock()
	cart.lines = []entity.CartLine{{ID: 2, Name: "Water", Price: 50, Qty: 1}}
	cart.mu.Unlock()

	require.NoError(t, o.Begin(enum.FlowBillOut))
	_, err = o.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"attempt-1", "attempt-2"}, sales.keys)
}

func TestSubmit_EmptyCartFailsBeforeNetwork(t *testing.T) {
	deps, sales, stock, renderer, cart, _, notify := scenarioDeps()
	cart.lines = nil

	o := New(deps)
	require.NoError(t, o.Begin(enum.FlowProceed))
	_, err := o.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CondEmptyCart, apperror.ConditionOf(err))

	assert.Zero(t, sales.calls)
	assert.Zero(t, stock.calls)
	assert.Zero(t, renderer.calls)
	assert.Zero(t, cart.cleared)
	assert.NotEmpty(t, notify.errors)
}

func TestSubmit_GcashMissingRefBlockedBeforeNetwork(t *testing.T) {
	deps, sales, _, _, _, _, _ := scenarioDeps()
	o := New(deps)

	require.NoError(t, o.Begin(enum.FlowProceed))
	require.NoError(t, o.SelectMethod(enum.PaymentGcash))
	o.SetGcash("09171234567", "   ") // whitespace-only reference

	_, err := o.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CondValidation, apperror.ConditionOf(err))
	assert.Zero(t, sales.calls)
	assert.Equal(t, StateMethodSelection, o.State(), "the attempt stays open for correction")
}

func TestSubmit_BilloutGcashSkipsReferenceValidation(t *testing.T) {
	// billout records the intended tender without requiring its references
	deps, sales, _, _, _, _, _ := scenarioDeps()
	o := New(deps)

	require.NoError(t, o.Begin(enum.FlowBillOut))
	require.NoError(t, o.SelectMethod(enum.PaymentGcash))

	_, err := o.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sales.calls)
}

func TestSubmit_SaveFailureAbortsAttempt(t *testing.T) {
	deps, sales, stock, renderer, cart, guard, notify := scenarioDeps()
	sales.err = apperror.NewFlowError(apperror.CondSaveFailed, "save sale rejected by server")

	o := New(deps)
	require.NoError(t, o.Begin(enum.FlowProceed))
	_, err := o.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CondSaveFailed, apperror.ConditionOf(err))

	assert.Zero(t, stock.calls, "no stock call after a failed save")
	assert.Zero(t, renderer.calls, "no receipt for an unsaved sale")
	assert.Zero(t, cart.cleared, "cart survives a failed attempt")
	assert.Equal(t, 1, guard.enabled, "controls re-enabled after failure")
	require.NotEmpty(t, notify.errors)
	assert.Contains(t, notify.errors[0], "Failed to save sale")
}

func TestSubmit_StockFailureStillRendersReceipt(t *testing.T) {
	deps, _, stock, renderer, cart, _, notify := scenarioDeps()
	stock.err = apperror.NewFlowError(apperror.CondStockAdjustFailed, "Insufficient stock for: Beer")

	o := New(deps)
	require.NoError(t, o.Begin(enum.FlowProceed))
	saleID, err := o.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CondStockAdjustFailed, apperror.ConditionOf(err))
	assert.Equal(t, int64(42), saleID, "the sale itself was persisted")

	assert.Equal(t, 1, renderer.calls, "the saved sale still gets its receipt")
	assert.Equal(t, []int64{42}, renderer.saleIDs)
	assert.Zero(t, cart.cleared, "cart kept so the discrepancy stays visible")
	require.NotEmpty(t, notify.errors)
	assert.Contains(t, notify.errors[0], "stock adjustment failed")
}

func TestSubmit_RenderFailureKeepsCart(t *testing.T) {
	deps, _, _, renderer, cart, _, _ := scenarioDeps()
	renderer.err = apperror.NewFlowError(apperror.CondReceiptFailed, "receipt printing failed")

	o := New(deps)
	require.NoError(t, o.Begin(enum.FlowBillOut))
	saleID, err := o.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperror.CondReceiptFailed, apperror.ConditionOf(err))
	assert.Equal(t, int64(42), saleID)
	assert.Zero(t, cart.cleared)
}

func TestSubmit_InFlightGuard(t *testing.T) {
	deps, sales, _, _, _, _, _ := scenarioDeps()

	started := make(chan struct{})
	release := make(chan struct{})
	slowSales := &blockingSales{inner: sales, started: started, release: release}
	deps.Sales = slowSales

	o := New(deps)
	require.NoError(t, o.Begin(enum.FlowBillOut))

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background())
		done <- err
	}()

	<-started
	_, err := o.Submit(context.Background())
	assert.True(t, errors.Is(err, ErrInFlight))

	close(release)
	require.NoError(t, <-done)
}

type blockingSales struct {
	inner   *fakeSales
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingSales) SaveSale(ctx context.Context, sale entity.SalePayload, key string) (int64, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return b.inner.SaveSale(ctx, sale, key)
}

func TestSelectMethod_ResetsTenderFields(t *testing.T) {
	deps, _, _, _, _, _, _ := scenarioDeps()
	o := New(deps)

	require.NoError(t, o.Begin(enum.FlowProceed))
	require.NoError(t, o.SelectMethod(enum.PaymentGcash))
	o.SetGcash("09171234567", "REF-1")

	require.NoError(t, o.SelectMethod(enum.PaymentBankCard))
	p := o.Payment()
	assert.Equal(t, enum.PaymentBankCard, p.Method)
	assert.Empty(t, p.GcashNumber, "switching methods starts the new method blank")
	assert.Empty(t, p.GcashRef)
}

func TestBegin_RejectsUnknownFlow(t *testing.T) {
	deps, _, _, _, _, _, _ := scenarioDeps()
	o := New(deps)
	err := o.Begin(enum.CheckoutFlow("takeaway"))
	require.Error(t, err)
	assert.Equal(t, apperror.CondValidation, apperror.ConditionOf(err))
}

func TestSubmit_NilCollaboratorsUseFallbacks(t *testing.T) {
	sales := &fakeSales{saleID: 7}
	o := New(Deps{Sales: sales})

	require.NoError(t, o.Begin(enum.FlowBillOut))
	_, err := o.Submit(context.Background())
	require.Error(t, err, "the fallback cart is empty")
	assert.Equal(t, apperror.CondEmptyCart, apperror.ConditionOf(err))
}
