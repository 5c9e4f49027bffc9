// Package checkout sequences one checkout attempt: validate the tender, save
// the sale, adjust stock for proceed-flow sales, render a receipt, and reset
// the working cart. The save is the commit point: failures after it are
// reported but never roll the persisted sale back.
package checkout

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/google/uuid"
)

// State is the orchestrator's position within one checkout attempt.
type State int

const (
	StateIdle State = iota
	StateMethodSelection
	StateValidating
	StateSaving
	StateAdjustingStock
	StateRendering
	StateFailed
)

func (s State) String() string {
	return [...]string{"Idle", "MethodSelection", "Validating", "Saving", "AdjustingStock", "Rendering", "Failed"}[s]
}

// ErrInFlight is returned when a second attempt starts while one is running.
// The guard is advisory: it protects a single terminal session, not the
// backend.
var ErrInFlight = errors.New("checkout: attempt already in flight")

// SaleGateway persists a sale. SaveSale returns the backend's sale ID, or 0
// when the backend did not report one.
type SaleGateway interface {
	SaveSale(ctx context.Context, sale entity.SalePayload, idempotencyKey string) (int64, error)
}

// StockGateway submits per-line stock deductions.
type StockGateway interface {
	AdjustStock(ctx context.Context, adj entity.StockAdjustment, idempotencyKey string) error
}

// ReceiptRenderer produces a printable document for a saved sale.
type ReceiptRenderer interface {
	Render(ctx context.Context, sale entity.SalePayload, saleID int64) error
}

// TotalsFunc is the totals collaborator's pure computation, consulted
// read-only at checkout time.
type TotalsFunc func() entity.Totals

// Cart is the working order cart, owned by the order-composition UI. The
// orchestrator reads a snapshot at checkout and clears it only after a fully
// successful attempt.
type Cart interface {
	Snapshot() []entity.CartLine
	Clear()
	Refresh()
}

// Selection exposes the currently selected reservation table.
type Selection interface {
	Current() *entity.Table
}

// Guard disables the checkout-triggering controls while an attempt is in
// flight.
type Guard interface {
	Disable()
	Enable()
}

// Notifier surfaces user-visible outcomes.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Deps are the orchestrator's collaborators. Nil members fall back to
// harmless defaults: an empty cart, zero totals (with the selected table's
// surcharge), no selection, a no-op guard, and a log-backed notifier.
type Deps struct {
	Sales     SaleGateway
	Stock     StockGateway
	Receipts  ReceiptRenderer
	Totals    TotalsFunc
	Cart      Cart
	Selection Selection
	Guard     Guard
	Notify    Notifier
}

// Orchestrator runs checkout attempts. Methods are safe for concurrent use,
// but the design expects a single interactive caller; concurrent Submit calls
// beyond the first fail with ErrInFlight.
type Orchestrator struct {
	deps    Deps
	cashier string
	note    string
	newKey  func() string
	now     func() time.Time

	mu       sync.Mutex
	state    State
	inFlight bool
	flow     enum.CheckoutFlow
	payment  entity.Payment
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCashier sets the cashier name recorded on sale meta.
func WithCashier(name string) Option {
	return func(o *Orchestrator) { o.cashier = name }
}

// WithNote sets the free-form note recorded on sale meta.
func WithNote(note string) Option {
	return func(o *Orchestrator) { o.note = note }
}

// WithKeyMint overrides the idempotency token mint. Tests use it for stable
// keys.
func WithKeyMint(mint func() string) Option {
	return func(o *Orchestrator) { o.newKey = mint }
}

// WithClock overrides the time source used for sale timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator in the Idle state.
func New(deps Deps, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:   deps,
		newKey: uuid.NewString,
		now:    time.Now,
	}
	if o.deps.Cart == nil {
		o.deps.Cart = emptyCart{}
	}
	if o.deps.Selection == nil {
		o.deps.Selection = noSelection{}
	}
	if o.deps.Guard == nil {
		o.deps.Guard = nopGuard{}
	}
	if o.deps.Notify == nil {
		o.deps.Notify = logNotifier{}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Payment returns the tender details entered so far.
func (o *Orchestrator) Payment() entity.Payment {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.payment
}

// Begin opens method selection for the given flow. The tender resets to cash;
// cart and reservation context are untouched.
func (o *Orchestrator) Begin(flow enum.CheckoutFlow) error {
	if !flow.Valid() {
		return apperror.NewFlowErrorf(apperror.CondValidation, "unknown checkout flow %q", flow)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return ErrInFlight
	}
	o.flow = flow
	o.payment = entity.Payment{Method: enum.PaymentCash}
	o.state = StateMethodSelection
	return nil
}

// SelectMethod switches the tender type. The newly selected method's fields
// start blank; already-entered cart and reservation context are kept.
func (o *Orchestrator) SelectMethod(m enum.PaymentMethod) error {
	if !m.Valid() {
		return apperror.NewFlowErrorf(apperror.CondValidation, "unknown payment method %q", m)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight {
		return ErrInFlight
	}
	o.payment = entity.Payment{Method: m}
	if o.state == StateIdle {
		o.state = StateMethodSelection
	}
	return nil
}

// SetCashReceived records the optional cash amount received.
func (o *Orchestrator) SetCashReceived(amount float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if amount < 0 {
		amount = 0
	}
	o.payment.AmountReceived = amount
}

// SetGcash records the GCash number and transaction reference.
func (o *Orchestrator) SetGcash(number, ref string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payment.GcashNumber = number
	o.payment.GcashRef = ref
}

// SetBankCard records the bank/card label and authorization reference.
func (o *Orchestrator) SetBankCard(label, ref string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payment.BankCard = label
	o.payment.BankRef = ref
}

// Submit runs the attempt end to end and returns the saved sale's ID when one
// was persisted. Failures after the save (stock adjustment, receipt
// rendering) are returned as errors even though the sale remains persisted;
// the cart is cleared only on full success.
func (o *Orchestrator) Submit(ctx context.Context) (int64, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return 0, ErrInFlight
	}
	o.inFlight = true
	flow := o.flow
	if flow == "" {
		flow = enum.FlowBillOut
	}
	payment := trimmed(o.payment)
	o.state = StateValidating
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	// Validation gate: proceed-flow non-cash tenders need their reference
	// fields. Billout and cash submissions go straight through.
	if flow == enum.FlowProceed && payment.Method != enum.PaymentCash {
		if err := validatePayment(payment); err != nil {
			o.setState(StateMethodSelection)
			o.deps.Notify.Error(err.Error())
			return 0, err
		}
	}

	cart := o.deps.Cart.Snapshot()
	if len(cart) == 0 {
		err := apperror.NewFlowError(apperror.CondEmptyCart, "Cart is empty")
		o.setState(StateIdle)
		o.deps.Notify.Error(err.Error())
		return 0, err
	}

	o.deps.Guard.Disable()
	defer o.deps.Guard.Enable()

	reserved := o.deps.Selection.Current()
	sale := entity.SalePayload{
		Cart:     cart,
		Totals:   o.totals(),
		Reserved: reserved,
		Payment:  payment,
		Meta: entity.SaleMeta{
			Flow:      flow,
			Cashier:   o.cashier,
			Note:      o.note,
			Timestamp: o.now().UTC(),
		},
	}

	// One idempotency token per attempt; the backend replays rather than
	// re-executes a duplicate submission carrying the same token.
	key := o.newKey()

	o.setState(StateSaving)
	saleID, err := o.deps.Sales.SaveSale(ctx, sale, key)
	if err != nil {
		o.fail()
		o.deps.Notify.Error("Failed to save sale: " + err.Error())
		return 0, err
	}

	var stockErr error
	if flow == enum.FlowProceed {
		o.setState(StateAdjustingStock)
		items := make([]entity.StockItem, len(cart))
		for i, line := range cart {
			items[i] = entity.StockItem{ID: line.ID, Qty: line.Qty}
		}
		adj := entity.StockAdjustment{Items: items, Totals: sale.Totals, Reserved: reserved}
		stockErr = o.deps.Stock.AdjustStock(ctx, adj, key)
	}

	// The sale is saved; render the receipt regardless of the stock outcome.
	o.setState(StateRendering)
	var renderErr error
	if o.deps.Receipts != nil {
		renderErr = o.deps.Receipts.Render(ctx, sale, saleID)
	}

	if stockErr != nil {
		o.fail()
		o.deps.Notify.Error("Sale saved but stock adjustment failed: " + stockErr.Error())
		return saleID, stockErr
	}
	if renderErr != nil {
		o.fail()
		o.deps.Notify.Error("Sale saved but receipt failed: " + renderErr.Error())
		return saleID, renderErr
	}

	o.deps.Cart.Clear()
	o.deps.Cart.Refresh()
	o.setState(StateIdle)
	if saleID != 0 {
		o.deps.Notify.Info("Sale saved (ID: " + strconv.FormatInt(saleID, 10) + ")")
	} else {
		o.deps.Notify.Info("Sale saved")
	}
	return saleID, nil
}

func (o *Orchestrator) totals() entity.Totals {
	if o.deps.Totals != nil {
		return o.deps.Totals()
	}
	t := entity.Totals{}
	if sel := o.deps.Selection.Current(); sel != nil {
		t.TablePrice = sel.Price
	}
	return t
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail records the failed attempt and settles back to Idle so the next
// attempt can start.
func (o *Orchestrator) fail() {
	o.setState(StateFailed)
	o.setState(StateIdle)
}

func validatePayment(p entity.Payment) error {
	switch p.Method {
	case enum.PaymentGcash:
		if p.GcashNumber == "" || p.GcashRef == "" {
			return apperror.NewFlowError(apperror.CondValidation, "Enter GCash number and reference")
		}
	case enum.PaymentBankCard:
		if p.BankCard == "" || p.BankRef == "" {
			return apperror.NewFlowError(apperror.CondValidation, "Enter bank/card and reference")
		}
	}
	return nil
}

func trimmed(p entity.Payment) entity.Payment {
	p.GcashNumber = strings.TrimSpace(p.GcashNumber)
	p.GcashRef = strings.TrimSpace(p.GcashRef)
	p.BankCard = strings.TrimSpace(p.BankCard)
	p.BankRef = strings.TrimSpace(p.BankRef)
	return p
}

// --- nil-collaborator fallbacks ---

type emptyCart struct{}

func (emptyCart) Snapshot() []entity.CartLine { return nil }
func (emptyCart) Clear()                      {}
func (emptyCart) Refresh()                    {}

type noSelection struct{}

func (noSelection) Current() *entity.Table { return nil }

type nopGuard struct{}

func (nopGuard) Disable() {}
func (nopGuard) Enable()  {}

type logNotifier struct{}

func (logNotifier) Info(msg string)  { log.Printf("checkout: %s", msg) }
func (logNotifier) Error(msg string) { log.Printf("checkout: ERROR: %s", msg) }
