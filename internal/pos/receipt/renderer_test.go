package receipt

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/clubtryara/pos/pkg/printer"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venueHeader() entity.ReceiptHeader {
	return entity.ReceiptHeader{
		VenueName: "Club Tryara",
		Address:   "Roxas Blvd, Manila",
		Phone:     "(02) 8123-4567",
		TaxID:     "123-456-789-000",
	}
}

func cashSale() entity.SalePayload {
	return entity.SalePayload{
		Cart: []entity.CartLine{
			{ID: 1, Name: "Beer", Price: 120, Qty: 2},
			{ID: 2, Name: "Water", Price: 50, Qty: 1},
		},
		Totals: entity.Totals{Subtotal: 290, TablePrice: 500, Payable: 790},
		Reserved: &entity.Table{
			ID:          5,
			Name:        "Tonio",
			TableNumber: "V1",
			PartySize:   4,
		},
		Payment: entity.Payment{Method: enum.PaymentCash, AmountReceived: 1000},
		Meta:    entity.SaleMeta{Flow: enum.FlowProceed, Cashier: "ana"},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestCompose(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader(), WithClock(fixedClock()))
	rc := r.Compose(cashSale(), 42)

	assert.Equal(t, int64(42), rc.SaleID)
	assert.Equal(t, "2025-06-01 22:30", rc.Date)
	assert.Equal(t, "ana", rc.Cashier)
	assert.Equal(t, "Tonio (Table V1, Party 4)", rc.Reservation)
	assert.Equal(t, 790.0, rc.Totals.Payable)

	require.Len(t, rc.Items, 2)
	assert.Equal(t, entity.ReceiptItem{Name: "Beer", Qty: 2, UnitPrice: 120, Total: 240}, rc.Items[0])
	assert.Equal(t, entity.ReceiptItem{Name: "Water", Qty: 1, UnitPrice: 50, Total: 50}, rc.Items[1])
}

func TestCompose_TimestampOverridesClock(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader(), WithClock(fixedClock()))
	sale := cashSale()
	sale.Meta.Timestamp = time.Date(2025, 7, 4, 18, 0, 0, 0, time.Local)

	rc := r.Compose(sale, 1)
	assert.Equal(t, "2025-07-04 18:00", rc.Date)
}

func TestCompose_NumericTableFallback(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader())
	sale := cashSale()
	sale.Reserved = &entity.Table{ID: 12, Name: "Maria", PartySize: 6}

	rc := r.Compose(sale, 0)
	assert.Equal(t, "Maria (Table 12, Party 6)", rc.Reservation)
}

func TestFormat_CashReceiptGolden(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader(), WithClock(fixedClock()))
	rc := r.Compose(cashSale(), 42)
	doc := Format(rc, 48)

	g := goldie.New(t)
	g.Assert(t, "receipt_cash", []byte(doc.PlainText()))
}

func TestFormat_GcashBillout(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader(), WithClock(fixedClock()))
	sale := cashSale()
	sale.Meta.Flow = enum.FlowBillOut
	sale.Payment = entity.Payment{Method: enum.PaymentGcash, GcashNumber: "09171234567", GcashRef: "REF-881"}

	text := Format(r.Compose(sale, 0), 48).PlainText()
	assert.Contains(t, text, "BILL OUT")
	assert.Contains(t, text, "GCASH")
	assert.Contains(t, text, "09171234567")
	assert.Contains(t, text, "REF-881")
	assert.NotContains(t, text, "Sale #", "an unsaved-ID receipt omits the sale number")
	assert.NotContains(t, text, "Change")
}

func TestFormat_CardTender(t *testing.T) {
	r := NewRenderer(printer.NewNullPrinter(), venueHeader())
	sale := cashSale()
	sale.Payment = entity.Payment{Method: enum.PaymentBankCard, BankCard: "BPI Visa", BankRef: "AUTH-042"}

	text := Format(r.Compose(sale, 7), 48).PlainText()
	assert.Contains(t, text, "CARD")
	assert.Contains(t, text, "BPI Visa")
	assert.Contains(t, text, "AUTH-042")
}

func TestRender_WritesThroughPrinter(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(printer.NewWriterPrinter(&out), venueHeader(), WithClock(fixedClock()))

	require.NoError(t, r.Render(context.Background(), cashSale(), 42))
	assert.Contains(t, out.String(), "TOTAL")
	assert.Contains(t, out.String(), "P790.00")
}

type brokenPrinter struct{}

func (brokenPrinter) Print(data []byte) error { return errors.New("paper jam") }
func (brokenPrinter) Close() error            { return nil }
func (brokenPrinter) IsConnected() bool       { return false }

func TestRender_FailureCondition(t *testing.T) {
	r := NewRenderer(brokenPrinter{}, venueHeader())
	err := r.Render(context.Background(), cashSale(), 42)
	require.Error(t, err)
	assert.Equal(t, apperror.CondReceiptFailed, apperror.ConditionOf(err))
	assert.Contains(t, err.Error(), "paper jam")
}
