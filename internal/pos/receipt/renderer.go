// Package receipt composes and prints the customer receipt for a saved sale.
package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/clubtryara/pos/pkg/printer"
)

// DefaultWidth is the character width of an 80mm thermal printer.
const DefaultWidth = 48

// Renderer turns a checkout payload into an ESC/POS document and sends it to
// the configured printer.
type Renderer struct {
	printer printer.Printer
	header  entity.ReceiptHeader
	width   int
	now     func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the print width in characters.
func WithWidth(w int) Option {
	return func(r *Renderer) { r.width = w }
}

// WithClock overrides the time source used for the printed date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer creates a Renderer printing through p.
func NewRenderer(p printer.Printer, header entity.ReceiptHeader, opts ...Option) *Renderer {
	r := &Renderer{
		printer: p,
		header:  header,
		width:   DefaultWidth,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render composes the receipt and prints it. A printing failure is reported
// as a receipt condition; the sale itself is already persisted by this point.
func (r *Renderer) Render(ctx context.Context, sale entity.SalePayload, saleID int64) error {
	rc := r.Compose(sale, saleID)
	doc := Format(rc, r.width)
	if err := r.printer.Print(doc.Bytes()); err != nil {
		return apperror.WrapFlowError(apperror.CondReceiptFailed, "receipt printing failed", err)
	}
	return nil
}

// Compose builds the receipt value object from a checkout payload.
func (r *Renderer) Compose(sale entity.SalePayload, saleID int64) entity.Receipt {
	items := make([]entity.ReceiptItem, len(sale.Cart))
	for i, line := range sale.Cart {
		items[i] = entity.ReceiptItem{
			Name:      line.Name,
			Qty:       line.Qty,
			UnitPrice: line.Price,
			Total:     line.Price * float64(line.Qty),
		}
	}

	rc := entity.Receipt{
		Header:  r.header,
		SaleID:  saleID,
		Date:    r.now().Format("2006-01-02 15:04"),
		Cashier: sale.Meta.Cashier,
		Flow:    string(sale.Meta.Flow),
		Items:   items,
		Totals:  sale.Totals,
		Payment: sale.Payment,
	}
	if !sale.Meta.Timestamp.IsZero() {
		rc.Date = sale.Meta.Timestamp.Local().Format("2006-01-02 15:04")
	}
	if t := sale.Reserved; t != nil {
		rc.Reservation = fmt.Sprintf("%s (Table %s, Party %d)", t.Name, t.DisplayNumber(), t.PartySize)
	}
	return rc
}

// Format lays a composed receipt out as an ESC/POS document.
func Format(rc entity.Receipt, width int) *printer.Document {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).SetBold(true).SetFontSize(printer.FontDouble)
	doc.Center(rc.Header.VenueName)
	doc.SetFontSize(printer.FontNormal).SetBold(false)
	if rc.Header.Address != "" {
		doc.Center(rc.Header.Address)
	}
	if rc.Header.Phone != "" {
		doc.Center(rc.Header.Phone)
	}
	if rc.Header.TaxID != "" {
		doc.Center("TIN: " + rc.Header.TaxID)
	}
	doc.SetAlign(printer.AlignLeft)
	doc.Separator('=')

	if rc.SaleID != 0 {
		doc.KeyValue("Sale #", fmt.Sprintf("%d", rc.SaleID))
	}
	doc.KeyValue("Date", rc.Date)
	if rc.Cashier != "" {
		doc.KeyValue("Cashier", rc.Cashier)
	}
	if rc.Flow == string(enum.FlowBillOut) {
		doc.KeyValue("Type", "BILL OUT")
	}
	if rc.Reservation != "" {
		doc.KeyValue("Reservation", "")
		doc.Text("  " + rc.Reservation)
	}
	doc.Separator('-')

	for _, it := range rc.Items {
		doc.ItemLine(it.Qty, it.Name, money(it.Total))
		if it.Qty > 1 {
			doc.Text(fmt.Sprintf("   @ %s", money(it.UnitPrice)))
		}
	}
	doc.Separator('-')

	doc.KeyValue("Subtotal", money(rc.Totals.Subtotal))
	if rc.Totals.ServiceCharge != 0 {
		doc.KeyValue("Service charge", money(rc.Totals.ServiceCharge))
	}
	if rc.Totals.Tax != 0 {
		doc.KeyValue("Tax", money(rc.Totals.Tax))
	}
	if rc.Totals.DiscountAmount != 0 {
		doc.KeyValue("Discount", "-"+money(rc.Totals.DiscountAmount))
	}
	if rc.Totals.TablePrice != 0 {
		doc.KeyValue("Table", money(rc.Totals.TablePrice))
	}
	doc.SetBold(true)
	doc.KeyValue("TOTAL", money(rc.Totals.Payable))
	doc.SetBold(false)
	doc.Separator('-')

	switch rc.Payment.Method {
	case enum.PaymentCash:
		doc.KeyValue("Paid", "CASH")
		if rc.Payment.AmountReceived > 0 {
			doc.KeyValue("Received", money(rc.Payment.AmountReceived))
			change := rc.Payment.AmountReceived - rc.Totals.Payable
			if change > 0 {
				doc.KeyValue("Change", money(change))
			}
		}
	case enum.PaymentGcash:
		doc.KeyValue("Paid", "GCASH")
		if rc.Payment.GcashNumber != "" {
			doc.KeyValue("Number", rc.Payment.GcashNumber)
		}
		if rc.Payment.GcashRef != "" {
			doc.KeyValue("Ref", rc.Payment.GcashRef)
		}
	case enum.PaymentBankCard:
		doc.KeyValue("Paid", "CARD")
		if rc.Payment.BankCard != "" {
			doc.KeyValue("Bank/Card", rc.Payment.BankCard)
		}
		if rc.Payment.BankRef != "" {
			doc.KeyValue("Ref", rc.Payment.BankRef)
		}
	}

	doc.Separator('=')
	doc.SetAlign(printer.AlignCenter)
	doc.Center("Thank you!")
	doc.SetAlign(printer.AlignLeft)
	doc.FeedLines(3)
	doc.Cut()
	return doc
}

func money(v float64) string {
	return fmt.Sprintf("P%.2f", v)
}
