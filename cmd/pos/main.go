package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/clubtryara/pos/internal/config"
	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/internal/pos/backend"
	"github.com/clubtryara/pos/internal/pos/checkout"
	"github.com/clubtryara/pos/internal/pos/receipt"
	"github.com/clubtryara/pos/internal/pos/reconcile"
	"github.com/clubtryara/pos/internal/pos/selection"
	"github.com/clubtryara/pos/internal/pos/session"
	"github.com/clubtryara/pos/internal/pos/tables"
	"github.com/clubtryara/pos/internal/pos/view"
	"github.com/clubtryara/pos/pkg/printer"
)

// memoryCart is the till's working order cart.
type memoryCart struct {
	mu    sync.Mutex
	lines []entity.CartLine
}

func (c *memoryCart) Add(line entity.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ID == line.ID {
			c.lines[i].Qty += line.Qty
			return
		}
	}
	c.lines = append(c.lines, line)
}

func (c *memoryCart) Snapshot() []entity.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *memoryCart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *memoryCart) Refresh() {
	fmt.Println("[cart] cleared")
}

// consoleNotifier prints checkout outcomes to the cashier.
type consoleNotifier struct{}

func (consoleNotifier) Info(msg string)  { fmt.Println("[ok] " + msg) }
func (consoleNotifier) Error(msg string) { fmt.Println("[error] " + msg) }

func main() {
	cfg := config.Load()

	// A terminal session starts fresh: any selection persisted by a previous
	// process does not carry over, matching reload semantics.
	sess := session.NewMemoryStore()
	store := selection.NewStore(sess, session.EntrySoft)

	cart := &memoryCart{}
	tablePrice := 0.0
	var priceMu sync.Mutex
	store.Subscribe(func(pc selection.PriceChange) {
		priceMu.Lock()
		tablePrice = pc.Price
		priceMu.Unlock()
	})

	totals := func() entity.Totals {
		t := entity.Totals{}
		for _, line := range cart.Snapshot() {
			t.Subtotal += line.Price * float64(line.Qty)
		}
		priceMu.Lock()
		t.TablePrice = tablePrice
		priceMu.Unlock()
		t.Payable = t.Subtotal + t.TablePrice
		return t
	}

	// Host region + reconciler keep the reservation display consistent across
	// simulated host re-renders.
	region := view.NewEventRegion()
	controls := view.NewConsoleControls(os.Stdout)
	observer := reconcile.New(region, controls, store,
		reconcile.WithDebounce(cfg.Terminal.Debounce),
		reconcile.WithCooldown(cfg.Terminal.Cooldown),
	)
	observer.Start()
	defer observer.Stop()

	listClient := tables.NewClient(cfg.Terminal.BackendURL,
		tables.WithTimeout(cfg.Terminal.FetchTimeout))
	gateway := backend.NewClient(cfg.Terminal.BackendURL,
		backend.WithToken(os.Getenv("POS_TOKEN")))

	hw, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: failed to initialize printer: %v", err)
		hw = printer.NewWriterPrinter(os.Stdout)
	}
	renderer := receipt.NewRenderer(hw, entity.ReceiptHeader{
		VenueName: cfg.Venue.Name,
		Address:   cfg.Venue.Address,
		Phone:     cfg.Venue.Phone,
		TaxID:     cfg.Venue.TaxID,
	}, receipt.WithWidth(cfg.Printer.Width))

	orch := checkout.New(checkout.Deps{
		Sales:     gateway,
		Stock:     gateway,
		Receipts:  renderer,
		Totals:    totals,
		Cart:      cart,
		Selection: store,
		Notify:    consoleNotifier{},
	}, checkout.WithCashier(cfg.Terminal.Cashier))

	var lastFetch []entity.Table

	fmt.Println("clubtryara pos terminal, type 'help' for commands")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		ctx := context.Background()

		switch args[0] {
		case "help":
			fmt.Println(`commands:
  tables [available|reserved|all]   list tables
  select <id>                       select a fetched table
  clear                             clear the selection
  add <id> <name> <price> <qty>     add a cart line
  cart                              show cart and totals
  checkout <billout|proceed>        open a checkout attempt
  pay <cash|gcash|bankcard> [a b]   set payment details
  submit                            submit the open attempt
  wipe                              simulate a host re-render
  quit`)

		case "tables":
			kind := enum.TableKindAvailable
			if len(args) > 1 {
				kind = enum.ParseTableKind(args[1])
			}
			rows, err := listClient.Fetch(ctx, kind)
			if err != nil {
				fmt.Println("[error] " + err.Error())
				continue
			}
			lastFetch = rows
			for _, t := range rows {
				fmt.Printf("  #%d %s (Table %s, Party %d) ₱%.2f [%s]\n",
					t.ID, t.Name, t.DisplayNumber(), t.PartySize, t.Price, t.Status)
			}

		case "select":
			if len(args) < 2 {
				fmt.Println("usage: select <id>")
				continue
			}
			id, _ := strconv.ParseInt(args[1], 10, 64)
			found := false
			for _, t := range lastFetch {
				if t.ID == id {
					store.Select(t)
					_ = controls.Ensure()
					_ = controls.ApplySelection(&t)
					found = true
					break
				}
			}
			if !found {
				fmt.Println("[error] table not in the last listing; run 'tables' first")
			}

		case "clear":
			store.Clear()
			if err := controls.Ensure(); err == nil {
				_ = controls.ClearSelection()
			}

		case "add":
			if len(args) < 5 {
				fmt.Println("usage: add <id> <name> <price> <qty>")
				continue
			}
			id, _ := strconv.ParseInt(args[1], 10, 64)
			price, _ := strconv.ParseFloat(args[3], 64)
			qty, _ := strconv.Atoi(args[4])
			if qty < 1 {
				qty = 1
			}
			cart.Add(entity.CartLine{ID: id, Name: args[2], Price: price, Qty: qty})

		case "cart":
			for _, line := range cart.Snapshot() {
				fmt.Printf("  %dx %s @ ₱%.2f\n", line.Qty, line.Name, line.Price)
			}
			t := totals()
			fmt.Printf("  subtotal ₱%.2f  table ₱%.2f  payable ₱%.2f\n",
				t.Subtotal, t.TablePrice, t.Payable)

		case "pay":
			if len(args) < 2 {
				fmt.Println("usage: pay <cash|gcash|bankcard> [a b]")
				continue
			}
			method := enum.PaymentMethod(args[1])
			if err := orch.SelectMethod(method); err != nil {
				fmt.Println("[error] " + err.Error())
				continue
			}
			switch method {
			case enum.PaymentCash:
				if len(args) > 2 {
					amount, _ := strconv.ParseFloat(args[2], 64)
					orch.SetCashReceived(amount)
				}
			case enum.PaymentGcash:
				if len(args) > 3 {
					orch.SetGcash(args[2], args[3])
				}
			case enum.PaymentBankCard:
				if len(args) > 3 {
					orch.SetBankCard(args[2], args[3])
				}
			}

		case "checkout":
			if len(args) < 2 {
				fmt.Println("usage: checkout <billout|proceed>")
				continue
			}
			if err := orch.Begin(enum.CheckoutFlow(args[1])); err != nil {
				fmt.Println("[error] " + err.Error())
			}

		case "submit":
			_, _ = orch.Submit(ctx) // outcomes go through the notifier

		case "wipe":
			controls.Wipe()
			region.Notify(view.Mutation{Origin: view.OriginHost, Node: "order-panel"})

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command; type 'help'")
		}
	}
}
