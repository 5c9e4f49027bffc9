package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/clubtryara/pos/internal/domain/entity"
)

// ConsoleControls is a ReservedControls implementation that renders the
// reservation summary as console lines. It doubles as a host stand-in: Wipe
// simulates the host tearing the controls down, which is what the reconciler
// exists to repair.
type ConsoleControls struct {
	mu       sync.Mutex
	out      io.Writer
	anchored bool // the surrounding order-composition area exists
	present  bool // the reservation controls themselves exist
	selected *entity.Table
}

// NewConsoleControls creates console controls attached to out.
func NewConsoleControls(out io.Writer) *ConsoleControls {
	return &ConsoleControls{out: out, anchored: true}
}

// Wipe simulates a destructive host re-render removing the controls.
func (c *ConsoleControls) Wipe() {
	c.mu.Lock()
	c.present = false
	c.selected = nil
	c.mu.Unlock()
}

// Detach simulates the whole order-composition area going away.
func (c *ConsoleControls) Detach() {
	c.mu.Lock()
	c.anchored = false
	c.present = false
	c.selected = nil
	c.mu.Unlock()
}

// Ensure recreates the controls when the host has wiped them.
func (c *ConsoleControls) Ensure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.anchored {
		return ErrAnchorMissing
	}
	if !c.present {
		c.present = true
		fmt.Fprintln(c.out, "[reserved] controls rebuilt")
	}
	return nil
}

// ApplySelection paints the selected table's visual state.
func (c *ConsoleControls) ApplySelection(t *entity.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.anchored || !c.present {
		return ErrAnchorMissing
	}
	c.selected = t
	fmt.Fprintf(c.out, "[reserved] %s (Table %s, Party %d) ₱%.2f\n",
		t.Name, t.DisplayNumber(), t.PartySize, t.Price)
	return nil
}

// ClearSelection resets the controls to the no-selection state.
func (c *ConsoleControls) ClearSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.anchored || !c.present {
		return ErrAnchorMissing
	}
	c.selected = nil
	fmt.Fprintln(c.out, "[reserved] no table selected")
	return nil
}

// Selected returns the table currently painted on the controls, or nil.
func (c *ConsoleControls) Selected() *entity.Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}
