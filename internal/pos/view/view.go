// Package view models the externally owned order-composition UI region. The
// host rendering system may tear down and rebuild any part of it at any time;
// this package only defines the contract the reconciler works against, plus an
// in-process Region implementation the host integration feeds events into.
package view

import (
	"errors"
	"sync"

	"github.com/clubtryara/pos/internal/domain/entity"
)

// Origin classifies where a structural mutation came from. The reconciler
// reacts only to host-originated mutations: changes inside the reserved block
// (which include the reconciler's own corrective writes) or the table-picker
// modal must never trigger another pass.
type Origin int

const (
	// OriginHost is a rewrite by the host rendering system.
	OriginHost Origin = iota
	// OriginReservedBlock is a change inside the reservation controls subtree.
	OriginReservedBlock
	// OriginModal is a change inside the table-picker modal subtree.
	OriginModal
)

func (o Origin) String() string {
	switch o {
	case OriginReservedBlock:
		return "reserved-block"
	case OriginModal:
		return "modal"
	}
	return "host"
}

// Mutation is one structural change reported by the host region.
type Mutation struct {
	Origin Origin
	Node   string // affected node identifier, diagnostic only
}

// Region is a bounded UI area whose structural mutations can be observed.
type Region interface {
	// Subscribe registers a mutation callback and returns a cancel func.
	Subscribe(fn func(Mutation)) (cancel func())
}

// ErrAnchorMissing is returned by ReservedControls when the expected
// structural anchors cannot be located in the host UI. A missing host UI is
// not fatal; the reconciler logs and skips the pass.
var ErrAnchorMissing = errors.New("view: structural anchor missing")

// ReservedControls are the reservation-picker controls inside the region.
type ReservedControls interface {
	// Ensure recreates the controls when the host has wiped them.
	Ensure() error
	// ApplySelection paints the selected table's visual state.
	ApplySelection(t *entity.Table) error
	// ClearSelection resets the controls to the no-selection state.
	ClearSelection() error
}

// EventRegion is an in-process Region. The host integration layer calls
// Notify for every structural change it observes.
type EventRegion struct {
	mu   sync.Mutex
	subs map[int]func(Mutation)
	next int
}

// NewEventRegion creates an empty EventRegion.
func NewEventRegion() *EventRegion {
	return &EventRegion{subs: make(map[int]func(Mutation))}
}

// Subscribe registers a mutation callback and returns a cancel func.
func (r *EventRegion) Subscribe(fn func(Mutation)) func() {
	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Notify reports one structural mutation to all subscribers.
func (r *EventRegion) Notify(m Mutation) {
	r.mu.Lock()
	subs := make([]func(Mutation), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(m)
	}
}
