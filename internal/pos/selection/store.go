// Package selection owns the currently chosen reservation table. The store is
// the single authoritative holder of the value: every mutation persists to the
// session store before returning and broadcasts the new surcharge price to
// subscribers, so dependent totals stay correct across UI rebuilds.
package selection

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/pos/session"
)

// StorageKey is the session key holding the serialized selected table.
const StorageKey = "clubtryara:selected_table:v1"

// PriceChange is broadcast whenever the selection changes or is reapplied.
// Table is nil when the selection was cleared; Price is 0 in that case.
type PriceChange struct {
	Price float64
	Table *entity.Table
}

// Store holds the current selection. All methods are safe for concurrent use.
// The in-memory value and the persisted session value are updated together
// under one lock, so they are always consistent when a call returns.
type Store struct {
	mu      sync.Mutex
	sess    session.Store
	current *entity.Table
	subs    []func(PriceChange)
}

// NewStore creates the selection store. When the view was entered via a hard
// reload, any previously persisted selection is discarded before it can be
// read back; call Restore afterwards to reapply a selection that survived a
// soft transition.
func NewStore(sess session.Store, entry session.EntryKind) *Store {
	if entry == session.EntryReload {
		sess.Delete(StorageKey)
	}
	return &Store{sess: sess}
}

// Subscribe registers a callback invoked on every broadcast. Callbacks run on
// the mutating goroutine and must not call back into the store's mutators.
func (s *Store) Subscribe(fn func(PriceChange)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Select overwrites any existing selection, persists it, and broadcasts the
// table's price.
func (s *Store) Select(t entity.Table) {
	s.mu.Lock()
	s.current = &t
	s.persistLocked(&t)
	subs := append([]func(PriceChange){}, s.subs...)
	s.mu.Unlock()

	broadcast(subs, PriceChange{Price: t.Price, Table: &t})
}

// Clear removes the persisted selection and broadcasts price 0. Clearing when
// nothing is selected is a no-op and produces no broadcast.
func (s *Store) Clear() {
	s.mu.Lock()
	_, persisted := s.sess.Get(StorageKey)
	if s.current == nil && !persisted {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.sess.Delete(StorageKey)
	subs := append([]func(PriceChange){}, s.subs...)
	s.mu.Unlock()

	broadcast(subs, PriceChange{Price: 0})
}

// Current returns a copy of the selected table, or nil when none is selected.
func (s *Store) Current() *entity.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

// Restore reads a selection persisted earlier in this session back into
// memory and rebroadcasts its price. It returns the restored table, or nil
// when nothing was persisted or the persisted value cannot be parsed.
func (s *Store) Restore() *entity.Table {
	s.mu.Lock()
	raw, ok := s.sess.Get(StorageKey)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	var t entity.Table
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		log.Printf("selection: failed to parse persisted selection: %v", err)
		s.sess.Delete(StorageKey)
		s.mu.Unlock()
		return nil
	}
	s.current = &t
	subs := append([]func(PriceChange){}, s.subs...)
	s.mu.Unlock()

	broadcast(subs, PriceChange{Price: t.Price, Table: &t})
	out := t
	return &out
}

// Rebroadcast re-emits the current price without mutating the selection. The
// reconciler uses it after repainting controls so totals consumers recompute.
func (s *Store) Rebroadcast() {
	s.mu.Lock()
	pc := PriceChange{}
	if s.current != nil {
		t := *s.current
		pc = PriceChange{Price: t.Price, Table: &t}
	}
	subs := append([]func(PriceChange){}, s.subs...)
	s.mu.Unlock()

	broadcast(subs, pc)
}

func (s *Store) persistLocked(t *entity.Table) {
	raw, err := json.Marshal(t)
	if err != nil {
		log.Printf("selection: failed to persist selection: %v", err)
		return
	}
	s.sess.Set(StorageKey, string(raw))
}

func broadcast(subs []func(PriceChange), pc PriceChange) {
	for _, fn := range subs {
		fn(pc)
	}
}
