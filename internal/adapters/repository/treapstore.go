// Package repository defines the event store interface and errors.
package repository

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/agenda/internal/domain/model"
	"github.com/okian/agenda/internal/domain/query"
	"github.com/okian/agenda/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: date ASC, then id DESC (deterministic). The BST comparator
// treats "less" as ranking earlier in the calendar, so an in-order
// traversal produces the listing order directly. Date-window queries
// prune subtrees that fall entirely outside the window.

// treap node
type node struct {
	ev    model.Event
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if a should appear before b in a listing:
// earlier date first, higher id first within the same date.
func less(a, b model.Event) bool {
	if !a.Date.Equal(b.Date.Time) {
		return a.Date.Before(b.Date.Time)
	}
	return a.ID > b.ID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, ev model.Event, prio uint64) *node {
	if n == nil {
		return &node{ev: ev, prio: prio, size: 1}
	}
	if less(ev, n.ev) {
		n.left = insert(n.left, ev, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, ev, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, ev model.Event) *node {
	if n == nil {
		return nil
	}
	if ev.ID == n.ev.ID {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, ev)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, ev)
		}
	} else if less(ev, n.ev) {
		n.left = deleteNode(n.left, ev)
	} else {
		n.right = deleteNode(n.right, ev)
	}
	fix(n)
	return n
}

// collectRange appends, in order, every event whose date lies inside
// [lo, hi] (a zero bound is open) and whose owner matches. Subtrees that
// cannot contain matching dates are skipped.
func collectRange(n *node, lo, hi model.Date, owner string, out *[]model.Event) {
	if n == nil {
		return
	}
	beforeLo := !lo.IsZero() && n.ev.Date.Before(lo.Time)
	afterHi := !hi.IsZero() && n.ev.Date.After(hi.Time)

	// Everything in the left subtree sorts at or before n's date.
	if !beforeLo {
		collectRange(n.left, lo, hi, owner, out)
	}
	if !beforeLo && !afterHi && (owner == "" || n.ev.OwnerID == owner) {
		*out = append(*out, n.ev)
	}
	if !afterHi {
		collectRange(n.right, lo, hi, owner, out)
	}
}

// TreapStore is the in-memory Store backend.
type TreapStore struct {
	mu     sync.RWMutex
	root   *node
	byID   map[int64]*node
	nextID atomic.Int64
}

// NewTreapStore creates an empty in-memory event store.
func NewTreapStore(_ context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byID: make(map[int64]*node),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert assigns the next monotonic id and stores the event.
func (s *TreapStore) Insert(_ context.Context, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID.Add(1)
	s.root = insertTracked(s.root, e, rand.Uint64(), s.byID)
	metrics.UpdateTotalEvents(len(s.byID))
	return e, nil
}

// insertTracked inserts and records the created node in byID. The treap
// insert allocates the node itself, so we look it up afterwards instead
// of threading the pointer through the rotations.
func insertTracked(root *node, ev model.Event, prio uint64, byID map[int64]*node) *node {
	root = insert(root, ev, prio)
	byID[ev.ID] = findNode(root, ev)
	return root
}

func findNode(n *node, ev model.Event) *node {
	for n != nil {
		if n.ev.ID == ev.ID {
			return n
		}
		if less(ev, n.ev) {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil
}

// Get returns the event with the given id, or ErrNotFound.
func (s *TreapStore) Get(_ context.Context, id int64) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byID[id]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	return n.ev, nil
}

// Update replaces the mutable fields of an existing event. A date change
// re-slots the event in the ordering.
func (s *TreapStore) Update(_ context.Context, e model.Event) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[e.ID]
	if !ok {
		return model.Event{}, ErrNotFound
	}
	// Owner never changes after creation.
	e.OwnerID = n.ev.OwnerID

	if n.ev.Date.Equal(e.Date.Time) {
		n.ev = e
		return e, nil
	}
	s.root = deleteNode(s.root, n.ev)
	s.root = insertTracked(s.root, e, rand.Uint64(), s.byID)
	return e, nil
}

// Delete removes an event permanently.
func (s *TreapStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	s.root = deleteNode(s.root, n.ev)
	delete(s.byID, id)
	metrics.UpdateTotalEvents(len(s.byID))
	return nil
}

// Select returns the ordered subset of events matching q.
func (s *TreapStore) Select(_ context.Context, q query.Query) ([]model.Event, error) {
	start := time.Now()
	defer func() {
		metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	out := make([]model.Event, 0)
	lo, hi, ok := q.Range()
	if !ok {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	collectRange(s.root, lo, hi, q.OwnerID, &out)
	return out, nil
}

// Count returns the number of stored events.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
