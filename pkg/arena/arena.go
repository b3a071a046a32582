// Package arena implements the fixed-capacity, generational slot arena
// that every resource kind in resonance (sounds, sub-tracks, clocks,
// spatial scenes, emitters, listeners) is stored in. A Controller issues
// Keys from the control thread by reserving slots through an atomic
// free-list; the Arena itself is only ever mutated from the audio thread.
// This split is what lets a control thread hand out a stable Key for a
// resource before the audio thread has actually stored anything in its
// slot (see the create-then-claim rings in pkg/manager/claims.go).
package arena

import (
	"sync/atomic"

	"github.com/gosound/resonance/pkg/ring"
)

// Key identifies a slot plus the generation it was issued for. A Key
// whose generation no longer matches the slot's current generation is
// stale and every Arena operation treats it as "not found" rather than
// panicking or aliasing the wrong value.
type Key struct {
	index      uint32
	generation uint32
}

// Index is exposed for resource ID types (TrackId, sound handles, ...)
// that need a stable, comparable value to key maps or log messages by.
func (k Key) Index() uint32 { return k.index }

// Generation is exposed for the same reason as Index.
func (k Key) Generation() uint32 { return k.generation }

type slotState struct {
	// generation is bumped on every occupancy change (reserve or
	// remove), so a Key captured before a slot was recycled is
	// harmless: get/remove with a stale generation is a no-op.
	generation atomic.Uint32
	// reserved marks a slot as spoken-for by the control thread, even
	// before the audio thread has stored a value in it.
	reserved atomic.Bool
}

// Controller is the control-thread-side handle for reserving slots. It
// holds no values, only the atomic free-list; it can be cloned freely
// (copy the struct) since all of its state lives in the shared slices it
// points to.
type Controller struct {
	slots    []slotState
	freeList *freeList
}

// freeList is a bounded queue of free slot indices, implemented as a ring
// so control threads can reserve (pop) and the audio thread can return
// slots on removal (push) without a mutex. Capacity is one more than the
// arena's so every slot can be free at once.
type freeList struct {
	prod ring.Producer[uint32]
	cons ring.Consumer[uint32]
}

func newFreeList(capacity int) *freeList {
	prod, cons := ring.New[uint32](capacity + 1)
	return &freeList{prod: prod, cons: cons}
}

// NewController allocates the bookkeeping for an arena of the given
// capacity and returns its Controller, with every slot free; pass it to
// New to build the Arena[T] it controls. capacity is fixed for the
// arena's lifetime.
func NewController(capacity int) *Controller {
	slots := make([]slotState, capacity)
	fl := newFreeList(capacity)
	for i := 0; i < capacity; i++ {
		fl.prod.Push(uint32(i))
	}
	return &Controller{slots: slots, freeList: fl}
}

// Capacity returns the arena's fixed slot count.
func (c *Controller) Capacity() int { return len(c.slots) }

// ErrArenaFull is returned by TryReserve when no free slot remains.
var ErrArenaFull = arenaFullError{}

type arenaFullError struct{}

func (arenaFullError) Error() string { return "arena: no free slots" }

// TryReserve atomically claims a free slot and returns a Key carrying its
// post-reservation generation. It never blocks and never allocates.
func (c *Controller) TryReserve() (Key, error) {
	idx, ok := c.freeList.cons.Pop()
	if !ok {
		return Key{}, ErrArenaFull
	}
	c.slots[idx].reserved.Store(true)
	gen := c.slots[idx].generation.Add(1)
	return Key{index: idx, generation: gen}, nil
}

// release returns a slot to the free list and bumps its generation so any
// outstanding Key referencing it becomes stale. Called by the Arena when
// the audio thread removes a value.
func (c *Controller) release(k Key) {
	idx := int(k.index)
	if idx < 0 || idx >= len(c.slots) {
		return
	}
	c.slots[idx].generation.Add(1)
	c.slots[idx].reserved.Store(false)
	c.freeList.prod.Push(k.index)
}

// Arena holds the actual values. Only the audio thread calls Insert,
// Remove, Get, GetMut, or Each.
type Arena[T any] struct {
	controller *Controller
	occupied   []bool
	values     []T
}

// New builds an Arena[T] bound to controller. The arena's capacity always
// matches the controller's.
func New[T any](controller *Controller) *Arena[T] {
	n := controller.Capacity()
	return &Arena[T]{
		controller: controller,
		occupied:   make([]bool, n),
		values:     make([]T, n),
	}
}

// Controller returns the arena's bound Controller, so a manager can share
// one Controller/Arena pair between its control and audio sides.
func (a *Arena[T]) Controller() *Controller { return a.controller }

// Insert stores value in the slot named by key. key must have been
// produced by a prior TryReserve on this arena's controller; a stale or
// out-of-range key is a silent no-op (the audio thread never panics on
// bad input from a dropped/recycled resource).
func (a *Arena[T]) Insert(key Key, value T) {
	idx := int(key.index)
	if idx < 0 || idx >= len(a.values) {
		return
	}
	if a.controller.slots[idx].generation.Load() != key.generation {
		return
	}
	a.values[idx] = value
	a.occupied[idx] = true
}

// Remove takes the value out of its slot, releases the slot back to the
// free list (bumping its generation), and returns the value plus whether
// it was actually present.
func (a *Arena[T]) Remove(key Key) (T, bool) {
	var zero T
	idx := int(key.index)
	if idx < 0 || idx >= len(a.values) || !a.occupied[idx] {
		return zero, false
	}
	if a.controller.slots[idx].generation.Load() != key.generation {
		return zero, false
	}
	v := a.values[idx]
	a.values[idx] = zero
	a.occupied[idx] = false
	a.controller.release(key)
	return v, true
}

// Get returns a pointer to the value for key, or nil if key is stale,
// out of range, or its slot is empty.
func (a *Arena[T]) Get(key Key) *T {
	idx := int(key.index)
	if idx < 0 || idx >= len(a.values) || !a.occupied[idx] {
		return nil
	}
	if a.controller.slots[idx].generation.Load() != key.generation {
		return nil
	}
	return &a.values[idx]
}

// Each calls fn for every occupied slot in index order, passing the slot's
// current Key (useful for re-deriving a Key to pass to Remove) and a
// pointer to its value.
func (a *Arena[T]) Each(fn func(Key, *T)) {
	for idx := range a.values {
		if !a.occupied[idx] {
			continue
		}
		gen := a.controller.slots[idx].generation.Load()
		fn(Key{index: uint32(idx), generation: gen}, &a.values[idx])
	}
}

// Len reports how many slots are currently occupied.
func (a *Arena[T]) Len() int {
	n := 0
	for _, occ := range a.occupied {
		if occ {
			n++
		}
	}
	return n
}
