// Package state provides observable values for view models: one writer, many
// readers, every change a whole-value replacement.
package state

import "sync"

// StateFlow is the read-only side of a MutableStateFlow.
type StateFlow[T any] interface {
	Value() T
	// Version counts emitted changes; it starts at 0.
	Version() uint64
	// Subscribe registers fn for changes made after the call. The returned
	// func removes it.
	Subscribe(fn func(T)) (unsubscribe func())
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

type MutableStateFlow[T any] struct {
	mu      sync.RWMutex
	value   T
	version uint64
	equal   func(a, b T) bool
	subs    []subscriber[T]
	nextID  uint64
}

// New returns a flow holding initial. Sets that are equal to the current value
// according to equal are dropped; a nil equal emits every Set.
func New[T any](initial T, equal func(a, b T) bool) *MutableStateFlow[T] {
	return &MutableStateFlow[T]{value: initial, equal: equal}
}

// Comparable returns a flow that conflates with ==.
func Comparable[T comparable](initial T) *MutableStateFlow[T] {
	return New(initial, func(a, b T) bool { return a == b })
}

func (f *MutableStateFlow[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value
}

func (f *MutableStateFlow[T]) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

// Set replaces the value and notifies subscribers outside the lock. It
// reports whether a change was emitted.
func (f *MutableStateFlow[T]) Set(v T) bool {
	return f.Update(func(T) T { return v })
}

// Update atomically replaces the value with fn(current). fn must not touch f.
func (f *MutableStateFlow[T]) Update(fn func(T) T) bool {
	f.mu.Lock()
	v := fn(f.value)
	if f.equal != nil && f.equal(f.value, v) {
		f.mu.Unlock()
		return false
	}
	f.value = v
	f.version++
	subs := append([]subscriber[T](nil), f.subs...)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
	return true
}

func (f *MutableStateFlow[T]) Subscribe(fn func(T)) func() {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, subscriber[T]{id: id, fn: fn})
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.subs {
			if s.id == id {
				f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
				return
			}
		}
	}
}

// ReadOnly returns a view that cannot be converted back to the mutable flow.
func (f *MutableStateFlow[T]) ReadOnly() StateFlow[T] {
	return readOnly[T]{f}
}

type readOnly[T any] struct {
	f *MutableStateFlow[T]
}

func (r readOnly[T]) Value() T                    { return r.f.Value() }
func (r readOnly[T]) Version() uint64             { return r.f.Version() }
func (r readOnly[T]) Subscribe(fn func(T)) func() { return r.f.Subscribe(fn) }
