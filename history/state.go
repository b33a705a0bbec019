package history

import (
	"github.com/AnatoleLucet/usesig/sig"
)

// State is a value with its own undo/redo history.
type State[T any] struct {
	*Tracker[T]

	cell *sig.Signal[T]
}

// NewState creates a signal seeded with initial and tracks its history.
func NewState[T any](initial T, opts ...Option) *State[T] {
	s := resolve[T](opts)
	cell := sig.NewSignal(initial, sig.WithEquals(s.equals))

	return &State[T]{
		Tracker: newTracker[T](cell, s),
		cell:    cell,
	}
}

// Current returns the live value, tracking it inside effects.
func (s *State[T]) Current() T {
	return s.cell.Read()
}

// Set replaces the value and records the previous one.
func (s *State[T]) Set(v T) {
	s.cell.Write(v)
}

// Update hands fn a copy of the current value, so fn may mutate it in place
// without touching recorded snapshots, and writes back what fn returns.
func (s *State[T]) Update(fn func(T) T) {
	s.cell.Write(fn(s.clone(s.cell.Peek())))
}

// Signal exposes the underlying cell, e.g. to build memos on top of it.
func (s *State[T]) Signal() *sig.Signal[T] {
	return s.cell
}
