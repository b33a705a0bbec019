package sig

import (
	"reflect"
	"slices"
)

// Signal is a read/write reactive value.
type Signal[T any] struct {
	*reactionTracker

	value  T
	equals func(a, b T) bool

	subscribers []*subscriber[T]

	owner *Owner
}

type subscriber[T any] struct {
	fn     func(next, prev T)
	active bool
}

type SignalOption[T any] func(*Signal[T])

// WithEquals sets the function used to decide whether a write changes the value.
// Defaults to reflect.DeepEqual.
func WithEquals[T any](equals func(a, b T) bool) SignalOption[T] {
	return func(s *Signal[T]) {
		if equals != nil {
			s.equals = equals
		}
	}
}

// NewSignal creates your tipical read/write signal.
func NewSignal[T any](initial T, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{
		reactionTracker: &reactionTracker{},

		value:  initial,
		equals: func(a, b T) bool { return reflect.DeepEqual(a, b) },

		owner: getActiveOwner(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Signal[T]) track(r Reaction) {
	s.reactionTracker.track(s, r)
}

func (s *Signal[T]) untrack(r Reaction) {
	s.reactionTracker.untrack(s, r)
}

// Read the current value of the signal, tracking the dependency if within a reactive context.
func (s *Signal[T]) Read() T {
	if r := s.owner.ctx.activeReaction; r != nil {
		s.track(r)
	}

	return s.value
}

// Peek reads the current value without tracking it.
func (s *Signal[T]) Peek() T {
	return s.value
}

// Write a new value to the signal, triggering updates to any dependents.
// Writing a value equal to the current one does nothing.
func (s *Signal[T]) Write(v T) {
	if s.equals(s.value, v) {
		return
	}

	prev := s.value
	s.value = v

	ctx := s.owner.ctx
	ctx.batch(func() {
		s.notifySubscribers(ctx, v, prev)
		s.reactionTracker.react(ctx)
	})
}

// notifySubscribers runs right away, even inside a batch, and outside of any reaction.
func (s *Signal[T]) notifySubscribers(ctx *reactiveContext, next, prev T) {
	if len(s.subscribers) == 0 {
		return
	}

	prevReaction := ctx.activeReaction
	ctx.activeReaction = nil
	defer func() { ctx.activeReaction = prevReaction }()

	for _, sub := range slices.Clone(s.subscribers) {
		if sub.active {
			sub.fn(next, prev)
		}
	}
}

// Update writes the result of fn applied to the current (untracked) value.
func (s *Signal[T]) Update(fn func(T) T) {
	s.Write(fn(s.value))
}

// Subscribe registers fn to be called with the new and previous value on every change.
// Unlike effects, subscribers are never coalesced or deferred: fn runs during
// Write, even inside a batch, before any reaction.
func (s *Signal[T]) Subscribe(fn func(next, prev T)) (unsubscribe func()) {
	sub := &subscriber[T]{fn: fn, active: true}
	s.subscribers = append(s.subscribers, sub)

	return func() {
		if !sub.active {
			return
		}

		sub.active = false
		s.subscribers = slices.DeleteFunc(s.subscribers, func(other *subscriber[T]) bool {
			return other == sub
		})
	}
}
