// Package history records the changes of a reactive value and replays them with undo/redo.
package history

import (
	"log/slog"
	"slices"
	"time"

	"github.com/AnatoleLucet/usesig/sig"
)

// Source is the value a Tracker follows. *sig.Signal satisfies it.
type Source[T any] interface {
	Read() T
	Write(T)

	// Subscribe calls fn once per change with the new and the previous value.
	// Delivery should happen during Write. A source that defers it must keep
	// write order and never coalesce, and Undo/Redo then see the stacks as of
	// the last delivered change.
	Subscribe(fn func(next, prev T)) (unsubscribe func())
}

// Funcs adapts a getter/setter pair to a Source.
type Funcs[T any] struct {
	Get   func() T
	Set   func(T)
	Watch func(fn func(next, prev T)) (stop func())
}

func (f Funcs[T]) Read() T   { return f.Get() }
func (f Funcs[T]) Write(v T) { f.Set(v) }

func (f Funcs[T]) Subscribe(fn func(next, prev T)) func() {
	return f.Watch(fn)
}

// FromFuncs builds a Source observing get through an effect.
//
// The effect only sees settled values: several writes made inside one sig
// batch reach the tracker as a single change and are recorded as one snapshot.
// Build a Funcs with a per-write Watch (e.g. Signal.Subscribe) when every
// write must be its own history entry.
func FromFuncs[T any](get func() T, set func(T)) Funcs[T] {
	return Funcs[T]{
		Get: get,
		Set: set,
		Watch: func(fn func(next, prev T)) func() {
			return sig.Watch(get, fn)
		},
	}
}

// Snapshot is an independent copy of a past value.
type Snapshot[T any] struct {
	Value     T
	Timestamp time.Time
}

// Tracker keeps the undo (past) and redo (future) stacks of a Source.
// Both stacks are ordered oldest first: the last entry is the next one to restore.
type Tracker[T any] struct {
	src Source[T]
	settings[T]

	past   []Snapshot[T]
	future []Snapshot[T]

	origin originQueue[T]

	// bumped on every stack change so accessors are reactive
	version *sig.Signal[uint64]

	unsubscribe func()
	disposed    bool
}

// NewTracker starts recording the changes of src.
// The tracker is disposed along with the current sig owner, if any.
func NewTracker[T any](src Source[T], opts ...Option) *Tracker[T] {
	return newTracker(src, resolve[T](opts))
}

func newTracker[T any](src Source[T], s settings[T]) *Tracker[T] {
	t := &Tracker[T]{
		src:      src,
		settings: s,
		version:  sig.NewSignal[uint64](0),
	}

	if t.includeCurrent {
		t.past = append(t.past, t.capture(t.current()))
	}

	t.unsubscribe = src.Subscribe(t.observe)
	sig.OnCleanup(t.Dispose)

	return t
}

func (t *Tracker[T]) current() T {
	return sig.Untrack(t.src.Read)
}

func (t *Tracker[T]) capture(v T) Snapshot[T] {
	return Snapshot[T]{Value: t.clone(v), Timestamp: t.now()}
}

func (t *Tracker[T]) touch() {
	t.version.Write(t.version.Peek() + 1)
}

func (t *Tracker[T]) observe(next, prev T) {
	if pending := t.origin.len(); pending > 0 {
		if origin := t.origin.consume(next, t.equals); origin != OriginExternal {
			t.logger.Debug("history: skipped own change", slog.String("origin", origin.String()))
			return
		}
		t.logger.Debug("history: dropped stale restore", slog.Int("pending", pending))
	}

	value := prev
	if t.includeCurrent {
		value = next
	}

	t.past = append(t.past, t.capture(value))
	t.future = nil

	t.logger.Debug("history: recorded change", slog.Int("past", len(t.past)))
	t.metrics.record()
	t.touch()
}

func (t *Tracker[T]) canUndo() bool {
	if t.includeCurrent {
		return len(t.past) > 1
	}

	return len(t.past) > 0
}

func (t *Tracker[T]) canRedo() bool {
	return len(t.future) > 0
}

// Undo restores the previous value. It does nothing when CanUndo is false.
func (t *Tracker[T]) Undo() {
	if !t.canUndo() {
		t.logger.Debug("history: nothing to undo")
		return
	}

	past, future := t.past, t.future

	var snap Snapshot[T]
	if t.includeCurrent {
		// the top mirrors the value being left, the one below stays as the new top
		t.past = slices.Clip(t.past[:len(t.past)-1])
		snap = t.past[len(t.past)-1]
	} else {
		snap = t.past[len(t.past)-1]
		t.past = slices.Clip(t.past[:len(t.past)-1])
	}

	t.future = append(t.future, t.capture(t.current()))

	t.restore(OriginUndo, snap.Value, past, future)
}

// Redo restores the value that was last undone. It does nothing when CanRedo is false.
func (t *Tracker[T]) Redo() {
	if !t.canRedo() {
		t.logger.Debug("history: nothing to redo")
		return
	}

	past, future := t.past, t.future

	snap := t.future[len(t.future)-1]
	t.future = slices.Clip(t.future[:len(t.future)-1])

	if t.includeCurrent {
		t.past = append(t.past, Snapshot[T]{Value: snap.Value, Timestamp: t.now()})
	} else {
		t.past = append(t.past, t.capture(t.current()))
	}

	t.restore(OriginRedo, snap.Value, past, future)
}

// restore writes value back to the source once the stacks have moved.
// If the write panics, the stacks go back to past/future and the panic goes on.
func (t *Tracker[T]) restore(origin Origin, value T, past, future []Snapshot[T]) {
	// writing the value already held notifies nobody, so nothing is expected back
	var id uint64
	if !t.equals(t.current(), value) {
		id = t.origin.push(origin, value)
	}

	defer func() {
		if r := recover(); r != nil {
			t.past, t.future = past, future
			t.origin.drop(id)

			t.logger.Debug("history: restore failed, rolled back", slog.String("origin", origin.String()))
			t.metrics.rollback()
			panic(r)
		}
	}()

	// one batch so effects see the new value and the new stacks together
	sig.NewBatch(func() {
		t.src.Write(t.clone(value))
		t.touch()
	})

	t.logger.Debug("history: restored",
		slog.String("origin", origin.String()),
		slog.Int("past", len(t.past)),
		slog.Int("future", len(t.future)),
	)
	t.metrics.step(origin)
}

// Clear forgets both stacks. With WithIncludeCurrent the present value is kept as the baseline.
func (t *Tracker[T]) Clear() {
	t.past = nil
	t.future = nil

	if t.includeCurrent {
		t.past = append(t.past, t.capture(t.current()))
	}

	t.touch()
}

// Dispose stops recording. It is safe to call more than once.
func (t *Tracker[T]) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true

	t.unsubscribe()
}

func (t *Tracker[T]) CanUndo() bool {
	t.version.Read()
	return t.canUndo()
}

func (t *Tracker[T]) CanRedo() bool {
	t.version.Read()
	return t.canRedo()
}

// History returns a copy of the undo stack, oldest first.
func (t *Tracker[T]) History() []Snapshot[T] {
	t.version.Read()
	return slices.Clone(t.past)
}

// RedoHistory returns a copy of the redo stack; the last entry is the next redo.
func (t *Tracker[T]) RedoHistory() []Snapshot[T] {
	t.version.Read()
	return slices.Clone(t.future)
}
