// Package sig is a small signals runtime: signals, memos, effects and owners.
//
// A reactive graph is meant to be driven from one goroutine at a time.
// Each goroutine gets its own root owner and reactive context.
package sig

import (
	"sync"

	"github.com/petermattis/goid"
)

// Reaction represents a reactive computation that depends on observables (signals).
// Think of it as an effect or a computed value that needs to be re-evaluated when its dependencies change.
type Reaction interface {
	// Execute runs the reaction's logic.
	Execute()

	// Dispose cleans up the reaction, removing all dependencies and stopping further executions.
	Dispose()

	// notify is called when one of the reaction's dependencies changed.
	notify(ctx *reactiveContext)

	addDependency(o Observable)
	removeDependency(o Observable)
}

// Observable represents a data source that can be observed by reactions.
type Observable interface {
	// track registers a reaction to be notified when this observable changes.
	track(r Reaction)

	// untrack removes a reaction from the notification list of this observable.
	untrack(r Reaction)
}

var activeOwners sync.Map

func getActiveOwner() *Owner {
	gid := goid.Get()
	if o, ok := activeOwners.Load(gid); ok {
		return o.(*Owner)
	}

	o := &Owner{ctx: &reactiveContext{}, root: true}
	setActiveOwner(o)
	return o
}

func setActiveOwner(o *Owner) {
	activeOwners.Store(goid.Get(), o)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	untracked(func() { result = fn() })
	return result
}

func untracked(fn func()) {
	ctx := getActiveOwner().ctx

	prev := ctx.activeReaction
	ctx.activeReaction = nil
	defer func() { ctx.activeReaction = prev }()

	fn()
}

// OnCleanup registers a function to be called when the current owner is disposed
// (or, inside an effect, before the effect runs again).
// Outside of any owner this is a no-op.
func OnCleanup(fn func()) {
	if o := getActiveOwner(); !o.root {
		o.OnCleanup(fn)
	}
}
