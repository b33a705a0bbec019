package sig

// Effect is a reaction that re-runs its function whenever the signals it read change.
type Effect struct {
	*Owner
	*dependencyTracker

	fn       func()
	disposed bool
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(fn func()) *Effect {
	e := &Effect{
		Owner:             newChildOwner(),
		dependencyTracker: &dependencyTracker{},

		fn: fn,
	}
	e.parent.addChild(e)

	e.Execute()

	return e
}

func (e *Effect) addDependency(o Observable) {
	e.dependencyTracker.add(o)
}

func (e *Effect) removeDependency(o Observable) {
	e.dependencyTracker.remove(o)
}

func (e *Effect) notify(ctx *reactiveContext) {
	ctx.queueReaction(e)
}

// clean runs before every re-execution: nested nodes first, then this run's cleanups.
func (e *Effect) clean() {
	e.dependencyTracker.clear(e)
	e.Owner.disposeChildren()
	e.Owner.runCleanups()
}

func (e *Effect) Execute() {
	if e.disposed {
		return
	}

	e.clean()

	prevReaction := e.ctx.activeReaction
	e.ctx.activeReaction = e
	defer func() { e.ctx.activeReaction = prevReaction }()

	e.Owner.run(e.fn)
}

// Dispose stops the effect and runs its pending cleanups.
func (e *Effect) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true

	if e.parent != nil {
		e.parent.removeChild(e)
	}

	e.clean()

	for _, fn := range e.disposers {
		fn()
	}
}
