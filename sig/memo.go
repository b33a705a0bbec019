package sig

// Computed is a lazy memo. It is marked dirty when a dependency changes
// and recomputes on the next Read.
type Computed[T any] struct {
	*reactionTracker
	*dependencyTracker

	dirty       bool
	computation func() T
	value       T

	owner *Owner
}

// NewComputed creates a computed signal that derives its value from other signals (its a memo).
func NewComputed[T any](computation func() T) *Computed[T] {
	return &Computed[T]{
		reactionTracker:   &reactionTracker{},
		dependencyTracker: &dependencyTracker{},

		dirty:       true,
		computation: computation,

		owner: getActiveOwner(),
	}
}

func (c *Computed[T]) addDependency(o Observable) {
	c.dependencyTracker.add(o)
}

func (c *Computed[T]) removeDependency(o Observable) {
	c.dependencyTracker.remove(o)
}

func (c *Computed[T]) track(r Reaction) {
	c.reactionTracker.track(c, r)
}

func (c *Computed[T]) untrack(r Reaction) {
	c.reactionTracker.untrack(c, r)
}

func (c *Computed[T]) Dispose() {
	c.dependencyTracker.clear(c)
	c.reactionTracker.clear(c)
}

// notify marks the memo dirty right away, so readers downstream never see a stale value.
func (c *Computed[T]) notify(ctx *reactiveContext) {
	if c.dirty {
		return
	}

	c.dirty = true
	c.reactionTracker.react(ctx)
}

func (c *Computed[T]) Execute() {
	c.notify(c.owner.ctx)
}

// Read the current value of the computed signal, tracking the dependency if within a reactive context.
func (c *Computed[T]) Read() T {
	ctx := c.owner.ctx

	if ctx.activeReaction != nil {
		c.track(ctx.activeReaction)
	}

	if !c.dirty {
		return c.value
	}

	// clear previous dependencies
	c.dependencyTracker.clear(c)

	prevReaction := ctx.activeReaction
	ctx.activeReaction = c
	defer func() { ctx.activeReaction = prevReaction }()

	c.value = c.computation()
	c.dirty = false

	return c.value
}
