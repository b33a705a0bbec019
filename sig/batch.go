package sig

import "slices"

type reactiveContext struct {
	// activeReaction holds the currently executing reaction.
	// It is used to track dependencies during reaction execution.
	activeReaction Reaction

	// pendingReactions holds reactions queued for execution during a batch.
	pendingReactions []Reaction

	// batchDepth indicates the current depth of nested batch calls.
	// It is used to determine when to flush pending work.
	batchDepth int
}

func (rc *reactiveContext) batch(fn func()) {
	rc.batchDepth++
	defer func() {
		rc.batchDepth--
		if rc.batchDepth == 0 {
			rc.flush()
		}
	}()

	fn()
}

// flush runs the reactions queued during the batch.
func (rc *reactiveContext) flush() {
	// queued work must not become a dependency of whatever reaction triggered the flush
	prev := rc.activeReaction
	rc.activeReaction = nil
	defer func() { rc.activeReaction = prev }()

	reactions := rc.pendingReactions
	rc.pendingReactions = nil

	for _, reaction := range reactions {
		reaction.Execute()
	}
}

func (rc *reactiveContext) queueReaction(r Reaction) {
	// if not in batch mode, execute immediately
	if rc.batchDepth == 0 {
		r.Execute()
		return
	}

	// else, queue for later execution
	if !slices.Contains(rc.pendingReactions, r) {
		rc.pendingReactions = append(rc.pendingReactions, r)
	}
}

// NewBatch batches multiple signal writes into a single update cycle,
// instead of triggering updates after each write.
// Signal subscribers are not batched and still see every write as it happens.
func NewBatch(fn func()) {
	getActiveOwner().ctx.batch(fn)
}
