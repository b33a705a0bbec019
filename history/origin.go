package history

// Origin tells where a change notification comes from.
type Origin int

const (
	OriginExternal Origin = iota
	OriginUndo
	OriginRedo
)

func (o Origin) String() string {
	switch o {
	case OriginUndo:
		return "undo"
	case OriginRedo:
		return "redo"
	default:
		return "external"
	}
}

type pendingRestore[T any] struct {
	id     uint64
	origin Origin
	target T
}

// originQueue remembers the restores in flight so that the notifications they
// cause are not recorded again. Notifications arrive in write order, so each
// one can only belong to the oldest pending restore.
type originQueue[T any] struct {
	pending []pendingRestore[T]
	nextID  uint64
}

func (q *originQueue[T]) push(origin Origin, target T) uint64 {
	q.nextID++
	q.pending = append(q.pending, pendingRestore[T]{id: q.nextID, origin: origin, target: target})
	return q.nextID
}

// drop forgets the restore id if it has not been consumed yet.
func (q *originQueue[T]) drop(id uint64) {
	for i, p := range q.pending {
		if p.id == id {
			q.pending = append(q.pending[:i:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *originQueue[T]) reset() {
	q.pending = nil
}

func (q *originQueue[T]) len() int {
	return len(q.pending)
}

// consume classifies the notification carrying next.
// A match pops the oldest restore. Anything else is external, and whatever is
// still pending belongs to restores that never notified, so it is dropped.
func (q *originQueue[T]) consume(next T, equals func(a, b T) bool) Origin {
	if len(q.pending) == 0 {
		return OriginExternal
	}

	head := q.pending[0]
	if !equals(next, head.target) {
		q.reset()
		return OriginExternal
	}

	q.pending = q.pending[1:]
	return head.origin
}
