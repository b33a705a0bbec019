package sig

import "reflect"

// Watch runs fn with the new and previous result of source whenever the
// signals read by source change. fn is not called for the initial value.
//
// Watch is built on an effect, so writes inside a batch are coalesced into a
// single call. Use Signal.Subscribe to observe every write.
func Watch[T any](source func() T, fn func(next, prev T)) (stop func()) {
	var prev T
	initialized := false

	e := NewEffect(func() {
		next := source()
		if !initialized {
			initialized = true
			prev = next
			return
		}

		old := prev
		prev = next
		if reflect.DeepEqual(old, next) {
			return
		}

		untracked(func() { fn(next, old) })
	})

	return e.Dispose
}
