package sig

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewSignal(0)
		assert.Equal(t, 0, count.Read())

		count.Write(10)
		assert.Equal(t, 10, count.Read())
	})

	t.Run("writes from another goroutine", func(t *testing.T) {
		var wg sync.WaitGroup
		count := NewSignal(0)

		wg.Go(func() {
			count.Write(count.Read() + 1)
		})

		wg.Wait()
		assert.Equal(t, 1, count.Read())
	})

	t.Run("zero values", func(t *testing.T) {
		err := NewSignal[error](nil)
		assert.Nil(t, err.Read())

		err.Write(errors.New("oops"))
		assert.EqualError(t, err.Read(), "oops")

		err.Write(nil)
		assert.Nil(t, err.Read())
	})

	t.Run("skips equal writes", func(t *testing.T) {
		calls := 0

		tags := NewSignal([]string{"a"})
		tags.Subscribe(func(next, prev []string) { calls++ })

		tags.Write([]string{"a"})
		assert.Equal(t, 0, calls)

		tags.Write([]string{"a", "b"})
		assert.Equal(t, 1, calls)
	})

	t.Run("custom equality", func(t *testing.T) {
		calls := 0

		count := NewSignal(0, WithEquals(func(a, b int) bool { return a/10 == b/10 }))
		count.Subscribe(func(next, prev int) { calls++ })

		count.Write(5)
		assert.Equal(t, 0, count.Read())

		count.Write(15)
		assert.Equal(t, 15, count.Read())
		assert.Equal(t, 1, calls)
	})

	t.Run("update", func(t *testing.T) {
		count := NewSignal(1)
		count.Update(func(v int) int { return v + 41 })
		assert.Equal(t, 42, count.Peek())
	})
}

func TestSubscribe(t *testing.T) {
	t.Run("receives next and previous value", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		count.Subscribe(func(next, prev int) {
			log = append(log, fmt.Sprintf("%d -> %d", prev, next))
		})

		count.Write(1)
		count.Write(2)

		assert.Equal(t, []string{"0 -> 1", "1 -> 2"}, log)
	})

	t.Run("every write is delivered inside a batch", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		count.Subscribe(func(next, prev int) {
			log = append(log, fmt.Sprintf("%d -> %d", prev, next))
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("effect %d", count.Read()))
		})

		NewBatch(func() {
			count.Write(1)
			count.Write(2)
			log = append(log, "updated")
		})

		assert.Equal(t, []string{
			"effect 0",
			"0 -> 1",
			"1 -> 2",
			"updated",
			"effect 2",
		}, log)
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		calls := 0

		count := NewSignal(0)
		unsubscribe := count.Subscribe(func(next, prev int) { calls++ })

		NewBatch(func() {
			count.Write(1)
			unsubscribe()
			count.Write(2)
		})
		count.Write(3)
		unsubscribe()

		assert.Equal(t, 1, calls)
	})

	t.Run("subscriber is not tracked by effects", func(t *testing.T) {
		runs := 0

		a := NewSignal(0)
		b := NewSignal(0)

		a.Subscribe(func(next, prev int) { b.Read() })

		NewEffect(func() {
			runs++
			a.Write(a.Peek() + 1)
		})

		b.Write(1)
		assert.Equal(t, 1, runs)
	})
}
