package history

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/mitchellh/copystructure"
)

type config struct {
	includeCurrent bool

	clone  any // func(T) T
	equals any // func(a, b T) bool

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*config)

// WithIncludeCurrent mirrors the present value as the top entry of History.
func WithIncludeCurrent(include bool) Option {
	return func(c *config) { c.includeCurrent = include }
}

// WithClone replaces the default deep copy used for snapshots.
// Required for values holding unexported state that must survive the copy.
func WithClone[T any](clone func(T) T) Option {
	return func(c *config) { c.clone = clone }
}

// WithEquals replaces reflect.DeepEqual when matching restored values.
func WithEquals[T any](equals func(a, b T) bool) Option {
	return func(c *config) { c.equals = equals }
}

// WithClock sets the time source for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// settings is config resolved for one value type.
type settings[T any] struct {
	includeCurrent bool

	clone  func(T) T
	equals func(a, b T) bool

	now     func() time.Time
	logger  *slog.Logger
	metrics *Metrics
}

func resolve[T any](opts []Option) settings[T] {
	c := config{
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&c)
	}

	s := settings[T]{
		includeCurrent: c.includeCurrent,
		now:            c.now,
		logger:         c.logger,
		metrics:        c.metrics,
	}

	switch fn := c.clone.(type) {
	case nil:
		s.clone = func(v T) T { return deepCopy(v, s.logger) }
	case func(T) T:
		s.clone = fn
	default:
		panic(fmt.Sprintf("history: WithClone got %T, want func(%s) %[2]s", c.clone, typeName[T]()))
	}

	switch fn := c.equals.(type) {
	case nil:
		s.equals = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	case func(a, b T) bool:
		s.equals = fn
	default:
		panic(fmt.Sprintf("history: WithEquals got %T, want func(%s, %[2]s) bool", c.equals, typeName[T]()))
	}

	return s
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// deepCopy falls back to the value itself when it cannot be copied.
func deepCopy[T any](v T, logger *slog.Logger) T {
	c, err := copystructure.Copy(v)
	if err != nil {
		logger.Warn("history: snapshot copy failed, storing value as is",
			slog.String("type", typeName[T]()),
			slog.String("error", err.Error()),
		)
		return v
	}

	return as[T](c)
}
