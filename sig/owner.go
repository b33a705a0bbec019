package sig

import (
	"slices"
)

type Disposable interface {
	Dispose()
}

// Owner manages the lifecycle of reactive nodes created within its context.
type Owner struct {
	parent   *Owner
	children []Disposable

	// called ONCE on the next dispose
	cleanups []func()

	// called on every dispose
	disposers []func()

	// panic handlers
	catchers []func(any)

	ctx *reactiveContext

	// root owners are created per goroutine and never disposed
	root bool
}

// NewOwner creates a new reactive owner, child of the current one.
func NewOwner() *Owner {
	o := newChildOwner()
	o.parent.addChild(o)

	return o
}

func newChildOwner() *Owner {
	parent := getActiveOwner()

	return &Owner{
		parent: parent,
		ctx:    parent.ctx,
	}
}

func (o *Owner) addChild(child Disposable) {
	if o.root {
		return
	}

	if !slices.Contains(o.children, child) {
		o.children = append(o.children, child)
	}
}

func (o *Owner) removeChild(child Disposable) {
	i := slices.Index(o.children, child)
	if i >= 0 {
		o.children = slices.Delete(o.children, i, i+1)
	}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when Dispose is called on this owner.
func (o *Owner) Run(fn func() error) error {
	var err error
	o.run(func() { err = fn() })
	return err
}

func (o *Owner) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.handlePanic(r)
		}
	}()

	prev := getActiveOwner()
	setActiveOwner(o)
	defer setActiveOwner(prev)

	fn()
}

// handlePanic hands r to the closest owner with error listeners, or re-panics.
func (o *Owner) handlePanic(r any) {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(r)
		}
		return
	}

	panic(r)
}

// Dispose this owner and all its children.
func (o *Owner) Dispose() {
	if o.parent != nil {
		o.parent.removeChild(o)
	}

	o.disposeChildren()
	o.runCleanups()

	for _, fn := range o.disposers {
		fn()
	}
}

// disposeChildren disposes the most recently created child first.
func (o *Owner) disposeChildren() {
	children := o.children
	o.children = nil

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
}

func (o *Owner) runCleanups() {
	cleanups := o.cleanups
	o.cleanups = nil

	for _, fn := range cleanups {
		fn()
	}
}

// OnCleanup adds a function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

// OnDispose adds a function to be called each time the owner is disposed.
func (o *Owner) OnDispose(fn func()) {
	o.disposers = append(o.disposers, fn)
}

// OnError adds a function to be called when a panic occurs within this owner.
// If no error listener is registered up the owner chain, the panic propagates as usual.
func (o *Owner) OnError(fn func(any)) {
	o.catchers = append(o.catchers, fn)
}
