package reactive

// Computed is a lazily cached derived value. Nothing runs at construction;
// the first Get computes the value and records its dependencies, and after
// that a dependency change only marks the value dirty, with the
// recomputation happening on the next Get. Reading a computed inside an
// effect chains the tracking, so the effect re-runs when the computed's own
// dependencies change.
type Computed[T any] struct {
	effect *Effect

	// subs are the effects that have read this computed.
	subs depSet

	value T
	dirty bool
}

// NewComputed returns a computed wrapping fn. fn does not run until the
// first Get.
func NewComputed[T any](fn func() T) *Computed[T] {
	c := &Computed[T]{dirty: true}
	c.effect = NewEffect(
		func() any {
			c.value = fn()
			c.dirty = false
			return nil
		},
		Lazy(),
		WithScheduler(func(*Effect) {
			// Invalidate instead of recomputing. Downstream effects still
			// re-run now; they will pull the fresh value through Get.
			c.dirty = true
			c.subs.notify()
		}),
	)
	return c
}

// Get returns the current value, recomputing first if a dependency changed
// since the last read. Inside an effect run the caller is subscribed to the
// computed, not to its underlying dependencies.
func (c *Computed[T]) Get() T {
	c.subs.subscribeActive()

	if c.dirty && !c.effect.stopped {
		// Recompute untracked from the reader's point of view: the run
		// installs the computed's own effect as the tracking target.
		c.effect.Run()
	}
	return c.value
}

// Peek returns the last computed value without subscribing and without
// recomputing. Before the first Get it is the zero value.
func (c *Computed[T]) Peek() T {
	return c.value
}

// Dirty reports whether the next Get will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Stop detaches the computed from its dependencies. The cached value stays
// readable but no longer updates.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
}
