package reactive

import "reflect"

// depSet is the set of effects subscribed to one (cell, key) pair.
// Subscribers are kept in registration order; notification iterates a
// defensive copy so subscribe/unsubscribe during a notification cannot
// corrupt the in-progress iteration.
type depSet struct {
	subs []*Effect
}

// add registers e as a subscriber. Deduplicated by identity.
func (d *depSet) add(e *Effect) {
	for _, existing := range d.subs {
		if existing == e {
			return
		}
	}
	d.subs = append(d.subs, e)
}

// remove unregisters e, preserving the order of the remaining subscribers.
func (d *depSet) remove(e *Effect) {
	for i, existing := range d.subs {
		if existing == e {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// notify runs every subscriber from a snapshot taken before iteration
// begins. The currently active effect is excluded, which is what bounds a
// same-key read-then-write inside one effect run to depth 1. Subscribers
// with a scheduler are invoked through it; the rest re-run inline.
func (d *depSet) notify() {
	if len(d.subs) == 0 {
		return
	}

	snapshot := make([]*Effect, len(d.subs))
	copy(snapshot, d.subs)

	skip := activeEffect()
	for _, e := range snapshot {
		if e == skip || e.stopped {
			continue
		}
		if e.scheduler != nil {
			e.scheduler(e)
		} else {
			e.Run()
		}
	}
}

// subscribeActive registers the currently active effect, if any, in d.
func (d *depSet) subscribeActive() {
	if e := activeEffect(); e != nil && !e.stopped {
		d.add(e)
		e.addDep(d)
	}
}

// Cell is a reactive state container. Each key of the wrapped value carries
// its own subscriber set: reading a key during an effect run subscribes
// that effect, and writing a key notifies the subscribers of that key only.
//
// A Cell is not safe for concurrent use; confine it, and the effects that
// read it, to a single goroutine.
type Cell struct {
	id uint64

	// values holds the wrapped state. Map-shaped entries are replaced by
	// nested *Cell wrappers on first read.
	values map[string]any

	// subs maps keys to their subscriber sets, created on first access.
	subs map[string]*depSet
}

// Wrap returns a reactive handle over value. The cell takes ownership of
// the top-level entries; map-shaped entries are wrapped recursively, but
// lazily — a nested map becomes a nested cell on its first Get, not here.
func Wrap(value map[string]any) *Cell {
	c := &Cell{
		id:     nextID(),
		values: make(map[string]any, len(value)),
		subs:   make(map[string]*depSet),
	}
	for k, v := range value {
		c.values[k] = v
	}
	return c
}

// NewCell returns an empty reactive cell.
func NewCell() *Cell {
	return Wrap(nil)
}

// ID returns the unique identifier for this cell.
func (c *Cell) ID() uint64 {
	return c.id
}

// depsFor returns the subscriber set for key, creating it if needed.
func (c *Cell) depsFor(key string) *depSet {
	d, ok := c.subs[key]
	if !ok {
		d = &depSet{}
		c.subs[key] = d
	}
	return d
}

// Get returns the value stored under key. If an effect is currently
// running, it is registered as a subscriber of (cell, key); outside any
// effect the read is untracked, never an error. A map-shaped value is
// wrapped into a nested cell on first read and the wrapper returned from
// then on.
func (c *Cell) Get(key string) any {
	c.depsFor(key).subscribeActive()

	v, ok := c.values[key]
	if !ok {
		return nil
	}

	if m, isMap := v.(map[string]any); isMap {
		nested := Wrap(m)
		c.values[key] = nested
		return nested
	}
	return v
}

// Peek returns the value stored under key without subscribing.
func (c *Cell) Peek(key string) any {
	return c.values[key]
}

// Has reports whether key is present, without subscribing.
func (c *Cell) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Set stores value under key. Subscribers of (cell, key) are notified only
// when the new value differs from the old one, and the currently active
// effect is never notified about its own write.
func (c *Cell) Set(key string, value any) {
	old, existed := c.values[key]
	if existed && valuesEqual(old, value) {
		return
	}

	c.values[key] = value
	c.depsFor(key).notify()
}

// Delete removes key from the cell. Subscribers are notified only if the
// key previously existed.
func (c *Cell) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}

	delete(c.values, key)
	c.depsFor(key).notify()
}

// Keys returns the keys currently present, without subscribing.
func (c *Cell) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}

// valuesEqual compares two stored values. Fast paths cover the common
// comparable kinds; everything else falls back to reflect.DeepEqual.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case *Cell:
		bv, ok := b.(*Cell)
		return ok && av == bv
	case *Effect:
		bv, ok := b.(*Effect)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}
