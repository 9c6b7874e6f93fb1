package component

import "strconv"

// UseState declares a local state slot and returns its current value with a
// setter. Slots are matched by call order, so hooks must not run inside
// conditionals that change between renders. The setter may be called from
// anywhere (typically an event handler); it re-renders the instance
// synchronously when the value actually changes.
func UseState[T any](c *Instance, initial T) (T, func(T)) {
	key := strconv.Itoa(c.cursor)
	c.cursor++

	if !c.cell.Has(key) {
		c.cell.Set(key, initial)
	}

	value, _ := c.cell.Get(key).(T)
	set := func(v T) {
		c.cell.Set(key, v)
	}
	return value, set
}

// UseRef declares a slot holding a mutable box that never triggers
// re-renders. The same pointer is returned on every render.
func UseRef[T any](c *Instance, initial T) *T {
	key := "ref" + strconv.Itoa(c.cursor)
	c.cursor++

	if !c.cell.Has(key) {
		box := new(T)
		*box = initial
		c.cell.Set(key, box)
	}
	return c.cell.Peek(key).(*T)
}
