package reactive

import "testing"

func TestComputedBasic(t *testing.T) {
	c := Wrap(map[string]any{"n": 2})

	double := NewComputed(func() int {
		return c.Get("n").(int) * 2
	})

	if got := double.Get(); got != 4 {
		t.Errorf("Get() = %d, want 4", got)
	}

	c.Set("n", 5)
	if got := double.Get(); got != 10 {
		t.Errorf("Get() after write = %d, want 10", got)
	}
}

func TestComputedIsLazy(t *testing.T) {
	c := Wrap(map[string]any{"n": 1})

	computes := 0
	d := NewComputed(func() int {
		computes++
		return c.Get("n").(int)
	})

	if computes != 0 {
		t.Fatalf("computes at creation = %d, want 0", computes)
	}
	if !d.Dirty() {
		t.Error("Dirty() = false before first read")
	}

	if got := d.Get(); got != 1 {
		t.Fatalf("first Get() = %d, want 1", got)
	}
	if computes != 1 {
		t.Fatalf("computes after first read = %d, want 1", computes)
	}

	// Writes invalidate without recomputing.
	c.Set("n", 2)
	c.Set("n", 3)
	if computes != 1 {
		t.Errorf("computes after two writes = %d, want 1", computes)
	}
	if !d.Dirty() {
		t.Error("Dirty() = false after write")
	}

	if got := d.Get(); got != 3 {
		t.Errorf("Get() = %d, want 3", got)
	}
	if computes != 2 {
		t.Errorf("computes after read = %d, want 2", computes)
	}

	// Clean reads hit the cache.
	d.Get()
	if computes != 2 {
		t.Errorf("computes after cached read = %d, want 2", computes)
	}
}

func TestComputedPeekDoesNotRecompute(t *testing.T) {
	c := Wrap(map[string]any{"n": 1})

	d := NewComputed(func() int {
		return c.Get("n").(int)
	})

	if got := d.Peek(); got != 0 {
		t.Errorf("Peek() before first read = %d, want zero value", got)
	}

	if got := d.Get(); got != 1 {
		t.Fatalf("Get() = %d, want 1", got)
	}
	c.Set("n", 9)
	if got := d.Peek(); got != 1 {
		t.Errorf("Peek() = %d, want stale 1", got)
	}
	if got := d.Get(); got != 9 {
		t.Errorf("Get() = %d, want 9", got)
	}
}

func TestComputedChainsIntoEffects(t *testing.T) {
	c := Wrap(map[string]any{"n": 1})

	d := NewComputed(func() int {
		return c.Get("n").(int) + 1
	})

	var seen []int
	NewEffect(func() any {
		seen = append(seen, d.Get())
		return nil
	})

	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("seen after creation = %v, want [2]", seen)
	}

	c.Set("n", 10)
	if len(seen) != 2 || seen[1] != 11 {
		t.Errorf("seen after write = %v, want [2 11]", seen)
	}
}

func TestComputedOfComputed(t *testing.T) {
	c := Wrap(map[string]any{"n": 1})

	double := NewComputed(func() int {
		return c.Get("n").(int) * 2
	})
	quad := NewComputed(func() int {
		return double.Get() * 2
	})

	if got := quad.Get(); got != 4 {
		t.Fatalf("quad = %d, want 4", got)
	}

	c.Set("n", 3)
	if got := quad.Get(); got != 12 {
		t.Errorf("quad after write = %d, want 12", got)
	}
}

func TestComputedStopFreezesValue(t *testing.T) {
	c := Wrap(map[string]any{"n": 1})

	d := NewComputed(func() int {
		return c.Get("n").(int)
	})

	if got := d.Get(); got != 1 {
		t.Fatalf("Get() = %d, want 1", got)
	}

	d.Stop()
	c.Set("n", 99)
	if got := d.Get(); got != 1 {
		t.Errorf("Get() after Stop = %d, want frozen 1", got)
	}
}
