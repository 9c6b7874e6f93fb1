package reactive

import "testing"

func TestEffectRunsImmediately(t *testing.T) {
	runs := 0
	NewEffect(func() any {
		runs++
		return nil
	})

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestEffectLazyDoesNotRun(t *testing.T) {
	runs := 0
	e := NewEffect(func() any {
		runs++
		return nil
	}, Lazy())

	if runs != 0 {
		t.Fatalf("runs before first Run = %d, want 0", runs)
	}

	e.Run()
	if runs != 1 {
		t.Errorf("runs after Run = %d, want 1", runs)
	}
}

func TestEffectRunReturnsResult(t *testing.T) {
	e := NewEffect(func() any {
		return "rendered"
	}, Lazy())

	if got := e.Run(); got != "rendered" {
		t.Errorf("Run() = %v, want rendered", got)
	}
}

func TestEffectStopIsTerminal(t *testing.T) {
	c := Wrap(map[string]any{"k": 0})

	runs := 0
	e := NewEffect(func() any {
		c.Get("k")
		runs++
		return nil
	})

	e.Stop()
	c.Set("k", 1)
	if runs != 1 {
		t.Errorf("runs after write to stopped effect's dep = %d, want 1", runs)
	}

	if got := e.Run(); got != nil {
		t.Errorf("Run on stopped effect = %v, want nil", got)
	}
	if runs != 1 {
		t.Errorf("runs after Run on stopped effect = %d, want 1", runs)
	}

	e.Stop() // idempotent
	if !e.Stopped() {
		t.Error("Stopped() = false after Stop")
	}
}

func TestEffectConditionalDependencies(t *testing.T) {
	c := Wrap(map[string]any{
		"flag": true,
		"a":    1,
		"b":    2,
	})

	runs := 0
	NewEffect(func() any {
		runs++
		if c.Get("flag").(bool) {
			c.Get("a")
		} else {
			c.Get("b")
		}
		return nil
	})

	// Branch reads a; writes to b must not re-run the effect.
	c.Set("b", 20)
	if runs != 1 {
		t.Fatalf("runs after write to unread key = %d, want 1", runs)
	}

	// Flip the branch. Now a is the ghost dependency to shed.
	c.Set("flag", false)
	if runs != 2 {
		t.Fatalf("runs after flag flip = %d, want 2", runs)
	}

	c.Set("a", 10)
	if runs != 2 {
		t.Errorf("runs after write to shed dependency = %d, want 2", runs)
	}

	c.Set("b", 30)
	if runs != 3 {
		t.Errorf("runs after write to new dependency = %d, want 3", runs)
	}
}

func TestEffectSchedulerInvokedInsteadOfRun(t *testing.T) {
	c := Wrap(map[string]any{"k": 0})

	runs := 0
	scheduled := 0
	e := NewEffect(func() any {
		c.Get("k")
		runs++
		return nil
	}, WithScheduler(func(*Effect) {
		scheduled++
	}))

	if runs != 1 {
		t.Fatalf("runs after creation = %d, want 1", runs)
	}

	c.Set("k", 1)
	if runs != 1 {
		t.Errorf("runs after write = %d, want 1 (scheduler owns reruns)", runs)
	}
	if scheduled != 1 {
		t.Errorf("scheduler calls = %d, want 1", scheduled)
	}

	// The scheduler decides when to actually re-run.
	e.Run()
	if runs != 2 {
		t.Errorf("runs after manual Run = %d, want 2", runs)
	}
}

func TestEffectPanicRestoresTracking(t *testing.T) {
	c := Wrap(map[string]any{"k": 0})

	func() {
		defer func() { recover() }()
		NewEffect(func() any {
			c.Get("k")
			panic("render failed")
		})
	}()

	if activeEffect() != nil {
		t.Fatal("active effect leaked after panic")
	}

	// Tracking still works for later effects.
	runs := 0
	NewEffect(func() any {
		c.Get("k")
		runs++
		return nil
	})
	c.Set("k", 1)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestEffectIDsAreUnique(t *testing.T) {
	a := NewEffect(func() any { return nil }, Lazy())
	b := NewEffect(func() any { return nil }, Lazy())
	if a.ID() == b.ID() {
		t.Errorf("two effects share ID %d", a.ID())
	}
}
