package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine: the effect
// whose run is currently recording dependencies. Keeping the context
// per-goroutine lets independent reactive graphs (one per server session)
// coexist without sharing an active-effect slot.
type trackingContext struct {
	// activeEffect is the effect currently recording dependencies.
	// nil means reads are untracked.
	activeEffect *Effect
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
// Implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentContext returns the tracking context for the current goroutine,
// creating one if needed.
func currentContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// activeEffect returns the effect currently recording dependencies,
// or nil if no tracking is active.
func activeEffect() *Effect {
	return currentContext().activeEffect
}

// setActiveEffect installs e as the active effect and returns the previous
// one so it can be restored. Only Effect.Run mutates the active effect, and
// always through a matched set/restore pair.
func setActiveEffect(e *Effect) *Effect {
	ctx := currentContext()
	old := ctx.activeEffect
	ctx.activeEffect = e
	return old
}

// Untracked runs fn without recording cell reads as dependencies of the
// surrounding effect.
func Untracked(fn func()) {
	old := setActiveEffect(nil)
	defer setActiveEffect(old)
	fn()
}
