package reactive

// Scheduler is invoked instead of running the effect inline when one of its
// dependencies changes. It is a synchronous indirection: the call happens
// during the write that triggered it, not on some later tick. Computed
// values use it to defer recomputation until the next read.
type Scheduler func(*Effect)

// Effect is a re-runnable unit of work. While it runs, every cell read
// registers the effect as a subscriber; when any of those keys later
// changes, the effect is re-run (or its Scheduler is invoked).
type Effect struct {
	id uint64

	// fn is the tracked function. Its result is returned from Run.
	fn func() any

	// scheduler, when non-nil, is called on dependency change instead of
	// re-running fn inline.
	scheduler Scheduler

	// deps are the dependency sets this effect is currently registered in.
	// Cleared and rebuilt on every run so conditional reads cannot leave
	// ghost subscriptions behind.
	deps []*depSet

	lazy    bool
	stopped bool
}

// Option configures an Effect at creation time.
type Option func(*Effect)

// WithScheduler sets a custom scheduler. When a dependency changes the
// scheduler is invoked with the effect instead of running it inline.
func WithScheduler(s Scheduler) Option {
	return func(e *Effect) {
		e.scheduler = s
	}
}

// Lazy prevents the effect from running at creation time. The caller is
// responsible for the first Run.
func Lazy() Option {
	return func(e *Effect) {
		e.lazy = true
	}
}

// NewEffect allocates an effect and, unless Lazy was given, runs it
// immediately so its initial dependencies are recorded.
func NewEffect(fn func() any, opts ...Option) *Effect {
	e := &Effect{
		id: nextID(),
		fn: fn,
	}
	for _, opt := range opts {
		opt(e)
	}

	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Stopped reports whether Stop has been called.
func (e *Effect) Stopped() bool {
	return e.stopped
}

// Run clears the dependency registrations from the previous run, installs
// the effect as the active tracking target, executes fn, and returns its
// result. The active-effect context is restored in a defer, so a panicking
// fn propagates to the caller without corrupting tracking for later runs.
func (e *Effect) Run() any {
	if e.stopped {
		return nil
	}

	e.clearDeps()

	prev := setActiveEffect(e)
	defer setActiveEffect(prev)

	return e.fn()
}

// Stop removes the effect from every dependency set it is registered in.
// Stop is terminal: subsequent notifications and Run calls are no-ops.
func (e *Effect) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.clearDeps()
}

// clearDeps unsubscribes the effect from all current dependency sets.
func (e *Effect) clearDeps() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}

// addDep records that the effect is registered in d. Called by dependency
// sets when the effect reads through them; deduplicated by identity.
func (e *Effect) addDep(d *depSet) {
	for _, existing := range e.deps {
		if existing == d {
			return
		}
	}
	e.deps = append(e.deps, d)
}
