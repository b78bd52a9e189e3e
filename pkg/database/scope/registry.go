// Package scope releases resources in reverse acquisition order and reports
// every release failure.
package scope

// CloseFunc releases one resource.
type CloseFunc func() error

// Registry collects CloseFuncs and runs them last-in first-out on Close.
// A Registry belongs to a single goroutine.
type Registry struct {
	actions []CloseFunc
	closed  bool
}

// New returns an empty open registry.
func New() *Registry {
	return &Registry{}
}

// Register appends fn to the registry. A nil fn is ignored.
// Registering on a closed registry panics since fn would never run.
func (r *Registry) Register(fn CloseFunc) {
	if r.closed {
		panic("scope: register called on a closed registry - this is a bug")
	}
	if fn == nil {
		return
	}
	r.actions = append(r.actions, fn)
}

// Len returns the number of pending actions.
func (r *Registry) Len() int {
	return len(r.actions)
}

// Closed reports whether Close has run.
func (r *Registry) Closed() bool {
	return r.closed
}

// Close runs every registered action from last to first. Failures do not stop
// the walk. It returns nil when every action succeeded, the error itself when
// exactly one failed, and a *TeardownError otherwise. Calling Close again is a
// no-op.
func (r *Registry) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	actions := r.actions
	r.actions = nil

	var errs []error
	for i := len(actions) - 1; i >= 0; i-- {
		if err := run(actions[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return aggregate(errs)
}

// run executes fn, turning a panic into an error so later actions still run.
func run(fn CloseFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &PanicError{Value: p}
		}
	}()
	return fn()
}
