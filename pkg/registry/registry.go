package registry

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/aretw0/trackable/pkg/domain"
)

type entry struct {
	listener domain.Listener
	once     bool
}

// Registry manages mutation listeners in registration order.
type Registry struct {
	mu      sync.Mutex
	entries []*entry
	index   map[domain.Listener]*entry
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		index: make(map[domain.Listener]*entry),
	}
}

// Add registers l. If l is already registered its once flag is replaced and
// it moves to the end of the dispatch order.
// Returns domain.ErrInvalidListener for nil or non-comparable listeners.
func (r *Registry) Add(l domain.Listener, once bool) error {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return domain.ErrInvalidListener
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(l)
	e := &entry{listener: l, once: once}
	r.entries = append(r.entries, e)
	r.index[l] = e
	return nil
}

// Remove unregisters l. It is a no-op if l is not registered.
func (r *Registry) Remove(l domain.Listener) {
	if l == nil || !reflect.TypeOf(l).Comparable() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(l)
}

func (r *Registry) remove(l domain.Listener) {
	e, ok := r.index[l]
	if !ok {
		return
	}
	delete(r.index, l)
	r.entries = slices.DeleteFunc(r.entries, func(x *entry) bool { return x == e })
}

// Clear unregisters every listener.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	clear(r.index)
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Dispatch delivers m to the listeners registered when the call started.
//
// Listeners added while dispatching are not called for m. Listeners removed
// while dispatching are still called for m. A one-shot listener is removed
// after its call unless it returned domain.KeepListener.
// Failing listeners do not stop the dispatch; their errors are joined.
func (r *Registry) Dispatch(m domain.Mutation) error {
	r.mu.Lock()
	snapshot := slices.Clone(r.entries)
	r.mu.Unlock()

	var errs []error
	for _, e := range snapshot {
		err := e.listener.OnMutation(m)
		keep := errors.Is(err, domain.KeepListener)

		if e.once && !keep {
			r.mu.Lock()
			// Only drop the registration that was called; a re-add replaced it.
			if r.index[e.listener] == e {
				r.remove(e.listener)
			}
			r.mu.Unlock()
		}

		if err != nil && !keep {
			errs = append(errs, fmt.Errorf("listener %T: %w", e.listener, err))
		}
	}
	return errors.Join(errs...)
}
