package trackable

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/trackable/internal/logging"
	"github.com/aretw0/trackable/pkg/domain"
	"github.com/aretw0/trackable/pkg/registry"
)

// Version of the trackable module.
const Version = "0.1.0"

// rootField is the sentinel field of the synthetic container holding the user value.
const rootField = "value"

// Tracker observes a nested object graph and reports mutations to listeners.
//
// A Tracker and the nodes it hands out are not safe for concurrent use.
type Tracker struct {
	store     *store
	listeners *registry.Registry
	muted     bool
	nextID    uint64

	container *Node
	proxy     *Node

	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	onError func(domain.Mutation, error)
}

// Option defines a functional option for configuring the Tracker.
type Option func(*Tracker)

// WithLogger sets a custom structured logger for the tracker.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tracker) {
		t.hooks = hooks
	}
}

// WithErrorHandler receives listener failures after they are logged.
// The mutation has already been applied when fn runs.
func WithErrorHandler(fn func(domain.Mutation, error)) Option {
	return func(t *Tracker) {
		t.onError = fn
	}
}

// New starts tracking root, which must be a map[string]any or a []any.
func New(root any, opts ...Option) (*Tracker, error) {
	root = unwrap(root)
	if !isComposite(root) {
		return nil, fmt.Errorf("%w: %T", domain.ErrNotComposite, root)
	}

	t := &Tracker{
		store:     newStore(),
		listeners: registry.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logging.NewNop()
	}

	t.container = t.wrap(map[string]any{rootField: root}, nil, "")
	t.proxy = t.container.Get(rootField).(*Node)
	return t, nil
}

// Proxy returns the node standing for the root value.
func (t *Tracker) Proxy() *Node {
	return t.proxy
}

// Value returns the current root value. It differs from the value passed to New
// only when the root is an array whose slice header changed.
func (t *Tracker) Value() any {
	return t.container.raw.(map[string]any)[rootField]
}

// AddListener registers l. A once listener is removed after its first call
// unless that call returns domain.KeepListener.
func (t *Tracker) AddListener(l domain.Listener, once bool) error {
	return t.listeners.Add(l, once)
}

// RemoveListener unregisters l.
func (t *Tracker) RemoveListener(l domain.Listener) {
	t.listeners.Remove(l)
}

// Teardown discards every node and listener. The tracked data is left untouched.
func (t *Tracker) Teardown() {
	live := t.store.len()
	t.store = newStore()
	t.listeners.Clear()
	t.muted = false
	t.logger.Debug("tracker torn down", "discarded", live)
	if t.hooks.OnTeardown != nil {
		t.hooks.OnTeardown()
	}
}

// Live returns the number of valid nodes, including the internal root container.
func (t *Tracker) Live() int {
	return t.store.len()
}

// Suppressed reports whether an array method is currently running.
func (t *Tracker) Suppressed() bool {
	return t.muted
}

func (t *Tracker) wrap(v any, parent *Node, key string) *Node {
	t.nextID++
	n := &Node{t: t, id: t.nextID, raw: v, up: parent, key: key}
	t.store.put(n, &nodeState{
		key:      key,
		parent:   parent,
		children: make(map[string]*childRecord),
	})
	if t.hooks.OnWrap != nil {
		t.hooks.OnWrap(&domain.NodeEvent{Path: t.store.resolvePath(n, "", false), Array: n.IsArray()})
	}
	return n
}

// discard removes n and its cached descendants from the store.
func (t *Tracker) discard(n *Node) {
	st := t.store.get(n)
	if st == nil {
		return
	}
	if t.hooks.OnDiscard != nil {
		t.hooks.OnDiscard(&domain.NodeEvent{Path: t.store.resolvePath(n, "", false), Array: n.IsArray()})
	}
	for _, c := range st.children {
		t.discard(c.node)
	}
	t.store.remove(n)
}

// retire drops the cached child of n under key, if any.
func (t *Tracker) retire(st *nodeState, key string) {
	rec, ok := st.children[key]
	if !ok {
		return
	}
	delete(st.children, key)
	t.logger.Debug("discarding stale node", "key", key)
	t.discard(rec.node)
}

// emit invalidates the slot under key and dispatches a mutation for n.
// Nothing is emitted for discarded nodes or while suppressed.
func (t *Tracker) emit(n *Node, typ domain.MutationType, key string, hasKey bool, value any) {
	st := t.store.get(n)
	if st == nil {
		return
	}
	if hasKey {
		t.retire(st, key)
	}
	if t.muted {
		return
	}

	m := domain.Mutation{
		Type:  typ,
		Path:  t.store.resolvePath(n, key, hasKey),
		Value: value,
	}
	if err := t.listeners.Dispatch(m); err != nil {
		t.logger.Warn("listener failed", "type", m.Type, "path", m.Path, "error", err)
		if t.onError != nil {
			t.onError(m, err)
		}
	}
}

// unwrap returns the underlying value of a node, or v itself.
func unwrap(v any) any {
	if n, ok := v.(*Node); ok && n != nil {
		return n.raw
	}
	return v
}

// unwrapAll returns a copy of vs with nodes replaced by their underlying values.
func unwrapAll(vs []any) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = unwrap(v)
	}
	return out
}
