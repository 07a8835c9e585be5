package trackable

import (
	"reflect"
	"slices"
)

// syntheticLevels is the number of leading path keys that belong to the root
// container: its own empty key and the sentinel field holding the user value.
const syntheticLevels = 2

// nodeState is the metadata kept for a valid node.
type nodeState struct {
	key      string
	parent   *Node
	children map[string]*childRecord
}

// childRecord pairs the last value observed in a slot with the node wrapping it.
type childRecord struct {
	value any
	node  *Node
}

// store is the arena of node metadata, indexed by node id.
// A node is valid iff it has an entry here.
type store struct {
	states map[uint64]*nodeState
}

func newStore() *store {
	return &store{states: make(map[uint64]*nodeState)}
}

func (s *store) get(n *Node) *nodeState {
	if n == nil {
		return nil
	}
	return s.states[n.id]
}

func (s *store) put(n *Node, st *nodeState) {
	s.states[n.id] = st
}

func (s *store) remove(n *Node) {
	delete(s.states, n.id)
}

func (s *store) len() int {
	return len(s.states)
}

// resolvePath walks parent links from n and returns the root-relative path,
// with key appended when hasKey is set. A torn chain ends the walk early.
func (s *store) resolvePath(n *Node, key string, hasKey bool) []string {
	var parts []string
	if hasKey {
		parts = append(parts, key)
	}
	for st := s.get(n); st != nil; st = s.get(st.parent) {
		parts = append(parts, st.key)
	}
	slices.Reverse(parts)

	if len(parts) <= syntheticLevels {
		return []string{}
	}
	return parts[syntheticLevels:]
}

// isComposite reports whether v is a trackable object or array.
func isComposite(v any) bool {
	switch x := v.(type) {
	case map[string]any:
		return x != nil
	case []any:
		return true
	}
	return false
}

// sameRef reports whether a and b are the same object, or the same slice
// header (backing array, length and capacity). Zero-capacity slices share the
// runtime's zero-size base and cannot be told apart.
func sameRef(a, b any) bool {
	switch x := a.(type) {
	case map[string]any:
		y, ok := b.(map[string]any)
		return ok && reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
	case []any:
		y, ok := b.([]any)
		return ok && len(x) == len(y) && cap(x) == cap(y) && reflect.ValueOf(x).Pointer() == reflect.ValueOf(y).Pointer()
	}
	return false
}
