package journal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/trackable"
	"github.com/aretw0/trackable/pkg/domain"
)

var (
	// ErrInvalidMutation is returned for mutations that cannot be applied as described.
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrPathNotFound is returned when a mutation path does not lead to an object or array.
	ErrPathNotFound = errors.New("path not found")
)

// Apply executes m against target and returns the resulting root value.
// The result differs from target only when target is an array whose slice
// header changed. Payloads are deep-copied into target.
func Apply(target any, m domain.Mutation) (any, error) {
	tr, err := trackable.New(target)
	if err != nil {
		return nil, err
	}
	defer tr.Teardown()

	switch m.Type {
	case domain.MutationSet, domain.MutationDelete:
		if len(m.Path) == 0 {
			return nil, fmt.Errorf("%w: %s without a key", ErrInvalidMutation, m.Type)
		}
		last := len(m.Path) - 1
		parent, err := resolve(tr.Proxy(), m.Path[:last])
		if err != nil {
			return nil, err
		}
		if m.Type == domain.MutationSet {
			err = parent.Set(m.Path[last], CloneValue(m.Value))
		} else {
			err = parent.Delete(m.Path[last])
		}
		if err != nil {
			return nil, err
		}

	case domain.MutationArray:
		method, args, ok := m.Method()
		if !ok {
			return nil, fmt.Errorf("%w: malformed array payload %v", ErrInvalidMutation, m.Value)
		}
		n, err := resolve(tr.Proxy(), m.Path)
		if err != nil {
			return nil, err
		}
		copied := make([]any, len(args))
		for i, a := range args {
			copied[i] = CloneValue(a)
		}
		if _, err := n.Call(method, copied...); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidMutation, m.Type)
	}

	return tr.Value(), nil
}

// Replay applies ms in order and returns the resulting root value.
func Replay(target any, ms []domain.Mutation) (any, error) {
	for i, m := range ms {
		next, err := Apply(target, m)
		if err != nil {
			return target, fmt.Errorf("mutation %d: %w", i, err)
		}
		target = next
	}
	return target, nil
}

func resolve(n *trackable.Node, path []string) (*trackable.Node, error) {
	for i, key := range path {
		next, ok := n.Get(key).(*trackable.Node)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, strings.Join(path[:i+1], "."))
		}
		n = next
	}
	return n, nil
}

// Mirror is a listener that keeps a plain replica in sync with a tracker.
type Mirror struct {
	value any
}

// NewMirror starts a replica from a deep copy of initial.
func NewMirror(initial any) *Mirror {
	return &Mirror{value: CloneValue(initial)}
}

func (m *Mirror) OnMutation(mu domain.Mutation) error {
	next, err := Apply(m.value, mu)
	if err != nil {
		return fmt.Errorf("mirror %s %v: %w", mu.Type, mu.Path, err)
	}
	m.value = next
	return nil
}

// Value returns the replica.
func (m *Mirror) Value() any {
	return m.value
}
