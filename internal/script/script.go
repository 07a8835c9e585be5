// Package script drives a tracker from a declarative list of operations.
package script

import (
	"errors"
	"fmt"

	"github.com/aretw0/trackable"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidOp is returned for operations that cannot be executed.
var ErrInvalidOp = errors.New("invalid operation")

// Operation kinds.
const (
	OpSet    = "set"
	OpDelete = "delete"
	OpCall   = "call"
)

// Op is one scripted operation.
//
// For set and delete the last element of Path is the key being written.
// For call Path leads to the array and Method names the array method.
type Op struct {
	Op     string   `mapstructure:"op"`
	Path   []string `mapstructure:"path"`
	Value  any      `mapstructure:"value"`
	Method string   `mapstructure:"method"`
	Args   []any    `mapstructure:"args"`
}

// Parse reads a YAML (or JSON) list of operations.
// Scalars are weakly typed, so `path: items` and `path: [0]` are accepted.
func Parse(data []byte) ([]Op, error) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	var ops []Op
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &ops,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return ops, nil
}

// Run executes ops in order against the tracker's root and stops at the first failure.
func Run(tr *trackable.Tracker, ops []Op) error {
	for i, op := range ops {
		if err := apply(tr.Proxy(), op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func apply(root *trackable.Node, op Op) error {
	switch op.Op {
	case OpSet, OpDelete:
		if len(op.Path) == 0 {
			return fmt.Errorf("%w: empty path", ErrInvalidOp)
		}
		parent, err := target(root, op.Path[:len(op.Path)-1])
		if err != nil {
			return err
		}
		key := op.Path[len(op.Path)-1]
		if op.Op == OpSet {
			return parent.Set(key, op.Value)
		}
		return parent.Delete(key)
	case OpCall:
		arr, err := target(root, op.Path)
		if err != nil {
			return err
		}
		_, err = arr.Call(op.Method, op.Args...)
		return err
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidOp, op.Op)
	}
}

func target(root *trackable.Node, path []string) (*trackable.Node, error) {
	n, ok := root.Lookup(path...).(*trackable.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not an object or array", ErrInvalidOp, path)
	}
	return n, nil
}
