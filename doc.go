/*
Package trackable observes every read, write, deletion and array mutation made on a nested
object graph and reports each change, with the exact path from the root, to registered listeners.

It is meant for state-management and reactivity layers that need fine-grained change
notifications over plain data (map[string]any objects and []any arrays, the shape produced by
encoding/json and yaml.v3) without instrumenting every field by hand.

# Concept

New wraps the root value. Application code reads and writes through *Node accessors instead of
touching the maps and slices directly. Nodes are created lazily on the first read of an object or
array field and cached while the field keeps the same value. Replacing a field discards the node
that watched the old value together with its whole subtree; discarded nodes keep working on the
underlying data but never report anything again.

Array methods (Push, Pop, Shift, Unshift, Splice, or Call by name) are reported as one
"arrayMutation" event carrying the method name and its arguments, no matter how many element
writes they perform internally.

# Usage

	data := map[string]any{
		"foo": map[string]any{"bar": 123},
		"baz": 456,
	}

	tr, err := trackable.New(data)
	if err != nil {
		log.Fatal(err)
	}

	tr.AddListener(domain.NewListener(func(m domain.Mutation) error {
		fmt.Println(m.Type, m.Path, m.Value)
		return nil
	}), false)

	root := tr.Proxy()
	root.Get("foo").(*trackable.Node).Set("bar", 999) // set [foo bar] 999
	root.Delete("baz")                               // delete [baz] <nil>

	tr.Teardown()

A Tracker is synchronous and not safe for concurrent use: every listener has returned before the
call that triggered it returns.
*/
package trackable
