package trackable_test

import (
	"fmt"
	"log"

	"github.com/aretw0/trackable"
	"github.com/aretw0/trackable/pkg/domain"
)

func printMutation(m domain.Mutation) error {
	fmt.Println(m.Type, m.Path, m.Value)
	return nil
}

func ExampleNew() {
	tr, err := trackable.New(map[string]any{
		"foo": map[string]any{"bar": 123},
		"baz": 456,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer tr.Teardown()

	if err := tr.AddListener(domain.NewListener(printMutation), false); err != nil {
		log.Fatal(err)
	}

	root := tr.Proxy()
	_ = root.Get("foo").(*trackable.Node).Set("bar", 999)
	_ = root.Delete("baz")

	// Output:
	// set [foo bar] 999
	// delete [baz] <nil>
}

func ExampleNode_Push() {
	tr, err := trackable.New(map[string]any{"items": []any{1, 2}})
	if err != nil {
		log.Fatal(err)
	}
	_ = tr.AddListener(domain.NewListener(printMutation), false)

	n, _ := tr.Proxy().Get("items").(*trackable.Node).Push(3)
	fmt.Println("length:", n)

	// Output:
	// arrayMutation [items] [push 3]
	// length: 3
}

func ExampleTracker_AddListener_once() {
	tr, err := trackable.New(map[string]any{"count": 0})
	if err != nil {
		log.Fatal(err)
	}
	_ = tr.AddListener(domain.NewListener(printMutation), true)

	root := tr.Proxy()
	_ = root.Set("count", 1)
	_ = root.Set("count", 2)

	fmt.Println("count:", root.Get("count"))

	// Output:
	// set [count] 1
	// count: 2
}
