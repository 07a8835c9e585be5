package trackable

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/aretw0/trackable/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// lengthKey addresses the length of an array node.
const lengthKey = "length"

// maxGrowth bounds how far a single index or length write may extend an array.
const maxGrowth = 1 << 20

// Node is the accessor standing for one tracked object or array.
//
// Every Get, Set, Delete and array method call on a valid node is observed.
// Once discarded (its slot was replaced, an ancestor was discarded, or the
// tracker was torn down) a node keeps working on the underlying value but no
// longer wraps children or emits mutations.
type Node struct {
	t   *Tracker
	id  uint64
	raw any

	// up and key locate the slot the node was read from. They outlive the
	// arena entry so array nodes can write new headers back after a discard.
	up  *Node
	key string
}

// Raw returns the underlying map[string]any or []any.
func (n *Node) Raw() any {
	return n.raw
}

// IsArray reports whether the node wraps a []any.
func (n *Node) IsArray() bool {
	_, ok := n.raw.([]any)
	return ok
}

// Valid reports whether the node is still tracked.
func (n *Node) Valid() bool {
	return n.t.store.get(n) != nil
}

// Path returns the root-relative path of the node, or nil once discarded.
func (n *Node) Path() []string {
	if !n.Valid() {
		return nil
	}
	return n.t.store.resolvePath(n, "", false)
}

// Len returns the number of fields or elements.
func (n *Node) Len() int {
	switch x := n.raw.(type) {
	case map[string]any:
		return len(x)
	case []any:
		return len(x)
	}
	return 0
}

// Keys returns the sorted field names of an object, or the indices of an array.
func (n *Node) Keys() []string {
	switch x := n.raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case []any:
		keys := make([]string, len(x))
		for i := range x {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	}
	return nil
}

// Has reports whether key addresses an existing slot.
func (n *Node) Has(key string) bool {
	_, ok := n.load(key)
	return ok
}

// Get reads key. Scalars are returned as is; objects and arrays are returned
// as *Node, the same one on every read while the slot keeps the same value.
// A missing key yields nil.
func (n *Node) Get(key string) any {
	v, ok := n.load(key)
	if !ok || !isComposite(v) {
		return v
	}

	t := n.t
	st := t.store.get(n)
	if st == nil {
		return v
	}
	if rec, ok := st.children[key]; ok {
		if sameRef(rec.value, v) {
			return rec.node
		}
		t.retire(st, key)
	}

	child := t.wrap(v, n, key)
	st.children[key] = &childRecord{value: v, node: child}
	return child
}

// Lookup follows path through nested nodes. It returns nil when a segment is
// missing or does not lead to a tracked node.
func (n *Node) Lookup(path ...string) any {
	var cur any = n
	for _, key := range path {
		node, ok := cur.(*Node)
		if !ok {
			return nil
		}
		cur = node.Get(key)
	}
	return cur
}

// Decode copies the underlying value into out using mapstructure.
func (n *Node) Decode(out any) error {
	if err := mapstructure.Decode(n.raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Set assigns value to key and emits a set mutation.
// On arrays key is an index or "length"; writing past the end extends the array.
func (n *Node) Set(key string, value any) error {
	value = unwrap(value)
	if err := n.put(key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	if key == lengthKey && n.IsArray() {
		n.t.reconcile(n)
	}
	n.t.emit(n, domain.MutationSet, key, true, value)
	return nil
}

// Delete removes key and emits a delete mutation. Deleting a missing key is a
// no-op. On arrays the element becomes nil and the length is kept.
func (n *Node) Delete(key string) error {
	deleted, err := n.drop(key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if deleted {
		n.t.emit(n, domain.MutationDelete, key, true, nil)
	}
	return nil
}

// Push appends items and returns the new length.
func (n *Node) Push(items ...any) (int, error) {
	res, err := n.Call(domain.MethodPush, items...)
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

// Pop removes and returns the last element. It returns nil on an empty array.
func (n *Node) Pop() (any, error) {
	return n.Call(domain.MethodPop)
}

// Shift removes and returns the first element. It returns nil on an empty array.
func (n *Node) Shift() (any, error) {
	return n.Call(domain.MethodShift)
}

// Unshift prepends items and returns the new length.
func (n *Node) Unshift(items ...any) (int, error) {
	res, err := n.Call(domain.MethodUnshift, items...)
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

// Splice removes deleteCount elements at start, inserts items there and
// returns the removed elements. A negative start counts from the end.
func (n *Node) Splice(start, deleteCount int, items ...any) ([]any, error) {
	res, err := n.Call(domain.MethodSplice, append([]any{start, deleteCount}, items...)...)
	if err != nil {
		return nil, err
	}
	return res.([]any), nil
}

// Call runs one of the array-mutating methods (pop, push, shift, unshift,
// splice) and reports it as a single arrayMutation whose payload is
// []any{method, args...}. The element writes it performs are not reported.
func (n *Node) Call(method string, args ...any) (any, error) {
	if !domain.IsArrayMethod(method) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMethod, method)
	}
	args = unwrapAll(args)

	return n.batch(method, args, func() (any, error) {
		switch method {
		case domain.MethodPush:
			return n.push(args)
		case domain.MethodPop:
			return n.pop()
		case domain.MethodShift:
			return n.shift()
		case domain.MethodUnshift:
			return n.unshift(args)
		default:
			start, deleteCount, items, err := spliceArgs(n.Len(), args)
			if err != nil {
				return nil, err
			}
			return n.splice(start, deleteCount, items)
		}
	})
}

// batch runs op with emission suppressed and emits one arrayMutation if op succeeds.
func (n *Node) batch(method string, args []any, op func() (any, error)) (any, error) {
	t := n.t
	res, err := func() (any, error) {
		prev := t.muted
		t.muted = true
		defer func() { t.muted = prev }()

		if !n.IsArray() {
			return nil, domain.ErrNotArray
		}
		return op()
	}()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	t.reconcile(n)
	t.emit(n, domain.MutationArray, "", false, append([]any{method}, args...))
	return res, nil
}

func (n *Node) push(items []any) (any, error) {
	for _, it := range items {
		if err := n.Set(strconv.Itoa(n.Len()), it); err != nil {
			return nil, err
		}
	}
	return n.Len(), nil
}

func (n *Node) pop() (any, error) {
	arr := n.raw.([]any)
	if len(arr) == 0 {
		return nil, nil
	}
	last := arr[len(arr)-1]
	if err := n.Set(lengthKey, len(arr)-1); err != nil {
		return nil, err
	}
	return last, nil
}

func (n *Node) shift() (any, error) {
	arr := n.raw.([]any)
	if len(arr) == 0 {
		return nil, nil
	}
	first := arr[0]
	for i := 1; i < len(arr); i++ {
		if err := n.Set(strconv.Itoa(i-1), arr[i]); err != nil {
			return nil, err
		}
	}
	if err := n.Set(lengthKey, len(arr)-1); err != nil {
		return nil, err
	}
	return first, nil
}

func (n *Node) unshift(items []any) (any, error) {
	size, k := n.Len(), len(items)
	if k == 0 {
		return size, nil
	}
	if err := n.Set(lengthKey, size+k); err != nil {
		return nil, err
	}
	for i := size - 1; i >= 0; i-- {
		if err := n.Set(strconv.Itoa(i+k), n.raw.([]any)[i]); err != nil {
			return nil, err
		}
	}
	for i, it := range items {
		if err := n.Set(strconv.Itoa(i), it); err != nil {
			return nil, err
		}
	}
	return n.Len(), nil
}

func (n *Node) splice(start, deleteCount int, items []any) (any, error) {
	arr := n.raw.([]any)
	removed := slices.Clone(arr[start : start+deleteCount])
	tail := slices.Clone(arr[start+deleteCount:])

	pos := start
	for _, v := range slices.Concat(items, tail) {
		if err := n.Set(strconv.Itoa(pos), v); err != nil {
			return nil, err
		}
		pos++
	}
	if err := n.Set(lengthKey, pos); err != nil {
		return nil, err
	}
	return removed, nil
}

// spliceArgs normalizes splice arguments against an array of the given size.
func spliceArgs(size int, args []any) (start, deleteCount int, items []any, err error) {
	if len(args) == 0 {
		return 0, 0, nil, nil
	}
	s, ok := toInt(args[0])
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: start %v", domain.ErrInvalidArgument, args[0])
	}
	if s < 0 {
		s = max(size+s, 0)
	}
	start = min(s, size)

	if len(args) == 1 {
		return start, size - start, nil, nil
	}
	dc, ok := toInt(args[1])
	if !ok {
		return 0, 0, nil, fmt.Errorf("%w: delete count %v", domain.ErrInvalidArgument, args[1])
	}
	deleteCount = min(max(dc, 0), size-start)
	return start, deleteCount, args[2:], nil
}

// load reads the raw value under key.
func (n *Node) load(key string) (any, bool) {
	switch x := n.raw.(type) {
	case map[string]any:
		v, ok := x[key]
		return v, ok
	case []any:
		if key == lengthKey {
			return len(x), true
		}
		if i, ok := parseIndex(key); ok && i < len(x) {
			return x[i], true
		}
	}
	return nil, false
}

// put performs the raw assignment behind Set.
func (n *Node) put(key string, value any) error {
	switch x := n.raw.(type) {
	case map[string]any:
		x[key] = value
		return nil
	case []any:
		if key == lengthKey {
			size, ok := toInt(value)
			if !ok || size < 0 || size > len(x)+maxGrowth {
				return fmt.Errorf("%w: length %v", domain.ErrInvalidArgument, value)
			}
			n.resize(size)
			return nil
		}
		i, ok := parseIndex(key)
		if !ok {
			return fmt.Errorf("%w: %q is not an array index", domain.ErrInvalidKey, key)
		}
		if i >= len(x)+maxGrowth {
			return fmt.Errorf("%w: index %d is too far past length %d", domain.ErrInvalidArgument, i, len(x))
		}
		if i >= len(x) {
			x = n.resize(i + 1)
		}
		x[i] = value
		return nil
	}
	return domain.ErrInvalidKey
}

// drop performs the raw deletion behind Delete.
func (n *Node) drop(key string) (bool, error) {
	switch x := n.raw.(type) {
	case map[string]any:
		if _, ok := x[key]; !ok {
			return false, nil
		}
		delete(x, key)
		return true, nil
	case []any:
		if key == lengthKey {
			return false, fmt.Errorf("%w: length cannot be deleted", domain.ErrInvalidKey)
		}
		i, ok := parseIndex(key)
		if !ok {
			return false, fmt.Errorf("%w: %q is not an array index", domain.ErrInvalidKey, key)
		}
		if i >= len(x) {
			return false, nil
		}
		x[i] = nil
		return true, nil
	}
	return false, domain.ErrInvalidKey
}

// resize changes the array length, padding with nils.
func (n *Node) resize(size int) []any {
	arr := n.raw.([]any)
	switch {
	case size < len(arr):
		arr = arr[:size]
	case size > len(arr):
		arr = append(arr, make([]any, size-len(arr))...)
	default:
		return arr
	}
	n.replace(arr)
	return arr
}

// replace installs a new slice header for an array node and writes it back
// into the slot it was read from, as long as that slot still holds the old
// header. Discarded nodes write back too.
func (n *Node) replace(arr []any) {
	old := n.raw
	n.raw = arr

	up := n.up
	if up == nil {
		return
	}
	if cur, ok := up.load(n.key); !ok || !sameRef(cur, old) {
		return
	}
	switch p := up.raw.(type) {
	case map[string]any:
		p[n.key] = arr
	case []any:
		i, _ := parseIndex(n.key)
		p[i] = arr
	}

	if pst := n.t.store.get(up); pst != nil {
		if rec, ok := pst.children[n.key]; ok && rec.node == n {
			rec.value = arr
		}
	}
}

// reconcile discards cached children of n whose slot no longer holds the cached value.
func (t *Tracker) reconcile(n *Node) {
	st := t.store.get(n)
	if st == nil {
		return
	}
	for key, rec := range st.children {
		if v, ok := n.load(key); !ok || !sameRef(v, rec.value) {
			t.retire(st, key)
		}
	}
}

// parseIndex accepts canonical non-negative decimal indices only.
func parseIndex(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || strconv.Itoa(i) != key {
		return 0, false
	}
	return i, true
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return toInt(uint64(x))
	case uint32:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return 0, false
		}
		return int(x), true
	case float32:
		return toInt(float64(x))
	case float64:
		if math.IsNaN(x) || x != math.Trunc(x) || x >= math.MaxInt64 || x < math.MinInt64 {
			return 0, false
		}
		return int(x), true
	}
	return 0, false
}
