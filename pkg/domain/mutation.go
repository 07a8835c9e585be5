package domain

// MutationType defines the category of a mutation.
type MutationType string

const (
	MutationSet    MutationType = "set"
	MutationDelete MutationType = "delete"
	MutationArray  MutationType = "arrayMutation"
)

// Array-mutating method names. Calls to these are reported as a single MutationArray event.
const (
	MethodPop     = "pop"
	MethodPush    = "push"
	MethodShift   = "shift"
	MethodUnshift = "unshift"
	MethodSplice  = "splice"
)

var arrayMethods = map[string]bool{
	MethodPop:     true,
	MethodPush:    true,
	MethodShift:   true,
	MethodUnshift: true,
	MethodSplice:  true,
}

// IsArrayMethod reports whether name is one of the batched array methods.
func IsArrayMethod(name string) bool {
	return arrayMethods[name]
}

// Mutation is a single observed change.
type Mutation struct {
	Type MutationType `json:"type" yaml:"type" mapstructure:"type"`

	// Path is the list of keys from the tracked root to the mutated slot.
	// For MutationArray it addresses the array itself, not an element.
	Path []string `json:"path" yaml:"path" mapstructure:"path"`

	// Value is the assigned value for MutationSet, nil for MutationDelete and
	// []any{method, args...} for MutationArray.
	Value any `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// Method returns the array method name of a MutationArray event and its arguments.
func (m Mutation) Method() (string, []any, bool) {
	if m.Type != MutationArray {
		return "", nil, false
	}
	info, ok := m.Value.([]any)
	if !ok || len(info) == 0 {
		return "", nil, false
	}
	name, ok := info[0].(string)
	if !ok {
		return "", nil, false
	}
	return name, info[1:], true
}
