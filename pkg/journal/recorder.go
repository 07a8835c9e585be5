package journal

import (
	"fmt"
	"io"
	"slices"

	"github.com/aretw0/trackable/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Recorder is a listener that keeps every mutation it receives.
// Payloads are deep-copied, so later changes to the tracked data do not leak
// into the log.
type Recorder struct {
	mutations []domain.Mutation
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnMutation(m domain.Mutation) error {
	r.mutations = append(r.mutations, CloneMutation(m))
	return nil
}

// Mutations returns the recorded mutations in arrival order.
func (r *Recorder) Mutations() []domain.Mutation {
	return slices.Clone(r.mutations)
}

// Len returns the number of recorded mutations.
func (r *Recorder) Len() int {
	return len(r.mutations)
}

// Reset drops the recorded mutations.
func (r *Recorder) Reset() {
	r.mutations = nil
}

// WriteYAML writes the log as a YAML sequence.
func (r *Recorder) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r.mutations); err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	return enc.Close()
}

// CloneMutation deep-copies the path and payload of m.
func CloneMutation(m domain.Mutation) domain.Mutation {
	return domain.Mutation{
		Type:  m.Type,
		Path:  slices.Clone(m.Path),
		Value: CloneValue(m.Value),
	}
}

// CloneValue deep-copies nested map[string]any and []any values.
// Other values are copied by assignment.
func CloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	}
	return v
}
