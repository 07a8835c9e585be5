package domain

// Listener receives mutations from a tracker.
//
// Listeners are used as registry keys, so the dynamic type must be comparable.
// Use NewListener to adapt a plain function.
type Listener interface {
	OnMutation(m Mutation) error
}

type funcListener struct {
	fn func(Mutation) error
}

func (l *funcListener) OnMutation(m Mutation) error {
	return l.fn(m)
}

// NewListener adapts fn to a Listener. Every call returns a distinct listener.
func NewListener(fn func(Mutation) error) Listener {
	if fn == nil {
		return nil
	}
	return &funcListener{fn: fn}
}
