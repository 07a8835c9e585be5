package domain

// NodeEvent describes a wrapper being created or discarded.
type NodeEvent struct {
	// Path is the root-relative path of the wrapped node.
	Path  []string `json:"path"`
	Array bool     `json:"array"`
}

// LifecycleHooks defines callbacks for tracker observability.
type LifecycleHooks struct {
	OnWrap     func(*NodeEvent)
	OnDiscard  func(*NodeEvent)
	OnTeardown func()
}
