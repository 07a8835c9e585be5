/*
Package domain contains the core models shared by the tracker and its adapters.

It defines what a mutation event looks like, the listener contract, lifecycle hooks and the
sentinel errors returned by tracked nodes. This package is kept pure and free of external
dependencies so adapters (metrics, journals, pub/sub) can depend on it without pulling in the
tracker itself.

# Key Entities

  - Mutation: A (type, path, payload) triple describing one observed change.
  - Listener: Receives mutations in registration order.
  - LifecycleHooks: Optional callbacks fired when wrappers are created or discarded.
*/
package domain
