/*
Package observability provides tools for monitoring trackers.

Metrics exposes Prometheus collectors fed by two sources: it is a listener (mutation counts by
type and path depth) and it provides lifecycle hooks (nodes created and discarded, teardowns).
*/
package observability
