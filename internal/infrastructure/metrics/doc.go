// Package metrics exposes expvar counters for the traversal engine and
// the checkpoint stores. Counters are process-global and served by the
// standard /debug/vars endpoint when the host program mounts one.
package metrics
