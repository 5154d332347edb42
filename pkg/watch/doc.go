// Package watch reruns a callback when a configuration file changes,
// coalescing bursts of filesystem events into a single call.
package watch
