// Package task runs background work off the request path.
// A bounded TaskQueue feeds a fixed WorkerPool; the only task today writes
// domain events to the event log.
package task
