// Package events carries domain events from services to background handlers.
//
// Emission is best effort: services call Emit after their transaction
// commits and a failing handler is logged, never returned to the caller.
// The server registers one handler that queues each event for the event log.
package events
