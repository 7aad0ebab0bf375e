// Package events defines the events emitted on the event bus.
//
// Available event types:
//   - RunCompleted: an optimization finished
//   - RunRejected: a request was refused before computation
package events
