// Package events defines the progress events emitted on the event bus while
// a tree is abstracted.
//
// Available event types:
//   - NodeEvent: one AVPP finished its general, temporal and ramp abstraction
//   - RunEvent: a scheduler run over a whole tree finished
package events
