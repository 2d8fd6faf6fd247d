// Package goal decides the lifecycle of a commitment goal: creation with a
// locked stake, proof posting, and settlement through Close and its variants.
//
// Closing is a small state machine evaluated against the service clock:
// before the deadline only the author may close, and only with qualifying
// evidence; at or after the deadline anyone may close and the outcome follows
// the evidence. A closed goal never changes again.
package goal
