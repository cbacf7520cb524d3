// Package engine defines the call surface of an MCU simulation engine.
//
// The harness does not emulate instructions itself. It drives an external
// engine through the fixed contract in this package: lifecycle entry points
// (Init, Reset, Terminate, Run), program-memory loading, IRQ plumbing,
// device-control requests, and a single process-wide logger slot.
//
// CONTRACT:
//
// All engine entry points are blocking, synchronous calls on the caller's
// goroutine. Callbacks (reset hook, IRQ notifies, logger) fire nested
// inside those calls, never from a background goroutine and never
// concurrently with one another. Exactly one callback is in flight at a
// time, so callback bodies may mutate harness state without locking.
//
// Run returns an integer state code in 0..7. A code outside that range
// means the engine itself is inconsistent; callers treat it as a broken
// invariant, not a recoverable error.
//
// Engine implementations resolve model names through the registry in this
// package (Register / New), the same way database/sql drivers announce
// themselves.
package engine
