// Package mcu is the control harness around one MCU simulation engine.
//
// An MCU handle owns exactly one engine instance and exactly one Status
// record. The Status record is the side channel the engine cannot express
// natively (power-on flag, reset counter); it travels through the
// engine's opaque user-data slot and is mutated only from within
// engine-invoked callbacks or handle query methods.
//
// OWNERSHIP:
//
// The handle is the sole owner of both the engine and the Status
// allocation. The user-data slot holds a non-owning alias (a
// runtime/cgo.Handle); real reclamation happens exactly once, in Close.
// Handles are not shareable and must not be copied.
//
// CONCURRENCY:
//
// Single-threaded, callback-reentrant. Engine entry points block on the
// caller's goroutine and invoke callbacks nested inside that call stack,
// one at a time. No locks are needed around the Status record.
package mcu
