// Package batch implements the Batch aggregate: a bucket that collects orders
// while open and, once closed, triggers route generation for everything it holds.
//
// Lifecycle:
//
//	Open ──Close()──> Closed
//
// Closing is one-way and records a BatchClosed event.
package batch
