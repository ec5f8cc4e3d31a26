// Package kernel holds the value objects shared by every aggregate of the
// last-mile domain: identifiers, geographic points, zone boundaries and the
// domain event primitives aggregates use to announce state transitions.
package kernel
