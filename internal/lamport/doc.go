// Package lamport provides a generic Lamport clock.
//
// A Lamport clock gives a causal ordering of events with a single scalar
// timestamp. It may order concurrent events arbitrarily; use the vector
// package when concurrency has to be detected.
package lamport
