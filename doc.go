// Package rrecur implements RFC 5545 RRULE recurrence expansion.
//
// Given a starting zoned instant, a frequency, an interval, and zero or
// more BY* constraints, a Rule produces a lazy, chronologically ordered
// sequence of occurrences by way of an Iterator. The package handles
// DST gaps (invalid local times are dropped) and folds (ambiguous local
// times are emitted twice, earlier instant first), leap years, and
// variable week numbering per the week-start convention.
//
// A Rule is built once, validated in a single pass, and is then
// immutable: it may be shared across goroutines and iterated from
// concurrently, though any one Iterator is owned by a single consumer.
package rrecur
