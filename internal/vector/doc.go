// Package vector provides vector timestamps and a vector clock for tracking
// causality between nodes. A vector timestamp records, per node, how many
// events of that node were known when an event happened, which allows two
// events to be classified as ordered or concurrent.
//
// Comparisons treat a node missing from one timestamp as lower than any
// value present in the other. Merging uses the same rule: a missing node
// never constrains the other side.
package vector
