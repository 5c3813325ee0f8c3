// Package domain defines the presence model for lanpresence.
//
// A device registers under the network address it was seen from. Each
// registration is stored as a sorted-set member "name|address" scored with
// the registration time in epoch milliseconds.
//
// # Parsing
//
// ParseEntries and ParseFlat turn raw store members into Entry values. The
// identity is split on its first separator; a score that is not a base-10
// integer marks the entry invalid rather than failing the parse.
//
// # Reconciliation
//
// Reconcile reduces a network's entries to the visible devices: at most one
// per name, none older than the freshness window. Everything it drops is
// returned as an eviction list for the store.
//
// This package has no I/O and no dependencies outside the standard library.
package domain
