// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// The discovery core consumes exactly one capability from its
// environment:
//
//   - RecordStore: bounded reads against opaque, named record collections
//
// The hosted content backend, whatever it is (sqlite, a seed-file
// directory, an in-memory fixture set), sits behind this single
// interface. Errors are recoverable per call: the aggregator treats a
// failing fetch as an empty contribution from that source.
package driven
