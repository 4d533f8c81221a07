// Package domain defines the core business entities for galeria.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A dynamically-shaped stored entity (profile, work, news item)
//   - ResultItem: The unit returned to callers after aggregation
//   - FetchOptions: A bounded read against a named collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
