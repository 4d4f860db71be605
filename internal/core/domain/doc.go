// Package domain defines the core types of the internal linking engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity: A category or subcategory node in the content hierarchy
//   - Hierarchy: An immutable parent/child index built once per build pass
//   - LinkPolicy: Budget, matching and relation rules for one render
//   - LinkTarget, TextRegion, LinkInsertion: Per-render working values
//   - LinkResult, BuildReport: What callers get back
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
