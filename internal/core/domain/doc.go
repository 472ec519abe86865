// Package domain defines the core business entities for the Sercha indexer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - GUID: the location of an object version in a storage system
//   - StatusEvent: a coarse or granular change notification
//   - StoredStatusEvent: a status event held in the event queue
//   - ResolvedReference: a reference resolved to its canonical target
//   - SourceData: the payload and provenance loaded for indexing
//   - IndexingError: a failure classified for retry decisions
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
