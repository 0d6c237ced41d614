// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChunkID: The composite (source, ordinal) identifier of a chunk
//   - RetrievedChunk: A chunk fetched from the chunk store
//   - ContextBundle: The assembled prompt context with its source list
//   - ChatMessage: One turn of the user/assistant conversation
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
