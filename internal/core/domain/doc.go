// Package domain defines the core business entities for pathok.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Book: A textbook snapshot produced by the offline ingestion process
//   - Chunk: A retrievable slice of a book with its embedding
//   - SearchResult: A ranked chunk paired with its book title
//   - Answer: A grounded answer with the sources it was built from
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
