// Package file loads the textbook corpus from a directory of JSON files and
// watches that directory for changes.
//
// Each file holds one book: metadata, page and chunk counts, and the chunks
// with their precomputed embeddings. Files are produced by an offline
// ingestion step and are never written by pathok.
package file
