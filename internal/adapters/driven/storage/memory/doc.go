// Package memory provides in-memory implementations of driven ports
// for tests and fixtures.
package memory
