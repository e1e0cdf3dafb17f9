// Package driving declares the operations the CLI, TUI and MCP adapters call:
// answering questions, ranking passages, loading the corpus and editing
// settings. internal/core/services implements them.
package driving
