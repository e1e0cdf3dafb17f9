// Package sqlite persists the per-user daily question counts in
// <config-dir>/data/pathok.db using modernc.org/sqlite, so no CGO is needed.
//
// The schema comes from the numbered *.up.sql files under migrations/, which
// are embedded and applied in order on open. The database runs in WAL mode
// so the CLI and a running MCP server can share it.
package sqlite
