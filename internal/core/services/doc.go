// Package services implements the driving port interfaces.
// Services contain the retrieval and answer logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies.
package services
