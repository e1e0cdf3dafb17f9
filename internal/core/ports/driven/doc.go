// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Loads textbook snapshots from storage
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Embeds queries. Without it, retrieval uses keyword overlap.
//   - TextGenerator: Produces answers. Without it, only search is available.
//   - CorpusWatcher: Signals corpus changes so caches can be invalidated.
//   - RateLimiter: Gates generation calls per caller.
//   - PromptStore: User-editable prompt templates. Without it, built-in defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
