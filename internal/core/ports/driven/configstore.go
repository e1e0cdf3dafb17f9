package driven

// ConfigStore is the persisted key/value configuration behind config.toml.
// Keys are dotted paths such as "llm.provider" or "corpus.books". Typed
// getters return the zero value when a key is missing or has another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set and Delete write through to disk. Deleting a missing key is a no-op.
	Set(key string, value any) error
	Delete(key string) error

	Load() error
	Save() error

	// Keys lists every configured key, sorted.
	Keys() []string

	// Path is the backing file.
	Path() string
}
