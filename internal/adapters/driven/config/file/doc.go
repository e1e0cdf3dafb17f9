// Package file keeps pathok's on-disk state under the config directory:
// config.toml through ConfigStore and the editable answer prompt through
// PromptStore.
package file
