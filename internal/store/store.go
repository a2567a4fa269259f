// Package store defines the key-value persistence collaborator used by the
// task list. Backends live in subpackages: jsonstore (one file per key) and
// sqlitestore (a single SQLite table).
package store

// KV is a synchronous string-keyed store. Save overwrites any prior value.
type KV interface {
	// Load returns the value stored under key. ok is false when nothing
	// has been stored yet; that is not an error.
	Load(key string) (value string, ok bool, err error)

	// Save replaces the value stored under key.
	Save(key, value string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)
