// Package kv provides the string key-value persistence surface used for
// cross-session notification state (read markers, dwell trackers).
package kv

// Store is a synchronous string-keyed get/set abstraction. The browser
// frontend this engine descends from used local storage; any persistent
// map satisfies the contract.
type Store interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been set.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}
