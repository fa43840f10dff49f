// Package store provides key-value blob store implementations for the
// persisted application state.
package store

// BlobStore is the interface for opaque key-value persistence.
type BlobStore interface {
	// Get retrieves a blob. Returns nil and false when absent or unreadable.
	Get(key string) ([]byte, bool)

	// Set stores a blob.
	Set(key string, value []byte) error

	// Delete removes a blob. Deleting an absent key is not an error.
	Delete(key string) error
}
