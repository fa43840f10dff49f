package store

import "sync"

// MemoryStore is a thread-safe in-memory blob store, used for tests and as
// the fallback when no durable store is configured.
type MemoryStore struct {
	blobs map[string][]byte
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get retrieves a blob. The returned slice is a copy.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true
}

// Set stores a copy of the blob.
func (s *MemoryStore) Set(key string, value []byte) error {
	blob := make([]byte, len(value))
	copy(blob, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob
	return nil
}

// Delete removes a blob.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Keys returns the stored keys in unspecified order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}

// Clear removes all blobs.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
}

// Verify MemoryStore implements BlobStore
var _ BlobStore = (*MemoryStore)(nil)
