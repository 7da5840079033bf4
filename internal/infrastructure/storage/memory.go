package storage

import (
	"context"
	"slices"
	"sync"
)

type memoryObject struct {
	body        []byte
	contentType string
}

// MemoryStore keeps objects in process memory. Used in development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	prefix  string
	objects map[string]memoryObject
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{prefix: prefix, objects: make(map[string]memoryObject)}
}

// Put stores a copy of body under key
func (s *MemoryStore) Put(_ context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectKey(s.prefix, key)] = memoryObject{body: slices.Clone(body), contentType: contentType}
	return nil
}

// Get returns the body and content type stored under key
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectKey(s.prefix, key)]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return slices.Clone(obj.body), obj.contentType, nil
}

// Delete removes key; deleting a missing key succeeds
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey(s.prefix, key))
	return nil
}

// Exists reports whether key is stored
func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[objectKey(s.prefix, key)]
	return ok, nil
}

var _ ObjectStore = (*MemoryStore)(nil)
