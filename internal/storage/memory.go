package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps objects in a map. Development and tests only.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

type memObject struct {
	data []byte
	info ObjectInfo
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memObject)}
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) (*ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	info := ObjectInfo{
		Key:         key,
		Size:        uint64(len(data)),
		ContentType: contentType,
		ModTime:     time.Now(),
	}
	s.objects[key] = memObject{data: buf, info: info}
	return &info, nil
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, *ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, nil, fmt.Errorf("object %q not found", key)
	}
	info := obj.info
	return obj.data, &info, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object %q not found", key)
	}
	delete(s.objects, key)
	return nil
}
