package tagstring

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store.
// It is primarily intended for testing and for values computed at runtime.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]any
	closed   bool
	resolver *ContainerResolver
}

// MemoryStoreDriver is the driver for creating MemoryStore instances.
type MemoryStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{})
}

// Open creates a new MemoryStore instance.
// The connection string is ignored for memory stores.
func (d *MemoryStoreDriver) Open(connectionString string) (Store, error) {
	return NewMemoryStore(nil), nil
}

// NewMemoryStore creates a memory store seeded with a copy of values
func NewMemoryStore(values map[string]any, opts ...ContainerOption) *MemoryStore {
	s := &MemoryStore{
		values: make(map[string]any, len(values)),
	}
	for k, v := range values {
		s.values[k] = v
	}
	s.resolver = NewContainerResolver(storeLookup(s.get), opts...)
	return s
}

// Evaluate implements Resolver
func (s *MemoryStore) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, NewStoreClosedError()
	}
	return s.resolver.Evaluate(ctx, expr, args)
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return &StoreError{Message: ErrMsgStoreKeyEmpty}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}
	s.values[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}
	delete(s.values, key)
	return nil
}

// Keys implements Store
func (s *MemoryStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.values = nil
	return nil
}

func (s *MemoryStore) get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, NewStoreClosedError()
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
