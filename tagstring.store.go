package tagstring

import (
	"context"
	"sort"
	"sync"
)

// Store is a named-value scope backed by a storage driver. The first path
// segment of an expression is a key in the store; the remaining segments
// navigate the stored value. Implementations must be safe for concurrent use.
type Store interface {
	Resolver

	// Keys returns all stored keys in sorted order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	// After Close, the store should not be used.
	Close() error
}

// StoreDriver is a factory for creating store instances.
// Drivers register themselves during init().
type StoreDriver interface {
	// Open creates a new store with the given connection string.
	// The format of the connection string is driver-specific.
	Open(connectionString string) (Store, error)
}

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// This is typically called from a driver's init() function.
// Panics if a driver with the same name is already registered.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a store using the named driver.
// The connection string format is driver-specific.
//
// Example:
//
//	store, err := tagstring.OpenStore("memory", "")
//	store, err := tagstring.OpenStore("file", "/etc/app/values.yaml")
//	store, err := tagstring.OpenStore("postgres", "postgres://user:pw@host/db?sslmode=disable")
func OpenStore(driverName, connectionString string) (Store, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, NewStoreDriverNotFoundError(driverName)
	}

	return driver.Open(connectionString)
}

// ListStoreDrivers returns the names of all registered store drivers in sorted order.
func ListStoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store error message constants
const (
	ErrMsgNilStoreDriver          = "store driver is nil"
	ErrMsgDriverAlreadyRegistered = "store driver already registered"
	ErrMsgStoreDriverNotFound     = "store driver not found"
	ErrMsgStoreClosed             = "store is closed"
	ErrMsgStoreKeyEmpty           = "store key cannot be empty"
	ErrMsgStoreLoadFailed         = "failed to load store file"
	ErrMsgStoreDecodeFailed       = "failed to decode store file"
	ErrMsgStoreWatchFailed        = "failed to watch store file"
	ErrMsgStoreEmptyPath          = "store file path is empty"

	ErrMsgPostgresConnectionFailed = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed      = "PostgreSQL query failed"
	ErrMsgPostgresMarshalFailed    = "failed to marshal value for PostgreSQL"
	ErrMsgPostgresUnmarshalFailed  = "failed to unmarshal PostgreSQL value"
	ErrMsgPostgresMigrationFailed  = "PostgreSQL migration failed"
	ErrMsgPostgresEmptyConnString  = "PostgreSQL connection string is empty"
	ErrMsgPostgresAlreadyClosed    = "PostgreSQL store is already closed"
)

// NewStoreDriverNotFoundError creates an error for a missing store driver.
func NewStoreDriverNotFoundError(name string) error {
	return &StoreError{
		Message: ErrMsgStoreDriverNotFound,
		Name:    name,
	}
}

// NewStoreClosedError creates an error for operations on a closed store.
func NewStoreClosedError() error {
	return &StoreError{
		Message: ErrMsgStoreClosed,
	}
}

// StoreError represents a store-related error.
type StoreError struct {
	Message string
	Name    string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// storeLookup adapts a key getter to a scope lookup. Missing keys become
// lookup errors; backend failures become store lookup errors naming the key.
func storeLookup(get func(ctx context.Context, key string) (any, bool, error)) LookupFunc {
	return func(ctx context.Context, name string, _ *Args) (any, error) {
		v, ok, err := get(ctx, name)
		if err != nil {
			return nil, NewStoreLookupError(name, err)
		}
		if !ok {
			return nil, NewLookupError(ErrMsgKeyNotFound, name, ScopeMap)
		}
		return v, nil
	}
}

// OpenScopes opens every configured scope store in order. Scopes with Cache
// set are wrapped in a CachingResolver. On failure the stores opened so far
// are closed.
func OpenScopes(configs []ScopeConfig) ([]Resolver, []Store, error) {
	resolvers := make([]Resolver, 0, len(configs))
	stores := make([]Store, 0, len(configs))

	for _, sc := range configs {
		store, err := OpenStore(sc.Driver, sc.DSN)
		if err != nil {
			for _, s := range stores {
				_ = s.Close()
			}
			return nil, nil, err
		}
		stores = append(stores, store)

		var r Resolver = store
		if sc.Cache {
			r = NewCachingResolver(store)
		}
		resolvers = append(resolvers, r)
	}
	return resolvers, stores, nil
}
