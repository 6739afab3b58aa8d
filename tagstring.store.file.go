package tagstring

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FileStore serves the top-level keys of a YAML or JSON document as a scope.
// Files ending in .json are decoded as JSON, everything else as YAML.
// The document is loaded once on open; call Reload or run Watch to pick up
// changes.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	values   map[string]any
	closed   bool
	logger   *zap.Logger
	resolver *ContainerResolver
}

// FileStoreDriver is the driver for creating FileStore instances.
type FileStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFile, &FileStoreDriver{})
}

// Open creates a new FileStore instance.
// The connection string is the path of the document.
func (d *FileStoreDriver) Open(connectionString string) (Store, error) {
	return NewFileStore(connectionString, nil)
}

// NewFileStore loads the document at path
func NewFileStore(path string, logger *zap.Logger, opts ...ContainerOption) (*FileStore, error) {
	if path == "" {
		return nil, &StoreError{Message: ErrMsgStoreEmptyPath}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FileStore{
		path:   path,
		logger: logger,
	}
	s.resolver = NewContainerResolver(storeLookup(s.get), opts...)

	values, err := loadValuesFile(path)
	if err != nil {
		return nil, err
	}
	s.values = values

	logger.Debug(LogMsgStoreOpened,
		zap.String(LogFieldPath, path),
		zap.Int(LogFieldKeys, len(values)))
	return s, nil
}

// Path returns the path of the backing document
func (s *FileStore) Path() string {
	return s.path
}

// Evaluate implements Resolver
func (s *FileStore) Evaluate(ctx context.Context, expr string, args *Args) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, NewStoreClosedError()
	}
	return s.resolver.Evaluate(ctx, expr, args)
}

// Keys implements Store
func (s *FileStore) Keys(ctx context.Context) ([]string, error) {
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

// Reload re-reads the document. On failure the previous values are kept.
func (s *FileStore) Reload() error {
	values, err := loadValuesFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}
	s.values = values
	return nil
}

// Watch reloads the document whenever it is written or replaced, until ctx
// is done. Reload failures are logged and the previous values stay active.
// The parent directory is watched so that editors replacing the file by
// rename are noticed.
func (s *FileStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &StoreError{Message: ErrMsgStoreWatchFailed, Name: s.path, Cause: err}
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return &StoreError{Message: ErrMsgStoreWatchFailed, Name: s.path, Cause: err}
	}

	target := filepath.Clean(s.path)
	s.logger.Debug(LogMsgStoreWatchStart, zap.String(LogFieldPath, target))
	defer s.logger.Debug(LogMsgStoreWatchStop, zap.String(LogFieldPath, target))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn(LogMsgStoreReloadFail,
					zap.String(LogFieldPath, target),
					zap.String(LogFieldEvent, event.Op.String()),
					zap.Error(err))
				continue
			}
			s.logger.Debug(LogMsgStoreReloaded,
				zap.String(LogFieldPath, target),
				zap.String(LogFieldEvent, event.Op.String()))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn(LogMsgStoreWatchError, zap.String(LogFieldPath, target), zap.Error(err))
		}
	}
}

// Close implements Store
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.values = nil
	return nil
}

func (s *FileStore) get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, NewStoreClosedError()
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// loadValuesFile decodes the document at path into a string-keyed map.
// An empty document yields an empty map.
func loadValuesFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgStoreLoadFailed, Name: path, Cause: err}
	}

	values := make(map[string]any)
	if strings.EqualFold(filepath.Ext(path), FileExtensionJSON) {
		if len(strings.TrimSpace(string(data))) > 0 {
			err = json.Unmarshal(data, &values)
		}
	} else {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, &StoreError{Message: ErrMsgStoreDecodeFailed, Name: path, Cause: err}
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}
