// Package driver is the storage driver registry used by the title store.
// Backends register themselves from init.
package driver

import (
	"fmt"
	"sort"
	"sync"
)

// Config carries backend tuning shared by every driver.
type Config struct {
	// HotCacheSize is the in-memory cache capacity, unit:MB
	HotCacheSize int64
	Compression  bool
	CacheSize    int
	BlockSize    int
	WriteBuffer  int
	MaxOpenFiles int
}

func DefaultConfig() *Config {
	return &Config{
		HotCacheSize: 64,
		Compression:  true,
		CacheSize:    8 * 1024 * 1024,
		BlockSize:    4 * 1024,
		WriteBuffer:  4 * 1024 * 1024,
		MaxOpenFiles: 1024,
	}
}

type IDB interface {
	// Get returns nil, nil when the key does not exist.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	SyncPut(key, value []byte) error
	Delete(key []byte) error
	NewWriteBatch() IWriteBatch
	// NewIterator walks the keys that start with prefix in ascending order.
	NewIterator(prefix []byte) IIterator
	Close() error
}

type IWriteBatch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit() error
	Len() int
	Reset()
}

type IIterator interface {
	First()
	Seek(key []byte)
	Next()
	Valid() bool
	Key() []byte
	Value() []byte
	Close() error
}

// MetricsProvider is implemented by drivers that can report cache statistics.
type MetricsProvider interface {
	Metrics() (tit string, metrics []map[string]interface{})
}

type Store interface {
	String() string
	Open(path string, cfg *Config) (IDB, error)
}

var (
	mu     sync.RWMutex
	stores = map[string]Store{}
)

func Register(s Store) {
	mu.Lock()
	defer mu.Unlock()

	name := s.String()
	if _, ok := stores[name]; ok {
		panic(fmt.Sprintf("store %s is registered", name))
	}
	stores[name] = s
}

func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Open(name, path string, cfg *Config) (IDB, error) {
	mu.RLock()
	s, ok := stores[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("store %s is not registered", name)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return s.Open(path, cfg)
}
