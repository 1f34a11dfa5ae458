package hybriddb

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
)

const (
	StorageName                = "hybriddb"
	MB                         = 1024 * 1024
	defaultHotCacheSize        = 64  // unit:MB
	defaultHotCacheNumCounters = 1e6 // ten times the expected hot keys
	defaultFilterBits          = 10
)

var (
	_ driver.Store           = Store{}
	_ driver.IDB             = (*DB)(nil)
	_ driver.MetricsProvider = (*DB)(nil)
)

// cacheItem keeps the key next to the value so evictions can be traced back.
type cacheItem struct {
	key   []byte
	value []byte
}

func init() {
	driver.Register(Store{})
}

// Store opens a leveldb cold tier fronted by a ristretto hot tier.
type Store struct{}

func (s Store) String() string {
	return StorageName
}

func (s Store) Open(path string, cfg *driver.Config) (driver.IDB, error) {
	if err := os.MkdirAll(path, fs.ModePerm); err != nil {
		return nil, err
	}

	db := &DB{path: path, cfg: cfg}
	db.initOpts()

	var err error
	db.db, err = leveldb.OpenFile(db.path, db.opts)
	if err != nil {
		return nil, err
	}

	hotSize := cfg.HotCacheSize
	if hotSize <= 0 {
		hotSize = defaultHotCacheSize
	}
	db.cache, err = ristretto.NewCache(&ristretto.Config[[]byte, *cacheItem]{
		MaxCost:     hotSize * MB,
		NumCounters: defaultHotCacheNumCounters,
		BufferItems: 64,
		Metrics:     true,
		Cost: func(item *cacheItem) int64 {
			return int64(len(item.key) + len(item.value))
		},
	})
	if err != nil {
		db.db.Close()
		return nil, err
	}

	return db, nil
}

// Repair rebuilds the leveldb manifest of a damaged store.
func (s Store) Repair(path string, cfg *driver.Config) error {
	db, err := leveldb.RecoverFile(path, newOptions(cfg))
	if err != nil {
		return err
	}
	return db.Close()
}

type DB struct {
	path string
	cfg  *driver.Config
	db   *leveldb.DB // cold tier
	opts *opt.Options

	iteratorOpts *opt.ReadOptions
	syncOpts     *opt.WriteOptions

	cache *ristretto.Cache[[]byte, *cacheItem] // hot tier
}

func (db *DB) initOpts() {
	db.opts = newOptions(db.cfg)

	db.iteratorOpts = &opt.ReadOptions{DontFillCache: true}
	db.syncOpts = &opt.WriteOptions{Sync: true}
}

func newOptions(cfg *driver.Config) *opt.Options {
	opts := &opt.Options{}
	opts.ErrorIfMissing = false
	opts.BlockCacheCapacity = cfg.CacheSize
	opts.Filter = filter.NewBloomFilter(defaultFilterBits)

	if cfg.Compression {
		opts.Compression = opt.SnappyCompression
	} else {
		opts.Compression = opt.NoCompression
	}

	opts.BlockSize = cfg.BlockSize
	opts.WriteBuffer = cfg.WriteBuffer
	opts.OpenFilesCacheCapacity = cfg.MaxOpenFiles
	opts.CompactionTableSize = 32 * 1024 * 1024
	opts.WriteL0SlowdownTrigger = 16
	opts.WriteL0PauseTrigger = 64

	return opts
}

func (db *DB) Close() error {
	db.cache.Close()
	return db.db.Close()
}

func (db *DB) put(key, value []byte, wo *opt.WriteOptions) error {
	if err := db.db.Put(key, value, wo); err != nil {
		return err
	}
	db.remember(key, value)
	return nil
}

func (db *DB) remember(key, value []byte) {
	item := &cacheItem{key: copyBytes(key), value: copyBytes(value)}
	db.cache.Set(item.key, item, 0)
}

func (db *DB) Put(key, value []byte) error {
	return db.put(key, value, nil)
}

func (db *DB) SyncPut(key, value []byte) error {
	return db.put(key, value, db.syncOpts)
}

// Get promotes cold reads into the hot tier. A Delete of the same key racing
// the promotion can leave the old value cached, so callers serialize reads
// and deletes of one key.
func (db *DB) Get(key []byte) ([]byte, error) {
	if item, ok := db.cache.Get(key); ok {
		return item.value, nil
	}

	v, err := db.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	db.remember(key, v)
	return v, nil
}

func (db *DB) Delete(key []byte) error {
	if err := db.db.Delete(key, nil); err != nil {
		return err
	}
	db.cache.Del(key)
	return nil
}

func (db *DB) NewWriteBatch() driver.IWriteBatch {
	return &WriteBatch{
		db:     db,
		wbatch: new(leveldb.Batch),
	}
}

func (db *DB) NewIterator(prefix []byte) driver.IIterator {
	var slice *util.Range
	if len(prefix) > 0 {
		slice = util.BytesPrefix(prefix)
	}
	return &Iterator{it: db.db.NewIterator(slice, db.iteratorOpts)}
}

func (db *DB) Compact() error {
	return db.db.CompactRange(util.Range{})
}

// Wait blocks until buffered cache writes are applied.
func (db *DB) Wait() {
	db.cache.Wait()
}

func (db *DB) Metrics() (tit string, metrics []map[string]interface{}) {
	tit = "hybriddb cache"
	if db.cache == nil || db.cache.Metrics == nil {
		return tit, nil
	}
	m := db.cache.Metrics
	metrics = []map[string]interface{}{
		{"used_cost": m.CostAdded() - m.CostEvicted()},
		{"hits": m.Hits()},
		{"misses": m.Misses()},
		{"ratio": fmt.Sprintf("%.2f", m.Ratio())},
		{"keys_added": m.KeysAdded()},
		{"keys_evicted": m.KeysEvicted()},
		{"keys_updated": m.KeysUpdated()},
		{"sets_dropped": m.SetsDropped()},
		{"sets_rejected": m.SetsRejected()},
	}
	return
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
