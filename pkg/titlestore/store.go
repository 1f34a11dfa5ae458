// Package titlestore keeps one record per title fingerprint on top of a
// storage driver and enforces that a fingerprint is only ever added once.
package titlestore

import (
	"errors"
	"time"

	perrors "github.com/pingcap/errors"
	"go.uber.org/atomic"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
)

const (
	keyPrefix        = "fp:"
	fingerprintLen   = 64
	DefaultScanCount = 10
	maxScanCount     = 10000
)

var (
	ErrInvalidFingerprint = errors.New("invalid fingerprint")
	ErrCorruptRecord      = errors.New("corrupt record")
	ErrInvalidCursor      = errors.New("invalid cursor")
)

type Options struct {
	SlotNum    int
	SyncWrites bool
}

type Store struct {
	db    driver.IDB
	opts  Options
	locks *slotLocks
	count atomic.Int64
	now   func() time.Time
}

// Open wraps db and counts the records already stored in it.
func Open(db driver.IDB, opts Options) (*Store, error) {
	s := &Store{
		db:    db,
		opts:  opts,
		locks: newSlotLocks(opts.SlotNum),
		now:   time.Now,
	}

	it := db.NewIterator([]byte(keyPrefix))
	var n int64
	for it.First(); it.Valid(); it.Next() {
		n++
	}
	if err := it.Close(); err != nil {
		return nil, perrors.Annotate(err, "count records")
	}
	s.count.Store(n)
	return s, nil
}

func recordKey(fp string) ([]byte, error) {
	if !validFingerprint(fp) {
		return nil, ErrInvalidFingerprint
	}
	return []byte(keyPrefix + fp), nil
}

func validFingerprint(fp string) bool {
	if len(fp) != fingerprintLen {
		return false
	}
	for i := 0; i < len(fp); i++ {
		c := fp[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// AddIfAbsent stores rec unless its fingerprint is already present. It
// reports whether the record was added. Concurrent adders of one
// fingerprint are serialized, so exactly one of them sees true.
func (s *Store) AddIfAbsent(rec Record) (bool, error) {
	key, err := recordKey(rec.Fingerprint)
	if err != nil {
		return false, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	v, err := s.db.Get(key)
	if err != nil {
		return false, perrors.Annotatef(err, "get %s", key)
	}
	if v != nil {
		return false, nil
	}

	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = s.now()
	}
	data, err := rec.marshal()
	if err != nil {
		return false, err
	}

	if s.opts.SyncWrites {
		err = s.db.SyncPut(key, data)
	} else {
		err = s.db.Put(key, data)
	}
	if err != nil {
		return false, perrors.Annotatef(err, "put %s", key)
	}
	s.count.Inc()
	return true, nil
}

// Get returns the record of fp, or nil when it is absent.
func (s *Store) Get(fp string) (*Record, error) {
	key, err := recordKey(fp)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.rlock(key)
	v, err := s.db.Get(key)
	unlock()
	if err != nil {
		return nil, perrors.Annotatef(err, "get %s", key)
	}
	if v == nil {
		return nil, nil
	}
	rec, err := unmarshalRecord(v)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) Exists(fp string) (bool, error) {
	key, err := recordKey(fp)
	if err != nil {
		return false, err
	}

	unlock := s.locks.rlock(key)
	v, err := s.db.Get(key)
	unlock()
	if err != nil {
		return false, perrors.Annotatef(err, "get %s", key)
	}
	return v != nil, nil
}

// Delete removes fp and reports whether it was present.
func (s *Store) Delete(fp string) (bool, error) {
	key, err := recordKey(fp)
	if err != nil {
		return false, err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	v, err := s.db.Get(key)
	if err != nil {
		return false, perrors.Annotatef(err, "get %s", key)
	}
	if v == nil {
		return false, nil
	}
	if err := s.db.Delete(key); err != nil {
		return false, perrors.Annotatef(err, "delete %s", key)
	}
	s.count.Dec()
	return true, nil
}

func (s *Store) Count() int64 {
	return s.count.Load()
}

// Scan returns up to count fingerprints ordered after cursor, which is the
// last fingerprint of the previous page or "" to start. The returned cursor
// is "" once the scan is complete.
func (s *Store) Scan(cursor string, count int) (next string, fps []string, err error) {
	if cursor != "" && !validFingerprint(cursor) {
		return "", nil, ErrInvalidCursor
	}
	if count <= 0 {
		count = DefaultScanCount
	}
	if count > maxScanCount {
		count = maxScanCount
	}

	it := s.db.NewIterator([]byte(keyPrefix))
	defer it.Close()

	if cursor == "" {
		it.First()
	} else {
		it.Seek([]byte(keyPrefix + cursor))
		if it.Valid() && string(it.Key()) == keyPrefix+cursor {
			it.Next()
		}
	}

	for ; it.Valid() && len(fps) < count; it.Next() {
		fps = append(fps, string(it.Key()[len(keyPrefix):]))
	}
	if it.Valid() && len(fps) > 0 {
		next = fps[len(fps)-1]
	}
	return next, fps, nil
}
