package titlestore

import (
	"bytes"
	"hash/crc32"
	"sync"
)

const (
	hashTagStart = '{'
	hashTagEnd   = '}'

	DefaultSlotNum = 1024
)

// MapKey2Slot maps a key to one of slotNum slots. When the key carries a
// {hash tag} only the tag is hashed.
func MapKey2Slot(key []byte, slotNum int) int {
	hashKey := key
	if start := bytes.IndexByte(key, hashTagStart); start >= 0 {
		if end := bytes.IndexByte(key[start:], hashTagEnd); end >= 0 {
			hashKey = key[start+1 : start+end]
		}
	}
	return int(crc32.ChecksumIEEE(hashKey) % uint32(slotNum))
}

// slotLocks serializes writers of the same slot. Readers share the slot so a
// read never interleaves with a write of the same key.
type slotLocks struct {
	locks []sync.RWMutex
}

func newSlotLocks(n int) *slotLocks {
	if n <= 0 {
		n = DefaultSlotNum
	}
	return &slotLocks{locks: make([]sync.RWMutex, n)}
}

func (s *slotLocks) lock(key []byte) func() {
	m := &s.locks[MapKey2Slot(key, len(s.locks))]
	m.Lock()
	return m.Unlock
}

func (s *slotLocks) rlock(key []byte) func() {
	m := &s.locks[MapKey2Slot(key, len(s.locks))]
	m.RLock()
	return m.RUnlock
}
