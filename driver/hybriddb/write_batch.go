package hybriddb

import (
	"github.com/syndtr/goleveldb/leveldb"
)

type WriteBatch struct {
	db     *DB
	wbatch *leveldb.Batch
	keys   [][]byte // evicted from the hot tier once the batch lands
}

func (w *WriteBatch) Put(key, value []byte) {
	w.wbatch.Put(key, value)
	w.keys = append(w.keys, copyBytes(key))
}

func (w *WriteBatch) Delete(key []byte) {
	w.wbatch.Delete(key)
	w.keys = append(w.keys, copyBytes(key))
}

func (w *WriteBatch) Commit() error {
	if err := w.db.db.Write(w.wbatch, nil); err != nil {
		return err
	}
	for _, key := range w.keys {
		w.db.cache.Del(key)
	}
	w.Reset()
	return nil
}

func (w *WriteBatch) Len() int {
	return w.wbatch.Len()
}

func (w *WriteBatch) Reset() {
	w.wbatch.Reset()
	w.keys = w.keys[:0]
}
