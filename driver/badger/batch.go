package badger

import (
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type op struct {
	key   []byte
	value []byte
	del   bool
}

// WriteBatch buffers operations until Commit so that Reset can drop them;
// a badger WriteBatch cannot be rolled back once written to.
type WriteBatch struct {
	db   *badger.DB
	ops  []op
	lock sync.Mutex
}

func (w *WriteBatch) Put(key, value []byte) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.ops = append(w.ops, op{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

func (w *WriteBatch) Delete(key []byte) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.ops = append(w.ops, op{key: append([]byte(nil), key...), del: true})
}

func (w *WriteBatch) Commit() error {
	w.lock.Lock()
	defer w.lock.Unlock()

	wb := w.db.NewWriteBatch()
	defer wb.Cancel()
	for _, o := range w.ops {
		var err error
		if o.del {
			err = wb.Delete(o.key)
		} else {
			err = wb.Set(o.key, o.value)
		}
		if err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}
	debugf("wb commit %d ops", len(w.ops))
	w.ops = w.ops[:0]
	return nil
}

func (w *WriteBatch) Len() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.ops)
}

func (w *WriteBatch) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.ops = w.ops[:0]
}
