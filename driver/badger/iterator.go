package badger

import (
	"github.com/dgraph-io/badger/v4"
)

type Iterator struct {
	txn    *badger.Txn
	it     *badger.Iterator
	prefix []byte
}

func (it *Iterator) Key() []byte {
	return it.it.Item().KeyCopy(nil)
}

func (it *Iterator) Value() []byte {
	v, err := it.it.Item().ValueCopy(nil)
	if err != nil {
		debugf("iterator value: %v", err)
	}
	return v
}

func (it *Iterator) Close() error {
	if it.it != nil {
		it.it.Close()
		it.it = nil
		it.txn.Discard()
	}
	return nil
}

func (it *Iterator) Valid() bool {
	return it.it.ValidForPrefix(it.prefix)
}

func (it *Iterator) Next() {
	it.it.Next()
}

func (it *Iterator) First() {
	it.it.Rewind()
}

func (it *Iterator) Seek(key []byte) {
	it.it.Seek(key)
}
