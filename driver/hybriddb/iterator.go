package hybriddb

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// Iterator reads the cold tier directly; the hot tier never holds keys the
// cold tier lacks.
type Iterator struct {
	it    iterator.Iterator
	valid bool
}

func (it *Iterator) First() {
	it.valid = it.it.First()
}

func (it *Iterator) Seek(key []byte) {
	it.valid = it.it.Seek(key)
}

func (it *Iterator) Next() {
	it.valid = it.it.Next()
}

func (it *Iterator) Valid() bool {
	return it.valid
}

func (it *Iterator) Key() []byte {
	return it.it.Key()
}

func (it *Iterator) Value() []byte {
	return it.it.Value()
}

func (it *Iterator) Close() error {
	it.it.Release()
	return it.it.Error()
}
