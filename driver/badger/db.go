package badger

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
)

var _ driver.IDB = (*DB)(nil)

type DB struct {
	opts badger.Options
	db   *badger.DB
}

func (db *DB) Close() error {
	debugf("db close")
	return db.db.Close()
}

func (db *DB) Put(key, value []byte) error {
	debugf("db put %s", key)
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// SyncPut writes the key and fsyncs the value log.
func (db *DB) SyncPut(key, value []byte) error {
	if err := db.Put(key, value); err != nil {
		return err
	}
	return db.db.Sync()
}

func (db *DB) Get(key []byte) ([]byte, error) {
	var v []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		v, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return v, err
}

func (db *DB) Delete(key []byte) error {
	debugf("db delete %s", key)
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (db *DB) NewWriteBatch() driver.IWriteBatch {
	return &WriteBatch{db: db.db}
}

func (db *DB) NewIterator(prefix []byte) driver.IIterator {
	txn := db.db.NewTransaction(false)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	return &Iterator{
		txn:    txn,
		it:     txn.NewIterator(opts),
		prefix: prefix,
	}
}

func debugf(format string, args ...interface{}) {
	logrus.WithField("driver", StorageName).Debugf(format, args...)
}
