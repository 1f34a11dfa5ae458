package badger

import (
	"io/fs"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
)

const StorageName = "badger"

var _ driver.Store = Store{}

func init() {
	driver.Register(Store{})
}

type Store struct{}

func (s Store) String() string {
	return StorageName
}

func (s Store) Open(path string, cfg *driver.Config) (driver.IDB, error) {
	if err := os.MkdirAll(path, fs.ModePerm); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path).
		WithLogger(newLogger()).
		WithNumMemtables(2)
	if cfg.BlockSize > 0 {
		opts = opts.WithBlockSize(cfg.BlockSize)
	}
	if cfg.HotCacheSize > 0 {
		opts = opts.WithBlockCacheSize(cfg.HotCacheSize << 20)
	}
	if !cfg.Compression {
		opts = opts.WithCompression(0)
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DB{db: bdb, opts: opts}, nil
}

func newLogger() badger.Logger {
	return logrus.WithField("driver", StorageName)
}
