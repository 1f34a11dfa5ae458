package titlestore

import (
	"bytes"
	"io"

	perrors "github.com/pingcap/errors"
	"github.com/tidwall/sds"
)

const restoreBatchSize = 1000

// Snapshot writes every record as a key/value pair to w.
func (s *Store) Snapshot(w io.Writer) (int64, error) {
	sw := sds.NewWriter(w)
	it := s.db.NewIterator([]byte(keyPrefix))
	defer it.Close()

	var n int64
	for it.First(); it.Valid(); it.Next() {
		if err := sw.WriteBytes(it.Key()); err != nil {
			return n, err
		}
		if err := sw.WriteBytes(it.Value()); err != nil {
			return n, err
		}
		n++
	}
	return n, sw.Flush()
}

// Restore loads a stream produced by Snapshot and returns the number of
// records read. Records already present are overwritten. Every committed
// batch is reflected in Count, also when a later record fails.
func (s *Store) Restore(r io.Reader) (int64, error) {
	sr := sds.NewReader(r)
	batch := s.db.NewWriteBatch()

	var total int64
	fresh := make(map[string]struct{}, restoreBatchSize)
	pending := make(map[string]struct{}, restoreBatchSize)
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := batch.Commit(); err != nil {
			return perrors.Annotate(err, "restore batch")
		}
		s.count.Add(int64(len(fresh)))
		clear(fresh)
		clear(pending)
		return nil
	}

	for {
		key, err := sr.ReadBytes()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
		value, err := sr.ReadBytes()
		if err != nil {
			return total, err
		}
		if !bytes.HasPrefix(key, []byte(keyPrefix)) || !validFingerprint(string(key[len(keyPrefix):])) {
			return total, perrors.Annotatef(ErrInvalidFingerprint, "restore key %q", key)
		}
		if _, err := unmarshalRecord(value); err != nil {
			return total, perrors.Annotatef(err, "restore key %q", key)
		}

		if _, ok := pending[string(key)]; !ok {
			existing, err := s.db.Get(key)
			if err != nil {
				return total, perrors.Annotatef(err, "get %s", key)
			}
			if existing == nil {
				fresh[string(key)] = struct{}{}
			}
			pending[string(key)] = struct{}{}
		}

		batch.Put(key, value)
		total++
		if batch.Len() == restoreBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
