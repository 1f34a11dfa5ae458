package badger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
)

func openTestDB(t *testing.T) driver.IDB {
	t.Helper()
	cfg := driver.DefaultConfig()
	cfg.HotCacheSize = 8
	db, err := driver.Open(StorageName, t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_PutGetDelete(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, db.SyncPut([]byte("k"), []byte("v2")))
	got, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, db.Delete([]byte("k")))
	got, err = db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteBatch(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Put([]byte("gone"), []byte("x")))

	wb := db.NewWriteBatch()
	wb.Put([]byte("a"), []byte("1"))
	wb.Put([]byte("b"), []byte("2"))
	wb.Delete([]byte("gone"))
	assert.Equal(t, 3, wb.Len())
	require.NoError(t, wb.Commit())
	assert.Equal(t, 0, wb.Len())

	got, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
	got, err = db.Get([]byte("gone"))
	require.NoError(t, err)
	assert.Nil(t, got)

	wb.Put([]byte("dropped"), []byte("x"))
	wb.Reset()
	require.NoError(t, wb.Commit())
	got, err = db.Get([]byte("dropped"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIteratorPrefix(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Put([]byte(fmt.Sprintf("fp:%02d", i)), []byte{byte(i)}))
	}
	require.NoError(t, db.Put([]byte("meta:x"), []byte("y")))

	it := db.NewIterator([]byte("fp:"))
	var keys []string
	for it.First(); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Close())
	assert.Equal(t, []string{"fp:00", "fp:01", "fp:02", "fp:03", "fp:04"}, keys)

	it = db.NewIterator([]byte("fp:"))
	defer it.Close()
	it.Seek([]byte("fp:03"))
	require.True(t, it.Valid())
	assert.Equal(t, []byte("fp:03"), it.Key())
	assert.Equal(t, []byte{3}, it.Value())
}
