package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/config"
)

func TestDigestMessage(t *testing.T) {
	d, err := digestMessage(false, "abc")
	require.NoError(t, err)
	assert.Equal(t, abcDigest, d)

	_, err = digestMessage(false, "ŉ")
	require.Error(t, err)

	d, err = digestMessage(true, "ŉ")
	require.NoError(t, err)
	assert.Len(t, d, 64)
}

func TestDigestReader(t *testing.T) {
	d, err := digestReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, emptyDigest, d)

	d, err = digestReader(bytes.NewReader(bytes.Repeat([]byte("abc"), 1000)))
	require.NoError(t, err)
	want, _ := digestMessage(true, strings.Repeat("abc", 1000))
	assert.Equal(t, want, d)
}

func openTestStorage(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	db, titles, err := openStorage(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &App{cfg: cfg, db: db, titles: titles, hasher: newHasher(cfg)}
}

func TestImportTitles(t *testing.T) {
	a := openTestStorage(t, testConfig(t))

	input := strings.Join([]string{
		"First headline",
		"",
		"first headline ",
		"Second headline",
		"Третий заголовок",
		"   ",
		"Third headline",
	}, "\n")

	st, err := importTitles(context.Background(), a.titles, a.hasher, strings.NewReader(input), 3, "feed")
	require.NoError(t, err)
	assert.EqualValues(t, 3, st.Added)
	assert.EqualValues(t, 1, st.Duplicate)
	assert.EqualValues(t, 1, st.Rejected)
	assert.EqualValues(t, 3, a.titles.Count())

	res, err := a.hasher.Fingerprint("second headline")
	require.NoError(t, err)
	rec, err := a.titles.Get(res.Fingerprint)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "feed", rec.Source)
}

func TestBackupRestore(t *testing.T) {
	src := openTestStorage(t, testConfig(t))
	_, err := importTitles(context.Background(), src.titles, src.hasher,
		strings.NewReader("a\nb\nc\n"), 1, "test")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "titles.snapshot")
	n, err := backupTo(src.titles, path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	cfg := testConfig(t)
	cfg.Storage.Backend = "badger"
	dst := openTestStorage(t, cfg)
	n, err = restoreFrom(dst.titles, path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.EqualValues(t, 3, dst.titles.Count())

	n, err = restoreFrom(dst.titles, path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.EqualValues(t, 3, dst.titles.Count())

	_, err = restoreFrom(dst.titles, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCLIDigest(t *testing.T) {
	app := newCLI()
	app.Before = nil
	out := &bytes.Buffer{}
	app.Writer = out

	require.NoError(t, app.Run([]string{appName, "digest", "abc"}))
	assert.Equal(t, abcDigest+"\n", out.String())

	out.Reset()
	file := filepath.Join(t.TempDir(), "msg")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0o644))
	require.NoError(t, app.Run([]string{appName, "digest", "--file", file}))
	assert.Equal(t, abcDigest+"\n", out.String())
}
