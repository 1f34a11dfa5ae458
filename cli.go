package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/config"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/fingerprint"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/sha256"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/titlestore"
)

// maxTitleLen bounds a single import line.
const maxTitleLen = 1 << 20

func digestMessage(raw bool, msg string) (string, error) {
	if raw {
		return sha256.DigestBytes([]byte(msg)), nil
	}
	return sha256.Digest(msg)
}

func digestReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func openInput(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}

func digestAction(c *cli.Context) error {
	if file := c.String("file"); file != "" {
		f, err := openInput(file)
		if err != nil {
			return err
		}
		defer f.Close()
		d, err := digestReader(f)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, d)
		return nil
	}
	if c.NArg() != 1 {
		return cli.NewExitError("digest takes exactly one message or --file", 2)
	}
	d, err := digestMessage(c.Bool("raw"), c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, d)
	return nil
}

func fingerprintAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("fingerprint takes exactly one title", 2)
	}
	h := newHasher(config.Get())
	res, err := h.Fingerprint(c.Args().First())
	if err != nil {
		return err
	}
	mh, err := fingerprint.EncodeMultihash(res.Fingerprint)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "normalized: %s\nfingerprint: %s\nmultihash: %s\n", res.Normalized, res.Fingerprint, mh)
	return nil
}

type importStats struct {
	Added     int64
	Duplicate int64
	Rejected  int64
}

// importTitles adds every non blank line of r as a title. Lines that cannot
// be fingerprinted are counted and skipped; storage errors stop the import.
func importTitles(ctx context.Context, titles *titlestore.Store, h *fingerprint.Hasher, r io.Reader, workers int, source string) (importStats, error) {
	if workers <= 0 {
		workers = 1
	}
	var added, duplicate, rejected atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	lines := make(chan string, workers*2)

	g.Go(func() error {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxTitleLen)
		for sc.Scan() {
			line := sc.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return sc.Err()
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for line := range lines {
				res, err := h.Fingerprint(line)
				if err != nil {
					logrus.Debugf("skip title %q: %v", line, err)
					rejected.Inc()
					continue
				}
				ok, err := titles.AddIfAbsent(titlestore.Record{
					Fingerprint: res.Fingerprint,
					Title:       line,
					Normalized:  res.Normalized,
					Source:      source,
				})
				if err != nil {
					return err
				}
				if ok {
					added.Inc()
				} else {
					duplicate.Inc()
				}
			}
			return nil
		})
	}

	err := g.Wait()
	return importStats{
		Added:     added.Load(),
		Duplicate: duplicate.Load(),
		Rejected:  rejected.Load(),
	}, err
}

func importAction(c *cli.Context) error {
	cfg := config.Get()
	db, titles, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	in, err := openInput(c.String("file"))
	if err != nil {
		return err
	}
	defer in.Close()

	st, err := importTitles(context.Background(), titles, newHasher(cfg), in, c.Int("workers"), c.String("source"))
	logrus.Infof("import: %d added, %d duplicate, %d rejected", st.Added, st.Duplicate, st.Rejected)
	return err
}

// backupTo writes a snapshot of titles to path through a temporary file so a
// failed backup never truncates an older one.
func backupTo(titles *titlestore.Store, path string) (int64, error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	n, err := titles.Snapshot(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}
	return n, os.Rename(tmp, path)
}

func restoreFrom(titles *titlestore.Store, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return titles.Restore(f)
}

func backupAction(c *cli.Context) error {
	db, titles, err := openStorage(config.Get())
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := backupTo(titles, c.String("out"))
	if err != nil {
		return err
	}
	logrus.Infof("backup: %d fingerprints written to %s", n, c.String("out"))
	return nil
}

func restoreAction(c *cli.Context) error {
	db, titles, err := openStorage(config.Get())
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := restoreFrom(titles, c.String("in"))
	if errors.Is(err, os.ErrNotExist) {
		return cli.NewExitError(fmt.Sprintf("snapshot %s not found", c.String("in")), 1)
	}
	if err != nil {
		return err
	}
	logrus.Infof("restore: %d records read from %s", n, c.String("in"))
	return nil
}
