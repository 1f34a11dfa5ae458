// Package mirror copies new fingerprints into a Redis set shared by every
// dedup node and answers whether a fingerprint is already in it.
package mirror

import (
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

var ErrClosed = errors.New("mirror closed")

type Options struct {
	Addr        string
	Key         string
	QueueSize   int
	MaxRetries  int
	PoolSize    int
	ConnTimeout time.Duration
	// First retry delay; doubled on every further attempt.
	RetryInterval time.Duration
}

type Mirror struct {
	pool *redis.Pool
	opts Options

	// OnResult is called after every push attempt sequence.
	OnResult func(fp string, err error)

	mu     sync.RWMutex
	closed bool
	queue  chan string
	done   chan struct{}
}

func New(opts Options) *Mirror {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 100 * time.Millisecond
	}
	if opts.ConnTimeout <= 0 {
		opts.ConnTimeout = time.Second
	}

	m := &Mirror{
		opts:  opts,
		queue: make(chan string, opts.QueueSize),
		done:  make(chan struct{}),
	}
	m.pool = &redis.Pool{
		MaxIdle:     opts.PoolSize,
		MaxActive:   opts.PoolSize,
		IdleTimeout: 5 * time.Minute,
		Wait:        true,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", opts.Addr,
				redis.DialConnectTimeout(opts.ConnTimeout),
				redis.DialReadTimeout(opts.ConnTimeout),
				redis.DialWriteTimeout(opts.ConnTimeout))
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	utils.GoWithRecover(m.run, nil)
	return m
}

// Publish queues fp for the upstream set. It never blocks: when the queue is
// full the fingerprint is dropped and false is returned.
func (m *Mirror) Publish(fp string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	select {
	case m.queue <- fp:
		return true
	default:
		logrus.Warnf("mirror queue full, dropping fingerprint %s", fp)
		return false
	}
}

// Seen reports whether fp is in the upstream set.
func (m *Mirror) Seen(fp string) (bool, error) {
	conn := m.pool.Get()
	defer conn.Close()
	return redis.Bool(conn.Do("SISMEMBER", m.opts.Key, fp))
}

func (m *Mirror) Ping() error {
	conn := m.pool.Get()
	defer conn.Close()
	_, err := redis.String(conn.Do("PING"))
	return err
}

// Pending returns the number of queued fingerprints.
func (m *Mirror) Pending() int {
	return len(m.queue)
}

// Close stops accepting fingerprints, pushes what is queued and releases the
// pool.
func (m *Mirror) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	<-m.done
	return m.pool.Close()
}

func (m *Mirror) run() {
	defer close(m.done)
	for fp := range m.queue {
		err := m.push(fp)
		if err != nil {
			logrus.Errorf("mirror push %s: %v", fp, err)
		}
		if m.OnResult != nil {
			m.OnResult(fp, err)
		}
	}
}

func (m *Mirror) push(fp string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.opts.RetryInterval
	b.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		conn := m.pool.Get()
		defer conn.Close()
		_, err := conn.Do("SADD", m.opts.Key, fp)
		return err
	}, backoff.WithMaxRetries(b, uint64(m.opts.MaxRetries)))
}
