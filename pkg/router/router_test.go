package router

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
)

func args(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func echo(c *Context) error {
	c.Reply = string(c.Args[1])
	return nil
}

func TestHandleDispatch(t *testing.T) {
	r := New()
	r.AddCommand("ECHO", echo)

	reply, err := r.Handle("conn-1", args("echo", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}

func TestHandleAlias(t *testing.T) {
	r := New()
	r.AddCommand("SHA256", func(c *Context) error {
		c.Reply = c.Cmd
		return nil
	})

	reply, err := r.Handle("c", args("sha256sum", "x"))
	require.NoError(t, err)
	assert.Equal(t, "SHA256", reply)
}

func TestHandleErrors(t *testing.T) {
	r := New()
	r.AddCommand("ECHO", echo)

	_, err := r.Handle("c", args("nope"))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Equal(t, "unknown command 'NOPE'", err.Error())

	_, err = r.Handle("c", args("SHA256", "x"))
	assert.True(t, errors.Is(err, ErrUnknownCommand), "op known but not registered")

	_, err = r.Handle("c", args("FLUSHALL"))
	assert.True(t, errors.Is(err, ErrUnknownCommand))

	_, err = r.Handle("c", args("ECHO"))
	assert.True(t, errors.Is(err, ErrArguments))
	assert.Equal(t, "wrong number of arguments for 'ECHO' command", err.Error())

	_, err = r.Handle("c", nil)
	assert.True(t, errors.Is(err, ErrEmptyCommand))
}

func TestHandlePanic(t *testing.T) {
	r := New()
	r.AddCommand("ECHO", func(c *Context) error {
		panic("boom")
	})

	_, err := r.Handle("c", args("ECHO", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAddCommandUnknownPanics(t *testing.T) {
	assert.Panics(t, func() {
		New().AddCommand("NOT-IN-TABLE", echo)
	})
}

func TestMiddlewareOrder(t *testing.T) {
	r := New()
	var trace []string
	r.Use(func(c *Context) error {
		trace = append(trace, "first")
		err := c.Next()
		trace = append(trace, "first-after")
		return err
	}, func(c *Context) error {
		trace = append(trace, "second")
		return c.Next()
	})
	r.AddCommand("ECHO", func(c *Context) error {
		trace = append(trace, "handler")
		return echo(c)
	})

	_, err := r.Handle("c", args("ECHO", "x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "handler", "first-after"}, trace)
}

func TestIgnoreCMDMiddleware(t *testing.T) {
	r := New()
	called := false
	r.Use(IgnoreCMDMiddleware(true, []string{"TITLEDEL"}))
	r.AddCommand("TITLEDEL", func(c *Context) error {
		called = true
		return nil
	})
	r.AddCommand("ECHO", echo)

	_, err := r.Handle("c", args("titledel", "x"))
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.False(t, called)

	reply, err := r.Handle("c", args("ECHO", "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestMonitorMiddleware(t *testing.T) {
	mon := monitor.New(monitor.SlowQueryConfS{Enable: true, SlowQueryTimeThreshold: 5}, nil)
	r := New()
	r.Use(MonitorMiddleware(mon, []string{"PING"}))
	r.AddCommand("ECHO", echo)
	r.AddCommand("PING", func(c *Context) error {
		time.Sleep(10 * time.Millisecond)
		c.Reply = "PONG"
		return nil
	})
	r.AddCommand("TITLECOUNT", func(c *Context) error {
		time.Sleep(10 * time.Millisecond)
		return errors.New("store closed")
	})

	_, err := r.Handle("c", args("ECHO", "x"))
	require.NoError(t, err)
	_, err = r.Handle("c", args("PING"))
	require.NoError(t, err)
	_, err = r.Handle("c", args("TITLECOUNT"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(mon.CommandsTotal.WithLabelValues("ECHO", monitor.StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(mon.CommandsTotal.WithLabelValues("TITLECOUNT", monitor.StatusErr)))

	slow := mon.GetSlowQueryData()
	require.Len(t, slow, 1)
	assert.Equal(t, []string{"TITLECOUNT"}, slow[0].Args)
}

func TestOpFlag(t *testing.T) {
	assert.False(t, OpTable["TITLEADD"].Flag.IsReadOnly())
	assert.True(t, OpTable["SHA256"].Flag.IsReadOnly())
	assert.True(t, OpTable["MONITOR"].Flag.IsNotAllowed())
	assert.True(t, OpTable["TITLESCAN"].ArgsVerify(4))
	assert.False(t, OpTable["TITLESCAN"].ArgsVerify(5))
}
