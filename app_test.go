package main

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Storage.DataDir = t.TempDir()
	return cfg
}

// startTestApp serves cfg on a random port and returns a RESP2 client for it.
func startTestApp(t *testing.T, cfg *config.Config) (*App, *redis.Client) {
	t.Helper()
	a, err := NewApp(cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errSignal := make(chan error, 1)
	go a.server.Run(ctx, errSignal)
	require.NoError(t, <-errSignal)

	client := redis.NewClient(&redis.Options{Addr: a.server.Addr().String(), Protocol: 2})
	t.Cleanup(func() {
		client.Close()
		cancel()
		a.Close()
	})
	return a, client
}

func getTestConn(t *testing.T) *redis.Client {
	_, client := startTestApp(t, testConfig(t))
	return client
}
