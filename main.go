package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/urfave/cli"

	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/config"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
	"github.com/IceFireDB/IceFireDB-Fingerprint/utils"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		logrus.Errorf("failed to run application: %v", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "news title fingerprinting and deduplication over the redis protocol"
	app.Version = BuildVersion
	app.Flags = globalFlags
	app.Before = initConfig
	app.Action = start
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "run the RESP server (default)",
			Action: start,
		},
		{
			Name:      "digest",
			Usage:     "print the SHA-256 digest of a message, a file or stdin",
			ArgsUsage: "[message]",
			Flags:     digestFlags,
			Action:    digestAction,
		},
		{
			Name:      "fingerprint",
			Usage:     "print the fingerprint and multihash of a title",
			ArgsUsage: "title",
			Action:    fingerprintAction,
		},
		{
			Name:   "import",
			Usage:  "add titles to the store, one per line",
			Flags:  importFlags,
			Action: importAction,
		},
		{
			Name:   "backup",
			Usage:  "write a snapshot of the store",
			Flags:  backupFlags,
			Action: backupAction,
		},
		{
			Name:   "restore",
			Usage:  "load a snapshot into the store",
			Flags:  restoreFlags,
			Action: restoreAction,
		},
	}
	return app
}

func initConfig(c *cli.Context) error {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return err
	}

	file := c.String("config")
	if _, err := os.Stat(file); os.IsNotExist(err) && !c.IsSet("config") {
		file = ""
	}

	overrides := map[string]string{
		"addr":            "server.addr",
		"data-dir":        "storage.data_dir",
		"storage-backend": "storage.backend",
		"log-level":       "log.level",
	}
	for flag, key := range overrides {
		if c.IsSet(flag) {
			viper.Set(key, c.String(flag))
		}
	}

	if err := config.InitConfig(file); err != nil {
		return err
	}
	config.ConfigureLogger(config.Get().Log)
	return nil
}

func start(c *cli.Context) error {
	printBanner(os.Stdout)
	cfg := config.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := NewApp(cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	debug(cfg)
	if cfg.PrometheusExporter.Enable {
		monitor.RunPrometheusExporter(ctx, a.mon, &monitor.ExporterConf{
			Enable:  true,
			Host:    cfg.PrometheusExporter.Host,
			Address: cfg.PrometheusExporter.Address,
		})
	}

	wg := sync.WaitGroup{}
	errSignal := make(chan error, 1)
	wg.Add(1)
	utils.GoWithRecover(func() {
		defer wg.Done()
		a.server.Run(ctx, errSignal)
	}, nil)
	if err := <-errSignal; err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	for sig := range sigs {
		switch sig {
		case syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT:
			logrus.Info("Received shutdown signal, initiating graceful shutdown...")
			cancel()

			ok := make(chan struct{})
			go func() {
				wg.Wait()
				close(ok)
			}()
			select {
			case <-ok:
				logrus.Info("All goroutines have gracefully shut down.")
			case <-time.After(time.Second * 5):
				logrus.Warn("Context deadline exceeded, forcing shutdown.")
			}
			return nil
		case syscall.SIGHUP:
			logrus.Info("Received SIGHUP signal, reload is not supported.")
		}
	}
	return nil
}

func debug(cfg *config.Config) {
	if cfg.PprofDebug.Enable {
		utils.GoWithRecover(func() {
			addr := ":" + strconv.Itoa(int(cfg.PprofDebug.Port))
			if err := http.ListenAndServe(addr, nil); err != nil {
				logrus.Errorf("pprof: %v", err)
			}
		}, nil)
	}
}
