package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/IceFireDB/IceFireDB-Fingerprint/driver"
	_ "github.com/IceFireDB/IceFireDB-Fingerprint/driver/badger"
	_ "github.com/IceFireDB/IceFireDB-Fingerprint/driver/hybriddb"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/config"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/fingerprint"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/mirror"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/monitor"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/router"
	"github.com/IceFireDB/IceFireDB-Fingerprint/pkg/titlestore"
	"github.com/IceFireDB/IceFireDB-Fingerprint/server"
)

type commandFunc func(a *App, c *router.Context) error

var commands = map[string]commandFunc{}

// addCommand is called from init by every command file.
func addCommand(name string, fn commandFunc) {
	if _, ok := commands[name]; ok {
		panic(fmt.Sprintf("command %s registered twice", name))
	}
	commands[name] = fn
}

type App struct {
	cfg     *config.Config
	db      driver.IDB
	titles  *titlestore.Store
	hasher  *fingerprint.Hasher
	mirror  *mirror.Mirror
	mon     *monitor.Monitor
	router  *router.Router
	server  *server.Server
	started time.Time

	closeOnce sync.Once
}

// openStorage opens the configured driver and the title store on top of it.
func openStorage(cfg *config.Config) (driver.IDB, *titlestore.Store, error) {
	dcfg := driver.DefaultConfig()
	dcfg.HotCacheSize = cfg.Storage.HotCacheSize
	dcfg.Compression = cfg.Storage.Compression

	path := filepath.Join(cfg.Storage.DataDir, cfg.Storage.Backend)
	db, err := driver.Open(cfg.Storage.Backend, path, dcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage at %s: %w", cfg.Storage.Backend, path, err)
	}

	titles, err := titlestore.Open(db, titlestore.Options{
		SlotNum:    cfg.Storage.SlotNum,
		SyncWrites: cfg.Storage.SyncWrites,
	})
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, titles, nil
}

func newHasher(cfg *config.Config) *fingerprint.Hasher {
	return fingerprint.New(fingerprint.WithUTF8(cfg.Fingerprint.EncodeUTF8))
}

// NewApp wires storage, the mirror, metrics and the command router. reg may
// be nil for a private metrics registry.
func NewApp(cfg *config.Config, reg *prometheus.Registry) (*App, error) {
	a := &App{
		cfg:     cfg,
		hasher:  newHasher(cfg),
		started: time.Now(),
	}

	var err error
	a.db, a.titles, err = openStorage(cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("storage %s opened with %d fingerprints", cfg.Storage.Backend, a.titles.Count())

	a.mon = monitor.New(monitor.SlowQueryConfS{
		Enable:                 cfg.SlowQuery.Enable,
		SlowQueryTimeThreshold: cfg.SlowQuery.Threshold,
		MaxListSize:            cfg.SlowQuery.MaxListSize,
	}, reg)

	if cfg.Mirror.Enable {
		a.mirror = mirror.New(mirror.Options{
			Addr:        cfg.Mirror.Addr,
			Key:         cfg.Mirror.Key,
			QueueSize:   cfg.Mirror.QueueSize,
			MaxRetries:  cfg.Mirror.MaxRetries,
			PoolSize:    cfg.Mirror.PoolSize,
			ConnTimeout: time.Duration(cfg.Mirror.ConnTimeout) * time.Millisecond,
		})
		a.mirror.OnResult = func(_ string, err error) {
			a.mon.ObserveMirror(err)
		}
		if err := a.mirror.Ping(); err != nil {
			logrus.Warnf("mirror upstream %s unreachable: %v", cfg.Mirror.Addr, err)
		}
	}

	a.router = router.New()
	a.router.Use(
		router.IgnoreCMDMiddleware(cfg.IgnoreCMD.Enable, cfg.IgnoreCMD.CMDList),
		router.MonitorMiddleware(a.mon, []string{"INFO", "COMMAND"}),
	)
	for _, name := range commandNames() {
		fn := commands[name]
		a.router.AddCommand(name, func(c *router.Context) error {
			return fn(a, c)
		})
	}

	a.server = server.New(cfg.Server.Addr, a.router, a.mon)
	return a, nil
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close stops the listener, drains the mirror and closes storage.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		_ = a.server.Close()
		if a.mirror != nil {
			if mErr := a.mirror.Close(); mErr != nil {
				logrus.Errorf("close mirror: %v", mErr)
			}
		}
		err = a.db.Close()
	})
	return err
}
