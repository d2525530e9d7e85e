package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/control"
	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/ipc"
	"github.com/geket/lamella/internal/session"
	"github.com/geket/lamella/internal/util"
)

// Build-time variable (set via ldflags).
var version = "dev"

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (default: standard locations)")
	logLevel := flag.String("log-level", "info", "log level (trace|debug|info|warn|error)")
	socketFlag := flag.String("socket", "", "control socket path (default from config)")
	adapterSocket := flag.String("adapter-socket", "", "serve a display adapter on this socket instead of running headless")
	dryRun := flag.Bool("dry-run", false, "log process spawns instead of executing them")
	noWatch := flag.Bool("no-watch", false, "do not watch the config file for changes")
	sessionDB := flag.String("session-db", "", "path to the session snapshot database")
	debugChecks := flag.Bool("debug-checks", false, "validate state invariants after every dispatch")
	flag.Parse()

	logger := util.NewLogger(util.ParseLogLevel(*logLevel))
	logger.Infof("lamella %s starting", version)

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	var (
		cfg *config.Config
		raw []byte
	)
	if path == "" {
		logger.Infof("no config file found, using defaults")
		def := config.Default()
		cfg = &def
	} else {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			exitErr(fmt.Errorf("read config: %w", err))
		}
		cfg, err = config.Parse(raw)
		if err != nil {
			exitErr(err)
		}
		logger.Infof("loaded config from %s", path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var display backend.Backend
	if *adapterSocket != "" {
		ln, err := ipc.Listen(*adapterSocket)
		if err != nil {
			exitErr(err)
		}
		defer ln.Close()
		logger.Infof("waiting for display adapter on %s", *adapterSocket)
		conn, err := ln.Accept()
		if err != nil {
			exitErr(fmt.Errorf("accept adapter: %w", err))
		}
		display = ipc.Serve(conn, logger)
		logger.Infof("display adapter attached")
	} else {
		display = backend.NewHeadless(logger, *dryRun)
		logger.Infof("running headless")
	}
	defer display.Close()

	eng := engine.New(display, *cfg, logger)
	eng.SetDebugChecks(*debugChecks)

	if *sessionDB != "" {
		store, err := session.Open(*sessionDB)
		if err != nil {
			exitErr(fmt.Errorf("open session store: %w", err))
		}
		defer store.Close()
		eng.SetSessionStore(store)
	}

	var reload func(reason string) error
	if path != "" {
		reloader := newConfigReloader(path, logger, eng, cfg, raw)
		reload = reloader.Reload
		eng.SetReloadFunc(func() error { return reload("reload command received") })
	}

	socketPath := *socketFlag
	if socketPath == "" {
		socketPath = cfg.SocketPath()
	}
	ctrlSrv := control.NewServer(eng, logger, socketPath, version, reload)

	reloadRequests := make(chan string, 1)
	if path != "" && !*noWatch {
		cfgFullPath, err := filepath.Abs(path)
		if err != nil {
			exitErr(fmt.Errorf("resolve config path: %w", err))
		}
		cfgFullPath = filepath.Clean(cfgFullPath)
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			exitErr(fmt.Errorf("watch config: %w", err))
		}
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(cfgFullPath)); err != nil {
			exitErr(fmt.Errorf("watch config dir: %w", err))
		}
		if err := watcher.Add(cfgFullPath); err != nil {
			logger.Debugf("unable to watch config file directly: %v", err)
		}
		go watchConfig(logger, watcher, cfgFullPath, reloadRequests)
	}

	eng.RunStartup(cfg.Startup, false)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	errs := make(chan error, 2)
	go func() { errs <- eng.Run(ctx) }()
	go func() { errs <- ctrlSrv.Serve(ctx) }()

	for {
		select {
		case err := <-errs:
			saveShutdownSession(eng, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("daemon exited: %v", err)
				os.Exit(1)
			}
			logger.Infof("daemon stopped")
			return
		case reason := <-reloadRequests:
			if err := reload(reason); err != nil {
				logger.Errorf("reload failed: %v", err)
			}
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				if reload == nil {
					logger.Warnf("no config file to reload")
					continue
				}
				if err := reload("received SIGHUP"); err != nil {
					logger.Errorf("reload failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Infof("received %s, shutting down", sig)
				cancel()
			}
		}
	}
}

func saveShutdownSession(eng *engine.Engine, logger *util.Logger) {
	rec, err := eng.SaveSession("shutdown")
	if err != nil {
		if !errors.Is(err, engine.ErrNoSessionStore) {
			logger.Warnf("save shutdown session: %v", err)
		}
		return
	}
	logger.Infof("session saved: %s", rec.ID)
}

func watchConfig(logger *util.Logger, watcher *fsnotify.Watcher, target string, reloadRequests chan<- string) {
	const debounceWindow = 250 * time.Millisecond
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(debounceWindow)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case reloadRequests <- "config file updated":
			default:
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warnf("config watcher error: %v", err)
		}
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
