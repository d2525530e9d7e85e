package main

import (
	"fmt"
	"os"

	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/util"
)

// configReloader re-reads the config file and swaps it into the engine. A
// config that fails to parse or validate is rejected: the engine keeps the
// last valid config and the reloader logs what changed since then.
type configReloader struct {
	path           string
	logger         *util.Logger
	engine         *engine.Engine
	lastConfig     *config.Config
	lastSerialized []byte
}

func newConfigReloader(path string, logger *util.Logger, eng *engine.Engine, cfg *config.Config, serialized []byte) *configReloader {
	return &configReloader{
		path:           path,
		logger:         logger,
		engine:         eng,
		lastConfig:     cfg,
		lastSerialized: append([]byte(nil), serialized...),
	}
}

func (r *configReloader) Reload(reason string) error {
	r.logger.Infof("%s, reloading config", reason)
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Parse(raw)
	if err != nil {
		r.logDiff(raw)
		return err
	}

	r.engine.Reload(cfg)
	r.engine.RunStartup(cfg.Startup, true)

	r.lastConfig = cfg
	r.lastSerialized = append([]byte(nil), raw...)
	return nil
}

func (r *configReloader) logDiff(current []byte) {
	diff := config.DiffSerialized(r.lastSerialized, current)
	if diff == "" {
		r.logger.Warnf("config change rejected; unable to compute diff vs last valid config")
		return
	}
	r.logger.Warnf("config change rejected; diff vs last valid config:\n%s", diff)
}
