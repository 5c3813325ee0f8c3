package main

import (
	"time"

	"github.com/rs/zerolog"

	"lanpresence/internal/logger"
)

// windowSetter is the live-tunable part of the presence service
type windowSetter interface {
	SetFreshnessWindow(window time.Duration)
}

// reloader re-reads the config file and applies the settings that can change
// without a restart. Listener, store and eviction settings need a restart.
type reloader struct {
	opts     *options
	presence windowSetter
	setLevel func(zerolog.Level)
	log      zerolog.Logger
}

func (r *reloader) reload() {
	cfg, _, err := loadConfig(r.opts)
	if err != nil {
		r.log.Error().Err(err).Msg("Ignoring config change")
		return
	}

	level, err := logger.ParseLevel(cfg.Log)
	if err != nil {
		r.log.Error().Err(err).Msg("Ignoring config change")
		return
	}

	r.setLevel(level)
	r.presence.SetFreshnessWindow(cfg.Presence.FreshnessWindow.Duration())

	r.log.Info().
		Str("level", level.String()).
		Dur("freshness_window", cfg.Presence.FreshnessWindow.Duration()).
		Msg("Config reloaded")
}
