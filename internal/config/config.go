/*
Package config
File: config.go
Description:
    Loads the telemetry core's runtime configuration from a YAML file,
    mirroring the teacher's universe.yaml / LoadConfig pattern: a single
    struct loaded once at startup, with sane defaults when the file (or
    individual fields) is absent.
*/
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SidecarFiles names the fixed set of sidecar files the core watches,
// keyed by logical name (see spec.md §6.1).
type SidecarFiles struct {
	Status     string `yaml:"status"`
	Cargo      string `yaml:"cargo"`
	NavRoute   string `yaml:"nav_route"`
	Market     string `yaml:"market"`
	Backpack   string `yaml:"backpack"`
	Modules    string `yaml:"modules"`
	Shipyard   string `yaml:"shipyard"`
	Outfitting string `yaml:"outfitting"`
}

// Telemetry is the root configuration document for the core.
type Telemetry struct {
	JournalDir        string        `yaml:"journal_dir"`
	Sidecars          SidecarFiles  `yaml:"sidecar_files"`
	ListenerCap       int           `yaml:"listener_cap"`
	JournalDebounceMs int           `yaml:"journal_debounce_ms"`
	SidecarDebounceMs int           `yaml:"sidecar_debounce_ms"`
	StatusDebounceMs  int           `yaml:"status_debounce_ms"`
	SubscriberBuffer  int           `yaml:"subscriber_buffer"`
	SessionTick       time.Duration `yaml:"-"`
}

// Default returns the baked-in configuration used when no file is present
// or a loaded file omits a field.
func Default() Telemetry {
	return Telemetry{
		JournalDir: ".",
		Sidecars: SidecarFiles{
			Status:     "Status.json",
			Cargo:      "Cargo.json",
			NavRoute:   "NavRoute.json",
			Market:     "Market.json",
			Backpack:   "Backpack.json",
			Modules:    "ModulesInfo.json",
			Shipyard:   "Shipyard.json",
			Outfitting: "Outfitting.json",
		},
		ListenerCap:       100,
		JournalDebounceMs: 200,
		SidecarDebounceMs: 50,
		StatusDebounceMs:  25,
		SubscriberBuffer:  256,
		SessionTick:       time.Second,
	}
}

// Load reads a YAML config file at path, overlaying it onto Default().
// A missing file is not an error: the defaults are returned as-is.
func Load(path string) (Telemetry, error) {
	cfg := Default()

	f, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(f, &cfg); err != nil {
		return cfg, err
	}
	fillDefaults(&cfg)
	return cfg, nil
}

// fillDefaults patches in baked-in values for any field the loaded YAML left
// at its zero value, the same way the teacher's LoadConfig re-derives
// defaults for a fresh player ship.
func fillDefaults(cfg *Telemetry) {
	def := Default()
	if cfg.JournalDir == "" {
		cfg.JournalDir = def.JournalDir
	}
	if cfg.Sidecars.Status == "" {
		cfg.Sidecars = def.Sidecars
	}
	if cfg.ListenerCap == 0 {
		cfg.ListenerCap = def.ListenerCap
	}
	if cfg.JournalDebounceMs == 0 {
		cfg.JournalDebounceMs = def.JournalDebounceMs
	}
	if cfg.SidecarDebounceMs == 0 {
		cfg.SidecarDebounceMs = def.SidecarDebounceMs
	}
	if cfg.StatusDebounceMs == 0 {
		cfg.StatusDebounceMs = def.StatusDebounceMs
	}
	if cfg.SubscriberBuffer == 0 {
		cfg.SubscriberBuffer = def.SubscriberBuffer
	}
	cfg.SessionTick = def.SessionTick
}

// JournalDebounce returns the configured journal-file debounce as a Duration.
func (t Telemetry) JournalDebounce() time.Duration {
	return time.Duration(t.JournalDebounceMs) * time.Millisecond
}

// SidecarDebounce returns the configured sidecar-file debounce as a Duration.
func (t Telemetry) SidecarDebounce() time.Duration {
	return time.Duration(t.SidecarDebounceMs) * time.Millisecond
}

// StatusDebounce returns the configured live-status file debounce as a Duration.
func (t Telemetry) StatusDebounce() time.Duration {
	return time.Duration(t.StatusDebounceMs) * time.Millisecond
}

// List returns the eight sidecar basenames in a stable order.
func (s SidecarFiles) List() []string {
	return []string{s.Status, s.Cargo, s.NavRoute, s.Market, s.Backpack, s.Modules, s.Shipyard, s.Outfitting}
}
