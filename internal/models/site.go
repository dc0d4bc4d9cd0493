package models

import "time"

// SiteConfig describes one target booking site. Loaded once at
// orchestrator start and immutable for the duration of a cycle.
type SiteConfig struct {
	ID             string        `json:"id" yaml:"id" toml:"id"`
	Name           string        `json:"name" yaml:"name" toml:"name"`
	BaseURL        string        `json:"base_url" yaml:"base_url" toml:"base_url"`
	Enabled        bool          `json:"enabled" yaml:"enabled" toml:"enabled"`
	DelayMin       time.Duration `json:"delay_min" yaml:"-" toml:"delay_min"`
	DelayMax       time.Duration `json:"delay_max" yaml:"-" toml:"delay_max"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"-" toml:"request_timeout"`
}
