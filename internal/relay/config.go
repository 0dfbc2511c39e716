// Package relay bridges JSON log emitters onto RFC 5424 syslog. It
// accepts events over HTTP, encodes them with the rfc5424 package,
// and forwards them to an upstream collector, spooling to disk while
// the upstream is down.
package relay

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/coffersTech/syslogkit/syslog"
)

// Config is the relay's TOML configuration file.
type Config struct {
	// ListenAddr is the HTTP ingest address, e.g. ":8514".
	ListenAddr string `toml:"listen_addr"`

	// Upstream destination for encoded messages.
	UpstreamNetwork string `toml:"upstream_network"` // "udp", "tcp", "unixgram", ...
	UpstreamAddr    string `toml:"upstream_addr"`

	// SpoolDir buffers messages on disk while the upstream is
	// unreachable.
	SpoolDir string `toml:"spool_dir"`

	// SpoolRetention bounds how long undelivered messages are kept,
	// e.g. "72h". Zero disables purging.
	SpoolRetention string `toml:"spool_retention"`

	// Defaults applied to events that do not carry the field.
	DefaultFacility string `toml:"default_facility"`
	DefaultAppName  string `toml:"default_app_name"`

	// TokenHashes are bcrypt hashes of accepted bearer tokens. An
	// empty list disables authentication (local deployments).
	TokenHashes []string `toml:"token_hashes"`
}

// LoadConfig reads and validates a TOML config file, filling
// defaults for optional fields.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ListenAddr:      ":8514",
		UpstreamNetwork: "udp",
		SpoolDir:        "spool",
		SpoolRetention:  "72h",
		DefaultFacility: "user",
		DefaultAppName:  "relay",
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load relay config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.UpstreamAddr == "" {
		return fmt.Errorf("relay config: upstream_addr is required")
	}
	if _, err := syslog.ParseFacility(c.DefaultFacility); err != nil {
		return fmt.Errorf("relay config: %w", err)
	}
	if c.SpoolRetention != "" {
		if _, err := time.ParseDuration(c.SpoolRetention); err != nil {
			return fmt.Errorf("relay config: invalid spool_retention: %w", err)
		}
	}
	return nil
}

// Retention returns the parsed spool retention, zero when disabled.
func (c Config) Retention() time.Duration {
	if c.SpoolRetention == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.SpoolRetention)
	return d
}

// Facility returns the parsed default facility.
func (c Config) Facility() syslog.Facility {
	f, _ := syslog.ParseFacility(c.DefaultFacility)
	return f
}
