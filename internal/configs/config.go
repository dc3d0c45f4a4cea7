// Package configs loads the optional CUE configuration file of the command
// line tools.
package configs

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/orizon-lang/goanalyzer/internal/errors"
)

//go:embed schema.cue
var schemaSrc string

// Config holds the settings a configuration file may provide. Command line
// flags override them.
type Config struct {
	Requires string
	Verbose  bool
	LogLevel string
	Format   string
	Color    bool
	Server   ServerConfig
	Watch    WatchConfig
}

type ServerConfig struct {
	Addr      string
	HTTP3Addr string
	CertFile  string
	KeyFile   string
}

type WatchConfig struct {
	DebounceMS int
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Format:   "text",
		Color:    true,
		Server: ServerConfig{
			Addr: ":8080",
		},
		Watch: WatchConfig{
			DebounceMS: 200,
		},
	}
}

// Load reads the configuration at path over the defaults and checks its
// version requirement against version. An empty path yields Default().
func Load(path, version string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	loader := NewLoader([]string{path}, schemaSrc)
	if err := loader.Err(); err != nil {
		return cfg, apperrors.InvalidConfig(path, err)
	}

	fields := []struct {
		path   string
		target any
	}{
		{"requires", &cfg.Requires},
		{"verbose", &cfg.Verbose},
		{"log_level", &cfg.LogLevel},
		{"format", &cfg.Format},
		{"color", &cfg.Color},
		{"server.addr", &cfg.Server.Addr},
		{"server.http3_addr", &cfg.Server.HTTP3Addr},
		{"server.cert_file", &cfg.Server.CertFile},
		{"server.key_file", &cfg.Server.KeyFile},
		{"watch.debounce_ms", &cfg.Watch.DebounceMS},
	}
	for _, f := range fields {
		if err := loader.AssignFirst(f.path, f.target); err != nil && !errors.Is(err, ErrValueNotFound) {
			return cfg, apperrors.InvalidConfig(path, fmt.Errorf("%s: %w", f.path, err))
		}
	}

	if err := CheckRequires(cfg.Requires, version); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CheckRequires reports whether version satisfies the semver constraint.
// An empty constraint accepts every version.
func CheckRequires(constraint, version string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	if !c.Check(v) {
		return apperrors.VersionMismatch(constraint, version)
	}
	return nil
}
