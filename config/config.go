// Package config loads the console configuration from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Environment variables recognized as overrides.
const (
	EnvURL         = "IRIS_CONSOLE_URL"
	EnvSkipVerify  = "IRIS_CONSOLE_SKIP_VERIFY"
	EnvSessionPath = "IRIS_CONSOLE_SESSION_PATH"
)

// Duration is a time.Duration that unmarshals from a TOML string like "5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

type Config struct {
	// The URL of the Iris server.
	URL string `toml:"url"`

	// Timeout for API requests, zero means no timeout.
	Timeout Duration `toml:"timeout"`

	// Whether to skip https certificate verification.
	SkipVerify bool `toml:"skip-verify"`

	SSLCA   string `toml:"ssl-ca"`
	SSLCert string `toml:"ssl-cert"`
	SSLKey  string `toml:"ssl-key"`

	// Path to the boltdb file holding the session.
	SessionPath string `toml:"session-path"`
}

func NewConfig() Config {
	return Config{
		URL:         "http://localhost:9090",
		SessionPath: defaultSessionPath(),
	}
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./iris-console.db"
	}
	return filepath.Join(dir, "iris-console", "session.db")
}

// Load reads the config file at path, applied on top of the defaults.
// An empty path loads defaults only; a missing file at a non-empty path is
// an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	c := NewConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return c, errors.Wrapf(err, "reading config %q", path)
		}
	}
	c.applyEnv()
	return c, c.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvURL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(EnvSkipVerify); v != "" {
		c.SkipVerify = v == "true" || v == "1"
	}
	if v := os.Getenv(EnvSessionPath); v != "" {
		c.SessionPath = v
	}
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("must specify server 'url'")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return errors.Wrap(err, "invalid server url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported protocol scheme: %q", u.Scheme)
	}
	if c.SessionPath == "" {
		return fmt.Errorf("must specify 'session-path'")
	}
	return nil
}
