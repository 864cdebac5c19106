// Package config loads the webui settings from a TOML file and the
// environment.
package config

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Prefix is prepended to every environment variable, e.g. WEBUI_LOG_LEVEL.
const Prefix = "webui"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	LogLevel string `split_words:"true" toml:"log_level"`
	LogJSON  bool   `split_words:"true" toml:"log_json"`

	// MaxHTMLSize bounds parsed HTML input in bytes.
	MaxHTMLSize int64 `split_words:"true" toml:"max_html_size"`
	Sanitize    bool  `toml:"sanitize"`

	// Visit is the default comma separated predicate list for walk.
	Visit     string `toml:"visit"`
	WalkLimit int    `split_words:"true" toml:"walk_limit"`

	// SortMethod is the net log sort used when a filter has none.
	SortMethod string `split_words:"true" toml:"sort_method"`
	TableWidth int    `split_words:"true" toml:"table_width"`
}

func Default() *Config {
	return &Config{
		LogLevel:    "info",
		MaxHTMLSize: 10 * 1024 * 1024,
		SortMethod:  "id",
		TableWidth:  120,
	}
}

// location names the optional TOML file.
type location struct {
	Config string
}

// Load returns the defaults, overlaid by the file named in WEBUI_CONFIG if
// set, overlaid by WEBUI_* variables.
func Load() (*Config, error) {
	var loc location
	if err := envconfig.Process(Prefix, &loc); err != nil {
		return nil, errors.Wrap(err, "reading config location")
	}
	return LoadFile(loc.Config)
}

// LoadFile is Load with an explicit file. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening config")
		}
		defer f.Close()
		if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
	}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalid, "log level %q", c.LogLevel)
	}
	if c.MaxHTMLSize < 0 {
		return errors.Wrapf(ErrInvalid, "max html size %d", c.MaxHTMLSize)
	}
	if c.WalkLimit < 0 {
		return errors.Wrapf(ErrInvalid, "walk limit %d", c.WalkLimit)
	}
	return nil
}
