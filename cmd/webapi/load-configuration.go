package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"gopkg.in/yaml.v2"
)

// WebAPIConfiguration describes the web API configuration. Values are read, in order of precedence, from:
// command line arguments, environment variables prefixed with GALLERIA, an optional YAML file, and defaults.
type WebAPIConfiguration struct {
	Config struct {
		Path string `conf:"default:/conf/config.yml" yaml:"path"`
	} `yaml:"config"`
	Web struct {
		APIHost         string        `conf:"default:0.0.0.0:3000" yaml:"api-host"`
		ReadTimeout     time.Duration `conf:"default:5s" yaml:"read-timeout"`
		WriteTimeout    time.Duration `conf:"default:5s" yaml:"write-timeout"`
		ShutdownTimeout time.Duration `conf:"default:5s" yaml:"shutdown-timeout"`
	} `yaml:"web"`
	Debug bool `conf:"default:false" yaml:"debug"`
	DB    struct {
		Filename string `conf:"default:/tmp/galleria.db" yaml:"filename"`
	} `yaml:"db"`
}

// loadConfiguration creates a WebAPIConfiguration starting from flags, environment variables and
// the optional configuration file.
func loadConfiguration() (WebAPIConfiguration, error) {
	var cfg WebAPIConfiguration

	if err := conf.Parse(os.Args[1:], "GALLERIA", &cfg); err != nil {
		if err == conf.ErrHelpWanted {
			usage, err := conf.Usage("GALLERIA", &cfg)
			if err != nil {
				return cfg, fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return cfg, conf.ErrHelpWanted
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// override with the optional configuration file when one exists at the given path
	fd, err := os.Open(cfg.Config.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("opening the configuration file: %w", err)
	}
	defer func() { _ = fd.Close() }()

	if err = yaml.NewDecoder(fd).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding the configuration file: %w", err)
	}
	return cfg, nil
}
