package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"sixcardgolf/internal/util"
)

// Duration wraps time.Duration so it can be parsed from "10s" form in
// both the YAML file and environment variables
type Duration time.Duration

// D returns the wrapped time.Duration
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.D().String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}

	*d = Duration(val)
	return nil
}

// Decode implements envconfig.Decoder
func (d *Duration) Decode(value string) error {
	val, err := time.ParseDuration(value)
	if err != nil {
		return err
	}

	*d = Duration(val)
	return nil
}

// Config provides configuration for Six-Card Golf peers and the tracker
type Config struct {
	loaded bool

	// Tracker is the host:port of the directory service
	Tracker string `yaml:"tracker" envconfig:"tracker"`

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}

	// protocol timeouts; every blocking wait in the protocol degrades
	// gracefully past its timeout instead of stalling the game
	Timeout struct {
		// Directory bounds a tracker request/response exchange
		Directory Duration `yaml:"directory" envconfig:"directory"`
		// Steal bounds the wait for a steal_response
		Steal Duration `yaml:"steal" envconfig:"steal"`
		// Scores bounds the dealer's wait for hole score replies
		Scores Duration `yaml:"scores" envconfig:"scores"`
		// HoleOver bounds a participant's wait for the end_hole signal
		HoleOver Duration `yaml:"holeOver" envconfig:"hole_over"`
	}

	// DisplayPause is how long results stay on screen between holes
	DisplayPause Duration `yaml:"displayPause" envconfig:"display_pause"`
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. The YAML file is optional; defaults
// plus SCG_* environment variables are enough to run.
func Load() error {
	config = Config{}

	configFile := util.Getenv("SCG_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close() // nolint:errcheck
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("scg", &config); err != nil {
		return err
	}

	applyDefaults(&config)
	config.loaded = true
	return nil
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() Config {
	var c Config
	applyDefaults(&c)
	return c
}

func applyDefaults(c *Config) {
	if c.Tracker == "" {
		c.Tracker = "127.0.0.1:1500"
	}

	if c.Timeout.Directory == 0 {
		c.Timeout.Directory = Duration(5 * time.Second)
	}

	if c.Timeout.Steal == 0 {
		c.Timeout.Steal = Duration(10 * time.Second)
	}

	if c.Timeout.Scores == 0 {
		c.Timeout.Scores = Duration(30 * time.Second)
	}

	if c.Timeout.HoleOver == 0 {
		c.Timeout.HoleOver = Duration(30 * time.Second)
	}

	if c.DisplayPause == 0 {
		c.DisplayPause = Duration(10 * time.Second)
	}
}
