// Package config holds the startup configuration of a backup run.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"volume-backup/src/engine"
	"volume-backup/src/target"
)

// Stderr modes for the engine's standard error.
const (
	StderrInherit  = "inherit"
	StderrSuppress = "suppress"
)

// Environment variables read by ApplyEnv.
const (
	EnvEngine   = "VOLUME_BACKUP_ENGINE"
	EnvImage    = "VOLUME_BACKUP_IMAGE"
	EnvLogLevel = "VOLUME_BACKUP_LOG_LEVEL"
)

// Config is everything a run needs. Build it with Default and layer the
// file, environment and flags on top.
type Config struct {
	// Engine is the path of the container engine executable.
	Engine string `yaml:"engine"`
	// Image is the helper image that runs tar.
	Image string `yaml:"image"`
	// StopStart stops each container before its backup and starts it afterwards.
	StopStart bool   `yaml:"stop_start"`
	LogLevel  string `yaml:"log_level"`
	// Destination is where archives are written, "dir:/path" or an absolute path.
	Destination string `yaml:"destination"`
	// Stderr is StderrInherit or StderrSuppress.
	Stderr string `yaml:"stderr"`
	// Progress streams tar's file listing to a progress reporter.
	Progress bool `yaml:"progress"`
	// Report is an optional path for the JSON run report.
	Report string `yaml:"report"`
	// ListArgs overrides the arguments used to list running containers.
	ListArgs []string `yaml:"list_args"`
	DryRun   bool     `yaml:"dry_run"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	cwd, _ := os.Getwd()
	return Config{
		Engine:      "/usr/bin/docker",
		Image:       "ubuntu",
		StopStart:   false,
		LogLevel:    "info",
		Destination: cwd,
		Stderr:      StderrInherit,
		ListArgs:    append([]string(nil), engine.DefaultListArgs...),
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotate(err, "read config file")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Annotatef(err, "parse config file %s", path)
	}
	return nil
}

// ApplyEnv overlays the environment variables onto c. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvEngine); ok && v != "" {
		c.Engine = v
	}
	if v, ok := lookup(EnvImage); ok && v != "" {
		c.Image = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration and returns the parsed destination.
func (c *Config) Validate() (target.Target, error) {
	if strings.TrimSpace(c.Engine) == "" {
		return target.Target{}, errors.NotValidf("engine path %q", c.Engine)
	}
	if strings.TrimSpace(c.Image) == "" {
		return target.Target{}, errors.NotValidf("helper image %q", c.Image)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return target.Target{}, errors.NotValidf("log level %q", c.LogLevel)
	}
	switch c.Stderr {
	case StderrInherit, StderrSuppress:
	default:
		return target.Target{}, errors.NotValidf("stderr mode %q", c.Stderr)
	}
	if len(c.ListArgs) == 0 {
		return target.Target{}, errors.NotValidf("empty list arguments")
	}
	tgt, err := target.Parse(c.Destination)
	if err != nil {
		return target.Target{}, errors.Trace(err)
	}
	return tgt, nil
}
