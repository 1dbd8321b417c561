package cli

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volume-backup/src/config"
	"volume-backup/src/target"
)

// addGlobalFlags adds the persistent configuration flags to the root command.
// Defaults shown in help come from config.Default.
func addGlobalFlags(cmd *cobra.Command) {
	def := config.Default()
	fs := cmd.PersistentFlags()
	fs.String("config", "", "YAML configuration file")
	fs.StringP("engine", "d", def.Engine, "Path of the container engine executable (docker, podman)")
	fs.StringP("image", "i", def.Image, "Image used to run the tar helper container")
	fs.BoolP("stop-start", "s", def.StopStart, "Stop each container before its backup and restart it afterwards")
	fs.StringP("log-level", "l", def.LogLevel, "Log level: trace|debug|info|warn|error")
	fs.String("destination", def.Destination, "Archive destination (dir:/path or an absolute path)")
	fs.String("stderr", def.Stderr, "Engine stderr handling: inherit|suppress")
	fs.Bool("progress", def.Progress, "Report the number of archived files per mount")
	fs.String("report", def.Report, "Write a JSON run report to this file")
	fs.Bool("dry-run", def.DryRun, "Inspect containers but only log stop, run and start commands")
}

// loadConfig layers defaults, the config file, the environment and the
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, target.Target, error) {
	fs := cmd.Root().PersistentFlags()
	cfg := config.Default()
	if path, _ := fs.GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, target.Target{}, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	applyFlags(fs, &cfg)
	tgt, err := cfg.Validate()
	if err != nil {
		return cfg, target.Target{}, err
	}
	return cfg, tgt, nil
}

func applyFlags(fs *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}
	str("engine", &cfg.Engine)
	str("image", &cfg.Image)
	str("log-level", &cfg.LogLevel)
	str("destination", &cfg.Destination)
	str("stderr", &cfg.Stderr)
	str("report", &cfg.Report)
	boolean("stop-start", &cfg.StopStart)
	boolean("progress", &cfg.Progress)
	boolean("dry-run", &cfg.DryRun)
}

// newLogger returns a text logger on w at the configured level.
func newLogger(w io.Writer, cfg config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
