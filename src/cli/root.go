package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"volume-backup/src/backup"
	"volume-backup/src/config"
	"volume-backup/src/engine"
	"volume-backup/src/version"
)

// Exit codes returned by Execute.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitSetup  = 2
)

// BatchError reports a finished run in which some containers failed.
type BatchError struct {
	Failed int
	Total  int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("backup failed for %d of %d containers", e.Failed, e.Total)
}

// RunnerFactory builds the engine runner for a configuration.
type RunnerFactory func(cfg config.Config, stderr io.Writer, log logrus.FieldLogger) engine.Runner

func defaultRunner(cfg config.Config, stderr io.Writer, log logrus.FieldLogger) engine.Runner {
	if cfg.Stderr == config.StderrSuppress {
		stderr = nil
	}
	return engine.NewCLI(cfg.Engine, stderr, log)
}

// NewRootCmd returns the root cobra command for the volume-backup CLI.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return NewRootCmdWithRunner(stdout, stderr, defaultRunner)
}

// NewRootCmdWithRunner is NewRootCmd with a custom engine runner.
func NewRootCmdWithRunner(stdout, stderr io.Writer, newRunner RunnerFactory) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	cmd := &cobra.Command{
		Use:   "volume-backup",
		Short: "Back up the volumes of all running containers to tar archives",
		Long: `Back up the volumes of all running containers.

Every mount of every running container is archived by a short-lived helper
container into <destination>/<container><mount with / replaced by _>.tar.
Helper containers are labelled type=backupcontainer and never backed up.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, stderr, newRunner)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	addGlobalFlags(cmd)

	// Subcommands
	cmd.AddCommand(newVersionCmd(stdout))
	cmd.AddCommand(newListCmd(stdout, stderr, newRunner))

	return cmd
}

func runBackup(cmd *cobra.Command, stderr io.Writer, newRunner RunnerFactory) error {
	cfg, tgt, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(stderr, cfg)
	log.Infof("volume-backup %s", version.Version)
	if err := tgt.Check(); err != nil {
		return err
	}

	runner := newRunner(cfg, stderr, log)
	if cfg.DryRun {
		runner = &engine.DryRun{Next: runner, Log: log}
	}
	opts := backup.Options{
		Image:     cfg.Image,
		DestDir:   tgt.DirPath,
		StopStart: cfg.StopStart,
	}
	if cfg.Progress {
		opts.Progress = stderr
	}
	orch := backup.New(engine.NewClient(runner, cfg.ListArgs), opts, log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := orch.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Cannot list running containers")
		return err
	}
	var reportErr error
	if cfg.Report != "" {
		if reportErr = backup.WriteReport(cfg.Report, report); reportErr != nil {
			log.WithError(reportErr).Errorf("Writing report %s failed", cfg.Report)
		}
	}

	skipped := 0
	for _, o := range report.Outcomes {
		if o.Skipped && !o.Failed() {
			skipped++
		}
	}
	total := len(report.Outcomes) + len(report.Unprocessed)
	log.Infof("Processed %d containers: %d skipped, %d failed", total, skipped, report.FailedCount())
	if report.Failed() {
		return &BatchError{Failed: report.FailedCount() + len(report.Unprocessed), Total: total}
	}
	// a failed batch exits 1 even when the report could not be written
	return reportErr
}

// ExitCode maps the error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var be *BatchError
	if errors.As(err, &be) {
		return ExitFailed
	}
	return ExitSetup
}

// Execute runs the CLI with the process stdio. SIGINT and SIGTERM stop the
// run after the container in progress.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitCode(err)
	}
	return ExitOK
}
