// Package backup archives the mounts of running containers through the
// container engine CLI.
package backup

import (
	"context"
	"io"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"volume-backup/src/engine"
)

// Engine is the engine surface the orchestrator drives. *engine.Client
// implements it.
type Engine interface {
	ListRunning(ctx context.Context) ([]engine.ContainerSummary, error)
	Inspect(ctx context.Context, name string) (engine.ContainerDetail, error)
	Stop(ctx context.Context, id string) error
	Start(ctx context.Context, id string) error
	RunContainer(ctx context.Context, args []string, stdout io.Writer) error
}

// Options controls a backup run.
type Options struct {
	// Image is the helper image running tar.
	Image string
	// DestDir is the absolute host directory receiving the archives.
	DestDir string
	// StopStart brackets each backup with stop and start.
	StopStart bool
	// Progress receives tar progress lines. Nil disables progress output.
	Progress io.Writer
}

// Outcome is the result of backing up one container.
type Outcome struct {
	Name string
	ID   string
	// Skipped is set for helper containers.
	Skipped bool
	// Archives lists the archive filenames written, in mount order.
	Archives []string
	// FailedMounts lists the mount destinations whose archive failed.
	FailedMounts []string
	// Err is an inspect or lifecycle failure.
	Err error
}

// Failed reports whether any part of the container's backup failed.
func (o Outcome) Failed() bool {
	return o.Err != nil || len(o.FailedMounts) > 0
}

// Report aggregates a whole run.
type Report struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Destination string
	Outcomes    []Outcome
	// Unprocessed lists containers left out because the run was cancelled.
	Unprocessed []string
}

// FailedCount returns the number of failed containers.
func (r Report) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Failed reports whether the run as a whole failed.
func (r Report) Failed() bool {
	return r.FailedCount() > 0 || len(r.Unprocessed) > 0
}

// Orchestrator runs a backup batch.
type Orchestrator struct {
	engine   Engine
	opts     Options
	archiver *Archiver
	log      logrus.FieldLogger
	now      func() time.Time
}

// New returns an Orchestrator driving e.
func New(e Engine, opts Options, log logrus.FieldLogger) *Orchestrator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Orchestrator{
		engine: e,
		opts:   opts,
		archiver: &Archiver{
			Engine:   e,
			Image:    opts.Image,
			DestDir:  opts.DestDir,
			Progress: opts.Progress,
		},
		log: log,
		now: time.Now,
	}
}

// Run backs up every running container in listing order. The returned
// error is non-nil only when the running containers cannot be listed;
// per-container failures are recorded in the Report.
//
// Cancelling ctx stops the batch between containers. The container in
// progress always completes its stop, archive and start steps.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	report := Report{StartedAt: o.now(), Destination: o.opts.DestDir}
	containers, err := o.engine.ListRunning(ctx)
	if err != nil {
		return report, errors.Annotate(err, "list running containers")
	}
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		names = append(names, c.Name)
	}
	o.log.Infof("Found containers: %v", names)

	// engine calls for a container in progress ignore cancellation
	work := context.WithoutCancel(ctx)
	for i, c := range containers {
		if ctx.Err() != nil {
			report.Unprocessed = names[i:]
			o.log.Warnf("Run cancelled, %d containers not processed: %v", len(report.Unprocessed), report.Unprocessed)
			break
		}
		out := o.BackupContainer(work, c)
		log := o.log.WithField("container", c.Name)
		if out.Failed() {
			log.Errorf("Error backing up container %s", c.Name)
		} else if !out.Skipped {
			log.Infof("Backup of container %s done.", c.Name)
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	report.FinishedAt = o.now()
	return report, nil
}

// BackupContainer inspects one container and, unless it is a helper,
// archives all of its mounts.
func (o *Orchestrator) BackupContainer(ctx context.Context, c engine.ContainerSummary) Outcome {
	out := Outcome{Name: c.Name}
	log := o.log.WithField("container", c.Name)

	log.Infof("Getting container information for %s", c.Name)
	detail, err := o.engine.Inspect(ctx, c.Name)
	if err != nil {
		if engine.IsKind(err, engine.MissingData) {
			log.Error("Response from inspect is wrong (no data returned)")
		} else {
			log.WithError(err).Error("Inspect failed")
		}
		out.Err = errors.Annotatef(err, "inspect %s", c.Name)
		return out
	}
	out.ID = detail.ID
	log.Debugf("Inspect: %+v", detail)

	if IsHelper(detail) {
		log.Info("Skipping this container as it is a backup container")
		out.Skipped = true
		return out
	}

	log.Info("Start backup of volumes")
	if o.opts.StopStart {
		log.Info("Stopping container")
		if err := o.engine.Stop(ctx, detail.ID); err != nil {
			log.WithError(err).Error("Stopping container failed, backup abandoned")
			out.Err = errors.Annotatef(err, "stop %s", c.Name)
			return out
		}
	}

	for _, m := range detail.Mounts {
		mlog := log.WithField("mount", m.Destination)
		mlog.Infof("- backing up %s", m.Destination)
		archive, err := o.archiver.Archive(ctx, detail, c.Name, m)
		if err != nil {
			mlog.WithError(err).Errorf("Error in backup of volume %s", m.Destination)
			out.FailedMounts = append(out.FailedMounts, m.Destination)
			continue
		}
		out.Archives = append(out.Archives, archive)
	}

	if o.opts.StopStart {
		log.Info("Restarting container")
		if err := o.engine.Start(ctx, detail.ID); err != nil {
			log.WithError(err).Error("Restarting container failed")
			out.Err = errors.Annotatef(err, "start %s", c.Name)
		}
	}
	return out
}
