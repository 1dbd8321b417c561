package engine

import (
	"bytes"
	"context"
	"io"
	"os/exec"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

// Runner executes engine commands. Implementations must be safe to call
// sequentially; nothing in this module calls them concurrently.
type Runner interface {
	// Run executes the command and waits for it to exit. Standard output
	// goes to stdout, or is discarded when stdout is nil.
	Run(ctx context.Context, args []string, stdout io.Writer) error
	// Output executes the command and returns everything it wrote to
	// standard output.
	Output(ctx context.Context, args []string) ([]byte, error)
}

// CLI runs the engine executable found at Path.
type CLI struct {
	Path string
	// Stderr receives the engine's standard error. Nil discards it.
	Stderr io.Writer
	Log    logrus.FieldLogger
}

// NewCLI returns a runner for the executable at path.
func NewCLI(path string, stderr io.Writer, log logrus.FieldLogger) *CLI {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CLI{Path: path, Stderr: stderr, Log: log}
}

func (c *CLI) Run(ctx context.Context, args []string, stdout io.Writer) error {
	return c.invoke(ctx, args, stdout)
}

func (c *CLI) Output(ctx context.Context, args []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.invoke(ctx, args, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *CLI) invoke(ctx context.Context, args []string, stdout io.Writer) error {
	c.Log.WithField("args", args).Debugf("execute %s", c.Path)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	// nil writers connect the child to the null device
	cmd.Stdout = stdout
	cmd.Stderr = c.Stderr
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return newError(SpawnFailed, args, errors.Annotatef(err, "start %s", c.Path))
	}
	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e := newError(NonZeroExit, args, nil)
			e.ExitCode = exitErr.ExitCode()
			e.Signal = exitSignal(exitErr)
			return e
		}
		// copying output failed after the process started
		return newError(SpawnFailed, args, err)
	}
	return nil
}
