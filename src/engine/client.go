package engine

import (
	"bytes"
	"context"
	"io"

	"github.com/juju/errors"
)

// DefaultListArgs lists running containers as JSON lines.
var DefaultListArgs = []string{"ps", "--format=json"}

// Client is the narrow engine surface used by the backup. It is built on a
// Runner so tests can substitute a fake.
type Client struct {
	r        Runner
	listArgs []string
}

// NewClient wraps r. A nil or empty listArgs uses DefaultListArgs.
func NewClient(r Runner, listArgs []string) *Client {
	if len(listArgs) == 0 {
		listArgs = DefaultListArgs
	}
	return &Client{r: r, listArgs: listArgs}
}

// ListRunning returns the running containers in the order the engine reports them.
func (c *Client) ListRunning(ctx context.Context) ([]ContainerSummary, error) {
	out, err := c.r.Output(ctx, c.listArgs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	list, err := DecodeLines[ContainerSummary](bytes.NewReader(out))
	if err != nil {
		return nil, withArgs(err, c.listArgs)
	}
	return list, nil
}

// Inspect fetches the detail record of one container by name.
func (c *Client) Inspect(ctx context.Context, name string) (ContainerDetail, error) {
	args := []string{"inspect", name, "--format=json"}
	out, err := c.r.Output(ctx, args)
	if err != nil {
		return ContainerDetail{}, errors.Trace(err)
	}
	details, err := DecodeArray[ContainerDetail](bytes.NewReader(out))
	if err != nil {
		return ContainerDetail{}, withArgs(err, args)
	}
	if len(details) == 0 {
		return ContainerDetail{}, newError(MissingData, args, errors.Errorf("inspect returned no data for %q", name))
	}
	return details[0], nil
}

// Stop stops the container with the given id.
func (c *Client) Stop(ctx context.Context, id string) error {
	return errors.Trace(c.r.Run(ctx, []string{"stop", id}, nil))
}

// Start starts the container with the given id.
func (c *Client) Start(ctx context.Context, id string) error {
	return errors.Trace(c.r.Run(ctx, []string{"start", id}, nil))
}

// RunContainer runs a one-shot container. The args follow the engine's run verb.
func (c *Client) RunContainer(ctx context.Context, args []string, stdout io.Writer) error {
	full := append([]string{"run"}, args...)
	return errors.Trace(c.r.Run(ctx, full, stdout))
}

func withArgs(err error, args []string) error {
	var e *Error
	if errors.As(err, &e) && e.Args == nil {
		e.Args = args
	}
	return err
}
