package engine

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// DryRun passes read-only commands through to Next and logs every
// outputless command instead of executing it.
type DryRun struct {
	Next Runner
	Log  logrus.FieldLogger
}

func (d *DryRun) Run(_ context.Context, args []string, _ io.Writer) error {
	d.Log.Infof("dry-run: would execute: %s", strings.Join(args, " "))
	return nil
}

func (d *DryRun) Output(ctx context.Context, args []string) ([]byte, error) {
	return d.Next.Output(ctx, args)
}
