package engine

import (
	"context"
	"io"
	"strings"
)

// Fake is an in-memory Runner for unit tests. Responses are keyed by the
// space-joined argument list; unknown commands succeed with no output.
type Fake struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func NewFake() *Fake {
	return &Fake{outputs: map[string]string{}, errs: map[string]error{}}
}

// SetOutput scripts the standard output of a command.
func (f *Fake) SetOutput(cmd string, out string) {
	f.outputs[cmd] = out
}

// SetError makes a command fail with err.
func (f *Fake) SetError(cmd string, err error) {
	f.errs[cmd] = err
}

// FailExit makes a command exit with a non-zero status.
func (f *Fake) FailExit(cmd string, status int) {
	f.errs[cmd] = &Error{Kind: NonZeroExit, Args: strings.Fields(cmd), ExitCode: status}
}

// Calls returns every invocation in order.
func (f *Fake) Calls() [][]string {
	out := make([][]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallsWithVerb returns the invocations whose first argument is verb.
func (f *Fake) CallsWithVerb(verb string) [][]string {
	var out [][]string
	for _, c := range f.calls {
		if len(c) > 0 && c[0] == verb {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) Run(ctx context.Context, args []string, stdout io.Writer) error {
	out, err := f.Output(ctx, args)
	if err != nil {
		return err
	}
	if stdout != nil && len(out) > 0 {
		_, err = stdout.Write(out)
	}
	return err
}

func (f *Fake) Output(_ context.Context, args []string) ([]byte, error) {
	f.calls = append(f.calls, append([]string(nil), args...))
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	return []byte(f.outputs[key]), nil
}
