package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"volume-backup/src/cli"
)

func TestRootHelp_ShowsUsage(t *testing.T) {
	var out, err bytes.Buffer
	cmd := cli.NewRootCmd(&out, &err)
	cmd.SetArgs([]string{"--help"})

	if _, e := cmd.ExecuteC(); e != nil {
		t.Fatalf("unexpected error: %v", e)
	}
	o := out.String()
	if !strings.Contains(o, "Usage:") || !strings.Contains(o, "volume-backup") {
		t.Fatalf("help output missing expected content; got: %s", o)
	}
}

func TestGlobalFlags_Present(t *testing.T) {
	cmd := cli.NewRootCmd(nil, nil)
	for _, name := range []string{"config", "engine", "image", "stop-start", "log-level", "destination", "stderr", "progress", "report", "dry-run"} {
		if f := cmd.PersistentFlags().Lookup(name); f == nil {
			t.Fatalf("missing global flag --%s", name)
		}
	}
	for short, name := range map[string]string{"d": "engine", "i": "image", "s": "stop-start", "l": "log-level"} {
		f := cmd.PersistentFlags().ShorthandLookup(short)
		if f == nil || f.Name != name {
			t.Fatalf("-%s should be the shorthand of --%s", short, name)
		}
	}
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	var out, err bytes.Buffer
	cmd := cli.NewRootCmd(&out, &err)
	cmd.SetArgs([]string{"version"})

	if _, e := cmd.ExecuteC(); e != nil {
		t.Fatalf("unexpected error: %v", e)
	}
	if !strings.HasPrefix(out.String(), "volume-backup ") {
		t.Fatalf("unexpected version output: %s", out.String())
	}
}
