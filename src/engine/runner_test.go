package engine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"volume-backup/src/engine"
)

const fakeEngineScript = `#!/bin/sh
case "$1" in
ps)
	echo '{"Names":"db"}'
	echo '{"Names":"cache"}'
	;;
inspect)
	echo '[{"Id":"id-'"$2"'","Mounts":[{"Destination":"/data"}],"Config":{"Labels":{}}}]'
	;;
run)
	echo "a/"
	echo "a/file"
	;;
fail)
	echo "engine is unhappy" >&2
	exit 3
	;;
pgid)
	echo "$$ $(cut -d' ' -f5 /proc/$$/stat)"
	;;
killed)
	kill -TERM $$
	;;
esac
exit 0
`

// writeEngine installs a shell script standing in for the engine binary.
func writeEngine(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script engine requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "engine")
	require.NoError(t, os.WriteFile(path, []byte(fakeEngineScript), 0o755))
	return path
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func TestCLI_Output(t *testing.T) {
	cli := engine.NewCLI(writeEngine(t), nil, quietLogger())
	out, err := cli.Output(context.Background(), []string{"ps", "--format=json"})
	require.NoError(t, err)
	require.Equal(t, "{\"Names\":\"db\"}\n{\"Names\":\"cache\"}\n", string(out))
}

func TestCLI_RunStreamsStdout(t *testing.T) {
	cli := engine.NewCLI(writeEngine(t), nil, quietLogger())
	var buf bytes.Buffer
	require.NoError(t, cli.Run(context.Background(), []string{"run", "--rm"}, &buf))
	require.Equal(t, "a/\na/file\n", buf.String())

	// nil stdout discards
	require.NoError(t, cli.Run(context.Background(), []string{"run", "--rm"}, nil))
}

func TestCLI_NonZeroExit(t *testing.T) {
	var stderr bytes.Buffer
	cli := engine.NewCLI(writeEngine(t), &stderr, quietLogger())
	err := cli.Run(context.Background(), []string{"fail"}, nil)
	require.Error(t, err)
	require.True(t, engine.IsKind(err, engine.NonZeroExit), "got %v", err)

	var e *engine.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, 3, e.ExitCode)
	require.Equal(t, []string{"fail"}, e.Args)
	require.Contains(t, stderr.String(), "engine is unhappy")
}

func TestCLI_SuppressedStderr(t *testing.T) {
	cli := engine.NewCLI(writeEngine(t), nil, quietLogger())
	_, err := cli.Output(context.Background(), []string{"fail"})
	require.True(t, engine.IsKind(err, engine.NonZeroExit), "got %v", err)
}

func TestCLI_SpawnFailed(t *testing.T) {
	cli := engine.NewCLI(filepath.Join(t.TempDir(), "no-such-engine"), nil, quietLogger())
	_, err := cli.Output(context.Background(), []string{"ps"})
	require.Error(t, err)
	require.True(t, engine.IsKind(err, engine.SpawnFailed), "got %v", err)
	require.False(t, engine.IsKind(err, engine.NonZeroExit))
}

func TestClient_AgainstScriptEngine(t *testing.T) {
	client := engine.NewClient(engine.NewCLI(writeEngine(t), nil, quietLogger()), nil)
	ctx := context.Background()

	list, err := client.ListRunning(ctx)
	require.NoError(t, err)
	require.Equal(t, []engine.ContainerSummary{{Name: "db"}, {Name: "cache"}}, list)

	d, err := client.Inspect(ctx, "db")
	require.NoError(t, err)
	require.Equal(t, "id-db", d.ID)
	require.Equal(t, []engine.MountInfo{{Destination: "/data"}}, d.Mounts)

	require.NoError(t, client.Stop(ctx, d.ID))
	require.NoError(t, client.Start(ctx, d.ID))
}
