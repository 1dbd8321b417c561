package backup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"volume-backup/src/backup"
)

func TestReport_Encode(t *testing.T) {
	started := time.Date(2026, 10, 16, 2, 0, 0, 0, time.UTC)
	r := backup.Report{
		StartedAt:   started,
		FinishedAt:  started.Add(time.Minute),
		Destination: "/srv/backups",
		Outcomes: []backup.Outcome{
			{Name: "db", ID: "1", Archives: []string{"db_data.tar"}},
			{Name: "helper", ID: "2", Skipped: true},
			{Name: "web", ID: "3", FailedMounts: []string{"/srv"}},
			{Name: "gone", Err: errors.New("inspect gone: missing data")},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Encode(&buf))

	var got struct {
		Success    bool `json:"success"`
		Failed     int  `json:"failed"`
		Containers []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"containers"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.False(t, got.Success)
	require.Equal(t, 2, got.Failed)
	statuses := []string{}
	for _, c := range got.Containers {
		statuses = append(statuses, c.Name+"="+c.Status)
	}
	require.Equal(t, []string{"db=ok", "helper=skipped", "web=failed", "gone=failed"}, statuses)
	require.Equal(t, "inspect gone: missing data", got.Containers[3].Error)
}

func TestWriteReport(t *testing.T) {
	e := newEnv(t)
	e.running("db")
	e.container("db", "db-id", false, "/data")
	report, err := e.orchestrator(false).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, backup.WriteReport(path, report))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"success": true`)
	require.Contains(t, string(data), `"db_data.tar"`)

	require.Error(t, backup.WriteReport(filepath.Join(t.TempDir(), "missing", "report.json"), report))
}

func TestPlan(t *testing.T) {
	e := newEnv(t)
	e.running("db", "cache", "gone")
	e.container("db", "db-id", false, "/var/lib/db", "/etc/db")
	e.container("cache", "cache-id", true, "/tmp")
	e.fake.SetOutput("inspect gone --format=json", "[]")

	entries, err := e.orchestrator(true).Plan(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []string{"db_var_lib_db.tar", "db_etc_db.tar"}, entries[0].Archives)
	require.True(t, entries[1].Helper)
	require.Empty(t, entries[1].Archives)
	require.NotEmpty(t, entries[2].Error)

	// planning never touches container lifecycle
	require.Empty(t, e.fake.CallsWithVerb("stop"))
	require.Empty(t, e.fake.CallsWithVerb("run"))
	require.Empty(t, e.fake.CallsWithVerb("start"))
}
