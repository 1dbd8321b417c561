package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"volume-backup/src/backup"
	"volume-backup/src/engine"
)

func newListCmd(stdout, stderr io.Writer, newRunner RunnerFactory) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show running containers and the archives a backup would write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tgt, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if output != "table" && output != "json" {
				return fmt.Errorf("unsupported --output: %s", output)
			}
			log := newLogger(stderr, cfg)
			// list never changes anything, so every outputless command is logged only
			runner := &engine.DryRun{Next: newRunner(cfg, stderr, log), Log: log}
			orch := backup.New(engine.NewClient(runner, cfg.ListArgs), backup.Options{
				Image:   cfg.Image,
				DestDir: tgt.DirPath,
			}, log)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			entries, err := orch.Plan(ctx)
			if err != nil {
				return err
			}
			if output == "json" {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			return renderTable(stdout, entries)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}

func renderTable(w io.Writer, entries []backup.PlanEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tACTION\tMOUNT\tARCHIVE")
	for _, e := range entries {
		id := e.ID
		if len(id) > 12 {
			id = id[:12]
		}
		switch {
		case e.Error != "":
			fmt.Fprintf(tw, "%s\t%s\terror\t-\t%s\n", e.Name, id, e.Error)
		case e.Helper:
			fmt.Fprintf(tw, "%s\t%s\tskip\t%s\t-\n", e.Name, id, strings.Join(e.Mounts, ","))
		case len(e.Mounts) == 0:
			fmt.Fprintf(tw, "%s\t%s\tbackup\t-\t-\n", e.Name, id)
		default:
			for i, m := range e.Mounts {
				fmt.Fprintf(tw, "%s\t%s\tbackup\t%s\t%s\n", e.Name, id, m, e.Archives[i])
			}
		}
	}
	return tw.Flush()
}
