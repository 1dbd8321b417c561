package backup

import (
	"context"

	"github.com/juju/errors"
)

// PlanEntry describes what a run would do with one container.
type PlanEntry struct {
	Name     string   `json:"name"`
	ID       string   `json:"id,omitempty"`
	Helper   bool     `json:"helper,omitempty"`
	Mounts   []string `json:"mounts,omitempty"`
	Archives []string `json:"archives,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Plan lists and inspects the running containers without stopping,
// starting or archiving anything.
func (o *Orchestrator) Plan(ctx context.Context) ([]PlanEntry, error) {
	containers, err := o.engine.ListRunning(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "list running containers")
	}
	entries := make([]PlanEntry, 0, len(containers))
	for _, c := range containers {
		e := PlanEntry{Name: c.Name}
		detail, err := o.engine.Inspect(ctx, c.Name)
		if err != nil {
			e.Error = err.Error()
			entries = append(entries, e)
			continue
		}
		e.ID = detail.ID
		e.Helper = IsHelper(detail)
		for _, m := range detail.Mounts {
			e.Mounts = append(e.Mounts, m.Destination)
			if !e.Helper {
				e.Archives = append(e.Archives, ArchiveName(c.Name, m.Destination))
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
