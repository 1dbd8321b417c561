package backup

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/juju/errors"
)

type reportFile struct {
	StartedAt   time.Time         `json:"startedAt"`
	FinishedAt  time.Time         `json:"finishedAt"`
	Destination string            `json:"destination"`
	Success     bool              `json:"success"`
	Failed      int               `json:"failed"`
	Containers  []containerRecord `json:"containers"`
	Unprocessed []string          `json:"unprocessed,omitempty"`
}

type containerRecord struct {
	Name         string   `json:"name"`
	ID           string   `json:"id,omitempty"`
	Status       string   `json:"status"` // ok|skipped|failed
	Archives     []string `json:"archives,omitempty"`
	FailedMounts []string `json:"failedMounts,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// Status is "ok", "skipped" or "failed".
func (o Outcome) Status() string {
	switch {
	case o.Failed():
		return "failed"
	case o.Skipped:
		return "skipped"
	}
	return "ok"
}

// Encode writes the report as indented JSON.
func (r Report) Encode(w io.Writer) error {
	rf := reportFile{
		StartedAt:   r.StartedAt.UTC(),
		FinishedAt:  r.FinishedAt.UTC(),
		Destination: r.Destination,
		Success:     !r.Failed(),
		Failed:      r.FailedCount(),
		Containers:  make([]containerRecord, 0, len(r.Outcomes)),
		Unprocessed: r.Unprocessed,
	}
	for _, o := range r.Outcomes {
		rec := containerRecord{
			Name:         o.Name,
			ID:           o.ID,
			Status:       o.Status(),
			Archives:     o.Archives,
			FailedMounts: o.FailedMounts,
		}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		rf.Containers = append(rf.Containers, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rf)
}

// WriteReport writes the report to path.
func WriteReport(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Annotate(err, "create report")
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return errors.Annotate(err, "write report")
	}
	return errors.Annotate(f.Close(), "close report")
}
