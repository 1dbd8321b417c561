package engine

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"
)

// ContainerSummary is one entry of the running container listing.
type ContainerSummary struct {
	Name string
}

// UnmarshalJSON accepts Names either as a string (docker) or as an array of
// strings (podman). Only the first name is kept.
func (c *ContainerSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		Names json.RawMessage `json:"Names"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name, err := firstName(raw.Names)
	if err != nil {
		return err
	}
	c.Name = name
	return nil
}

func firstName(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("container entry has no Names field")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		// docker joins multiple names with commas
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[:i]
		}
		return strings.TrimPrefix(s, "/"), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", errors.Errorf("Names is neither a string nor a list of strings: %s", string(raw))
	}
	if len(list) == 0 {
		return "", errors.New("container entry has an empty Names list")
	}
	return strings.TrimPrefix(list[0], "/"), nil
}

// MountInfo is a single mount point of a container.
type MountInfo struct {
	Destination string `json:"Destination"`
}

// ContainerDetail is the part of an inspect record the backup needs.
type ContainerDetail struct {
	ID     string            `json:"Id"`
	Mounts []MountInfo       `json:"Mounts"`
	Labels map[string]string `json:"-"`
}

// UnmarshalJSON lifts Config.Labels onto the detail.
func (c *ContainerDetail) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     string      `json:"Id"`
		Mounts []MountInfo `json:"Mounts"`
		Config struct {
			Labels map[string]string `json:"Labels"`
		} `json:"Config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Mounts = raw.Mounts
	c.Labels = raw.Config.Labels
	if c.Labels == nil {
		c.Labels = map[string]string{}
	}
	return nil
}

// Label returns the value of a label and whether it is set.
func (c ContainerDetail) Label(key string) (string, bool) {
	v, ok := c.Labels[key]
	return v, ok
}
